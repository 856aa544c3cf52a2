package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/healthion/healthion-api/internal/dto"
	"github.com/healthion/healthion-api/internal/middleware"
	"github.com/healthion/healthion-api/internal/models"
	"github.com/healthion/healthion-api/internal/services"
)

type WearablesHandler struct {
	wearables *services.WearablesService
}

func NewWearablesHandler(wearables *services.WearablesService) *WearablesHandler {
	return &WearablesHandler{wearables: wearables}
}

// Register links the current user to an Open Wearables account. Safe to call
// repeatedly; a second call reports already_registered.
func (h *WearablesHandler) Register(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	resp, err := h.wearables.RegisterUser(c.UserContext(), user)
	if err != nil {
		return wearablesError(c, err, "Failed to register with wearables platform")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetProviders(c *fiber.Ctx) error {
	var query dto.ProvidersQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	resp, err := h.wearables.GetProviders(c.UserContext(), query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch providers")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) Authorize(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	provider := c.Params("provider")
	if provider == "" {
		return badRequest(c, "Provider is required")
	}

	resp, err := h.wearables.GetAuthorizationURL(c.UserContext(), user, provider, c.Query("redirect_uri"))
	if err != nil {
		return wearablesError(c, err, "Failed to get authorization URL")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetConnections(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	resp, err := h.wearables.GetConnections(c.UserContext(), user)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch connections")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetTimeseries(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	var query dto.TimeseriesQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if query.StartTime == "" || query.EndTime == "" {
		return badRequest(c, "start_time and end_time are required")
	}

	resp, err := h.wearables.GetTimeseries(c.UserContext(), user, query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch timeseries data")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) Sync(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Provider == "" {
		return badRequest(c, "Provider is required")
	}

	resp, err := h.wearables.SyncData(c.UserContext(), user, req)
	if err != nil {
		return wearablesError(c, err, "Failed to sync wearable data")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetWorkouts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	resp, err := h.wearables.GetWorkouts(c.UserContext(), user, c.QueryInt("limit", 50))
	if err != nil {
		return wearablesError(c, err, "Failed to fetch workouts")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetEventWorkouts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	var query dto.EventWorkoutsQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	resp, err := h.wearables.GetEventWorkouts(c.UserContext(), user, query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch workouts")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetSleepSessions(c *fiber.Ctx) error {
	user, query, err := userAndRange(c)
	if query == nil {
		return err
	}

	resp, err := h.wearables.GetSleepSessions(c.UserContext(), user, *query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch sleep sessions")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetActivitySummary(c *fiber.Ctx) error {
	user, query, err := userAndRange(c)
	if query == nil {
		return err
	}

	resp, err := h.wearables.GetActivitySummary(c.UserContext(), user, *query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch activity summary")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetSleepSummary(c *fiber.Ctx) error {
	user, query, err := userAndRange(c)
	if query == nil {
		return err
	}

	resp, err := h.wearables.GetSleepSummary(c.UserContext(), user, *query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch sleep summary")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetRecoverySummary(c *fiber.Ctx) error {
	user, query, err := userAndRange(c)
	if query == nil {
		return err
	}

	resp, err := h.wearables.GetRecoverySummary(c.UserContext(), user, *query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch recovery summary")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetBodySummary(c *fiber.Ctx) error {
	user, query, err := userAndRange(c)
	if query == nil {
		return err
	}

	resp, err := h.wearables.GetBodySummary(c.UserContext(), user, *query)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch body summary")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetWorkoutDetail(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	provider := c.Params("provider")
	workoutID := c.Params("workout_id")
	if provider == "" || workoutID == "" {
		return badRequest(c, "Provider and workout id are required")
	}

	resp, err := h.wearables.GetWorkoutDetail(c.UserContext(), user, provider, workoutID)
	if err != nil {
		return wearablesError(c, err, "Failed to fetch workout detail")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) ImportAppleHealth(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if user == nil {
		return err
	}

	var req struct {
		FileKey string `json:"file_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FileKey == "" {
		return badRequest(c, "file_key is required")
	}

	resp, err := h.wearables.ImportAppleHealthXML(c.UserContext(), user, req.FileKey)
	if err != nil {
		return wearablesError(c, err, "Failed to import Apple Health data")
	}
	return c.JSON(resp)
}

func (h *WearablesHandler) GetSeriesTypes(c *fiber.Ctx) error {
	return c.JSON(h.wearables.GetAvailableSeriesTypes())
}

// currentUser loads the resolved user from locals. On failure the 401
// response is already written; callers bail out when user is nil.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return user, nil
}

func userAndRange(c *fiber.Ctx) (*models.User, *dto.DateRangeQuery, error) {
	user, err := currentUser(c)
	if user == nil {
		return nil, nil, err
	}
	var query dto.DateRangeQuery
	if err := c.QueryParser(&query); err != nil {
		return nil, nil, badRequest(c, "Invalid query parameters")
	}
	return user, &query, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

// wearablesError maps service sentinels to status codes. Upstream failures
// surface as 502 so the mobile client can distinguish them from our own 500s.
func wearablesError(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Wearables integration is not configured",
		})
	case errors.Is(err, services.ErrNotRegistered):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "User is not registered with the wearables platform",
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrPersistenceFailure):
		slog.Error("wearables persistence failure", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: msg,
		})
	default:
		slog.Error("wearables upstream failure", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: msg,
		})
	}
}
