package services

import (
	"context"
	"errors"
	"strings"

	"github.com/healthion/healthion-api/internal/dto"
	"github.com/healthion/healthion-api/internal/models"
)

// ErrNotRegistered is returned for operations that require an existing Open
// Wearables linkage.
var ErrNotRegistered = errors.New("user not registered with open wearables")

// WearablesService reshapes Open Wearables responses into API responses. All
// wearable data lives upstream; nothing here is persisted locally.
type WearablesService struct {
	client *OpenWearablesClient
	users  *UserService
}

func NewWearablesService(client *OpenWearablesClient, users *UserService) *WearablesService {
	return &WearablesService{client: client, users: users}
}

func (s *WearablesService) RegisterUser(ctx context.Context, user *models.User) (*dto.RegisterResponse, error) {
	if user.OpenWearablesUserID != nil {
		return &dto.RegisterResponse{
			OpenWearablesUserID: *user.OpenWearablesUserID,
			AlreadyRegistered:   true,
		}, nil
	}

	updated, err := s.users.RegisterWithOpenWearables(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		OpenWearablesUserID: *updated.OpenWearablesUserID,
		AlreadyRegistered:   false,
	}, nil
}

func (s *WearablesService) GetProviders(ctx context.Context, query dto.ProvidersQuery) (*dto.ProvidersResponse, error) {
	providersData, err := s.client.GetProviders(ctx, query.EnabledOnly, query.CloudOnly)
	if err != nil {
		return nil, err
	}

	providers := make([]dto.WearableProvider, 0, len(providersData))
	for _, p := range providersData {
		displayName := p.DisplayName
		if displayName == "" {
			displayName = titleCase(p.Name)
		}
		providers = append(providers, dto.WearableProvider{
			Name:        p.Name,
			DisplayName: displayName,
			IconURL:     p.IconURL,
			HasCloudAPI: boolOr(p.HasCloudAPI, true),
			IsEnabled:   boolOr(p.IsEnabled, true),
		})
	}
	return &dto.ProvidersResponse{Providers: providers}, nil
}

// GetAuthorizationURL starts the OAuth flow for a provider, registering the
// user upstream first if needed.
func (s *WearablesService) GetAuthorizationURL(ctx context.Context, user *models.User, provider, redirectURI string) (*dto.AuthorizationResponse, error) {
	if user.OpenWearablesUserID == nil {
		registered, err := s.users.RegisterWithOpenWearables(ctx, user)
		if err != nil {
			return nil, err
		}
		user = registered
	}

	authURL, err := s.client.GetAuthorizationURL(ctx, provider, *user.OpenWearablesUserID, redirectURI)
	if err != nil {
		return nil, err
	}
	return &dto.AuthorizationResponse{
		AuthorizationURL: authURL,
		Provider:         provider,
	}, nil
}

func (s *WearablesService) GetConnections(ctx context.Context, user *models.User) (*dto.ConnectionsResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.ConnectionsResponse{Connections: []dto.WearableConnection{}}, nil
	}

	connectionsData, err := s.client.GetUserConnections(ctx, *user.OpenWearablesUserID)
	if err != nil {
		return nil, err
	}

	connections := make([]dto.WearableConnection, 0, len(connectionsData))
	for _, c := range connectionsData {
		connections = append(connections, dto.WearableConnection{
			ID:          c.ID,
			Provider:    c.Provider,
			ConnectedAt: c.CreatedAt,
			IsActive:    c.Status == "active",
			LastSync:    c.LastSyncedAt,
		})
	}
	return &dto.ConnectionsResponse{
		Connections:         connections,
		OpenWearablesUserID: user.OpenWearablesUserID,
	}, nil
}

func (s *WearablesService) GetTimeseries(ctx context.Context, user *models.User, query dto.TimeseriesQuery) (*dto.TimeseriesResponse, error) {
	if len(query.Types) == 0 {
		query.Types = []string{"heart_rate"}
	}
	seriesType := joinTypes(query.Types)

	if user.OpenWearablesUserID == nil {
		return &dto.TimeseriesResponse{
			Data:       []dto.TimeseriesDataPoint{},
			SeriesType: seriesType,
			UserID:     user.ID,
		}, nil
	}

	page, err := s.client.GetTimeseries(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}

	points := make([]dto.TimeseriesDataPoint, 0, len(page.Data))
	for _, d := range page.Data {
		point := dto.TimeseriesDataPoint{Type: d.Type, Unit: d.Unit}
		if point.Unit == "" {
			point.Unit = "bpm"
		}
		if d.Timestamp != nil {
			point.Timestamp = *d.Timestamp
		} else if d.RecordedAt != nil {
			point.Timestamp = *d.RecordedAt
		}
		if d.Value != nil {
			point.Value = *d.Value
		} else if d.Bpm != nil {
			point.Value = *d.Bpm
		}
		points = append(points, point)
	}

	return &dto.TimeseriesResponse{
		Data:       points,
		SeriesType: seriesType,
		UserID:     user.ID,
		Count:      len(points),
	}, nil
}

func (s *WearablesService) SyncData(ctx context.Context, user *models.User, req dto.SyncRequest) (*dto.SyncResponse, error) {
	if !user.IsRegistered() {
		return nil, ErrNotRegistered
	}

	result, err := s.client.SyncUserData(ctx, *user.OpenWearablesUserID, req.Provider, req.DataType)
	if err != nil {
		return nil, err
	}
	return &dto.SyncResponse{
		Status:      result.Status,
		Message:     result.Message,
		SyncedCount: result.SyncedCount,
	}, nil
}

func (s *WearablesService) GetWorkouts(ctx context.Context, user *models.User, limit int) (*dto.WorkoutsResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.WorkoutsResponse{Workouts: []dto.Workout{}}, nil
	}

	workoutsData, err := s.client.GetWorkouts(ctx, *user.OpenWearablesUserID, limit)
	if err != nil {
		return nil, err
	}

	workouts := make([]dto.Workout, 0, len(workoutsData))
	for _, w := range workoutsData {
		workout := dto.Workout{
			ID:              w.ID,
			Type:            w.Type,
			SourceName:      sourceProvider(w),
			DurationSeconds: w.DurationSeconds,
			Provider:        sourceProvider(w),
		}
		if w.StartTime != nil {
			workout.StartDatetime = *w.StartTime
		} else if w.StartDatetime != nil {
			workout.StartDatetime = *w.StartDatetime
		}
		if w.EndTime != nil {
			workout.EndDatetime = w.EndTime
		} else {
			workout.EndDatetime = w.EndDatetime
		}
		workouts = append(workouts, workout)
	}
	return &dto.WorkoutsResponse{Workouts: workouts, Total: len(workouts)}, nil
}

func (s *WearablesService) GetEventWorkouts(ctx context.Context, user *models.User, query dto.EventWorkoutsQuery) (*dto.EventWorkoutsResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.EventWorkoutsResponse{Data: []dto.EventWorkout{}}, nil
	}

	page, err := s.client.GetEventWorkouts(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.EventWorkoutsResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetSleepSessions(ctx context.Context, user *models.User, query dto.DateRangeQuery) (*dto.SleepSessionsResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.SleepSessionsResponse{Data: []dto.SleepSession{}}, nil
	}

	page, err := s.client.GetSleepSessions(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.SleepSessionsResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetActivitySummary(ctx context.Context, user *models.User, query dto.DateRangeQuery) (*dto.ActivitySummaryResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.ActivitySummaryResponse{Data: []dto.ActivitySummary{}}, nil
	}

	page, err := s.client.GetActivitySummaries(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.ActivitySummaryResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetSleepSummary(ctx context.Context, user *models.User, query dto.DateRangeQuery) (*dto.SleepSummaryResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.SleepSummaryResponse{Data: []dto.SleepSummary{}}, nil
	}

	page, err := s.client.GetSleepSummaries(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.SleepSummaryResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetRecoverySummary(ctx context.Context, user *models.User, query dto.DateRangeQuery) (*dto.RecoverySummaryResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.RecoverySummaryResponse{Data: []dto.RecoverySummary{}}, nil
	}

	page, err := s.client.GetRecoverySummaries(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.RecoverySummaryResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetBodySummary(ctx context.Context, user *models.User, query dto.DateRangeQuery) (*dto.BodySummaryResponse, error) {
	if user.OpenWearablesUserID == nil {
		return &dto.BodySummaryResponse{Data: []dto.BodySummary{}}, nil
	}

	page, err := s.client.GetBodySummaries(ctx, *user.OpenWearablesUserID, query)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		normalizeSource(&page.Data[i].Source)
	}
	return &dto.BodySummaryResponse{
		Data:       page.Data,
		HasMore:    page.Pagination.HasMore,
		NextCursor: page.Pagination.NextCursor,
	}, nil
}

func (s *WearablesService) GetWorkoutDetail(ctx context.Context, user *models.User, provider, workoutID string) (*dto.WorkoutDetailResponse, error) {
	if !user.IsRegistered() {
		return nil, ErrNotRegistered
	}

	detail, err := s.client.GetWorkoutDetail(ctx, *user.OpenWearablesUserID, provider, workoutID)
	if err != nil {
		return nil, err
	}
	normalizeSource(&detail.Source)
	return detail, nil
}

func (s *WearablesService) ImportAppleHealthXML(ctx context.Context, user *models.User, fileKey string) (*dto.AppleHealthImportResponse, error) {
	if !user.IsRegistered() {
		return nil, ErrNotRegistered
	}

	result, err := s.client.ImportAppleHealthXML(ctx, *user.OpenWearablesUserID, fileKey)
	if err != nil {
		return nil, err
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return result, nil
}

func normalizeSource(source *dto.DataSource) {
	if source.Provider == "" {
		source.Provider = "unknown"
	}
}

func sourceProvider(w OWWorkout) string {
	if w.Source != nil && w.Source.Provider != "" {
		return w.Source.Provider
	}
	if w.SourceName != "" {
		return w.SourceName
	}
	return w.ProviderID
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func joinTypes(types []string) string {
	return strings.Join(types, ",")
}

// titleCase turns a provider slug like "apple_health" into "Apple Health".
func titleCase(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
