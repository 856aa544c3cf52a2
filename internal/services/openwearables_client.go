package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/healthion/healthion-api/internal/config"
	"github.com/healthion/healthion-api/internal/dto"
)

// ErrNotConfigured is returned when no Open Wearables API key is set.
var ErrNotConfigured = errors.New("open wearables api key is not configured")

const (
	owSyncTimeout   = 60 * time.Second
	owImportTimeout = 300 * time.Second
)

// OWAPIError is a non-2xx response from the Open Wearables API.
type OWAPIError struct {
	Status int
	Detail string
}

func (e *OWAPIError) Error() string {
	return fmt.Sprintf("open wearables returned status %d: %s", e.Status, e.Detail)
}

// OWUser is a user record on the Open Wearables platform.
type OWUser struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ExternalUserID string    `json:"external_user_id"`
	Email          string    `json:"email"`
}

// ResolvedID returns the account id regardless of which field the endpoint used.
func (u *OWUser) ResolvedID() uuid.UUID {
	if u.ID != uuid.Nil {
		return u.ID
	}
	return u.UserID
}

type OWProvider struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	IconURL     *string `json:"icon_url"`
	HasCloudAPI *bool   `json:"has_cloud_api"`
	IsEnabled   *bool   `json:"is_enabled"`
}

type OWConnection struct {
	ID           uuid.UUID  `json:"id"`
	Provider     string     `json:"provider"`
	CreatedAt    *time.Time `json:"created_at"`
	Status       string     `json:"status"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
}

type OWPagination struct {
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type OWTimeseriesPoint struct {
	Timestamp  *time.Time `json:"timestamp"`
	RecordedAt *time.Time `json:"recorded_at"`
	Type       string     `json:"type"`
	Value      *float64   `json:"value"`
	Bpm        *float64   `json:"bpm"`
	Unit       string     `json:"unit"`
}

type OWTimeseriesPage struct {
	Data       []OWTimeseriesPoint `json:"data"`
	Pagination OWPagination        `json:"pagination"`
}

// OWWorkout carries both the current and the legacy field names the events
// endpoint has used for workout rows.
type OWWorkout struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	StartTime       *time.Time      `json:"start_time"`
	StartDatetime   *time.Time      `json:"start_datetime"`
	EndTime         *time.Time      `json:"end_time"`
	EndDatetime     *time.Time      `json:"end_datetime"`
	DurationSeconds *int            `json:"duration_seconds"`
	Source          *dto.DataSource `json:"source"`
	SourceName      string          `json:"source_name"`
	ProviderID      string          `json:"provider_id"`
}

type OWSyncResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	SyncedCount int    `json:"synced_count"`
}

type OWEventWorkoutsPage struct {
	Data       []dto.EventWorkout `json:"data"`
	Pagination OWPagination       `json:"pagination"`
}

type OWSleepSessionsPage struct {
	Data       []dto.SleepSession `json:"data"`
	Pagination OWPagination       `json:"pagination"`
}

type OWActivitySummaryPage struct {
	Data       []dto.ActivitySummary `json:"data"`
	Pagination OWPagination          `json:"pagination"`
}

type OWSleepSummaryPage struct {
	Data       []dto.SleepSummary `json:"data"`
	Pagination OWPagination       `json:"pagination"`
}

type OWRecoverySummaryPage struct {
	Data       []dto.RecoverySummary `json:"data"`
	Pagination OWPagination          `json:"pagination"`
}

type OWBodySummaryPage struct {
	Data       []dto.BodySummary `json:"data"`
	Pagination OWPagination      `json:"pagination"`
}

// OpenWearablesClient is the HTTP client for the Open Wearables platform,
// which owns all wearable device integration (Garmin, Polar, Suunto) and
// Apple Health imports.
type OpenWearablesClient struct {
	baseURL     string
	apiKey      string
	timeout     time.Duration
	httpClient  *http.Client
	createLocks *keyedMutex
}

func NewOpenWearablesClient(cfg *config.Config) *OpenWearablesClient {
	if cfg.OpenWearablesAPIKey == "" {
		slog.Warn("OPEN_WEARABLES_API_KEY is not configured, open wearables integration will not work")
	}

	timeout := cfg.OpenWearablesTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenWearablesClient{
		baseURL:     strings.TrimRight(cfg.OpenWearablesAPIURL, "/"),
		apiKey:      cfg.OpenWearablesAPIKey,
		timeout:     timeout,
		httpClient:  &http.Client{},
		createLocks: newKeyedMutex(),
	}
}

func (c *OpenWearablesClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenWearablesClient) do(ctx context.Context, method, path string, query url.Values, body any, timeout time.Duration, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Open-Wearables-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open wearables request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &detail)
		return &OWAPIError{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// FindUserByExternalID looks up a user by external_user_id. Returns nil when
// no account exists.
func (c *OpenWearablesClient) FindUserByExternalID(ctx context.Context, externalID string) (*OWUser, error) {
	q := url.Values{}
	q.Set("external_user_id", externalID)
	q.Set("limit", "1")

	var result struct {
		Items []OWUser `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", q, nil, c.timeout, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}

// CreateUser creates a user on Open Wearables, or returns the existing one.
// Calls sharing the same email are serialized within this process to avoid
// firing duplicate create requests; the platform itself deduplicates by
// external_user_id, so this lock is an optimization only.
func (c *OpenWearablesClient) CreateUser(ctx context.Context, externalID, email string) (*OWUser, error) {
	unlock := c.createLocks.Lock(email)
	defer unlock()

	existing, err := c.FindUserByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Info("user already exists in open wearables", "external_id", externalID, "ow_user_id", existing.ResolvedID())
		return existing, nil
	}

	var created OWUser
	body := map[string]string{
		"external_user_id": externalID,
		"email":            email,
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", nil, body, c.timeout, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *OpenWearablesClient) GetProviders(ctx context.Context, enabledOnly, cloudOnly bool) ([]OWProvider, error) {
	q := url.Values{}
	q.Set("enabled_only", strconv.FormatBool(enabledOnly))
	q.Set("cloud_only", strconv.FormatBool(cloudOnly))

	var providers []OWProvider
	if err := c.do(ctx, http.MethodGet, "/api/v1/oauth/providers", q, nil, c.timeout, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (c *OpenWearablesClient) GetAuthorizationURL(ctx context.Context, provider string, userID uuid.UUID, redirectURI string) (string, error) {
	q := url.Values{}
	q.Set("user_id", userID.String())
	if redirectURI != "" {
		q.Set("redirect_uri", redirectURI)
	}

	var result struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	path := "/api/v1/oauth/" + strings.ToLower(provider) + "/authorize"
	if err := c.do(ctx, http.MethodGet, path, q, nil, c.timeout, &result); err != nil {
		return "", err
	}
	return result.AuthorizationURL, nil
}

func (c *OpenWearablesClient) GetUserConnections(ctx context.Context, userID uuid.UUID) ([]OWConnection, error) {
	var connections []OWConnection
	path := "/api/v1/users/" + userID.String() + "/connections"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, c.timeout, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

func (c *OpenWearablesClient) GetTimeseries(ctx context.Context, userID uuid.UUID, query dto.TimeseriesQuery) (*OWTimeseriesPage, error) {
	q := url.Values{}
	q.Set("start_time", query.StartTime)
	q.Set("end_time", query.EndTime)
	q.Set("limit", strconv.Itoa(clampLimit(query.Limit)))
	resolution := query.Resolution
	if resolution == "" {
		resolution = "raw"
	}
	q.Set("resolution", resolution)
	for _, t := range query.Types {
		q.Add("types", t)
	}
	if query.Cursor != "" {
		q.Set("cursor", query.Cursor)
	}

	var page OWTimeseriesPage
	path := "/api/v1/users/" + userID.String() + "/timeseries"
	if err := c.do(ctx, http.MethodGet, path, q, nil, c.timeout, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SyncUserData triggers a provider sync. Garmin requires an explicit summary
// window (max 24h); Suunto requires a `since` unix timestamp (max 28 days,
// 7 used here to keep syncs manageable).
func (c *OpenWearablesClient) SyncUserData(ctx context.Context, userID uuid.UUID, provider, dataType string) (*OWSyncResult, error) {
	providerLower := strings.ToLower(provider)
	if dataType == "" {
		dataType = "all"
	}

	q := url.Values{}
	q.Set("data_type", dataType)

	now := time.Now().UTC()
	switch providerLower {
	case "garmin":
		start := now.Add(-24 * time.Hour)
		q.Set("summary_start_time", start.Format("2006-01-02T15:04:05"))
		q.Set("summary_end_time", now.Format("2006-01-02T15:04:05"))
	case "suunto":
		start := now.AddDate(0, 0, -7)
		q.Set("since", strconv.FormatInt(start.Unix(), 10))
	}

	var result OWSyncResult
	path := "/api/v1/providers/" + providerLower + "/users/" + userID.String() + "/sync"
	err := c.do(ctx, http.MethodPost, path, q, nil, owSyncTimeout, &result)
	if err == nil {
		if result.Status == "" {
			result.Status = "success"
		}
		return &result, nil
	}

	var apiErr *OWAPIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		detail := apiErr.Detail
		switch {
		case strings.Contains(detail, "already exists") || strings.Contains(detail, "UniqueViolation"):
			return &OWSyncResult{Status: "success", Message: "Data already synced - no new data to import"}, nil
		case strings.Contains(detail, "InvalidPullTokenException"):
			return &OWSyncResult{Status: "error", Message: "Garmin connection expired - please reconnect"}, nil
		case strings.Contains(detail, "28 days"):
			return &OWSyncResult{Status: "error", Message: "Suunto sync date range too large - please try again"}, nil
		}
	}
	return nil, err
}

// GetWorkouts returns workout rows from the events endpoint for the last 30 days.
func (c *OpenWearablesClient) GetWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]OWWorkout, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)

	q := url.Values{}
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", now.Format("2006-01-02"))
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page struct {
		Data []OWWorkout `json:"data"`
	}
	path := "/api/v1/users/" + userID.String() + "/events/workouts"
	if err := c.do(ctx, http.MethodGet, path, q, nil, c.timeout, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *OpenWearablesClient) GetEventWorkouts(ctx context.Context, userID uuid.UUID, query dto.EventWorkoutsQuery) (*OWEventWorkoutsPage, error) {
	q := dateRangeValues(query.DateRangeQuery)
	if query.WorkoutType != "" {
		q.Set("type", query.WorkoutType)
	}

	var page OWEventWorkoutsPage
	path := "/api/v1/users/" + userID.String() + "/events/workouts"
	if err := c.do(ctx, http.MethodGet, path, q, nil, c.timeout, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetSleepSessions(ctx context.Context, userID uuid.UUID, query dto.DateRangeQuery) (*OWSleepSessionsPage, error) {
	var page OWSleepSessionsPage
	path := "/api/v1/users/" + userID.String() + "/events/sleep"
	if err := c.do(ctx, http.MethodGet, path, dateRangeValues(query), nil, c.timeout, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetActivitySummaries(ctx context.Context, userID uuid.UUID, query dto.DateRangeQuery) (*OWActivitySummaryPage, error) {
	var page OWActivitySummaryPage
	path := "/api/v1/users/" + userID.String() + "/summaries/activity"
	if err := c.do(ctx, http.MethodGet, path, dateRangeValues(query), nil, c.timeout, &page); err != nil {
		if isNotImplemented(err) {
			return &OWActivitySummaryPage{}, nil
		}
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetSleepSummaries(ctx context.Context, userID uuid.UUID, query dto.DateRangeQuery) (*OWSleepSummaryPage, error) {
	var page OWSleepSummaryPage
	path := "/api/v1/users/" + userID.String() + "/summaries/sleep"
	if err := c.do(ctx, http.MethodGet, path, dateRangeValues(query), nil, c.timeout, &page); err != nil {
		if isNotImplemented(err) {
			return &OWSleepSummaryPage{}, nil
		}
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetRecoverySummaries(ctx context.Context, userID uuid.UUID, query dto.DateRangeQuery) (*OWRecoverySummaryPage, error) {
	var page OWRecoverySummaryPage
	path := "/api/v1/users/" + userID.String() + "/summaries/recovery"
	if err := c.do(ctx, http.MethodGet, path, dateRangeValues(query), nil, c.timeout, &page); err != nil {
		if isNotImplemented(err) {
			return &OWRecoverySummaryPage{}, nil
		}
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetBodySummaries(ctx context.Context, userID uuid.UUID, query dto.DateRangeQuery) (*OWBodySummaryPage, error) {
	var page OWBodySummaryPage
	path := "/api/v1/users/" + userID.String() + "/summaries/body"
	if err := c.do(ctx, http.MethodGet, path, dateRangeValues(query), nil, c.timeout, &page); err != nil {
		if isNotImplemented(err) {
			return &OWBodySummaryPage{}, nil
		}
		return nil, err
	}
	return &page, nil
}

func (c *OpenWearablesClient) GetWorkoutDetail(ctx context.Context, userID uuid.UUID, provider, workoutID string) (*dto.WorkoutDetailResponse, error) {
	var detail dto.WorkoutDetailResponse
	path := "/api/v1/providers/" + strings.ToLower(provider) + "/users/" + userID.String() + "/workouts/" + workoutID
	if err := c.do(ctx, http.MethodGet, path, nil, nil, c.timeout, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ImportAppleHealthXML processes an export.xml previously uploaded to the
// platform's presigned URL. Large imports take minutes.
func (c *OpenWearablesClient) ImportAppleHealthXML(ctx context.Context, userID uuid.UUID, fileKey string) (*dto.AppleHealthImportResponse, error) {
	var result dto.AppleHealthImportResponse
	body := map[string]string{"file_key": fileKey}
	path := "/api/v1/users/" + userID.String() + "/import/apple/xml"
	if err := c.do(ctx, http.MethodPost, path, nil, body, owImportTimeout, &result); err != nil {
		return nil, err
	}
	if result.Status == "" {
		result.Status = "success"
	}
	return &result, nil
}

func dateRangeValues(query dto.DateRangeQuery) url.Values {
	q := url.Values{}
	q.Set("start_date", query.StartDate)
	q.Set("end_date", query.EndDate)
	q.Set("limit", strconv.Itoa(clampLimit(query.Limit)))
	if query.Cursor != "" {
		q.Set("cursor", query.Cursor)
	}
	return q
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func isNotImplemented(err error) bool {
	var apiErr *OWAPIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotImplemented
}
