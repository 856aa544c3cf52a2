package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/healthion/healthion-api/internal/config"
	"github.com/healthion/healthion-api/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *OpenWearablesClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenWearablesClient(&config.Config{
		OpenWearablesAPIURL:  server.URL,
		OpenWearablesAPIKey:  "test-key",
		OpenWearablesTimeout: 5 * time.Second,
	})
}

func TestClientNotConfigured(t *testing.T) {
	client := NewOpenWearablesClient(&config.Config{OpenWearablesAPIURL: "http://localhost:1"})

	_, err := client.CreateUser(context.Background(), "auth0|abc", "a@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateUserReturnsExistingAccount(t *testing.T) {
	existing := uuid.New()
	posts := 0

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Open-Wearables-API-Key"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users":
			assert.Equal(t, "auth0|abc", r.URL.Query().Get("external_user_id"))
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"id": existing.String(), "external_user_id": "auth0|abc"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/users":
			posts++
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	user, err := client.CreateUser(context.Background(), "auth0|abc", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing, user.ResolvedID())
	assert.Equal(t, 0, posts, "should not create when the account already exists")
}

func TestCreateUserCreatesWhenMissing(t *testing.T) {
	created := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users":
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/users":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "auth0|new", body["external_user_id"])
			assert.Equal(t, "new@example.com", body["email"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"user_id": created.String()})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	user, err := client.CreateUser(context.Background(), "auth0|new", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, user.ResolvedID())
}

func TestSyncGarminSendsSummaryWindow(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/providers/garmin/users/"+userID.String()+"/sync", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "all", q.Get("data_type"))
		assert.NotEmpty(t, q.Get("summary_start_time"))
		assert.NotEmpty(t, q.Get("summary_end_time"))
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "synced_count": 12})
	}))

	result, err := client.SyncUserData(context.Background(), userID, "Garmin", "")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 12, result.SyncedCount)
}

func TestSyncSuuntoSendsSince(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/providers/suunto/users/"+userID.String()+"/sync", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	}))

	_, err := client.SyncUserData(context.Background(), userID, "suunto", "workouts")
	require.NoError(t, err)
}

func TestSyncDuplicateDataIsSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "UniqueViolation: record already exists"})
	}))

	result, err := client.SyncUserData(context.Background(), uuid.New(), "polar", "all")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Contains(t, result.Message, "already synced")
}

func TestSyncExpiredGarminTokenIsReported(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "InvalidPullTokenException: token revoked"})
	}))

	result, err := client.SyncUserData(context.Background(), uuid.New(), "garmin", "all")
	require.NoError(t, err)
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Message, "reconnect")
}

func TestSyncOtherErrorsPropagate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
	}))

	_, err := client.SyncUserData(context.Background(), uuid.New(), "garmin", "all")
	require.Error(t, err)

	var apiErr *OWAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestTimeseriesQueryDefaults(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "raw", q.Get("resolution"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, []string{"heart_rate", "steps"}, q["types"])
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	_, err := client.GetTimeseries(context.Background(), userID, dto.TimeseriesQuery{
		StartTime: "2026-01-01T00:00:00Z",
		EndTime:   "2026-01-02T00:00:00Z",
		Types:     []string{"heart_rate", "steps"},
	})
	require.NoError(t, err)
}

func TestTimeseriesLimitIsClamped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	_, err := client.GetTimeseries(context.Background(), uuid.New(), dto.TimeseriesQuery{Limit: 500})
	require.NoError(t, err)
}

func TestSummariesNotImplementedReturnsEmptyPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	}))

	page, err := client.GetActivitySummaries(context.Background(), uuid.New(), dto.DateRangeQuery{
		StartDate: "2026-01-01", EndDate: "2026-01-31",
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.Pagination.HasMore)
}

func TestWorkoutsLimitIsClamped(t *testing.T) {
	var limits []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	_, err := client.GetWorkouts(context.Background(), uuid.New(), 500)
	require.NoError(t, err)
	_, err = client.GetWorkouts(context.Background(), uuid.New(), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"100", "50"}, limits)
}

func TestWorkoutsUseThirtyDayWindow(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/"+userID.String()+"/events/workouts", r.URL.Path)
		q := r.URL.Query()

		start, err := time.Parse("2006-01-02", q.Get("start_date"))
		require.NoError(t, err)
		end, err := time.Parse("2006-01-02", q.Get("end_date"))
		require.NoError(t, err)
		assert.InDelta(t, 30*24, end.Sub(start).Hours(), 25)

		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	_, err := client.GetWorkouts(context.Background(), userID, 20)
	require.NoError(t, err)
}
