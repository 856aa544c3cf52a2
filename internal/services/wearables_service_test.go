package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/healthion/healthion-api/internal/dto"
	"github.com/healthion/healthion-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWearablesService(t *testing.T, handler http.Handler) *WearablesService {
	t.Helper()
	client := newTestClient(t, handler)
	users := NewUserService(newTestDB(t), client)
	return NewWearablesService(client, users)
}

func registeredUser() *models.User {
	owID := uuid.New()
	return &models.User{
		ID:                  uuid.New(),
		Auth0ID:             "auth0|linked",
		Email:               "linked@example.com",
		OpenWearablesUserID: &owID,
	}
}

func unregisteredUser() *models.User {
	return &models.User{
		ID:      uuid.New(),
		Auth0ID: "auth0|unlinked",
		Email:   "unlinked@example.com",
	}
}

func TestRegisterUserShortCircuitsWhenLinked(t *testing.T) {
	calls := 0
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	user := registeredUser()
	resp, err := svc.RegisterUser(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyRegistered)
	assert.Equal(t, *user.OpenWearablesUserID, resp.OpenWearablesUserID)
	assert.Equal(t, 0, calls)
}

func TestGetProvidersFillsDefaults(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "apple_health"},
			{"name": "garmin", "display_name": "Garmin Connect", "has_cloud_api": false},
		})
	}))

	resp, err := svc.GetProviders(context.Background(), dto.ProvidersQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Providers, 2)

	assert.Equal(t, "Apple Health", resp.Providers[0].DisplayName)
	assert.True(t, resp.Providers[0].HasCloudAPI)
	assert.True(t, resp.Providers[0].IsEnabled)

	assert.Equal(t, "Garmin Connect", resp.Providers[1].DisplayName)
	assert.False(t, resp.Providers[1].HasCloudAPI)
}

func TestGetConnectionsUnregisteredIsEmpty(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unregistered user must not hit the platform")
	}))

	resp, err := svc.GetConnections(context.Background(), unregisteredUser())
	require.NoError(t, err)
	assert.Empty(t, resp.Connections)
	assert.Nil(t, resp.OpenWearablesUserID)
}

func TestGetConnectionsMapsStatusAndTimestamps(t *testing.T) {
	connID := uuid.New()
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	synced := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": connID.String(), "provider": "garmin", "status": "active",
				"created_at": created.Format(time.RFC3339), "last_synced_at": synced.Format(time.RFC3339),
			},
			{"id": uuid.New().String(), "provider": "polar", "status": "revoked"},
		})
	}))

	resp, err := svc.GetConnections(context.Background(), registeredUser())
	require.NoError(t, err)
	require.Len(t, resp.Connections, 2)

	first := resp.Connections[0]
	assert.Equal(t, connID, first.ID)
	assert.True(t, first.IsActive)
	require.NotNil(t, first.ConnectedAt)
	assert.True(t, first.ConnectedAt.Equal(created))
	require.NotNil(t, first.LastSync)
	assert.True(t, first.LastSync.Equal(synced))

	assert.False(t, resp.Connections[1].IsActive)
}

func TestGetTimeseriesUnregisteredIsEmpty(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unregistered user must not hit the platform")
	}))

	user := unregisteredUser()
	resp, err := svc.GetTimeseries(context.Background(), user, dto.TimeseriesQuery{})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, "heart_rate", resp.SeriesType)
	assert.Equal(t, user.ID, resp.UserID)
}

func TestGetTimeseriesNormalizesFieldVariants(t *testing.T) {
	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"timestamp": ts.Format(time.RFC3339), "type": "heart_rate", "value": 62.0, "unit": "bpm"},
				{"recorded_at": ts.Format(time.RFC3339), "bpm": 71.0},
			},
		})
	}))

	resp, err := svc.GetTimeseries(context.Background(), registeredUser(), dto.TimeseriesQuery{
		Types: []string{"heart_rate", "steps"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "heart_rate,steps", resp.SeriesType)
	assert.Equal(t, 2, resp.Count)

	assert.Equal(t, 62.0, resp.Data[0].Value)

	// Legacy row shape still maps onto the response.
	assert.Equal(t, 71.0, resp.Data[1].Value)
	assert.Equal(t, "bpm", resp.Data[1].Unit)
	assert.True(t, resp.Data[1].Timestamp.Equal(ts))
}

func TestSyncRequiresRegistration(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unregistered user must not hit the platform")
	}))

	_, err := svc.SyncData(context.Background(), unregisteredUser(), dto.SyncRequest{Provider: "garmin"})
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestGetWorkoutsNormalizesLegacyFields(t *testing.T) {
	start := time.Date(2026, 3, 5, 7, 0, 0, 0, time.UTC)
	workoutID := uuid.New()

	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": workoutID.String(), "type": "running",
					"start_time": start.Format(time.RFC3339),
					"source":     map[string]any{"provider": "garmin"},
				},
				{
					"id": uuid.New().String(), "type": "cycling",
					"start_datetime": start.Format(time.RFC3339),
					"source_name":    "polar",
				},
			},
		})
	}))

	resp, err := svc.GetWorkouts(context.Background(), registeredUser(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Workouts, 2)
	assert.Equal(t, 2, resp.Total)

	assert.Equal(t, workoutID, resp.Workouts[0].ID)
	assert.Equal(t, "garmin", resp.Workouts[0].Provider)
	assert.True(t, resp.Workouts[0].StartDatetime.Equal(start))

	assert.Equal(t, "polar", resp.Workouts[1].Provider)
	assert.True(t, resp.Workouts[1].StartDatetime.Equal(start))
}

func TestGetEventWorkoutsDefaultsUnknownSource(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": uuid.New().String(), "type": "running",
					"start_time": "2026-03-05T07:00:00Z", "end_time": "2026-03-05T08:00:00Z",
					"source": map[string]any{},
				},
			},
			"pagination": map[string]any{"has_more": true, "next_cursor": "abc"},
		})
	}))

	resp, err := svc.GetEventWorkouts(context.Background(), registeredUser(), dto.EventWorkoutsQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "unknown", resp.Data[0].Source.Provider)
	assert.True(t, resp.HasMore)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, "abc", *resp.NextCursor)
}

func TestGetWorkoutDetailRequiresRegistration(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unregistered user must not hit the platform")
	}))

	_, err := svc.GetWorkoutDetail(context.Background(), unregisteredUser(), "garmin", "w1")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestImportAppleHealthRequiresRegistration(t *testing.T) {
	svc := newWearablesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unregistered user must not hit the platform")
	}))

	_, err := svc.ImportAppleHealthXML(context.Background(), unregisteredUser(), "uploads/export.xml")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestGetAvailableSeriesTypes(t *testing.T) {
	svc := newWearablesService(t, http.NotFoundHandler())

	resp := svc.GetAvailableSeriesTypes()
	assert.Equal(t, len(resp.Types), resp.Total)
	assert.Equal(t, "heart_rate", resp.Types[0].Name)
	assert.Equal(t, "cardiovascular", resp.Types[0].Category)
	assert.Equal(t, "water_temperature", resp.Types[len(resp.Types)-1].Name)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Apple Health", titleCase("apple_health"))
	assert.Equal(t, "Garmin", titleCase("garmin"))
}
