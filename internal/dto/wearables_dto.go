package dto

import (
	"time"

	"github.com/google/uuid"
)

// ============================================
// Query parameters
// ============================================

type ProvidersQuery struct {
	EnabledOnly bool `query:"enabled_only"`
	CloudOnly   bool `query:"cloud_only"`
}

type TimeseriesQuery struct {
	StartTime  string   `query:"start_time"`
	EndTime    string   `query:"end_time"`
	Types      []string `query:"types"`
	Limit      int      `query:"limit"`
	Resolution string   `query:"resolution"`
	Cursor     string   `query:"cursor"`
}

type DateRangeQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Limit     int    `query:"limit"`
	Cursor    string `query:"cursor"`
}

type EventWorkoutsQuery struct {
	DateRangeQuery
	WorkoutType string `query:"workout_type"`
}

// ============================================
// Registration
// ============================================

type RegisterResponse struct {
	OpenWearablesUserID uuid.UUID `json:"open_wearables_user_id"`
	AlreadyRegistered   bool      `json:"already_registered"`
}

// ============================================
// Providers, OAuth, connections
// ============================================

type WearableProvider struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	IconURL     *string `json:"icon_url"`
	HasCloudAPI bool    `json:"has_cloud_api"`
	IsEnabled   bool    `json:"is_enabled"`
}

type ProvidersResponse struct {
	Providers []WearableProvider `json:"providers"`
}

type AuthorizationResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Provider         string `json:"provider"`
}

type WearableConnection struct {
	ID          uuid.UUID  `json:"id"`
	Provider    string     `json:"provider"`
	ConnectedAt *time.Time `json:"connected_at"`
	IsActive    bool       `json:"is_active"`
	LastSync    *time.Time `json:"last_sync"`
}

type ConnectionsResponse struct {
	Connections         []WearableConnection `json:"connections"`
	OpenWearablesUserID *uuid.UUID           `json:"open_wearables_user_id"`
}

// ============================================
// Timeseries
// ============================================

type TimeseriesDataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type,omitempty"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
}

type TimeseriesResponse struct {
	Data       []TimeseriesDataPoint `json:"data"`
	SeriesType string                `json:"series_type"`
	UserID     uuid.UUID             `json:"user_id"`
	Count      int                   `json:"count"`
}

// ============================================
// Sync
// ============================================

type SyncRequest struct {
	Provider string `json:"provider"`
	DataType string `json:"data_type"`
}

type SyncResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	SyncedCount int    `json:"synced_count"`
}

// ============================================
// Workouts (legacy list endpoint)
// ============================================

type Workout struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type,omitempty"`
	SourceName      string     `json:"source_name,omitempty"`
	StartDatetime   time.Time  `json:"start_datetime"`
	EndDatetime     *time.Time `json:"end_datetime"`
	DurationSeconds *int       `json:"duration_seconds"`
	Provider        string     `json:"provider,omitempty"`
}

type WorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

// ============================================
// Events (Open Wearables v2)
// ============================================

type DataSource struct {
	Provider string  `json:"provider"`
	Device   *string `json:"device"`
}

type EventWorkout struct {
	ID                  uuid.UUID  `json:"id"`
	Type                string     `json:"type"`
	Name                *string    `json:"name"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             time.Time  `json:"end_time"`
	DurationSeconds     *int       `json:"duration_seconds"`
	Source              DataSource `json:"source"`
	CaloriesKcal        *float64   `json:"calories_kcal"`
	DistanceMeters      *float64   `json:"distance_meters"`
	AvgHeartRateBpm     *int       `json:"avg_heart_rate_bpm"`
	MaxHeartRateBpm     *int       `json:"max_heart_rate_bpm"`
	AvgPaceSecPerKm     *int       `json:"avg_pace_sec_per_km"`
	ElevationGainMeters *float64   `json:"elevation_gain_meters"`
}

type EventWorkoutsResponse struct {
	Data       []EventWorkout `json:"data"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}

type WorkoutDetailResponse struct {
	ID                      uuid.UUID  `json:"id"`
	Type                    string     `json:"type"`
	Name                    *string    `json:"name"`
	StartTime               time.Time  `json:"start_time"`
	EndTime                 time.Time  `json:"end_time"`
	DurationSeconds         *int       `json:"duration_seconds"`
	Source                  DataSource `json:"source"`
	CaloriesKcal            *float64   `json:"calories_kcal"`
	DistanceMeters          *float64   `json:"distance_meters"`
	AvgHeartRateBpm         *int       `json:"avg_heart_rate_bpm"`
	MaxHeartRateBpm         *int       `json:"max_heart_rate_bpm"`
	AvgPaceSecPerKm         *int       `json:"avg_pace_sec_per_km"`
	ElevationGainMeters     *float64   `json:"elevation_gain_meters"`
	AvgSpeedMps             *float64   `json:"avg_speed_mps"`
	MaxSpeedMps             *float64   `json:"max_speed_mps"`
	AvgCadence              *int       `json:"avg_cadence"`
	AvgPowerWatts           *int       `json:"avg_power_watts"`
	TrainingEffectAerobic   *float64   `json:"training_effect_aerobic"`
	TrainingEffectAnaerobic *float64   `json:"training_effect_anaerobic"`
}

type SleepStages struct {
	AwakeSeconds *int `json:"awake_seconds"`
	LightSeconds *int `json:"light_seconds"`
	DeepSeconds  *int `json:"deep_seconds"`
	RemSeconds   *int `json:"rem_seconds"`
}

type SleepSession struct {
	ID                uuid.UUID    `json:"id"`
	StartTime         time.Time    `json:"start_time"`
	EndTime           time.Time    `json:"end_time"`
	Source            DataSource   `json:"source"`
	DurationSeconds   int          `json:"duration_seconds"`
	EfficiencyPercent *float64     `json:"efficiency_percent"`
	Stages            *SleepStages `json:"stages"`
	IsNap             bool         `json:"is_nap"`
}

type SleepSessionsResponse struct {
	Data       []SleepSession `json:"data"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}

// ============================================
// Daily summaries
// ============================================

type IntensityMinutes struct {
	Light    *int `json:"light"`
	Moderate *int `json:"moderate"`
	Vigorous *int `json:"vigorous"`
}

type ActivitySummary struct {
	Date                     string            `json:"date"`
	Source                   DataSource        `json:"source"`
	Steps                    *int              `json:"steps"`
	DistanceMeters           *float64          `json:"distance_meters"`
	FloorsClimbed            *int              `json:"floors_climbed"`
	ActiveCaloriesKcal       *float64          `json:"active_calories_kcal"`
	TotalCaloriesKcal        *float64          `json:"total_calories_kcal"`
	ActiveDurationSeconds    *int              `json:"active_duration_seconds"`
	SedentaryDurationSeconds *int              `json:"sedentary_duration_seconds"`
	IntensityMinutes         *IntensityMinutes `json:"intensity_minutes"`
}

type ActivitySummaryResponse struct {
	Data       []ActivitySummary `json:"data"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
}

type SleepSummary struct {
	Date               string       `json:"date"`
	Source             DataSource   `json:"source"`
	StartTime          *time.Time   `json:"start_time"`
	EndTime            *time.Time   `json:"end_time"`
	DurationSeconds    *int         `json:"duration_seconds"`
	TimeInBedSeconds   *int         `json:"time_in_bed_seconds"`
	EfficiencyPercent  *float64     `json:"efficiency_percent"`
	Stages             *SleepStages `json:"stages"`
	InterruptionsCount *int         `json:"interruptions_count"`
	AvgHeartRateBpm    *int         `json:"avg_heart_rate_bpm"`
	AvgHrvRmssdMs      *float64     `json:"avg_hrv_rmssd_ms"`
	AvgRespiratoryRate *float64     `json:"avg_respiratory_rate"`
	AvgSpo2Percent     *float64     `json:"avg_spo2_percent"`
}

type SleepSummaryResponse struct {
	Data       []SleepSummary `json:"data"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}

type RecoverySummary struct {
	Date                   string     `json:"date"`
	Source                 DataSource `json:"source"`
	SleepDurationSeconds   *int       `json:"sleep_duration_seconds"`
	SleepEfficiencyPercent *float64   `json:"sleep_efficiency_percent"`
	RestingHeartRateBpm    *int       `json:"resting_heart_rate_bpm"`
	AvgHrvRmssdMs          *float64   `json:"avg_hrv_rmssd_ms"`
	AvgSpo2Percent         *float64   `json:"avg_spo2_percent"`
	RecoveryScore          *int       `json:"recovery_score"`
}

type RecoverySummaryResponse struct {
	Data       []RecoverySummary `json:"data"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
}

type BloodPressure struct {
	SystolicMmhg  *int `json:"systolic_mmhg"`
	DiastolicMmhg *int `json:"diastolic_mmhg"`
}

type BodySummary struct {
	Date                        string         `json:"date"`
	Source                      DataSource     `json:"source"`
	WeightKg                    *float64       `json:"weight_kg"`
	BodyFatPercent              *float64       `json:"body_fat_percent"`
	MuscleMassKg                *float64       `json:"muscle_mass_kg"`
	BMI                         *float64       `json:"bmi"`
	RestingHeartRateBpm         *int           `json:"resting_heart_rate_bpm"`
	AvgHrvRmssdMs               *float64       `json:"avg_hrv_rmssd_ms"`
	BloodPressure               *BloodPressure `json:"blood_pressure"`
	BasalBodyTemperatureCelsius *float64       `json:"basal_body_temperature_celsius"`
}

type BodySummaryResponse struct {
	Data       []BodySummary `json:"data"`
	HasMore    bool          `json:"has_more"`
	NextCursor *string       `json:"next_cursor"`
}

// ============================================
// Apple Health import
// ============================================

type AppleHealthImportResponse struct {
	Status           string   `json:"status"`
	Message          string   `json:"message,omitempty"`
	RecordsImported  int      `json:"records_imported"`
	WorkoutsImported int      `json:"workouts_imported"`
	Errors           []string `json:"errors"`
}

// ============================================
// Series type catalog
// ============================================

type SeriesTypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Category    string `json:"category,omitempty"`
}

type SeriesTypesResponse struct {
	Types []SeriesTypeInfo `json:"types"`
	Total int              `json:"total"`
}
