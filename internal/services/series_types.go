package services

import "github.com/healthion/healthion-api/internal/dto"

// seriesTypeCatalog mirrors the timeseries types the Open Wearables platform
// accepts, grouped by category for the mobile client's metric picker.
var seriesTypeCatalog = []dto.SeriesTypeInfo{
	// Heart and cardiovascular
	{Name: "heart_rate", Description: "Heart Rate", Unit: "bpm", Category: "cardiovascular"},
	{Name: "resting_heart_rate", Description: "Resting Heart Rate", Unit: "bpm", Category: "cardiovascular"},
	{Name: "heart_rate_variability_sdnn", Description: "Heart Rate Variability (SDNN)", Unit: "ms", Category: "cardiovascular"},
	{Name: "heart_rate_recovery_one_minute", Description: "Heart Rate Recovery (1 min)", Unit: "bpm", Category: "cardiovascular"},
	{Name: "walking_heart_rate_average", Description: "Walking Heart Rate Average", Unit: "bpm", Category: "cardiovascular"},

	// Blood and oxygen
	{Name: "oxygen_saturation", Description: "Blood Oxygen Saturation", Unit: "%", Category: "blood"},
	{Name: "blood_glucose", Description: "Blood Glucose", Unit: "mg/dL", Category: "blood"},
	{Name: "blood_pressure_systolic", Description: "Blood Pressure (Systolic)", Unit: "mmHg", Category: "blood"},
	{Name: "blood_pressure_diastolic", Description: "Blood Pressure (Diastolic)", Unit: "mmHg", Category: "blood"},

	// Respiratory
	{Name: "respiratory_rate", Description: "Respiratory Rate", Unit: "breaths/min", Category: "respiratory"},
	{Name: "sleeping_breathing_disturbances", Description: "Sleep Breathing Disturbances", Unit: "events/hr", Category: "respiratory"},

	// Body metrics
	{Name: "height", Description: "Height", Unit: "cm", Category: "body"},
	{Name: "weight", Description: "Weight", Unit: "kg", Category: "body"},
	{Name: "body_fat_percentage", Description: "Body Fat Percentage", Unit: "%", Category: "body"},
	{Name: "body_mass_index", Description: "Body Mass Index (BMI)", Unit: "kg/m²", Category: "body"},
	{Name: "lean_body_mass", Description: "Lean Body Mass", Unit: "kg", Category: "body"},
	{Name: "body_temperature", Description: "Body Temperature", Unit: "°C", Category: "body"},

	// Fitness
	{Name: "vo2_max", Description: "VO2 Max", Unit: "mL/kg/min", Category: "fitness"},
	{Name: "six_minute_walk_test_distance", Description: "6-Minute Walk Test Distance", Unit: "m", Category: "fitness"},

	// Activity
	{Name: "steps", Description: "Steps", Unit: "count", Category: "activity"},
	{Name: "energy", Description: "Active Energy", Unit: "kcal", Category: "activity"},
	{Name: "basal_energy", Description: "Basal Energy", Unit: "kcal", Category: "activity"},
	{Name: "stand_time", Description: "Stand Time", Unit: "min", Category: "activity"},
	{Name: "exercise_time", Description: "Exercise Time", Unit: "min", Category: "activity"},
	{Name: "physical_effort", Description: "Physical Effort", Unit: "MET", Category: "activity"},
	{Name: "flights_climbed", Description: "Flights Climbed", Unit: "count", Category: "activity"},

	// Distance
	{Name: "distance_walking_running", Description: "Walking + Running Distance", Unit: "km", Category: "distance"},
	{Name: "distance_cycling", Description: "Cycling Distance", Unit: "km", Category: "distance"},
	{Name: "distance_swimming", Description: "Swimming Distance", Unit: "m", Category: "distance"},
	{Name: "distance_downhill_snow_sports", Description: "Downhill Snow Sports Distance", Unit: "km", Category: "distance"},

	// Walking metrics
	{Name: "walking_step_length", Description: "Walking Step Length", Unit: "cm", Category: "walking"},
	{Name: "walking_speed", Description: "Walking Speed", Unit: "km/h", Category: "walking"},
	{Name: "walking_double_support_percentage", Description: "Double Support Time", Unit: "%", Category: "walking"},
	{Name: "walking_asymmetry_percentage", Description: "Walking Asymmetry", Unit: "%", Category: "walking"},
	{Name: "walking_steadiness", Description: "Walking Steadiness", Unit: "%", Category: "walking"},
	{Name: "stair_descent_speed", Description: "Stair Descent Speed", Unit: "m/s", Category: "walking"},
	{Name: "stair_ascent_speed", Description: "Stair Ascent Speed", Unit: "m/s", Category: "walking"},

	// Running metrics
	{Name: "running_power", Description: "Running Power", Unit: "W", Category: "running"},
	{Name: "running_speed", Description: "Running Speed", Unit: "km/h", Category: "running"},
	{Name: "running_vertical_oscillation", Description: "Vertical Oscillation", Unit: "cm", Category: "running"},
	{Name: "running_ground_contact_time", Description: "Ground Contact Time", Unit: "ms", Category: "running"},
	{Name: "running_stride_length", Description: "Running Stride Length", Unit: "m", Category: "running"},

	// Swimming and cycling
	{Name: "swimming_stroke_count", Description: "Swimming Stroke Count", Unit: "count", Category: "swimming"},
	{Name: "cadence", Description: "Cadence", Unit: "rpm", Category: "cycling"},
	{Name: "power", Description: "Power", Unit: "W", Category: "cycling"},

	// Environment
	{Name: "environmental_audio_exposure", Description: "Environmental Audio Exposure", Unit: "dB", Category: "environment"},
	{Name: "headphone_audio_exposure", Description: "Headphone Audio Exposure", Unit: "dB", Category: "environment"},
	{Name: "environmental_sound_reduction", Description: "Sound Reduction", Unit: "dB", Category: "environment"},
	{Name: "time_in_daylight", Description: "Time in Daylight", Unit: "min", Category: "environment"},
	{Name: "water_temperature", Description: "Water Temperature", Unit: "°C", Category: "environment"},
}

// GetAvailableSeriesTypes returns the static series type catalog.
func (s *WearablesService) GetAvailableSeriesTypes() *dto.SeriesTypesResponse {
	types := make([]dto.SeriesTypeInfo, len(seriesTypeCatalog))
	copy(types, seriesTypeCatalog)
	return &dto.SeriesTypesResponse{Types: types, Total: len(types)}
}
