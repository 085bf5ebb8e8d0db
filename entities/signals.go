package entities

import "time"

type NitrogenStatus string

const (
	NitrogenAdequate  NitrogenStatus = "adequate"
	NitrogenLow       NitrogenStatus = "low"
	NitrogenDeficient NitrogenStatus = "deficient"
)

type WaterStress string

const (
	WaterStressNone     WaterStress = "none"
	WaterStressLow      WaterStress = "low"
	WaterStressModerate WaterStress = "moderate"
	WaterStressHigh     WaterStress = "high"
)

// HealthSignal is emitted by the plant-health collaborator.
type HealthSignal struct {
	PlotID            string         `json:"plot_id"`
	ObservedAt        time.Time      `json:"observed_at"`
	OverallScore      float64        `json:"overall_score"`
	NitrogenStatus    NitrogenStatus `json:"nitrogen_status"`
	WaterStress       WaterStress    `json:"water_stress"`
	TrendVsPrevious   float64        `json:"trend_vs_previous"`
	YellowingDetected bool           `json:"yellowing_detected"`
}

// TreatmentPlan is emitted by the diagnosis collaborator.
type TreatmentPlan struct {
	DiagnosisID string      `json:"diagnosis_id"`
	Issue       string      `json:"issue"`
	Treatments  []Treatment `json:"treatments"`
}

type Treatment struct {
	Priority          Priority `json:"priority"`
	Product           string   `json:"product"`
	ApplicationMethod string   `json:"application_method"`
	FrequencyDays     int      `json:"frequency_days"`
	TotalApplications int      `json:"total_applications"`
	BestPractices     []string `json:"best_practices,omitempty"`
}
