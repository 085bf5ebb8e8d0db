package entities

import "time"

type EventType string

const (
	EventFarmPractice         EventType = "farmPractice"
	EventPhotoReminder        EventType = "photoReminder"
	EventTreatmentApplication EventType = "treatmentApplication"
	EventUrgentPractice       EventType = "urgentPractice"
	EventAlertAction          EventType = "alertAction"
	EventCustom               EventType = "custom"
)

type Priority string

const (
	PriorityUrgent   Priority = "urgent"
	PriorityHigh     Priority = "high"
	PriorityModerate Priority = "moderate"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityModerate: 1,
	PriorityHigh:     2,
	PriorityUrgent:   3,
}

// Raise returns the next priority level up, saturating at urgent.
// Unknown values are treated as moderate.
func (p Priority) Raise() Priority {
	switch p {
	case PriorityLow:
		return PriorityModerate
	case PriorityModerate, "":
		return PriorityHigh
	default:
		return PriorityUrgent
	}
}

// Rank orders priorities from low (0) to urgent (3).
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[PriorityModerate]
}

type EventSource string

const (
	SourceAutoGenerated   EventSource = "autoGenerated"
	SourceHealthAnalysis  EventSource = "healthAnalysis"
	SourceDiagnosis       EventSource = "diagnosis"
	SourceUserCreated     EventSource = "userCreated"
	SourceWeatherAdjusted EventSource = "weatherAdjusted"
)

type TreatmentDetails struct {
	Product           string   `json:"product"`
	ApplicationMethod string   `json:"application_method"`
	ApplicationNumber int      `json:"application_number"`
	TotalApplications int      `json:"total_applications"`
	FrequencyDays     int      `json:"frequency_days"`
	BestPractices     []string `json:"best_practices,omitempty"`
}

type ScheduledEvent struct {
	ID                string            `gorm:"primaryKey;size:36" json:"id"`
	PlotID            string            `gorm:"index;size:64" json:"plot_id"`
	EventType         EventType         `gorm:"index" json:"event_type"`
	PracticeKey       string            `json:"practice_key,omitempty"`
	Category          PracticeCategory  `json:"category,omitempty"`
	NaturalKey        string            `gorm:"index" json:"natural_key,omitempty"`
	ScheduledDate     time.Time         `gorm:"index" json:"scheduled_date"`
	OriginalDate      *time.Time        `json:"original_date,omitempty"`
	DaysAfterPlanting int               `json:"days_after_planting"`
	Description       string            `json:"description"`
	LocalMethods      []string          `gorm:"serializer:json" json:"local_methods,omitempty"`
	CommercialMethods []string          `gorm:"serializer:json" json:"commercial_methods,omitempty"`
	TreatmentDetails  *TreatmentDetails `gorm:"serializer:json" json:"treatment_details,omitempty"`
	Priority          Priority          `json:"priority"`
	Status            EventStatus       `gorm:"index" json:"status"`
	Source            EventSource       `json:"source"`
	HealthTrigger     string            `json:"health_trigger,omitempty"`
	DiagnosisTrigger  string            `gorm:"index" json:"diagnosis_trigger,omitempty"`
	AdjustmentReason  string            `json:"adjustment_reason,omitempty"`
	AdjustedAt        *time.Time        `json:"adjusted_at,omitempty"`
	UserOverride      bool              `json:"user_override,omitempty"`
	LeachingRisk      *float64          `json:"leaching_risk,omitempty"`
	CompletedDate     *time.Time        `json:"completed_date,omitempty"`
	CompletionNotes   string            `json:"completion_notes,omitempty"`
	ImageRefs         []string          `gorm:"serializer:json" json:"image_refs,omitempty"`

	EstimatedLaborHours float64  `json:"estimated_labor_hours"`
	ActualLaborHours    *float64 `json:"actual_labor_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetScheduledDate moves the event and keeps DaysAfterPlanting in step with it.
func (e *ScheduledEvent) SetScheduledDate(d, plantingDate time.Time) {
	e.ScheduledDate = Day(d)
	e.DaysAfterPlanting = DaysBetween(plantingDate, e.ScheduledDate)
}

// BaseDate is the date weather rules reason from: the pre-adjustment date
// when one was recorded, otherwise the current schedule.
func (e *ScheduledEvent) BaseDate() time.Time {
	if e.OriginalDate != nil {
		return Day(*e.OriginalDate)
	}
	return Day(e.ScheduledDate)
}

// PlantingDate recovers the planting date from the event's DAP clock.
func (e *ScheduledEvent) PlantingDate() time.Time {
	return Day(e.ScheduledDate).AddDate(0, 0, -e.DaysAfterPlanting)
}

// PracticeCategory returns the stored category or one derived from the practice key.
func (e *ScheduledEvent) PracticeCategory() PracticeCategory {
	if e.Category != "" {
		return e.Category
	}
	return CategoryForKey(e.PracticeKey)
}

// OriginSource is the source an event had before any weather adjustment.
func (e *ScheduledEvent) OriginSource() EventSource {
	switch {
	case e.DiagnosisTrigger != "":
		return SourceDiagnosis
	case e.HealthTrigger != "":
		return SourceHealthAnalysis
	default:
		return SourceAutoGenerated
	}
}
