package entities

import (
	"fmt"
	"time"
)

// InjectionRecord is the dedup ledger entry for an external trigger.
type InjectionRecord struct {
	Key         string    `gorm:"primaryKey;size:255" json:"key"`
	PlotID      string    `gorm:"index" json:"plot_id"`
	TriggerType string    `json:"trigger_type"`
	ObservedAt  time.Time `json:"observed_at"`
	EventIDs    []string  `gorm:"serializer:json" json:"event_ids"`
	CreatedAt   time.Time
}

// InjectionKey identifies one trigger occurrence.
func InjectionKey(plotID, triggerType string, observedAt time.Time) string {
	return fmt.Sprintf("%s|%s|%s", plotID, triggerType, observedAt.UTC().Format(time.RFC3339Nano))
}

const (
	// ReasonDuplicateInjection marks a trigger that was already applied.
	ReasonDuplicateInjection = "duplicate_injection"
	ReasonNoTrigger          = "no_trigger"
)

// InjectionResult is what an injection call produced. A suppressed duplicate
// is a normal result with no events, not an error.
type InjectionResult struct {
	Events     []ScheduledEvent `json:"events"`
	Suppressed bool             `json:"suppressed,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}
