package entities

import "time"

type HealthTrend string

const (
	TrendImproving HealthTrend = "improving"
	TrendStable    HealthTrend = "stable"
	TrendDeclining HealthTrend = "declining"
)

// GrowthEvidence is one reading used to refine the harvest window.
type GrowthEvidence struct {
	ObservedAt  time.Time   `json:"observed_at"`
	MaturityPct float64     `json:"maturity_pct"`
	HealthTrend HealthTrend `json:"health_trend"`
}

// Observation is persisted growth evidence for a plot.
type Observation struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	PlotID      string      `gorm:"index" json:"plot_id"`
	ObservedAt  time.Time   `json:"observed_at"`
	MaturityPct float64     `json:"maturity_pct"`
	HealthTrend HealthTrend `json:"health_trend"`
	Note        string      `json:"note,omitempty"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	CreatedAt   time.Time
}

func (o Observation) Evidence() GrowthEvidence {
	return GrowthEvidence{ObservedAt: o.ObservedAt, MaturityPct: o.MaturityPct, HealthTrend: o.HealthTrend}
}

// HarvestWindow is the earliest/target/latest harvest date range.
type HarvestWindow struct {
	Earliest time.Time `json:"earliest"`
	Target   time.Time `json:"target"`
	Latest   time.Time `json:"latest"`
}

// Contains reports whether w lies entirely inside outer.
func (w HarvestWindow) Contains(inner HarvestWindow) bool {
	return !inner.Earliest.Before(w.Earliest) && !inner.Latest.After(w.Latest) &&
		!inner.Target.Before(inner.Earliest) && !inner.Target.After(inner.Latest)
}

func (w HarvestWindow) WidthDays() int { return DaysBetween(w.Earliest, w.Latest) }
