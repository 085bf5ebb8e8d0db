package types

import (
	"cropcal/entities"
	"cropcal/pkg/climate"
)

// CalendarResult is the outcome of generating (or regenerating) a plot's calendar.
type CalendarResult struct {
	PlotID     string                    `json:"plot_id"`
	Events     []entities.ScheduledEvent `json:"events"`
	Harvest    entities.HarvestWindow    `json:"harvest"`
	Confidence float64                   `json:"confidence"`
	Warnings   []entities.Warning        `json:"warnings,omitempty"`
	Inserted   int                       `json:"inserted"`
	Kept       int                       `json:"kept"`
	Cancelled  int                       `json:"cancelled"`
	Changed    []string                  `json:"weather_changed,omitempty"`
	Advisories []entities.ArticleRef     `json:"advisories,omitempty"`
}

type AdjustmentReport struct {
	PlotID   string                    `json:"plot_id"`
	Events   []entities.ScheduledEvent `json:"events"`
	Changed  []string                  `json:"changed"`
	Warnings []entities.Warning        `json:"warnings,omitempty"`
}

type HarvestReport struct {
	PlotID   string                  `json:"plot_id"`
	Original entities.HarvestWindow  `json:"original"`
	Estimate climate.HarvestEstimate `json:"estimate"`
}

type SweepResult struct {
	PlotID   string             `json:"plot_id"`
	Changed  int                `json:"changed"`
	Warnings []entities.Warning `json:"warnings,omitempty"`
	Err      string             `json:"error,omitempty"`
}
