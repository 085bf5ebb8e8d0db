package service

import (
	"context"
	"time"

	"cropcal/entities"
	"cropcal/pkg/climate"
)

// TransitionPayload carries the optional data an action records.
type TransitionPayload struct {
	NewDate          time.Time
	Reason           string
	Notes            string
	ActualLaborHours *float64
	ImageRefs        []string
}

// Scope selects events by plot or by all plots of a farmer.
type Scope struct {
	PlotID   string
	FarmerID string
}

type MergeResult struct {
	Events    []entities.ScheduledEvent `json:"events"`
	Inserted  int                       `json:"inserted"`
	Kept      int                       `json:"kept"`
	Cancelled int                       `json:"cancelled"`
}

// AdjustFunc recomputes a plot's scheduled events.
type AdjustFunc func(evs []entities.ScheduledEvent) climate.AdjustResult

// PlotSource resolves plots for planting dates and farmer scoping.
type PlotSource interface {
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	ListIDsByFarmer(ctx context.Context, farmerID string) ([]string, error)
}

type ScheduleService interface {
	Transition(ctx context.Context, eventID string, action entities.Action, p TransitionPayload) (*entities.ScheduledEvent, error)
	InjectFromHealthSignal(ctx context.Context, sig entities.HealthSignal) (entities.InjectionResult, error)
	InjectFromDiagnosis(ctx context.Context, plotID string, plan entities.TreatmentPlan, diagnosisDate time.Time, signal *entities.WeatherSignal) (entities.InjectionResult, error)
	CancelByDiagnosis(ctx context.Context, plotID, diagnosisID, reason string) ([]entities.ScheduledEvent, error)
	ApplyAdjustments(ctx context.Context, plotID string, adjust AdjustFunc) (climate.AdjustResult, error)
	MergeGenerated(ctx context.Context, plotID string, draft []entities.ScheduledEvent) (MergeResult, error)

	Get(ctx context.Context, eventID string) (*entities.ScheduledEvent, error)
	ListByPlot(ctx context.Context, plotID string) ([]entities.ScheduledEvent, error)
	FilterByStatus(ctx context.Context, plotID string, status entities.EventStatus) ([]entities.ScheduledEvent, error)
	ListUpcoming(ctx context.Context, scope Scope, anchor time.Time, daysAhead int) (map[entities.EventType][]entities.ScheduledEvent, error)
}
