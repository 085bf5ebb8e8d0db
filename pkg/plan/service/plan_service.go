package service

import (
	"context"
	"time"

	"cropcal/entities"
	"cropcal/pkg/plan/types"
	schedsvc "cropcal/pkg/schedule/service"
)

// PlanService is the surface the HTTP layer and the CLI drive. A nil weather
// signal means "ask the configured provider".
type PlanService interface {
	GenerateCalendar(ctx context.Context, plotID string, signal *entities.WeatherSignal) (*types.CalendarResult, error)
	AdjustForWeather(ctx context.Context, plotID string, signal *entities.WeatherSignal) (*types.AdjustmentReport, error)
	Adjustments(ctx context.Context, plotID string, limit int) ([]entities.AdjustmentLog, error)
	TransitionEvent(ctx context.Context, eventID string, action entities.Action, p schedsvc.TransitionPayload) (*entities.ScheduledEvent, error)
	InjectFromHealthSignal(ctx context.Context, sig entities.HealthSignal) (entities.InjectionResult, error)
	ScheduleTreatment(ctx context.Context, plotID string, plan entities.TreatmentPlan, diagnosisDate time.Time) (entities.InjectionResult, error)
	CancelTreatment(ctx context.Context, plotID, diagnosisID, reason string) ([]entities.ScheduledEvent, error)
	ListUpcoming(ctx context.Context, scope schedsvc.Scope, anchor time.Time, daysAhead int) (map[entities.EventType][]entities.ScheduledEvent, error)
	RefineHarvest(ctx context.Context, plotID string) (*types.HarvestReport, error)
	// SweepPlots re-adjusts every listed plot (all plots when ids is empty).
	SweepPlots(ctx context.Context, ids []string) ([]types.SweepResult, error)
}
