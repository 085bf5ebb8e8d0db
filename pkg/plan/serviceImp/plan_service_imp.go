package serviceImp

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cropcal/entities"
	"cropcal/pkg/calendar"
	"cropcal/pkg/climate"
	"cropcal/pkg/growth"
	planrepo "cropcal/pkg/plan/repository"
	"cropcal/pkg/plan/service"
	"cropcal/pkg/plan/types"
	schedsvc "cropcal/pkg/schedule/service"
	"cropcal/pkg/weather"
)

const (
	maxAdvisories = 5

	penaltyDegraded = 0.2
	penaltyWeather  = 0.15
	penaltySoil     = 0.1

	defaultSweepLimit = 4
)

type plotReader interface {
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type evidenceSource interface {
	Evidence(ctx context.Context, plotID string) ([]entities.GrowthEvidence, error)
}

type advisorySearcher interface {
	Refs(ctx context.Context, query string, k int) ([]entities.ArticleRef, error)
}

// Deps collects the collaborators of the plan service. Observations and
// Advisory are optional.
type Deps struct {
	Plots        plotReader
	Models       *growth.Registry
	Schedule     schedsvc.ScheduleService
	Adjuster     *climate.Adjuster
	Weather      weather.Provider
	Repo         planrepo.PlanRepository
	Observations evidenceSource
	Advisory     advisorySearcher
	SweepLimit   int
	Log          *zap.Logger
}

type PlanSvc struct {
	Deps
	now func() time.Time
}

var _ service.PlanService = (*PlanSvc)(nil)

func NewPlanService(d Deps) *PlanSvc {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Weather == nil {
		d.Weather = weather.NewStatic(nil)
	}
	if d.Adjuster == nil {
		d.Adjuster = climate.NewAdjuster(climate.DefaultConfig(), d.Log)
	}
	if d.SweepLimit <= 0 {
		d.SweepLimit = defaultSweepLimit
	}
	return &PlanSvc{Deps: d, now: func() time.Time { return time.Now().UTC() }}
}

// forecast asks the provider for the plot's weather. Failures are logged and
// yield a nil signal; the adjuster reports weather_unavailable for it.
func (s *PlanSvc) forecast(ctx context.Context, plot *entities.Plot) *entities.WeatherSignal {
	sig, err := s.Weather.Forecast(ctx, plot.Location, s.now())
	if err != nil {
		s.Log.Warn("weather provider failed", zap.String("plot_id", plot.ID), zap.Error(err))
		return nil
	}
	return sig
}

func (s *PlanSvc) adjustFunc(plot *entities.Plot, sig *entities.WeatherSignal) schedsvc.AdjustFunc {
	opts := climate.AdjustOptions{
		PlantingDate:  plot.PlantingDate,
		DrainageClass: plot.DrainageClass(),
		Now:           s.now(),
	}
	return func(evs []entities.ScheduledEvent) climate.AdjustResult {
		return s.Adjuster.Adjust(evs, sig, opts)
	}
}

func (s *PlanSvc) GenerateCalendar(ctx context.Context, plotID string, sig *entities.WeatherSignal) (*types.CalendarResult, error) {
	plot, err := s.Plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	model, err := s.Models.Lookup(plot.CropName, plot.Variety)
	if err != nil {
		return nil, err
	}
	draft := calendar.Generate(model, plot.PlantingDate, plot.Location, plot.Soil, calendar.Options{PlotID: plot.ID})

	merged, err := s.Schedule.MergeGenerated(ctx, plot.ID, draft.Events)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		sig = s.forecast(ctx, plot)
	}
	adj, err := s.Schedule.ApplyAdjustments(ctx, plot.ID, s.adjustFunc(plot, sig))
	if err != nil {
		return nil, err
	}
	events, err := s.Schedule.ListByPlot(ctx, plot.ID)
	if err != nil {
		return nil, err
	}
	calendar.SortEvents(events)

	warnings := append(append([]entities.Warning(nil), draft.Warnings...), adj.Warnings...)
	out := &types.CalendarResult{
		PlotID:     plot.ID,
		Events:     events,
		Harvest:    draft.Harvest,
		Confidence: confidence(model.DegradedPrecision, warnings),
		Warnings:   warnings,
		Inserted:   merged.Inserted,
		Kept:       merged.Kept,
		Cancelled:  merged.Cancelled,
		Changed:    adj.Changed,
		Advisories: s.advisories(ctx, plot),
	}
	s.Log.Info("calendar generated",
		zap.String("plot_id", plot.ID),
		zap.Int("events", len(events)),
		zap.Float64("confidence", out.Confidence))
	return out, nil
}

// confidence starts at 1 and loses a fixed penalty for each kind of degraded input.
func confidence(degraded bool, warnings []entities.Warning) float64 {
	c := 1.0
	if degraded {
		c -= penaltyDegraded
	}
	var weatherHit, soilHit bool
	for _, w := range warnings {
		switch w.Code {
		case entities.WarnWeatherUnavailable, entities.WarnWeatherMalformed:
			weatherHit = true
		case entities.WarnSoilMissing:
			soilHit = true
		}
	}
	if weatherHit {
		c -= penaltyWeather
	}
	if soilHit {
		c -= penaltySoil
	}
	return max(0, c)
}

func (s *PlanSvc) advisories(ctx context.Context, plot *entities.Plot) []entities.ArticleRef {
	if s.Advisory == nil {
		return nil
	}
	q := strings.TrimSpace(plot.CropName + " " + plot.Variety)
	refs, err := s.Advisory.Refs(ctx, q, maxAdvisories)
	if err != nil {
		s.Log.Warn("advisory lookup failed", zap.String("plot_id", plot.ID), zap.Error(err))
		return nil
	}
	return refs
}

func (s *PlanSvc) AdjustForWeather(ctx context.Context, plotID string, sig *entities.WeatherSignal) (*types.AdjustmentReport, error) {
	plot, err := s.Plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		sig = s.forecast(ctx, plot)
	}
	res, err := s.Schedule.ApplyAdjustments(ctx, plot.ID, s.adjustFunc(plot, sig))
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveAdjustment(ctx, &entities.AdjustmentLog{
		PlotID:   plot.ID,
		Changed:  res.Changed,
		Warnings: res.Warnings,
	}); err != nil {
		return nil, err
	}
	events, err := s.Schedule.ListByPlot(ctx, plot.ID)
	if err != nil {
		return nil, err
	}
	calendar.SortEvents(events)
	changed := res.Changed
	if changed == nil {
		changed = []string{}
	}
	return &types.AdjustmentReport{PlotID: plot.ID, Events: events, Changed: changed, Warnings: res.Warnings}, nil
}

func (s *PlanSvc) Adjustments(ctx context.Context, plotID string, limit int) ([]entities.AdjustmentLog, error) {
	return s.Repo.ListAdjustments(ctx, plotID, limit)
}

func (s *PlanSvc) TransitionEvent(ctx context.Context, eventID string, action entities.Action, p schedsvc.TransitionPayload) (*entities.ScheduledEvent, error) {
	return s.Schedule.Transition(ctx, eventID, action, p)
}

func (s *PlanSvc) InjectFromHealthSignal(ctx context.Context, sig entities.HealthSignal) (entities.InjectionResult, error) {
	return s.Schedule.InjectFromHealthSignal(ctx, sig)
}

func (s *PlanSvc) ScheduleTreatment(ctx context.Context, plotID string, plan entities.TreatmentPlan, diagnosisDate time.Time) (entities.InjectionResult, error) {
	plot, err := s.Plots.FindByID(ctx, plotID)
	if err != nil {
		return entities.InjectionResult{}, err
	}
	return s.Schedule.InjectFromDiagnosis(ctx, plot.ID, plan, diagnosisDate, s.forecast(ctx, plot))
}

func (s *PlanSvc) CancelTreatment(ctx context.Context, plotID, diagnosisID, reason string) ([]entities.ScheduledEvent, error) {
	return s.Schedule.CancelByDiagnosis(ctx, plotID, diagnosisID, reason)
}

func (s *PlanSvc) ListUpcoming(ctx context.Context, scope schedsvc.Scope, anchor time.Time, daysAhead int) (map[entities.EventType][]entities.ScheduledEvent, error) {
	return s.Schedule.ListUpcoming(ctx, scope, anchor, daysAhead)
}

func (s *PlanSvc) RefineHarvest(ctx context.Context, plotID string) (*types.HarvestReport, error) {
	plot, err := s.Plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	model, err := s.Models.Lookup(plot.CropName, plot.Variety)
	if err != nil {
		return nil, err
	}
	var evidence []entities.GrowthEvidence
	if s.Observations != nil {
		if evidence, err = s.Observations.Evidence(ctx, plot.ID); err != nil {
			return nil, err
		}
	}
	window := calendar.HarvestWindowFor(model, plot.PlantingDate)
	return &types.HarvestReport{
		PlotID:   plot.ID,
		Original: window,
		Estimate: climate.RefineHarvestWindow(window, evidence, plot.PlantingDate, model.DegradedPrecision),
	}, nil
}

// SweepPlots runs AdjustForWeather over many plots with bounded parallelism.
// A failing plot is reported in its result and does not stop the others.
func (s *PlanSvc) SweepPlots(ctx context.Context, ids []string) ([]types.SweepResult, error) {
	if len(ids) == 0 {
		all, err := s.Plots.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		ids = all
	}
	out := make([]types.SweepResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.SweepLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].PlotID = id
			rep, err := s.AdjustForWeather(gctx, id, nil)
			if err != nil {
				out[i].Err = err.Error()
				s.Log.Warn("sweep failed for plot", zap.String("plot_id", id), zap.Error(err))
				return nil
			}
			out[i].Changed = len(rep.Changed)
			out[i].Warnings = rep.Warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	s.Log.Info("sweep finished", zap.Int("plots", len(ids)))
	return out, nil
}
