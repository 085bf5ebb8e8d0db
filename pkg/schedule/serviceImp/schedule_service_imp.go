package serviceImp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cropcal/entities"
	"cropcal/pkg/calendar"
	"cropcal/pkg/climate"
	repo "cropcal/pkg/schedule/repository"
	"cropcal/pkg/schedule/service"
	"cropcal/pkg/treatment"
)

const (
	defaultUpcomingDays = 7
	supersededNote      = "superseded by regenerated calendar"
)

type schedSvc struct {
	r     repo.ScheduleRepository
	plots service.PlotSource
	cfg   climate.Config
	locks *plotLocks
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewScheduleService(r repo.ScheduleRepository, plots service.PlotSource, cfg climate.Config, log *zap.Logger) service.ScheduleService {
	return newSchedSvc(r, plots, cfg, log)
}

func newSchedSvc(r repo.ScheduleRepository, plots service.PlotSource, cfg climate.Config, log *zap.Logger) *schedSvc {
	if log == nil {
		log = zap.NewNop()
	}
	return &schedSvc{
		r:     r,
		plots: plots,
		cfg:   cfg.WithDefaults(),
		locks: newPlotLocks(),
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *schedSvc) Get(ctx context.Context, eventID string) (*entities.ScheduledEvent, error) {
	return s.r.FindByID(ctx, eventID)
}

func (s *schedSvc) Transition(ctx context.Context, eventID string, action entities.Action, p service.TransitionPayload) (*entities.ScheduledEvent, error) {
	peek, err := s.r.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(peek.PlotID)
	defer unlock()

	ev, err := s.r.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	to, err := entities.NextStatus(ev.ID, ev.Status, action)
	if err != nil {
		return nil, err
	}
	now := s.now()

	switch action {
	case entities.ActionComplete:
		done := entities.Day(now)
		ev.CompletedDate = &done
		ev.CompletionNotes = p.Notes
		ev.ActualLaborHours = p.ActualLaborHours
		if len(p.ImageRefs) > 0 {
			ev.ImageRefs = append(ev.ImageRefs, p.ImageRefs...)
		}
	case entities.ActionSkip, entities.ActionCancel:
		if p.Notes != "" {
			ev.CompletionNotes = p.Notes
		} else if p.Reason != "" {
			ev.CompletionNotes = p.Reason
		}
	case entities.ActionReschedule:
		if p.NewDate.IsZero() {
			return nil, fmt.Errorf("%w: reschedule needs a new date", entities.ErrInvalidInput)
		}
		planted := ev.PlantingDate()
		if ev.OriginalDate == nil {
			orig := ev.ScheduledDate
			ev.OriginalDate = &orig
		}
		ev.SetScheduledDate(p.NewDate, planted)
		ev.UserOverride = true
		ev.AdjustmentReason = p.Reason
		if ev.AdjustmentReason == "" {
			ev.AdjustmentReason = "Rescheduled by farmer"
		}
		ev.AdjustedAt = &now
	}
	ev.Status = to

	if err := s.r.SaveAll(ctx, []entities.ScheduledEvent{*ev}); err != nil {
		return nil, err
	}
	s.log.Info("event transition",
		zap.String("plot_id", ev.PlotID),
		zap.String("event_id", ev.ID),
		zap.String("action", string(action)),
		zap.String("status", string(ev.Status)))
	return ev, nil
}

func (s *schedSvc) InjectFromHealthSignal(ctx context.Context, sig entities.HealthSignal) (entities.InjectionResult, error) {
	if sig.PlotID == "" || sig.ObservedAt.IsZero() {
		return entities.InjectionResult{}, fmt.Errorf("%w: health signal needs plot_id and observed_at", entities.ErrInvalidInput)
	}
	plot, err := s.plots.FindByID(ctx, sig.PlotID)
	if err != nil {
		return entities.InjectionResult{}, err
	}
	planted := entities.Day(plot.PlantingDate)
	observed := entities.Day(sig.ObservedAt)

	unlock := s.locks.lock(sig.PlotID)
	defer unlock()

	var (
		res        entities.InjectionResult
		fired      int
		suppressed int
	)
	for _, tr := range healthTriggers {
		if !tr.Fires(sig) {
			continue
		}
		fired++
		key := entities.InjectionKey(sig.PlotID, tr.Type, sig.ObservedAt)
		prior, err := s.r.FindInjection(ctx, key)
		if err != nil {
			return entities.InjectionResult{}, err
		}
		if prior != nil {
			suppressed++
			s.log.Info("duplicate health trigger suppressed",
				zap.String("plot_id", sig.PlotID), zap.String("trigger", tr.Type))
			continue
		}

		ev := entities.ScheduledEvent{
			ID:                  s.newID(),
			PlotID:              sig.PlotID,
			EventType:           entities.EventUrgentPractice,
			PracticeKey:         tr.Type,
			Category:            tr.Category,
			NaturalKey:          key,
			Description:         tr.Description,
			LocalMethods:        append([]string(nil), tr.Local...),
			CommercialMethods:   append([]string(nil), tr.Commercial...),
			Priority:            tr.Priority,
			Status:              entities.StatusScheduled,
			Source:              entities.SourceHealthAnalysis,
			HealthTrigger:       tr.Type,
			EstimatedLaborHours: tr.LaborHours,
		}
		ev.SetScheduledDate(observed.AddDate(0, 0, tr.DelayDays), planted)

		rec := &entities.InjectionRecord{
			Key:         key,
			PlotID:      sig.PlotID,
			TriggerType: tr.Type,
			ObservedAt:  sig.ObservedAt.UTC(),
			EventIDs:    []string{ev.ID},
		}
		if err := s.r.InsertInjected(ctx, rec, []entities.ScheduledEvent{ev}); err != nil {
			return entities.InjectionResult{}, err
		}
		res.Events = append(res.Events, ev)
		s.log.Info("health trigger injected",
			zap.String("plot_id", sig.PlotID),
			zap.String("trigger", tr.Type),
			zap.String("event_id", ev.ID))
	}

	switch {
	case fired == 0:
		res.Reason = entities.ReasonNoTrigger
	case len(res.Events) == 0 && suppressed > 0:
		res.Suppressed = true
		res.Reason = entities.ReasonDuplicateInjection
	}
	return res, nil
}

func (s *schedSvc) InjectFromDiagnosis(ctx context.Context, plotID string, plan entities.TreatmentPlan, diagnosisDate time.Time, signal *entities.WeatherSignal) (entities.InjectionResult, error) {
	if plotID == "" || plan.DiagnosisID == "" || diagnosisDate.IsZero() {
		return entities.InjectionResult{}, fmt.Errorf("%w: diagnosis needs plot_id, diagnosis_id and date", entities.ErrInvalidInput)
	}
	plot, err := s.plots.FindByID(ctx, plotID)
	if err != nil {
		return entities.InjectionResult{}, err
	}

	unlock := s.locks.lock(plotID)
	defer unlock()

	// applications are day-granular, so one plan per day is one injection
	diagnosisDay := entities.Day(diagnosisDate)
	trigger := "diagnosis:" + plan.DiagnosisID
	key := entities.InjectionKey(plotID, trigger, diagnosisDay)
	prior, err := s.r.FindInjection(ctx, key)
	if err != nil {
		return entities.InjectionResult{}, err
	}
	if prior != nil {
		return entities.InjectionResult{Suppressed: true, Reason: entities.ReasonDuplicateInjection}, nil
	}

	evs := treatment.Build(treatment.Input{
		PlotID:        plotID,
		PlantingDate:  plot.PlantingDate,
		Plan:          plan,
		DiagnosisDate: diagnosisDay,
		Signal:        signal,
		Now:           s.now(),
		NewID:         s.newID,
	}, s.cfg)
	if len(evs) == 0 {
		return entities.InjectionResult{Reason: entities.ReasonNoTrigger}, nil
	}

	ids := make([]string, len(evs))
	for i := range evs {
		ids[i] = evs[i].ID
	}
	rec := &entities.InjectionRecord{
		Key:         key,
		PlotID:      plotID,
		TriggerType: trigger,
		ObservedAt:  diagnosisDay,
		EventIDs:    ids,
	}
	if err := s.r.InsertInjected(ctx, rec, evs); err != nil {
		return entities.InjectionResult{}, err
	}
	s.log.Info("treatment scheduled",
		zap.String("plot_id", plotID),
		zap.String("diagnosis_id", plan.DiagnosisID),
		zap.Int("events", len(evs)))
	return entities.InjectionResult{Events: evs}, nil
}

func (s *schedSvc) CancelByDiagnosis(ctx context.Context, plotID, diagnosisID, reason string) ([]entities.ScheduledEvent, error) {
	if diagnosisID == "" {
		return nil, fmt.Errorf("%w: diagnosis id is required", entities.ErrInvalidInput)
	}
	unlock := s.locks.lock(plotID)
	defer unlock()

	evs, err := s.r.List(ctx, repo.EventFilter{
		PlotIDs:          []string{plotID},
		DiagnosisTrigger: diagnosisID,
		Statuses:         []entities.EventStatus{entities.StatusScheduled, entities.StatusInProgress},
	})
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "issue resolved"
	}
	for i := range evs {
		to, err := entities.NextStatus(evs[i].ID, evs[i].Status, entities.ActionCancel)
		if err != nil {
			return nil, err
		}
		evs[i].Status = to
		evs[i].CompletionNotes = reason
	}
	if err := s.r.SaveAll(ctx, evs); err != nil {
		return nil, err
	}
	s.log.Info("diagnosis events cancelled",
		zap.String("plot_id", plotID),
		zap.String("diagnosis_id", diagnosisID),
		zap.Int("events", len(evs)))
	return evs, nil
}

func (s *schedSvc) ApplyAdjustments(ctx context.Context, plotID string, adjust service.AdjustFunc) (climate.AdjustResult, error) {
	unlock := s.locks.lock(plotID)
	defer unlock()

	evs, err := s.r.List(ctx, repo.EventFilter{
		PlotIDs:  []string{plotID},
		Statuses: []entities.EventStatus{entities.StatusScheduled},
	})
	if err != nil {
		return climate.AdjustResult{}, err
	}
	res := adjust(evs)

	changed := make(map[string]bool, len(res.Changed))
	for _, id := range res.Changed {
		changed[id] = true
	}
	var dirty []entities.ScheduledEvent
	for _, ev := range res.Events {
		if !changed[ev.ID] {
			continue
		}
		if ev.OriginalDate != nil && !ev.UserOverride {
			if shift := entities.DaysBetween(*ev.OriginalDate, ev.ScheduledDate); shift > s.cfg.MaxShiftDays || shift < -s.cfg.MaxShiftDays {
				return climate.AdjustResult{}, fmt.Errorf("event %s: shift of %d days exceeds max %d", ev.ID, shift, s.cfg.MaxShiftDays)
			}
		}
		dirty = append(dirty, ev)
	}
	if err := s.r.SaveAll(ctx, dirty); err != nil {
		return climate.AdjustResult{}, err
	}
	if len(dirty) > 0 {
		s.log.Info("weather adjustments saved", zap.String("plot_id", plotID), zap.Int("events", len(dirty)))
	}
	return res, nil
}

// MergeGenerated reconciles a freshly generated calendar with the stored one.
// Stored generated events are matched by natural key and kept as they are;
// unmatched draft events are inserted; unmatched stored ones are cancelled.
func (s *schedSvc) MergeGenerated(ctx context.Context, plotID string, draft []entities.ScheduledEvent) (service.MergeResult, error) {
	unlock := s.locks.lock(plotID)
	defer unlock()

	stored, err := s.r.List(ctx, repo.EventFilter{PlotIDs: []string{plotID}})
	if err != nil {
		return service.MergeResult{}, err
	}

	existing := map[string]bool{}
	for _, ev := range stored {
		if generated(ev) && !superseded(ev) {
			existing[ev.NaturalKey] = true
		}
	}
	wanted := map[string]bool{}
	var res service.MergeResult
	var inserts []entities.ScheduledEvent
	for _, ev := range draft {
		wanted[ev.NaturalKey] = true
		if existing[ev.NaturalKey] {
			res.Kept++
			continue
		}
		ev.PlotID = plotID
		inserts = append(inserts, ev)
	}

	var stale []entities.ScheduledEvent
	for _, ev := range stored {
		if !generated(ev) || ev.Status.Terminal() || wanted[ev.NaturalKey] {
			continue
		}
		to, err := entities.NextStatus(ev.ID, ev.Status, entities.ActionCancel)
		if err != nil {
			return service.MergeResult{}, err
		}
		ev.Status = to
		ev.CompletionNotes = supersededNote
		stale = append(stale, ev)
	}

	if err := s.r.BulkInsert(ctx, inserts); err != nil {
		return service.MergeResult{}, err
	}
	if err := s.r.SaveAll(ctx, stale); err != nil {
		return service.MergeResult{}, err
	}
	res.Inserted = len(inserts)
	res.Cancelled = len(stale)

	res.Events, err = s.r.List(ctx, repo.EventFilter{PlotIDs: []string{plotID}})
	if err != nil {
		return service.MergeResult{}, err
	}
	calendar.SortEvents(res.Events)
	s.log.Info("calendar merged",
		zap.String("plot_id", plotID),
		zap.Int("inserted", res.Inserted),
		zap.Int("kept", res.Kept),
		zap.Int("cancelled", res.Cancelled))
	return res, nil
}

// generated reports whether ev came from the calendar generator, including
// generator events later moved by weather.
func generated(ev entities.ScheduledEvent) bool {
	return ev.NaturalKey != "" && ev.OriginSource() == entities.SourceAutoGenerated &&
		(ev.Source == entities.SourceAutoGenerated || ev.Source == entities.SourceWeatherAdjusted)
}

func superseded(ev entities.ScheduledEvent) bool {
	return ev.Status == entities.StatusCancelled && ev.CompletionNotes == supersededNote
}

func (s *schedSvc) ListByPlot(ctx context.Context, plotID string) ([]entities.ScheduledEvent, error) {
	return s.r.List(ctx, repo.EventFilter{PlotIDs: []string{plotID}})
}

func (s *schedSvc) FilterByStatus(ctx context.Context, plotID string, status entities.EventStatus) ([]entities.ScheduledEvent, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidInput, status)
	}
	return s.r.List(ctx, repo.EventFilter{PlotIDs: []string{plotID}, Statuses: []entities.EventStatus{status}})
}

func (s *schedSvc) ListUpcoming(ctx context.Context, scope service.Scope, anchor time.Time, daysAhead int) (map[entities.EventType][]entities.ScheduledEvent, error) {
	var plotIDs []string
	switch {
	case scope.PlotID != "":
		plotIDs = []string{scope.PlotID}
	case scope.FarmerID != "":
		ids, err := s.plots.ListIDsByFarmer(ctx, scope.FarmerID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return map[entities.EventType][]entities.ScheduledEvent{}, nil
		}
		plotIDs = ids
	default:
		return nil, fmt.Errorf("%w: upcoming needs a plot or farmer", entities.ErrInvalidInput)
	}
	if daysAhead <= 0 {
		daysAhead = defaultUpcomingDays
	}
	if anchor.IsZero() {
		anchor = s.now()
	}
	from := entities.Day(anchor)

	evs, err := s.r.List(ctx, repo.EventFilter{
		PlotIDs:  plotIDs,
		Statuses: []entities.EventStatus{entities.StatusScheduled, entities.StatusInProgress},
		From:     from,
		To:       from.AddDate(0, 0, daysAhead),
	})
	if err != nil {
		return nil, err
	}
	out := map[entities.EventType][]entities.ScheduledEvent{}
	for _, ev := range evs {
		out[ev.EventType] = append(out[ev.EventType], ev)
	}
	return out, nil
}
