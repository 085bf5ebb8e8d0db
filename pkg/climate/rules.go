// Package climate moves scheduled events around forecast rain and refines
// harvest windows from growth evidence. Both passes are pure over their inputs.
package climate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"cropcal/entities"
)

// RuleContext is everything a rule may look at for one event.
type RuleContext struct {
	Event        entities.ScheduledEvent
	Category     entities.PracticeCategory
	Base         time.Time
	PlantingDate time.Time
	Reference    time.Time
	Rain         map[time.Time]float64
	Drainage     string
	Config       Config
}

// Decision is a rule's verdict. Date equal to the context's Base means no move.
type Decision struct {
	Rule         string
	Date         time.Time
	Reason       string
	LeachingRisk *float64
}

// Rule is one predicate/action pair of the strategy table.
type Rule struct {
	Name  string
	Apply func(RuleContext) (Decision, bool)
}

// DefaultRules is the ordered table; the first rule that applies wins.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "rain_avoidance", Apply: rainAvoidance},
		{Name: "leaching_avoidance", Apply: leachingAvoidance},
		{Name: "unchanged", Apply: func(c RuleContext) (Decision, bool) {
			return Decision{Rule: "unchanged", Date: c.Base}, true
		}},
	}
}

type AdjustOptions struct {
	PlantingDate  time.Time
	DrainageClass string
	Now           time.Time
}

type AdjustResult struct {
	Events   []entities.ScheduledEvent `json:"events"`
	Changed  []string                  `json:"changed"`
	Warnings []entities.Warning        `json:"warnings,omitempty"`
}

type Adjuster struct {
	cfg   Config
	rules []Rule
	log   *zap.Logger
}

func NewAdjuster(cfg Config, log *zap.Logger) *Adjuster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adjuster{cfg: cfg.WithDefaults(), rules: DefaultRules(), log: log}
}

func (a *Adjuster) Config() Config { return a.cfg }

// WithRules returns a copy of the adjuster using a different rule table.
func (a *Adjuster) WithRules(rules []Rule) *Adjuster {
	cp := *a
	cp.rules = append([]Rule(nil), rules...)
	return &cp
}

// Adjust runs the date-shift pass. Rules always reason from an event's base
// date, so running Adjust again with the same signal changes nothing.
func (a *Adjuster) Adjust(events []entities.ScheduledEvent, signal *entities.WeatherSignal, opts AdjustOptions) AdjustResult {
	out := AdjustResult{Events: make([]entities.ScheduledEvent, len(events))}
	copy(out.Events, events)

	if signal == nil {
		out.Warnings = append(out.Warnings, entities.Warning{
			Code:    entities.WarnWeatherUnavailable,
			Message: "no weather signal; dates left unchanged",
		})
		return out
	}
	if err := signal.Validate(); err != nil {
		out.Warnings = append(out.Warnings, entities.Warning{
			Code:    entities.WarnWeatherMalformed,
			Message: "weather signal rejected: " + err.Error(),
		})
		return out
	}

	drainage := opts.DrainageClass
	if drainage == "" {
		drainage = a.cfg.DefaultDrainageClass
	}
	resolved, known := ResolveDrainage(drainage)
	if !known {
		out.Warnings = append(out.Warnings, entities.Warning{
			Code:    entities.WarnDrainageUnknown,
			Message: fmt.Sprintf("drainage class %q not recognised; using %s", drainage, resolved),
		})
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	rain := signal.RainByDay()
	ref := signal.Reference()

	for i := range out.Events {
		ev := &out.Events[i]
		if ev.Status != entities.StatusScheduled || ev.UserOverride {
			continue
		}
		planted := opts.PlantingDate
		if planted.IsZero() {
			planted = ev.PlantingDate()
		}
		planted = entities.Day(planted)

		ctx := RuleContext{
			Event:        *ev,
			Category:     ev.PracticeCategory(),
			Base:         ev.BaseDate(),
			PlantingDate: planted,
			Reference:    ref,
			Rain:         rain,
			Drainage:     resolved,
			Config:       a.cfg,
		}
		dec := a.decide(ctx)
		if a.apply(ev, ctx, dec, now) {
			out.Changed = append(out.Changed, ev.ID)
			a.log.Debug("event adjusted",
				zap.String("event_id", ev.ID),
				zap.String("rule", dec.Rule),
				zap.Time("date", ev.ScheduledDate))
		}
	}
	return out
}

func (a *Adjuster) decide(ctx RuleContext) Decision {
	for _, r := range a.rules {
		if d, ok := r.Apply(ctx); ok {
			if d.Rule == "" {
				d.Rule = r.Name
			}
			return d
		}
	}
	return Decision{Rule: "unchanged", Date: ctx.Base}
}

// apply writes a decision onto ev and reports whether anything changed.
func (a *Adjuster) apply(ev *entities.ScheduledEvent, ctx RuleContext, dec Decision, now time.Time) bool {
	target := clampShift(entities.Day(dec.Date), ctx.Base, a.cfg.MaxShiftDays)
	changed := !sameRisk(ev.LeachingRisk, dec.LeachingRisk)
	ev.LeachingRisk = dec.LeachingRisk

	if target.Equal(ctx.Base) {
		if ev.OriginalDate == nil {
			return changed
		}
		ev.SetScheduledDate(ctx.Base, ctx.PlantingDate)
		ev.OriginalDate = nil
		ev.Source = ev.OriginSource()
		ev.AdjustmentReason = ""
		ev.AdjustedAt = &now
		return true
	}

	if ev.ScheduledDate.Equal(target) && ev.AdjustmentReason == dec.Reason {
		return changed
	}
	if ev.OriginalDate == nil {
		base := ctx.Base
		ev.OriginalDate = &base
	}
	ev.SetScheduledDate(target, ctx.PlantingDate)
	ev.Source = entities.SourceWeatherAdjusted
	ev.AdjustmentReason = dec.Reason
	ev.AdjustedAt = &now
	return true
}

func clampShift(d, base time.Time, maxShift int) time.Time {
	n := entities.DaysBetween(base, d)
	if n > maxShift {
		return base.AddDate(0, 0, maxShift)
	}
	if n < -maxShift {
		return base.AddDate(0, 0, -maxShift)
	}
	return d
}

func sameRisk(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// heavyRun finds the run of heavy-rain days touching date-1..date+1 that ends
// on or after date. ok is false when there is none.
func heavyRun(date time.Time, rain map[time.Time]float64, threshold float64) (start, end time.Time, ok bool) {
	heavy := func(d time.Time) bool { return rain[d] >= threshold }
	for off := -1; off <= 1; off++ {
		d := date.AddDate(0, 0, off)
		if !heavy(d) {
			continue
		}
		start, end = d, d
		for heavy(end.AddDate(0, 0, 1)) {
			end = end.AddDate(0, 0, 1)
		}
		if !end.Before(date) {
			return start, end, true
		}
	}
	return time.Time{}, time.Time{}, false
}

func rainAvoidance(c RuleContext) (Decision, bool) {
	if !c.Category.MoistureSensitive() {
		return Decision{}, false
	}
	start, end, ok := heavyRun(c.Base, c.Rain, c.Config.HeavyRainMm)
	if !ok {
		return Decision{}, false
	}
	target := end.AddDate(0, 0, 1)
	reason := fmt.Sprintf("Heavy rain forecast %s; moved %s to %s",
		spanLabel(start, end), c.Category, target.Format(entities.DateLayout))
	if entities.DaysBetween(c.Base, target) > c.Config.MaxShiftDays {
		target = c.Base.AddDate(0, 0, c.Config.MaxShiftDays)
		reason = fmt.Sprintf("Heavy rain forecast %s; moved %s by the maximum %d days to %s",
			spanLabel(start, end), c.Category, c.Config.MaxShiftDays, target.Format(entities.DateLayout))
	}
	return Decision{Rule: "rain_avoidance", Date: target, Reason: reason}, true
}

func leachingAvoidance(c RuleContext) (Decision, bool) {
	if c.Category != entities.CategoryFertilizer {
		return Decision{}, false
	}
	k := c.Config.LeachingWindowDays
	j, mm := -1, 0.0
	for off := 0; off < k; off++ {
		if r := c.Rain[c.Base.AddDate(0, 0, off)]; r >= c.Config.LeachingRainMm {
			j, mm = off, r
			break
		}
	}
	if j < 0 {
		return Decision{}, false
	}
	rainDay := c.Base.AddDate(0, 0, j)

	shift := min(k-1, k-j, c.Config.MaxShiftDays)
	floor := c.PlantingDate
	if c.Reference.After(floor) {
		floor = c.Reference
	}
	if room := entities.DaysBetween(floor, c.Base); shift > room {
		shift = max(room, 0)
	}
	target := c.Base.AddDate(0, 0, -shift)
	risk := LeachingRiskScore(mm, j+shift, c.Drainage, k)

	if shift == 0 {
		return Decision{Rule: "leaching_avoidance", Date: c.Base, LeachingRisk: &risk}, true
	}
	reason := fmt.Sprintf("%.0fmm rain forecast on %s would leach fertilizer; moved %d days earlier to %s (residual risk %.2f)",
		mm, rainDay.Format(entities.DateLayout), shift, target.Format(entities.DateLayout), risk)
	return Decision{Rule: "leaching_avoidance", Date: target, Reason: reason, LeachingRisk: &risk}, true
}

// AvoidRain moves date past any heavy-rain run on or next to it, never by more
// than the configured maximum. A nil or invalid signal leaves date as is.
func AvoidRain(date time.Time, signal *entities.WeatherSignal, cfg Config) (time.Time, string, bool) {
	date = entities.Day(date)
	if signal == nil || signal.Validate() != nil {
		return date, "", false
	}
	cfg = cfg.WithDefaults()
	dec, ok := rainAvoidance(RuleContext{
		Category: entities.CategorySpraying,
		Base:     date,
		Rain:     signal.RainByDay(),
		Config:   cfg,
	})
	if !ok {
		return date, "", false
	}
	return clampShift(dec.Date, date, cfg.MaxShiftDays), dec.Reason, true
}

func spanLabel(start, end time.Time) string {
	if start.Equal(end) {
		return "on " + start.Format(entities.DateLayout)
	}
	return "from " + start.Format(entities.DateLayout) + " to " + end.Format(entities.DateLayout)
}
