package climate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcal/entities"
)

var (
	planted = day("2025-10-24")
	now     = time.Date(2025, 11, 10, 6, 0, 0, 0, time.UTC)
)

func day(s string) time.Time {
	d, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func practice(id, key string, cat entities.PracticeCategory, dap int) entities.ScheduledEvent {
	ev := entities.ScheduledEvent{
		ID:          id,
		PlotID:      "plot-1",
		EventType:   entities.EventFarmPractice,
		PracticeKey: key,
		Category:    cat,
		Status:      entities.StatusScheduled,
		Source:      entities.SourceAutoGenerated,
	}
	ev.SetScheduledDate(planted.AddDate(0, 0, dap), planted)
	return ev
}

// signal builds a forecast starting at ref with one entry per rain value.
func signal(ref string, rain ...float64) *entities.WeatherSignal {
	start := day(ref)
	s := &entities.WeatherSignal{ReferenceDate: start}
	for i, mm := range rain {
		s.Forecast = append(s.Forecast, entities.ForecastDay{Date: start.AddDate(0, 0, i), RainMm: mm})
	}
	return s
}

func opts() AdjustOptions {
	return AdjustOptions{PlantingDate: planted, DrainageClass: DrainageModerate, Now: now}
}

func TestAdjust_RainAvoidanceMovesPastRun(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	weeding := practice("e1", "first_weeding", entities.CategoryWeeding, 20)
	// 11-10 .. 11-16, heavy on 13 and 14
	sig := signal("2025-11-10", 0, 2, 5, 25, 22, 3, 0)

	res := a.Adjust([]entities.ScheduledEvent{weeding}, sig, opts())
	require.Len(t, res.Events, 1)
	got := res.Events[0]

	assert.Equal(t, day("2025-11-15"), got.ScheduledDate)
	assert.Equal(t, 22, got.DaysAfterPlanting)
	require.NotNil(t, got.OriginalDate)
	assert.Equal(t, day("2025-11-13"), *got.OriginalDate)
	assert.Equal(t, entities.SourceWeatherAdjusted, got.Source)
	assert.Contains(t, got.AdjustmentReason, "rain")
	require.NotNil(t, got.AdjustedAt)
	assert.Equal(t, []string{"e1"}, res.Changed)
	assert.Empty(t, res.Warnings)

	// input slice is not modified
	assert.Equal(t, day("2025-11-13"), weeding.ScheduledDate)
}

func TestAdjust_RainOnDayBeforeOnlyDoesNotMove(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	ev := practice("e1", "first_weeding", entities.CategoryWeeding, 20)
	sig := signal("2025-11-10", 0, 0, 30, 0, 0)

	res := a.Adjust([]entities.ScheduledEvent{ev}, sig, opts())
	assert.Equal(t, day("2025-11-13"), res.Events[0].ScheduledDate)
	assert.Empty(t, res.Changed)
}

func TestAdjust_NonSensitivePracticeIgnoresRain(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	ev := practice("e1", "pest_scouting", entities.CategoryScouting, 20)
	res := a.Adjust([]entities.ScheduledEvent{ev}, signal("2025-11-10", 0, 0, 0, 50, 50), opts())
	assert.Equal(t, ev, res.Events[0])
}

func TestAdjust_Idempotent(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	events := []entities.ScheduledEvent{
		practice("w", "first_weeding", entities.CategoryWeeding, 20),
		practice("f", "top_dressing", entities.CategoryFertilizer, 23),
		practice("s", "pest_scouting", entities.CategoryScouting, 21),
	}
	sig := signal("2025-11-10", 0, 2, 5, 25, 22, 14, 0)

	first := a.Adjust(events, sig, opts())
	later := opts()
	later.Now = now.Add(24 * time.Hour)
	second := a.Adjust(first.Events, sig, later)

	if diff := cmp.Diff(first.Events, second.Events); diff != "" {
		t.Fatalf("second pass changed events:\n%s", diff)
	}
	assert.Empty(t, second.Changed)
}

func TestAdjust_RevertsWhenRainClears(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	ev := practice("e1", "first_weeding", entities.CategoryWeeding, 20)
	wet := a.Adjust([]entities.ScheduledEvent{ev}, signal("2025-11-10", 0, 0, 0, 25, 25), opts())
	require.Equal(t, day("2025-11-15"), wet.Events[0].ScheduledDate)

	dry := a.Adjust(wet.Events, signal("2025-11-11", 0, 0, 1, 1, 0), opts())
	got := dry.Events[0]
	assert.Equal(t, day("2025-11-13"), got.ScheduledDate)
	assert.Equal(t, 20, got.DaysAfterPlanting)
	assert.Nil(t, got.OriginalDate)
	assert.Equal(t, entities.SourceAutoGenerated, got.Source)
	assert.Empty(t, got.AdjustmentReason)
	assert.Equal(t, []string{"e1"}, dry.Changed)
}

func TestAdjust_MaxShiftCap(t *testing.T) {
	a := NewAdjuster(Config{MaxShiftDays: 3}, nil)
	ev := practice("e1", "first_weeding", entities.CategoryWeeding, 20)
	sig := signal("2025-11-12", 30, 30, 30, 30, 30, 30, 30, 30)

	got := a.Adjust([]entities.ScheduledEvent{ev}, sig, opts()).Events[0]
	assert.Equal(t, day("2025-11-16"), got.ScheduledDate)
	assert.Contains(t, got.AdjustmentReason, "maximum 3 days")
}

func TestAdjust_MaxShiftBoundProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := DefaultConfig()
	a := NewAdjuster(cfg, nil)
	cats := []entities.PracticeCategory{entities.CategoryWeeding, entities.CategoryFertilizer, entities.CategorySpraying, entities.CategoryEarthingUp}

	for round := 0; round < 200; round++ {
		rain := make([]float64, 21)
		for i := range rain {
			if rng.Intn(3) == 0 {
				rain[i] = rng.Float64() * 60
			}
		}
		sig := signal("2025-11-05", rain...)
		var events []entities.ScheduledEvent
		for i := 0; i < 8; i++ {
			events = append(events, practice(string(rune('a'+i)), "p", cats[rng.Intn(len(cats))], 12+rng.Intn(20)))
		}
		res := a.Adjust(events, sig, opts())
		for _, ev := range res.Events {
			if ev.OriginalDate == nil {
				continue
			}
			shift := entities.DaysBetween(*ev.OriginalDate, ev.ScheduledDate)
			assert.LessOrEqual(t, shift, cfg.MaxShiftDays)
			assert.GreaterOrEqual(t, shift, -cfg.MaxShiftDays)
			assert.Equal(t, entities.DaysBetween(planted, ev.ScheduledDate), ev.DaysAfterPlanting)
		}
	}
}

func TestAdjust_LeachingMovesFertilizerEarlier(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	ev := practice("f", "top_dressing", entities.CategoryFertilizer, 35) // 2025-11-28
	sig := signal("2025-11-25", 0, 0, 0, 15, 0)

	got := a.Adjust([]entities.ScheduledEvent{ev}, sig, opts()).Events[0]
	assert.Equal(t, day("2025-11-26"), got.ScheduledDate)
	require.NotNil(t, got.LeachingRisk)
	assert.InDelta(t, LeachingRiskScore(15, 2, DrainageModerate, 3), *got.LeachingRisk, 1e-9)
	assert.Contains(t, got.AdjustmentReason, "rain")
	assert.Equal(t, entities.SourceWeatherAdjusted, got.Source)
}

func TestAdjust_LeachingNeverBeforeReference(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	ev := practice("f", "top_dressing", entities.CategoryFertilizer, 35)
	sig := signal("2025-11-28", 15, 0, 0)

	res := a.Adjust([]entities.ScheduledEvent{ev}, sig, opts())
	got := res.Events[0]
	assert.Equal(t, day("2025-11-28"), got.ScheduledDate)
	assert.Nil(t, got.OriginalDate)
	require.NotNil(t, got.LeachingRisk)
	assert.Greater(t, *got.LeachingRisk, 0.0)
	assert.Equal(t, []string{"f"}, res.Changed)
}

func TestAdjust_SkipsTerminalAndOverridden(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	done := practice("d", "first_weeding", entities.CategoryWeeding, 20)
	done.Status = entities.StatusCompleted
	pinned := practice("p", "first_weeding", entities.CategoryWeeding, 20)
	pinned.UserOverride = true

	in := []entities.ScheduledEvent{done, pinned}
	res := a.Adjust(in, signal("2025-11-12", 30, 30), opts())
	assert.Equal(t, in, res.Events)
	assert.Empty(t, res.Changed)
}

func TestAdjust_DegradedSignals(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	in := []entities.ScheduledEvent{practice("e1", "first_weeding", entities.CategoryWeeding, 20)}

	res := a.Adjust(in, nil, opts())
	assert.Equal(t, in, res.Events)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, entities.WarnWeatherUnavailable, res.Warnings[0].Code)

	bad := signal("2025-11-12", 30, -4)
	res = a.Adjust(in, bad, opts())
	assert.Equal(t, in, res.Events)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, entities.WarnWeatherMalformed, res.Warnings[0].Code)

	res = a.Adjust(in, &entities.WeatherSignal{}, opts())
	assert.Equal(t, entities.WarnWeatherMalformed, res.Warnings[0].Code)
}

func TestAdjust_UnknownDrainageWarns(t *testing.T) {
	a := NewAdjuster(DefaultConfig(), nil)
	o := opts()
	o.DrainageClass = "swampy"
	res := a.Adjust(nil, signal("2025-11-12", 0), o)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, entities.WarnDrainageUnknown, res.Warnings[0].Code)
}

func TestAdjust_CustomRuleTable(t *testing.T) {
	always := Rule{Name: "always_tomorrow", Apply: func(c RuleContext) (Decision, bool) {
		return Decision{Date: c.Base.AddDate(0, 0, 1), Reason: "test"}, true
	}}
	a := NewAdjuster(DefaultConfig(), nil).WithRules([]Rule{always})
	ev := practice("e1", "gap_filling", entities.CategoryOther, 10)
	got := a.Adjust([]entities.ScheduledEvent{ev}, signal("2025-11-01", 0), opts()).Events[0]
	assert.Equal(t, day("2025-11-04"), got.ScheduledDate)
}

func TestLeachingRiskScore_MonotonicInRain(t *testing.T) {
	for _, drainage := range []string{DrainagePoor, DrainageImperfect, DrainageModerate, DrainageWell, DrainageExcessive, "unknown"} {
		for days := 0; days < 3; days++ {
			prev := -1.0
			for mm := 0.0; mm <= 300; mm += 2.5 {
				s := LeachingRiskScore(mm, days, drainage, 3)
				assert.GreaterOrEqual(t, s, prev, "drainage=%s days=%d mm=%v", drainage, days, mm)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
				prev = s
			}
		}
	}
}

func TestLeachingRiskScore_Shape(t *testing.T) {
	assert.Zero(t, LeachingRiskScore(40, 3, DrainageModerate, 3))
	assert.Zero(t, LeachingRiskScore(0, 0, DrainageModerate, 3))
	assert.Greater(t, LeachingRiskScore(30, 0, DrainageModerate, 3), LeachingRiskScore(30, 2, DrainageModerate, 3))
	assert.Greater(t, LeachingRiskScore(30, 0, DrainageWell, 3), LeachingRiskScore(30, 0, DrainagePoor, 3))
	assert.Equal(t, LeachingRiskScore(30, 1, DrainageModerate, 3), LeachingRiskScore(30, 1, "mystery", 3))
}

func TestResolveDrainage(t *testing.T) {
	cases := map[string]string{
		"Well drained":            DrainageWell,
		"poorly drained":          DrainagePoor,
		"somewhat poorly drained": DrainageImperfect,
		"excessively drained":     DrainageExcessive,
		"moderately well drained": DrainageModerate,
		"imperfect":               DrainageImperfect,
	}
	for in, want := range cases {
		got, ok := ResolveDrainage(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, ok := ResolveDrainage("clay pan")
	assert.False(t, ok)
	assert.Equal(t, DrainageModerate, got)
}

func TestAvoidRain(t *testing.T) {
	cfg := DefaultConfig()
	sig := signal("2025-01-01", 0, 0, 0, 0, 0, 0, 0, 30, 0)

	d, reason, moved := AvoidRain(day("2025-01-08"), sig, cfg)
	assert.True(t, moved)
	assert.Equal(t, day("2025-01-09"), d)
	assert.Contains(t, reason, "rain")

	d, _, moved = AvoidRain(day("2025-01-03"), sig, cfg)
	assert.False(t, moved)
	assert.Equal(t, day("2025-01-03"), d)

	d, _, moved = AvoidRain(day("2025-01-08"), nil, cfg)
	assert.False(t, moved)
	assert.Equal(t, day("2025-01-08"), d)
}

func TestDefaultRules_Order(t *testing.T) {
	var names []string
	for _, r := range DefaultRules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"rain_avoidance", "leaching_avoidance", "unchanged"}, names)
}
