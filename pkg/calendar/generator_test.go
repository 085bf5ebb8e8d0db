package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcal/entities"
	"cropcal/pkg/growth"
)

var nairobi = entities.Location{Lat: -1.29, Lon: 36.82}

func day(s string) time.Time {
	d, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func maizeH614(t *testing.T) entities.GrowthModel {
	t.Helper()
	m, err := growth.Default(nil).Lookup("Maize", "H614")
	require.NoError(t, err)
	return m
}

func find(evs []entities.ScheduledEvent, key string) *entities.ScheduledEvent {
	for i := range evs {
		if evs[i].PracticeKey == key {
			return &evs[i]
		}
	}
	return nil
}

func TestGenerate_Deterministic(t *testing.T) {
	m := maizeH614(t)
	soil := &entities.SoilSummary{Fertility: entities.FertilityLow, DrainageClass: "well", Recommendation: "Add 2 t/acre manure"}

	a := Generate(m, day("2025-10-24"), nairobi, soil, Options{PlotID: "p1"})
	b := Generate(m, day("2025-10-24"), nairobi, soil, Options{PlotID: "p1"})

	ignore := cmpopts.IgnoreFields(entities.ScheduledEvent{}, "ID", "CreatedAt", "UpdatedAt")
	if diff := cmp.Diff(a.Events, b.Events, ignore); diff != "" {
		t.Fatalf("regeneration differs (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.Harvest, b.Harvest)
	assert.NotEqual(t, a.Events[0].ID, b.Events[0].ID)
}

func TestGenerate_OffsetCorrectness(t *testing.T) {
	m := maizeH614(t)
	planted := day("2025-10-24")
	d := Generate(m, planted, nairobi, nil, Options{PlotID: "p1"})

	for key, p := range m.CriticalPractices {
		ev := find(d.Events, key)
		require.NotNil(t, ev, key)
		assert.Equal(t, planted.AddDate(0, 0, p.DayOffset), ev.ScheduledDate, key)
		assert.Equal(t, p.DayOffset, ev.DaysAfterPlanting, key)
		assert.Equal(t, entities.EventFarmPractice, ev.EventType)
		assert.Equal(t, entities.StatusScheduled, ev.Status)
		assert.Equal(t, entities.SourceAutoGenerated, ev.Source)
		assert.Nil(t, ev.OriginalDate)
	}

	weeding := find(d.Events, "first_weeding")
	assert.Equal(t, day("2025-11-13"), weeding.ScheduledDate)
}

func TestGenerate_HarvestWindow(t *testing.T) {
	d := Generate(maizeH614(t), day("2025-10-24"), nairobi, nil, Options{})

	assert.Equal(t, day("2026-02-11"), d.Harvest.Earliest)
	assert.Equal(t, day("2026-02-21"), d.Harvest.Target)
	assert.Equal(t, day("2026-03-03"), d.Harvest.Latest)

	open := find(d.Events, PracticeHarvestOpen)
	target := find(d.Events, PracticeHarvestTarget)
	closing := find(d.Events, PracticeHarvestClose)
	require.NotNil(t, open)
	require.NotNil(t, target)
	require.NotNil(t, closing)
	assert.GreaterOrEqual(t, open.DaysAfterPlanting, 110)
	assert.LessOrEqual(t, closing.DaysAfterPlanting, 130)
	assert.Equal(t, 120, target.DaysAfterPlanting)
}

func TestGenerate_PhotoReminders(t *testing.T) {
	d := Generate(maizeH614(t), day("2025-10-24"), nairobi, nil, Options{})

	var days []int
	for _, ev := range d.Events {
		if ev.EventType == entities.EventPhotoReminder {
			days = append(days, ev.DaysAfterPlanting)
		}
	}
	// boundaries 10, 50, 70, 105, 120; majors at 50, 70, 105 add -14/-7
	assert.Equal(t, []int{10, 36, 43, 50, 56, 63, 70, 91, 98, 105, 120}, days)
}

func TestGenerate_PhotoBoundaryWinsCollision(t *testing.T) {
	m := entities.GrowthModel{
		Crop:         "test",
		MaturityDays: 40,
		Stages: []entities.GrowthStage{
			{Name: "a", StartDay: 0, EndDay: 13},
			{Name: "b", StartDay: 13, EndDay: 20},
			{Name: "c", StartDay: 20, EndDay: 40, Major: true},
		},
	}
	d := Generate(m, day("2025-01-01"), nairobi, nil, Options{})
	var labels []string
	for _, ev := range d.Events {
		if ev.EventType == entities.EventPhotoReminder {
			labels = append(labels, fmt.Sprintf("%d:%s", ev.DaysAfterPlanting, ev.Description))
		}
	}
	assert.Equal(t, []string{
		"6:Photo check-in: two weeks before c",
		"13:Photo check-in: start of b",
		"20:Photo check-in: start of c",
		"40:Photo check-in: end of c",
	}, labels)
}

func TestGenerate_LowFertilityRaisesFertilizer(t *testing.T) {
	m := maizeH614(t)
	soil := &entities.SoilSummary{Fertility: entities.FertilityLow, Recommendation: "Add lime"}
	d := Generate(m, day("2025-10-24"), nairobi, soil, Options{})

	top := find(d.Events, "top_dressing")
	require.NotNil(t, top)
	assert.Equal(t, entities.PriorityUrgent, top.Priority)
	assert.Contains(t, top.Description, "Soil test: low fertility. Add lime")

	weeding := find(d.Events, "first_weeding")
	assert.Equal(t, entities.PriorityHigh, weeding.Priority)
	assert.NotContains(t, weeding.Description, "Soil test")
}

func TestGenerate_Warnings(t *testing.T) {
	m, err := growth.Default(nil).Lookup("maize", "unknown-hybrid")
	require.NoError(t, err)

	d := Generate(m, day("2025-10-24"), entities.Location{Lat: 120}, nil, Options{})
	codes := map[string]bool{}
	for _, w := range d.Warnings {
		codes[w.Code] = true
	}
	assert.True(t, codes[entities.WarnVarietyFallback])
	assert.True(t, codes[entities.WarnSoilMissing])
	assert.True(t, codes[entities.WarnLocationInvalid])
}

func TestGenerate_SortedAndKeyed(t *testing.T) {
	d := Generate(maizeH614(t), day("2025-10-24"), nairobi, nil, Options{PlotID: "p9"})
	seen := map[string]bool{}
	for i, ev := range d.Events {
		if i > 0 {
			assert.False(t, ev.ScheduledDate.Before(d.Events[i-1].ScheduledDate))
		}
		assert.False(t, seen[ev.NaturalKey], "duplicate natural key %s", ev.NaturalKey)
		seen[ev.NaturalKey] = true
		assert.Equal(t, "p9", ev.PlotID)
	}
}
