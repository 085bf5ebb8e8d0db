// Package calendar turns a growth model and a planting date into a draft
// season calendar. Generation is pure: identical inputs give identical events
// apart from ids.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cropcal/entities"
)

const (
	PracticeHarvestOpen   = "harvest_window_open"
	PracticeHarvestTarget = "harvest_target"
	PracticeHarvestClose  = "harvest_window_close"
	PracticePhotoCheckIn  = "photo_checkin"

	photoLaborHours = 0.25
)

type Options struct {
	PlotID string
	// NewID mints event ids; uuid v4 when nil.
	NewID func() string
}

type Draft struct {
	Events   []entities.ScheduledEvent `json:"events"`
	Harvest  entities.HarvestWindow    `json:"harvest"`
	Warnings []entities.Warning        `json:"warnings,omitempty"`
}

// Generate builds the draft calendar for one plot.
func Generate(model entities.GrowthModel, plantingDate time.Time, loc entities.Location, soil *entities.SoilSummary, opts Options) Draft {
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	planted := entities.Day(plantingDate)
	var d Draft

	if model.DegradedPrecision {
		d.Warnings = append(d.Warnings, entities.Warning{
			Code:    entities.WarnVarietyFallback,
			Message: fmt.Sprintf("variety %q not catalogued; using generic %s model", model.Variety, model.Crop),
		})
	}
	if soil == nil {
		d.Warnings = append(d.Warnings, entities.Warning{
			Code:    entities.WarnSoilMissing,
			Message: "no soil analysis; fertilizer priorities use catalog defaults",
		})
	}
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
		d.Warnings = append(d.Warnings, entities.Warning{
			Code:    entities.WarnLocationInvalid,
			Message: fmt.Sprintf("location %.4f,%.4f is out of range; weather lookups will fail", loc.Lat, loc.Lon),
		})
	}

	mk := func(t entities.EventType, key string, dap int) entities.ScheduledEvent {
		ev := entities.ScheduledEvent{
			ID:          newID(),
			PlotID:      opts.PlotID,
			EventType:   t,
			PracticeKey: key,
			NaturalKey:  NaturalKey(t, key, dap),
			Status:      entities.StatusScheduled,
			Source:      entities.SourceAutoGenerated,
		}
		ev.SetScheduledDate(planted.AddDate(0, 0, dap), planted)
		return ev
	}

	keys := make([]string, 0, len(model.CriticalPractices))
	for k := range model.CriticalPractices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p := model.CriticalPractices[k]
		ev := mk(entities.EventFarmPractice, k, p.DayOffset)
		ev.Category = p.CategoryOf(k)
		ev.Description = p.Description
		if ev.Description == "" {
			ev.Description = humanize(k)
		}
		ev.LocalMethods = append([]string(nil), p.LocalMethods...)
		ev.CommercialMethods = append([]string(nil), p.CommercialMethods...)
		ev.EstimatedLaborHours = p.LaborHoursEstimate
		ev.Priority = p.Priority
		if ev.Priority == "" {
			ev.Priority = entities.PriorityModerate
		}
		if soil != nil && soil.Fertility == entities.FertilityLow && ev.Category == entities.CategoryFertilizer {
			ev.Priority = ev.Priority.Raise()
			note := "Soil test: low fertility."
			if soil.Recommendation != "" {
				note += " " + soil.Recommendation
			}
			ev.Description += ". " + note
		}
		d.Events = append(d.Events, ev)
	}

	for _, r := range photoReminders(model) {
		ev := mk(entities.EventPhotoReminder, PracticePhotoCheckIn, r.day)
		ev.Description = "Photo check-in: " + r.label
		ev.Priority = entities.PriorityLow
		ev.EstimatedLaborHours = photoLaborHours
		d.Events = append(d.Events, ev)
	}

	d.Harvest = HarvestWindowFor(model, planted)
	harvest := []struct {
		key  string
		day  int
		desc string
		prio entities.Priority
	}{
		{PracticeHarvestOpen, model.MaturityDays - model.HarvestToleranceDays, "Harvest window opens", entities.PriorityModerate},
		{PracticeHarvestTarget, model.MaturityDays, "Target harvest date", entities.PriorityHigh},
		{PracticeHarvestClose, model.MaturityDays + model.HarvestToleranceDays, "Harvest window closes", entities.PriorityModerate},
	}
	for _, h := range harvest {
		ev := mk(entities.EventFarmPractice, h.key, h.day)
		ev.Category = entities.CategoryHarvest
		ev.Description = h.desc
		ev.Priority = h.prio
		d.Events = append(d.Events, ev)
	}

	SortEvents(d.Events)
	return d
}

// HarvestWindowFor is plantingDate + maturityDays ± tolerance.
func HarvestWindowFor(model entities.GrowthModel, plantingDate time.Time) entities.HarvestWindow {
	planted := entities.Day(plantingDate)
	return entities.HarvestWindow{
		Earliest: planted.AddDate(0, 0, model.MaturityDays-model.HarvestToleranceDays),
		Target:   planted.AddDate(0, 0, model.MaturityDays),
		Latest:   planted.AddDate(0, 0, model.MaturityDays+model.HarvestToleranceDays),
	}
}

// NaturalKey identifies a generated event independent of its id, so a
// regenerated calendar can be matched against a persisted one.
func NaturalKey(t entities.EventType, practiceKey string, dap int) string {
	return fmt.Sprintf("%s|%s|%d", t, practiceKey, dap)
}

// SortEvents orders by date, then type, then practice key.
func SortEvents(evs []entities.ScheduledEvent) {
	sort.SliceStable(evs, func(i, j int) bool {
		a, b := evs[i], evs[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.Before(b.ScheduledDate)
		}
		if a.EventType != b.EventType {
			return a.EventType < b.EventType
		}
		if a.PracticeKey != b.PracticeKey {
			return a.PracticeKey < b.PracticeKey
		}
		return a.NaturalKey < b.NaturalKey
	})
}

type reminder struct {
	day   int
	label string
}

// photoReminders yields one reminder per stage boundary plus weekly reminders
// in the two weeks before each major boundary. Boundaries win day collisions.
func photoReminders(model entities.GrowthModel) []reminder {
	byDay := map[int]reminder{}
	boundary := map[int]bool{}
	add := func(day int, label string, isBoundary bool) {
		if day <= 0 {
			return
		}
		if _, taken := byDay[day]; taken && (boundary[day] || !isBoundary) {
			return
		}
		byDay[day] = reminder{day: day, label: label}
		if isBoundary {
			boundary[day] = true
		}
	}

	for i, st := range model.Stages {
		name := strings.ReplaceAll(st.Name, "_", " ")
		add(st.StartDay, "start of "+name, true)
		if st.Major {
			add(st.StartDay-14, "two weeks before "+name, false)
			add(st.StartDay-7, "one week before "+name, false)
		}
		if i == len(model.Stages)-1 {
			add(st.EndDay, "end of "+name, true)
		}
	}

	out := make([]reminder, 0, len(byDay))
	for _, r := range byDay {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].day < out[j].day })
	return out
}

func humanize(key string) string {
	s := strings.ReplaceAll(strings.TrimSpace(key), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
