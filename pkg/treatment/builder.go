// Package treatment expands a diagnosis treatment plan into spaced
// application events plus one follow-up effectiveness check.
package treatment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cropcal/entities"
	"cropcal/pkg/calendar"
	"cropcal/pkg/climate"
)

const (
	PracticeApplication        = "treatment_application"
	PracticeEffectivenessCheck = "effectiveness_check"

	defaultFrequencyDays = 7
)

type Input struct {
	PlotID        string
	PlantingDate  time.Time
	Plan          entities.TreatmentPlan
	DiagnosisDate time.Time
	Signal        *entities.WeatherSignal
	// Now stamps AdjustedAt on rain-shifted applications; time.Now when zero.
	Now time.Time
	// NewID mints event ids; uuid v4 when nil.
	NewID func() string
}

// Build returns the application events for every treatment in the plan,
// each moved off heavy rain, followed by a single effectiveness check.
func Build(in Input, cfg climate.Config) []entities.ScheduledEvent {
	newID := in.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	planted := entities.Day(in.PlantingDate)
	start := entities.Day(in.DiagnosisDate)
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var (
		out       []entities.ScheduledEvent
		checkDate time.Time
	)
	for ti, tr := range in.Plan.Treatments {
		total := tr.TotalApplications
		if total <= 0 {
			total = 1
		}
		freq := tr.FrequencyDays
		if freq <= 0 {
			freq = defaultFrequencyDays
		}
		for i := 0; i < total; i++ {
			nominal := start.AddDate(0, 0, i*freq)
			date, reason, moved := climate.AvoidRain(nominal, in.Signal, cfg)

			prio := tr.Priority
			if prio == "" {
				prio = entities.PriorityHigh
			}
			if i == 0 {
				prio = entities.PriorityUrgent
			}
			ev := entities.ScheduledEvent{
				ID:               newID(),
				PlotID:           in.PlotID,
				EventType:        entities.EventTreatmentApplication,
				PracticeKey:      PracticeApplication,
				Category:         entities.CategorySpraying,
				NaturalKey:       fmt.Sprintf("%s|%s|%d|%d", in.Plan.DiagnosisID, PracticeApplication, ti, i+1),
				Description:      fmt.Sprintf("Apply %s (%d of %d)", tr.Product, i+1, total),
				Priority:         prio,
				Status:           entities.StatusScheduled,
				Source:           entities.SourceDiagnosis,
				DiagnosisTrigger: in.Plan.DiagnosisID,
				TreatmentDetails: &entities.TreatmentDetails{
					Product:           tr.Product,
					ApplicationMethod: tr.ApplicationMethod,
					ApplicationNumber: i + 1,
					TotalApplications: total,
					FrequencyDays:     freq,
					BestPractices:     append([]string(nil), tr.BestPractices...),
				},
			}
			if in.Plan.Issue != "" {
				ev.Description += " for " + in.Plan.Issue
			}
			ev.SetScheduledDate(date, planted)
			if moved {
				orig := nominal
				at := now
				ev.OriginalDate = &orig
				ev.AdjustmentReason = reason
				ev.AdjustedAt = &at
				ev.Source = entities.SourceWeatherAdjusted
			}
			out = append(out, ev)

			if next := date.AddDate(0, 0, freq); next.After(checkDate) {
				checkDate = next
			}
		}
	}
	if len(out) == 0 {
		return nil
	}

	check := entities.ScheduledEvent{
		ID:               newID(),
		PlotID:           in.PlotID,
		EventType:        entities.EventPhotoReminder,
		PracticeKey:      PracticeEffectivenessCheck,
		NaturalKey:       in.Plan.DiagnosisID + "|" + PracticeEffectivenessCheck,
		Description:      "Photo check: is the treatment working?",
		Priority:         entities.PriorityModerate,
		Status:           entities.StatusScheduled,
		Source:           entities.SourceDiagnosis,
		DiagnosisTrigger: in.Plan.DiagnosisID,
	}
	if in.Plan.Issue != "" {
		check.Description = fmt.Sprintf("Photo check: is the %s treatment working?", in.Plan.Issue)
	}
	check.SetScheduledDate(checkDate, planted)
	out = append(out, check)

	calendar.SortEvents(out)
	return out
}
