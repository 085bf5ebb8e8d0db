package climate

import (
	"math"
	"sort"
	"time"

	"cropcal/entities"
)

const (
	baseConfidence       = 0.5
	evidenceConfidence   = 0.4
	degradedPenalty      = 0.2
	noEvidenceConfidence = 0.3
	decliningPullDays    = 2
)

type HarvestEstimate struct {
	Window     entities.HarvestWindow `json:"window"`
	Confidence float64                `json:"confidence"`
	Warnings   []entities.Warning     `json:"warnings,omitempty"`
}

// RefineHarvestWindow narrows or shifts window using the latest usable growth
// evidence. The result always lies inside window.
func RefineHarvestWindow(window entities.HarvestWindow, evidence []entities.GrowthEvidence, plantingDate time.Time, degraded bool) HarvestEstimate {
	planted := entities.Day(plantingDate)
	usable := make([]entities.GrowthEvidence, 0, len(evidence))
	for _, e := range evidence {
		if e.MaturityPct <= 0 || e.MaturityPct > 100 || math.IsNaN(e.MaturityPct) {
			continue
		}
		if entities.DaysBetween(planted, e.ObservedAt) <= 0 {
			continue
		}
		usable = append(usable, e)
	}

	if len(usable) == 0 {
		conf := noEvidenceConfidence
		if degraded {
			conf -= degradedPenalty
		}
		return HarvestEstimate{
			Window:     window,
			Confidence: clamp01(conf),
			Warnings: []entities.Warning{{
				Code:    entities.WarnNoEvidence,
				Message: "no usable growth observations; harvest window is the catalog estimate",
			}},
		}
	}

	sort.SliceStable(usable, func(i, j int) bool { return usable[i].ObservedAt.Before(usable[j].ObservedAt) })
	last := usable[len(usable)-1]
	observed := entities.Day(last.ObservedAt)
	dap := entities.DaysBetween(planted, observed)

	perDay := last.MaturityPct / float64(dap)
	// cap before converting; tiny readings would overflow int
	span := float64(entities.DaysBetween(observed, window.Latest) + 1)
	remaining := int(math.Round(math.Min((100-last.MaturityPct)/perDay, math.Max(span, 0))))
	projected := clampDay(observed.AddDate(0, 0, remaining), window.Earliest, window.Latest)
	if last.HealthTrend == entities.TrendDeclining {
		projected = clampDay(projected.AddDate(0, 0, -decliningPullDays), window.Earliest, window.Latest)
	}

	half := window.WidthDays() / 2
	narrowed := int(math.Ceil(float64(half) * (1 - 0.5*last.MaturityPct/100)))
	refined := entities.HarvestWindow{
		Earliest: laterOf(window.Earliest, projected.AddDate(0, 0, -narrowed)),
		Target:   projected,
		Latest:   earlierOf(window.Latest, projected.AddDate(0, 0, narrowed)),
	}

	conf := baseConfidence + evidenceConfidence*last.MaturityPct/100
	if degraded {
		conf -= degradedPenalty
	}
	return HarvestEstimate{Window: refined, Confidence: clamp01(conf)}
}

func clampDay(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlierOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
