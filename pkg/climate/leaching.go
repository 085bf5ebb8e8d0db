package climate

import (
	"math"
	"strings"
)

const (
	DrainagePoor      = "poor"
	DrainageImperfect = "imperfect"
	DrainageModerate  = "moderate"
	DrainageWell      = "well"
	DrainageExcessive = "excessive"
)

// drainageFactor scales leaching risk; fast-draining soils lose nitrogen sooner.
var drainageFactor = map[string]float64{
	DrainagePoor:      0.6,
	DrainageImperfect: 0.8,
	DrainageModerate:  1.0,
	DrainageWell:      1.15,
	DrainageExcessive: 1.3,
}

// intensityScaleMm is the rainfall at which intensity reaches 1-1/e.
const intensityScaleMm = 25.0

// ResolveDrainage maps a soil drainage class onto a known class. The second
// return is false when the class was not recognised and moderate was used.
func ResolveDrainage(class string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(class))
	c = strings.TrimSuffix(c, "ly drained")
	c = strings.TrimSuffix(c, "_drained")
	c = strings.TrimSuffix(c, " drained")
	switch c {
	case "somewhat poor", "somewhat_poor", "somewhat poorly":
		c = DrainageImperfect
	case "poorly", "very poor", "very poorly":
		c = DrainagePoor
	case "moderately well", "moderate_well":
		c = DrainageModerate
	}
	if _, ok := drainageFactor[c]; ok {
		return c, true
	}
	return DrainageModerate, false
}

// LeachingRiskScore estimates in [0,1] how likely fertilizer applied today is
// lost to rain arriving daysUntilRain days later, inside a window of windowDays.
// For fixed days and drainage it never decreases as rainMm grows.
func LeachingRiskScore(rainMm float64, daysUntilRain int, drainage string, windowDays int) float64 {
	if windowDays <= 0 {
		windowDays = DefaultConfig().LeachingWindowDays
	}
	if rainMm <= 0 || math.IsNaN(rainMm) || daysUntilRain < 0 || daysUntilRain >= windowDays {
		return 0
	}
	class, _ := ResolveDrainage(drainage)
	intensity := 1 - math.Exp(-rainMm/intensityScaleMm)
	proximity := float64(windowDays-daysUntilRain) / float64(windowDays)
	return clamp01(intensity * proximity * drainageFactor[class])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
