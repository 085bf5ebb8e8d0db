package entities

import "strings"

type PracticeCategory string

const (
	CategoryWeeding    PracticeCategory = "weeding"
	CategoryFertilizer PracticeCategory = "fertilizer"
	CategorySpraying   PracticeCategory = "spraying"
	CategoryEarthingUp PracticeCategory = "earthing_up"
	CategoryScouting   PracticeCategory = "scouting"
	CategoryStaking    PracticeCategory = "staking"
	CategoryIrrigation PracticeCategory = "irrigation"
	CategoryHarvest    PracticeCategory = "harvest"
	CategoryOther      PracticeCategory = "other"
)

// MoistureSensitive practices are spoiled by working wet soil or spraying into rain.
func (c PracticeCategory) MoistureSensitive() bool {
	return c == CategoryWeeding || c == CategorySpraying || c == CategoryEarthingUp
}

var categoryHints = []struct {
	fragment string
	category PracticeCategory
}{
	{"weed", CategoryWeeding},
	{"fertili", CategoryFertilizer},
	{"top_dress", CategoryFertilizer},
	{"topdress", CategoryFertilizer},
	{"manure", CategoryFertilizer},
	{"spray", CategorySpraying},
	{"earthing", CategoryEarthingUp},
	{"hilling", CategoryEarthingUp},
	{"scout", CategoryScouting},
	{"monitor", CategoryScouting},
	{"stak", CategoryStaking},
	{"irrigat", CategoryIrrigation},
	{"harvest", CategoryHarvest},
}

// CategoryForKey derives a category from a practice key like "first_weeding".
func CategoryForKey(key string) PracticeCategory {
	k := strings.ToLower(key)
	for _, h := range categoryHints {
		if strings.Contains(k, h.fragment) {
			return h.category
		}
	}
	return CategoryOther
}

type GrowthStage struct {
	Name     string `json:"name" yaml:"name"`
	StartDay int    `json:"start_day" yaml:"start_day"`
	EndDay   int    `json:"end_day" yaml:"end_day"`
	Major    bool   `json:"major,omitempty" yaml:"major,omitempty"`
}

type CriticalPractice struct {
	DayOffset          int              `json:"day_offset" yaml:"day_offset"`
	LaborHoursEstimate float64          `json:"labor_hours_estimate" yaml:"labor_hours"`
	LocalMethods       []string         `json:"local_methods,omitempty" yaml:"local_methods,omitempty"`
	CommercialMethods  []string         `json:"commercial_methods,omitempty" yaml:"commercial_methods,omitempty"`
	Priority           Priority         `json:"priority" yaml:"priority"`
	Category           PracticeCategory `json:"category,omitempty" yaml:"category,omitempty"`
	Description        string           `json:"description,omitempty" yaml:"description,omitempty"`
}

// CategoryOf returns the explicit category or one derived from key.
func (p CriticalPractice) CategoryOf(key string) PracticeCategory {
	if p.Category != "" {
		return p.Category
	}
	return CategoryForKey(key)
}

// GrowthModel is immutable reference data for one crop or crop variety.
type GrowthModel struct {
	Crop                 string                      `json:"crop" yaml:"crop"`
	Variety              string                      `json:"variety,omitempty" yaml:"variety,omitempty"`
	MaturityDays         int                         `json:"maturity_days" yaml:"maturity_days"`
	HarvestToleranceDays int                         `json:"harvest_tolerance_days" yaml:"harvest_tolerance_days"`
	Stages               []GrowthStage               `json:"stages" yaml:"stages"`
	CriticalPractices    map[string]CriticalPractice `json:"critical_practices" yaml:"critical_practices"`

	// DegradedPrecision is set on lookup results that fell back to the crop base model.
	DegradedPrecision bool `json:"degraded_precision,omitempty" yaml:"-"`
}

// Clone returns a deep copy so callers can never mutate catalog data.
func (m GrowthModel) Clone() GrowthModel {
	out := m
	out.Stages = append([]GrowthStage(nil), m.Stages...)
	out.CriticalPractices = make(map[string]CriticalPractice, len(m.CriticalPractices))
	for k, p := range m.CriticalPractices {
		p.LocalMethods = append([]string(nil), p.LocalMethods...)
		p.CommercialMethods = append([]string(nil), p.CommercialMethods...)
		out.CriticalPractices[k] = p
	}
	return out
}
