package serviceImp

import "cropcal/entities"

const (
	TriggerNitrogenDeficiency = "nitrogen_deficiency"
	TriggerWaterStress        = "water_stress"
	TriggerHealthDecline      = "health_decline"
	TriggerYellowing          = "yellowing"

	// healthDeclineDrop is the score drop versus the previous reading that
	// counts as a decline.
	healthDeclineDrop = 10.0
)

type healthTrigger struct {
	Type        string
	Fires       func(entities.HealthSignal) bool
	DelayDays   int
	Priority    entities.Priority
	Category    entities.PracticeCategory
	Description string
	Local       []string
	Commercial  []string
	LaborHours  float64
}

// healthTriggers is evaluated in full; every rule that fires yields one event.
var healthTriggers = []healthTrigger{
	{
		Type: TriggerNitrogenDeficiency,
		Fires: func(s entities.HealthSignal) bool {
			return s.NitrogenStatus == entities.NitrogenDeficient || s.NitrogenStatus == entities.NitrogenLow
		},
		DelayDays:   2,
		Priority:    entities.PriorityHigh,
		Category:    entities.CategoryFertilizer,
		Description: "Nitrogen deficiency detected: top-dress with nitrogen",
		Local:       []string{"diluted animal urine", "compost tea"},
		Commercial:  []string{"CAN or urea top dressing"},
		LaborHours:  3,
	},
	{
		Type:        TriggerWaterStress,
		Fires:       func(s entities.HealthSignal) bool { return s.WaterStress == entities.WaterStressHigh },
		DelayDays:   0,
		Priority:    entities.PriorityUrgent,
		Category:    entities.CategoryIrrigation,
		Description: "Severe water stress: irrigate or mulch today",
		Local:       []string{"mulch with crop residue", "water at the base in the evening"},
		LaborHours:  4,
	},
	{
		Type:        TriggerHealthDecline,
		Fires:       func(s entities.HealthSignal) bool { return s.TrendVsPrevious < -healthDeclineDrop },
		DelayDays:   1,
		Priority:    entities.PriorityHigh,
		Category:    entities.CategoryScouting,
		Description: "Crop health dropped sharply: walk the plot and check for pests and disease",
		Local:       []string{"inspect 20 plants in a W pattern"},
		LaborHours:  1,
	},
	{
		Type:        TriggerYellowing,
		Fires:       func(s entities.HealthSignal) bool { return s.YellowingDetected },
		DelayDays:   3,
		Priority:    entities.PriorityModerate,
		Category:    entities.CategoryScouting,
		Description: "Yellowing leaves: check drainage and nutrient status",
		Local:       []string{"compare old and new leaves", "check for waterlogging"},
		LaborHours:  1,
	},
}
