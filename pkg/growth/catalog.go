package growth

import "cropcal/entities"

func intp(v int) *int { return &v }

// BuiltinCatalog returns a fresh copy of the compiled-in crop table.
// Offsets are days after planting.
func BuiltinCatalog() Catalog {
	return Catalog{
		"maize": {
			Base: entities.GrowthModel{
				Crop:                 "maize",
				MaturityDays:         120,
				HarvestToleranceDays: 10,
				Stages: []entities.GrowthStage{
					{Name: "emergence", StartDay: 0, EndDay: 10},
					{Name: "vegetative", StartDay: 10, EndDay: 50},
					{Name: "tasseling", StartDay: 50, EndDay: 70, Major: true},
					{Name: "grain_fill", StartDay: 70, EndDay: 105, Major: true},
					{Name: "maturity", StartDay: 105, EndDay: 120, Major: true},
				},
				CriticalPractices: map[string]entities.CriticalPractice{
					"planting_fertilizer": {
						DayOffset: 0, LaborHoursEstimate: 4, Priority: entities.PriorityHigh,
						Category:          entities.CategoryFertilizer,
						Description:       "Apply basal fertilizer in the planting furrow",
						LocalMethods:      []string{"well-rotted manure, two handfuls per hole"},
						CommercialMethods: []string{"DAP 50 kg/acre"},
					},
					"gap_filling": {
						DayOffset: 10, LaborHoursEstimate: 2, Priority: entities.PriorityLow,
						Description:  "Replant gaps where seed failed to emerge",
						LocalMethods: []string{"replant with soaked seed"},
					},
					"first_weeding": {
						DayOffset: 20, LaborHoursEstimate: 8, Priority: entities.PriorityHigh,
						Category:          entities.CategoryWeeding,
						Description:       "First weeding",
						LocalMethods:      []string{"hand hoe between rows"},
						CommercialMethods: []string{"post-emergence herbicide"},
					},
					"pest_scouting": {
						DayOffset: 25, LaborHoursEstimate: 1, Priority: entities.PriorityModerate,
						Category:          entities.CategoryScouting,
						Description:       "Scout for fall armyworm in the whorl",
						LocalMethods:      []string{"inspect 20 plants in a W pattern", "ash or sand in the whorl"},
						CommercialMethods: []string{"emamectin benzoate if >20% plants infested"},
					},
					"top_dressing": {
						DayOffset: 35, LaborHoursEstimate: 4, Priority: entities.PriorityHigh,
						Category:          entities.CategoryFertilizer,
						Description:       "Top-dress with nitrogen at knee height",
						LocalMethods:      []string{"diluted animal urine", "compost tea"},
						CommercialMethods: []string{"CAN 50 kg/acre"},
					},
					"second_weeding": {
						DayOffset: 45, LaborHoursEstimate: 6, Priority: entities.PriorityModerate,
						Category:     entities.CategoryWeeding,
						Description:  "Second weeding before canopy closure",
						LocalMethods: []string{"hand hoe"},
					},
					"disease_monitoring": {
						DayOffset: 60, LaborHoursEstimate: 1, Priority: entities.PriorityModerate,
						Category:          entities.CategoryScouting,
						Description:       "Check for grey leaf spot and maize streak",
						LocalMethods:      []string{"remove and burn infected plants"},
						CommercialMethods: []string{"fungicide on early leaf spot symptoms"},
					},
				},
			},
			Varieties: map[string]VarietyOverride{
				"h614":  {MaturityDays: intp(120), HarvestToleranceDays: intp(10)},
				"h6213": {MaturityDays: intp(130), HarvestToleranceDays: intp(12)},
				"dh04": {
					MaturityDays:         intp(90),
					HarvestToleranceDays: intp(7),
					Stages: []entities.GrowthStage{
						{Name: "emergence", StartDay: 0, EndDay: 8},
						{Name: "vegetative", StartDay: 8, EndDay: 40},
						{Name: "tasseling", StartDay: 40, EndDay: 55, Major: true},
						{Name: "grain_fill", StartDay: 55, EndDay: 80, Major: true},
						{Name: "maturity", StartDay: 80, EndDay: 90, Major: true},
					},
					RemovePractices: []string{"second_weeding"},
				},
			},
		},
		"beans": {
			Base: entities.GrowthModel{
				Crop:                 "beans",
				MaturityDays:         85,
				HarvestToleranceDays: 7,
				Stages: []entities.GrowthStage{
					{Name: "emergence", StartDay: 0, EndDay: 7},
					{Name: "vegetative", StartDay: 7, EndDay: 35},
					{Name: "flowering", StartDay: 35, EndDay: 50, Major: true},
					{Name: "pod_fill", StartDay: 50, EndDay: 75, Major: true},
					{Name: "maturity", StartDay: 75, EndDay: 85},
				},
				CriticalPractices: map[string]entities.CriticalPractice{
					"first_weeding": {
						DayOffset: 14, LaborHoursEstimate: 6, Priority: entities.PriorityHigh,
						Category:     entities.CategoryWeeding,
						LocalMethods: []string{"shallow hand weeding, avoid root damage"},
					},
					"pest_scouting": {
						DayOffset: 21, LaborHoursEstimate: 1, Priority: entities.PriorityModerate,
						Category:          entities.CategoryScouting,
						Description:       "Scout for aphids and bean fly",
						LocalMethods:      []string{"neem leaf extract"},
						CommercialMethods: []string{"imidacloprid seed dressing next season"},
					},
					"earthing_up": {
						DayOffset: 28, LaborHoursEstimate: 5, Priority: entities.PriorityModerate,
						Category: entities.CategoryEarthingUp,
					},
					"disease_monitoring": {
						DayOffset: 40, LaborHoursEstimate: 1, Priority: entities.PriorityModerate,
						Category:          entities.CategoryScouting,
						Description:       "Check for angular leaf spot and rust",
						CommercialMethods: []string{"copper-based fungicide"},
					},
				},
			},
			Varieties: map[string]VarietyOverride{
				"climbing": {
					MaturityDays: intp(95),
					Practices: map[string]entities.CriticalPractice{
						"staking": {
							DayOffset: 14, LaborHoursEstimate: 10, Priority: entities.PriorityHigh,
							Category:     entities.CategoryStaking,
							Description:  "Stake climbing beans before runners form",
							LocalMethods: []string{"bamboo or sorghum stalk stakes, 2 m"},
						},
					},
				},
				"rosecoco": {HarvestToleranceDays: intp(5)},
			},
		},
		"tomato": {
			Base: entities.GrowthModel{
				Crop:                 "tomato",
				MaturityDays:         110,
				HarvestToleranceDays: 14,
				Stages: []entities.GrowthStage{
					{Name: "transplant_establishment", StartDay: 0, EndDay: 14},
					{Name: "vegetative", StartDay: 14, EndDay: 40},
					{Name: "flowering", StartDay: 40, EndDay: 60, Major: true},
					{Name: "fruiting", StartDay: 60, EndDay: 110, Major: true},
				},
				CriticalPractices: map[string]entities.CriticalPractice{
					"staking": {DayOffset: 14, LaborHoursEstimate: 8, Priority: entities.PriorityHigh},
					"first_weeding": {
						DayOffset: 21, LaborHoursEstimate: 5, Priority: entities.PriorityModerate,
					},
					"top_dressing": {
						DayOffset: 30, LaborHoursEstimate: 3, Priority: entities.PriorityModerate,
						CommercialMethods: []string{"CAN 5 g per plant"},
					},
					"blight_spraying": {
						DayOffset: 35, LaborHoursEstimate: 3, Priority: entities.PriorityHigh,
						Description:       "Preventive spray against late blight",
						CommercialMethods: []string{"mancozeb"},
					},
				},
			},
			Varieties: map[string]VarietyOverride{
				"anna f1": {MaturityDays: intp(100)},
			},
		},
		"sugarcane": {
			Base: entities.GrowthModel{
				Crop:                 "sugarcane",
				MaturityDays:         365,
				HarvestToleranceDays: 30,
				Stages: []entities.GrowthStage{
					{Name: "germination", StartDay: 0, EndDay: 35},
					{Name: "tillering", StartDay: 35, EndDay: 120, Major: true},
					{Name: "elongation", StartDay: 120, EndDay: 270, Major: true},
					{Name: "ripening", StartDay: 270, EndDay: 365, Major: true},
				},
				CriticalPractices: map[string]entities.CriticalPractice{
					"first_weeding":       {DayOffset: 30, LaborHoursEstimate: 10, Priority: entities.PriorityHigh},
					"fertilizer_15_15_15": {DayOffset: 35, LaborHoursEstimate: 6, Priority: entities.PriorityHigh, Category: entities.CategoryFertilizer},
					"earthing_up":         {DayOffset: 90, LaborHoursEstimate: 12, Priority: entities.PriorityModerate},
					"fertilizer_urea":     {DayOffset: 120, LaborHoursEstimate: 6, Priority: entities.PriorityHigh, Category: entities.CategoryFertilizer},
				},
			},
			Varieties: map[string]VarietyOverride{
				"kk3": {MaturityDays: intp(360)},
			},
		},
	}
}
