package entities

import "time"

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type SoilFertility string

const (
	FertilityLow    SoilFertility = "low"
	FertilityMedium SoilFertility = "medium"
	FertilityHigh   SoilFertility = "high"
)

// SoilSummary is the optional soil-analysis digest supplied with a plot.
type SoilSummary struct {
	Fertility      SoilFertility `json:"fertility"`
	DrainageClass  string        `json:"drainage_class"`
	Recommendation string        `json:"recommendation,omitempty"`
}

type Plot struct {
	ID           string       `gorm:"primaryKey;size:64" json:"id"`
	FarmerID     string       `gorm:"index" json:"farmer_id"`
	CropName     string       `json:"crop_name"`
	Variety      string       `json:"variety"`
	PlantingDate time.Time    `json:"planting_date"`
	Location     Location     `gorm:"embedded;embeddedPrefix:loc_" json:"location"`
	Soil         *SoilSummary `gorm:"serializer:json" json:"soil,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Plot) DrainageClass() string {
	if p.Soil == nil {
		return ""
	}
	return p.Soil.DrainageClass
}
