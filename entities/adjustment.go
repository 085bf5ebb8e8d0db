package entities

import "time"

// AdjustmentLog records one weather re-adjustment pass over a plot.
type AdjustmentLog struct {
	ID        uint      `gorm:"primaryKey"`
	PlotID    string    `gorm:"index"`
	Changed   []string  `gorm:"serializer:json" json:"changed,omitempty"`
	Warnings  []Warning `gorm:"serializer:json" json:"warnings,omitempty"`
	CreatedAt time.Time
}
