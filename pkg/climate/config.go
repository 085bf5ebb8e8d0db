package climate

// Config holds the thresholds the adjustment rules use.
type Config struct {
	MaxShiftDays         int
	HeavyRainMm          float64
	LeachingRainMm       float64
	LeachingWindowDays   int
	DefaultDrainageClass string
}

func DefaultConfig() Config {
	return Config{
		MaxShiftDays:         7,
		HeavyRainMm:          20,
		LeachingRainMm:       10,
		LeachingWindowDays:   3,
		DefaultDrainageClass: DrainageModerate,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MaxShiftDays <= 0 {
		c.MaxShiftDays = d.MaxShiftDays
	}
	if c.HeavyRainMm <= 0 {
		c.HeavyRainMm = d.HeavyRainMm
	}
	if c.LeachingRainMm <= 0 {
		c.LeachingRainMm = d.LeachingRainMm
	}
	if c.LeachingWindowDays <= 0 {
		c.LeachingWindowDays = d.LeachingWindowDays
	}
	if c.DefaultDrainageClass == "" {
		c.DefaultDrainageClass = d.DefaultDrainageClass
	}
	return c
}
