package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default search settings applied to every run
	DefaultScalesX []float64 `json:"default_scales_x" yaml:"default_scales_x"`
	DefaultScalesY []float64 `json:"default_scales_y" yaml:"default_scales_y"`
	DefaultWorkers int       `json:"default_workers" yaml:"default_workers"` // 0 = one per CPU

	// Output preferences
	ManifestFormat string   `json:"manifest_format" yaml:"manifest_format"` // "json", "yaml", "cbor"
	WriteReport    bool     `json:"write_report" yaml:"write_report"`
	WriteXLSX      bool     `json:"write_xlsx" yaml:"write_xlsx"`
	WriteDXF       bool     `json:"write_dxf" yaml:"write_dxf"`
	RecentOutputs  []string `json:"recent_outputs" yaml:"recent_outputs"`
}

// MaxRecentOutputs bounds the RecentOutputs history.
const MaxRecentOutputs = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultScalesX: defaults.ScalesX,
		DefaultScalesY: defaults.ScalesY,
		DefaultWorkers: defaults.Workers,
		ManifestFormat: "json",
		RecentOutputs:  []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings
// struct. Empty scale lists leave the existing values untouched.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if len(c.DefaultScalesX) > 0 {
		s.ScalesX = append([]float64(nil), c.DefaultScalesX...)
	}
	if len(c.DefaultScalesY) > 0 {
		s.ScalesY = append([]float64(nil), c.DefaultScalesY...)
	}
	s.Workers = c.DefaultWorkers
}

// AddRecentOutput records path as the most recent output, removing any
// earlier occurrence and trimming the history to MaxRecentOutputs.
func (c *AppConfig) AddRecentOutput(path string) {
	recent := []string{path}
	for _, p := range c.RecentOutputs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentOutputs {
		recent = recent[:MaxRecentOutputs]
	}
	c.RecentOutputs = recent
}
