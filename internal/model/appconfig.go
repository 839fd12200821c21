package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default grid settings applied to new runs
	DefaultScale             float64 `json:"default_scale"`
	DefaultPreset            string  `json:"default_preset"`
	DefaultHorizontalOverlap float64 `json:"default_horizontal_overlap"`
	DefaultVerticalOverlap   float64 `json:"default_vertical_overlap"`
	DefaultCRS               string  `json:"default_crs"`
	DefaultDeleteSheets      bool    `json:"default_delete_sheets"`

	// Application preferences
	GeometryEngine string   `json:"geometry_engine"` // "geos" or "rect"
	LogLevel       string   `json:"log_level"`       // "debug", "info", "warn", "error"
	RecentJobs     []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultScale:             defaults.Scale,
		DefaultPreset:            "A4 Landscape",
		DefaultHorizontalOverlap: defaults.Overlap.Horizontal,
		DefaultVerticalOverlap:   defaults.Overlap.Vertical,
		DefaultCRS:               defaults.CRS,
		DefaultDeleteSheets:      defaults.DeleteNonIntersecting,
		GeometryEngine:           "geos",
		LogLevel:                 "info",
		RecentJobs:               []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a GridSettings.
// Custom presets are searched after the built-in ones.
func (c AppConfig) ApplyToSettings(s *GridSettings, custom []PagePreset) {
	if c.DefaultScale > 0 {
		s.Scale = c.DefaultScale
	}
	if p, ok := FindPreset(c.DefaultPreset, custom); ok {
		s.SheetSize = p.Size
	}
	s.Overlap = Overlap{Horizontal: c.DefaultHorizontalOverlap, Vertical: c.DefaultVerticalOverlap}
	if c.DefaultCRS != "" {
		s.CRS = c.DefaultCRS
	}
	s.DeleteNonIntersecting = c.DefaultDeleteSheets
}

// AddRecentJob moves path to the front of the recent jobs list, keeping at most max entries.
func (c *AppConfig) AddRecentJob(path string, max int) {
	jobs := []string{path}
	for _, j := range c.RecentJobs {
		if j != path {
			jobs = append(jobs, j)
		}
	}
	if len(jobs) > max {
		jobs = jobs[:max]
	}
	c.RecentJobs = jobs
}
