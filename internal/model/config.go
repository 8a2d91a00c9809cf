package model

type Config struct {
	Schedule     ScheduleConfig     `yaml:"schedule"`
	Conversation ConversationConfig `yaml:"conversation"`
	Store        StoreConfig        `yaml:"store"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type ScheduleConfig struct {
	WorkStart          string `yaml:"work_start"`           // HH:MM, start of the searchable day
	WorkEnd            string `yaml:"work_end"`             // HH:MM, end of the searchable day
	HorizonDays        int    `yaml:"horizon_days"`         // days ahead searched by the slot finder
	ProximityGapMin    int    `yaml:"proximity_gap_min"`    // gaps shorter than this are flagged
	TravelGapMin       int    `yaml:"travel_gap_min"`       // minimum gap between different locations
	DefaultDurationMin int    `yaml:"default_duration_min"` // assumed when a task has no duration
}

type ConversationConfig struct {
	HistoryTurns int `yaml:"history_turns"` // turns kept for context refinement
}

type StoreConfig struct {
	Path        string  `yaml:"path"` // tasks.yaml location
	DebounceSec float64 `yaml:"debounce_sec"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields so a partially written
// assistant.yaml still yields a usable configuration.
func (c *Config) ApplyDefaults() {
	if c.Schedule.WorkStart == "" {
		c.Schedule.WorkStart = "09:00"
	}
	if c.Schedule.WorkEnd == "" {
		c.Schedule.WorkEnd = "18:00"
	}
	if c.Schedule.HorizonDays <= 0 {
		c.Schedule.HorizonDays = 7
	}
	if c.Schedule.ProximityGapMin <= 0 {
		c.Schedule.ProximityGapMin = 30
	}
	if c.Schedule.TravelGapMin <= 0 {
		c.Schedule.TravelGapMin = 60
	}
	if c.Schedule.DefaultDurationMin <= 0 {
		c.Schedule.DefaultDurationMin = DefaultDurationMin
	}
	if c.Conversation.HistoryTurns <= 0 {
		c.Conversation.HistoryTurns = 3
	}
	if c.Store.Path == "" {
		c.Store.Path = "tasks.yaml"
	}
	if c.Store.DebounceSec <= 0 {
		c.Store.DebounceSec = 0.5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
