package config

import "time"

// StationConfig holds master station configuration.
type StationConfig struct {
	// Food consumed per decay tick before session-age scaling
	BaseFoodRate int `mapstructure:"base_food_rate" validate:"min=0"`

	// Interval between decay ticks
	DecayInterval time.Duration `mapstructure:"decay_interval" validate:"required"`

	// Number of recently applied message IDs kept for deduplication
	DedupWindow int `mapstructure:"dedup_window" validate:"min=1"`

	// Path of the single-instance PID file, empty to disable
	PIDFile string `mapstructure:"pid_file"`
}

// AgentConfig holds planet agent configuration.
type AgentConfig struct {
	// Interval between harvest ticks
	HarvestInterval time.Duration `mapstructure:"harvest_interval" validate:"required"`

	// Upgrade command dedup window size
	DedupWindow int `mapstructure:"dedup_window" validate:"min=1"`
}
