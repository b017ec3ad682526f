package config

import "time"

// OrchestratorConfig holds worker provisioning configuration.
type OrchestratorConfig struct {
	// Mode selects the provisioner: "docker" runs one container per claimed
	// planet, "local" runs agents as goroutines inside the calling process.
	Mode string `mapstructure:"mode" validate:"required,oneof=docker local"`

	// Container image for planet workers
	Image string `mapstructure:"image"`

	// Bus address handed to provisioned workers
	BusAddress string `mapstructure:"bus_address"`

	// Containers carrying this name are never torn down on reset (the home
	// planet survives a game reset)
	HomeContainer string `mapstructure:"home_container"`

	// Graceful stop timeout per worker
	StopTimeout time.Duration `mapstructure:"stop_timeout" validate:"required"`
}
