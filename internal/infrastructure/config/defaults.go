package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Bus defaults
	v.SetDefault("bus.url", "nats://localhost:4222")
	v.SetDefault("bus.connect_timeout", "2s")
	v.SetDefault("bus.max_reconnects", 5)
	v.SetDefault("bus.reconnect_wait", "2s")
	v.SetDefault("bus.request_timeout", "1s")
	v.SetDefault("bus.publish_rate", 0)
	v.SetDefault("bus.publish_burst", 1)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "dockernauts.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool.max_open", 25)
	v.SetDefault("database.pool.max_idle", 5)
	v.SetDefault("database.pool.max_lifetime", "5m")

	// Station defaults
	v.SetDefault("station.base_food_rate", 1)
	v.SetDefault("station.decay_interval", "1s")
	v.SetDefault("station.dedup_window", 4096)
	v.SetDefault("station.pid_file", "")

	// Agent defaults
	v.SetDefault("agent.harvest_interval", "1s")
	v.SetDefault("agent.dedup_window", 256)

	// Orchestrator defaults
	v.SetDefault("orchestrator.mode", "docker")
	v.SetDefault("orchestrator.image", "dockernauts-planet:latest")
	v.SetDefault("orchestrator.bus_address", "localhost")
	v.SetDefault("orchestrator.home_container", "dockernauts-planet-home")
	v.SetDefault("orchestrator.stop_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
