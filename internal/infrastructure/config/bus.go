package config

import "time"

// BusConfig holds message bus connection configuration.
type BusConfig struct {
	// NATS server URL
	URL string `mapstructure:"url" validate:"required"`

	// Initial dial timeout
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required"`

	// Bounded reconnection attempts after a disconnect
	MaxReconnects int `mapstructure:"max_reconnects" validate:"min=0"`

	// Delay between reconnection attempts
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`

	// Request/reply timeout; expirations mean "reuse last known value"
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`

	// Publish throttle in messages per second (0 = unlimited)
	PublishRate float64 `mapstructure:"publish_rate" validate:"min=0"`

	// Publish throttle burst size
	PublishBurst int `mapstructure:"publish_burst" validate:"min=0"`
}
