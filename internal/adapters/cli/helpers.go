package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
)

// cliRequestTimeout bounds request/reply calls made by the CLI.
const cliRequestTimeout = 1 * time.Second

// cliLogger builds a console logger for CLI runs. Quiet unless --verbose.
func cliLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger().Level(level)
}

// connectBus dials the NATS server named by the global flag.
func connectBus() (*bus.NatsBus, error) {
	return bus.ConnectNats(bus.NatsOptions{
		URL:            natsURL,
		ConnectTimeout: 2 * time.Second,
		MaxReconnects:  5,
		ReconnectWait:  2 * time.Second,
	}, cliLogger())
}
