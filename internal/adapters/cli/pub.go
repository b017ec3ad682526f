package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// NewPubCommand creates the pub command
func NewPubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pub <subject> <payload>",
		Short: "Publish a raw payload to a subject",
		Long: `Publish a raw payload. Subjects under a durable stream go through
JetStream; anything else is broadcast to live subscribers only.

Examples:
  dockernauts pub MASTER.resources '{"gold": 10, "food": 5}'
  dockernauts pub game.reset '{"action": "reset"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPub(args[0], []byte(args[1]))
		},
	}
}

func runPub(subject string, payload []byte) error {
	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	ctx := context.Background()
	stream := streamForSubject(subject)
	if stream == "" {
		if err := b.Broadcast(subject, payload); err != nil {
			return err
		}
		fmt.Printf("Broadcast %d bytes to %s\n", len(payload), subject)
		return nil
	}

	if err := b.EnsureStream(ctx, stream, protocol.StreamSubjects[stream]...); err != nil {
		return err
	}
	if err := b.Publish(subject, payload); err != nil {
		return err
	}

	fmt.Printf("Published %d bytes to %s (stream %s)\n", len(payload), subject, stream)
	return nil
}

// streamForSubject maps a subject to its durable stream, or "" when the
// subject lives outside the stream layout.
func streamForSubject(subject string) string {
	for stream, filters := range protocol.StreamSubjects {
		for _, filter := range filters {
			prefix := strings.TrimSuffix(filter, ">")
			if strings.HasPrefix(subject, prefix) {
				return stream
			}
		}
	}
	return ""
}
