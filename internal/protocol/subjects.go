// Package protocol defines the wire contract between planet agents, the
// master station and the operator tooling: subject names, durable stream
// layout, and schema-validated JSON message types.
package protocol

import "fmt"

// Subjects.
const (
	// SubjectResources carries signed resource deltas from producers to the
	// master station.
	SubjectResources = "MASTER.resources"

	// SubjectGameState serves point-in-time ledger snapshots via
	// request/reply.
	SubjectGameState = "game.state"

	// SubjectGameReset broadcasts a full-state reset.
	SubjectGameReset = "game.reset"
)

// Durable streams. Both survive restarts; consumers resume from their last
// acknowledged cursor.
const (
	StreamMaster  = "MASTER"
	StreamPlanets = "PLANETS"
)

// StreamSubjects maps each durable stream to its subject filter.
var StreamSubjects = map[string][]string{
	StreamMaster:  {"MASTER.>"},
	StreamPlanets: {"PLANETS.>"},
}

// UpgradeSubject returns the per-planet upgrade command subject.
func UpgradeSubject(planetID string) string {
	return fmt.Sprintf("PLANETS.%s.upgrades", planetID)
}
