package protocol

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// Delta is a signed resource increment published to SubjectResources.
// Absent fields default to zero. MessageID is the dedup key; legacy
// producers may omit it, in which case the station applies the delta
// unconditionally.
type Delta struct {
	MessageID string `json:"message_id,omitempty"`
	PlanetID  string `json:"planet_id,omitempty"`
	Gold      int    `json:"gold"`
	Food      int    `json:"food"`
	Metal     int    `json:"metal"`
}

// NewDelta builds a delta with a fresh message ID.
func NewDelta(planetID string, amounts resource.Amounts) Delta {
	return Delta{
		MessageID: uuid.New().String(),
		PlanetID:  planetID,
		Gold:      amounts.Gold,
		Food:      amounts.Food,
		Metal:     amounts.Metal,
	}
}

// Amounts converts the delta into a domain value object.
func (d Delta) Amounts() resource.Amounts {
	return resource.Amounts{Gold: d.Gold, Food: d.Food, Metal: d.Metal}
}

// StateReply is the response to an (empty) request on SubjectGameState.
type StateReply struct {
	Resources StateResources `json:"resources"`
}

// StateResources mirrors the ledger balances on the wire.
type StateResources struct {
	Gold  int `json:"gold"`
	Food  int `json:"food"`
	Metal int `json:"metal"`
}

// NewStateReply builds a reply from a ledger snapshot.
func NewStateReply(snapshot resource.Amounts) StateReply {
	return StateReply{Resources: StateResources{
		Gold:  snapshot.Gold,
		Food:  snapshot.Food,
		Metal: snapshot.Metal,
	}}
}

// Amounts converts the reply into a domain value object.
func (r StateReply) Amounts() resource.Amounts {
	return resource.Amounts{
		Gold:  r.Resources.Gold,
		Food:  r.Resources.Food,
		Metal: r.Resources.Metal,
	}
}

// Upgrade is a production upgrade command addressed to one planet via
// UpgradeSubject. Timestamp is unix seconds with fractions.
type Upgrade struct {
	MessageID    string  `json:"message_id,omitempty"`
	ResourceType string  `json:"resource_type"`
	Cost         int     `json:"cost"`
	Timestamp    float64 `json:"timestamp"`
}

// NewUpgrade builds an upgrade command with a fresh message ID.
func NewUpgrade(t resource.Type, cost int, unixSeconds float64) Upgrade {
	return Upgrade{
		MessageID:    uuid.New().String(),
		ResourceType: t.String(),
		Cost:         cost,
		Timestamp:    unixSeconds,
	}
}

// ResetAction is the only accepted value of Reset.Action.
const ResetAction = "reset"

// Reset is the broadcast full-state reset command.
type Reset struct {
	Action string `json:"action"`
}

// NewReset builds a reset command.
func NewReset() Reset {
	return Reset{Action: ResetAction}
}

// Encode marshals a message for publishing.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
