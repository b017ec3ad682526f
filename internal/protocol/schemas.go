package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schemas are compiled once at package init. Consumers validate inbound
// payloads before touching any state so malformed messages can be dropped
// and logged without crashing the consumer.

const deltaSchemaJSON = `{
	"type": "object",
	"properties": {
		"message_id": {"type": "string"},
		"planet_id": {"type": "string"},
		"gold": {"type": "integer"},
		"food": {"type": "integer"},
		"metal": {"type": "integer"}
	}
}`

const upgradeSchemaJSON = `{
	"type": "object",
	"required": ["resource_type"],
	"properties": {
		"message_id": {"type": "string"},
		"resource_type": {"type": "string", "enum": ["food", "gold", "metal"]},
		"cost": {"type": "integer", "minimum": 0},
		"timestamp": {"type": "number"}
	}
}`

const resetSchemaJSON = `{
	"type": "object",
	"required": ["action"],
	"properties": {
		"action": {"type": "string", "const": "reset"}
	}
}`

var (
	deltaSchema   = jsonschema.MustCompileString("delta.json", deltaSchemaJSON)
	upgradeSchema = jsonschema.MustCompileString("upgrade.json", upgradeSchemaJSON)
	resetSchema   = jsonschema.MustCompileString("reset.json", resetSchemaJSON)
)

// ErrMalformed wraps a schema or JSON violation on an inbound payload.
type ErrMalformed struct {
	Subject string
	Reason  error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed payload on %s: %v", e.Subject, e.Reason)
}

func (e *ErrMalformed) Unwrap() error {
	return e.Reason
}

func validate(schema *jsonschema.Schema, subject string, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &ErrMalformed{Subject: subject, Reason: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &ErrMalformed{Subject: subject, Reason: err}
	}
	return nil
}

// DecodeDelta validates and unmarshals a resource delta.
func DecodeDelta(data []byte) (Delta, error) {
	if err := validate(deltaSchema, SubjectResources, data); err != nil {
		return Delta{}, err
	}

	var d Delta
	if err := json.Unmarshal(data, &d); err != nil {
		return Delta{}, &ErrMalformed{Subject: SubjectResources, Reason: err}
	}
	return d, nil
}

// DecodeUpgrade validates and unmarshals an upgrade command.
func DecodeUpgrade(data []byte) (Upgrade, error) {
	if err := validate(upgradeSchema, "upgrades", data); err != nil {
		return Upgrade{}, err
	}

	var u Upgrade
	if err := json.Unmarshal(data, &u); err != nil {
		return Upgrade{}, &ErrMalformed{Subject: "upgrades", Reason: err}
	}
	return u, nil
}

// DecodeReset validates and unmarshals a reset command.
func DecodeReset(data []byte) (Reset, error) {
	if err := validate(resetSchema, SubjectGameReset, data); err != nil {
		return Reset{}, err
	}

	var r Reset
	if err := json.Unmarshal(data, &r); err != nil {
		return Reset{}, &ErrMalformed{Subject: SubjectGameReset, Reason: err}
	}
	return r, nil
}

// DecodeStateReply unmarshals a snapshot reply. Replies come from the
// station itself so they skip schema validation.
func DecodeStateReply(data []byte) (StateReply, error) {
	var r StateReply
	if err := json.Unmarshal(data, &r); err != nil {
		return StateReply{}, fmt.Errorf("invalid state reply: %w", err)
	}
	return r, nil
}
