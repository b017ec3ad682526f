package planet

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a value object representing a planet's unique identifier.
type ID struct {
	value string
}

// NewID creates a new ID with a generated UUID.
func NewID() ID {
	return ID{value: uuid.New().String()}
}

// NewIDFromString creates an ID from an existing UUID string.
func NewIDFromString(id string) (ID, error) {
	if id == "" {
		return ID{}, fmt.Errorf("planet id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return ID{}, fmt.Errorf("invalid planet id format: %w", err)
	}

	return ID{value: id}, nil
}

// MustNewIDFromString creates an ID from a string, panicking if invalid.
// Use this only when the ID is known valid (e.g., from the database).
func MustNewIDFromString(id string) ID {
	pid, err := NewIDFromString(id)
	if err != nil {
		panic(err)
	}
	return pid
}

// Value returns the string value of the ID.
func (i ID) Value() string {
	return i.value
}

// String returns a string representation of the ID.
func (i ID) String() string {
	return i.value
}

// Equals checks if two IDs are equal.
func (i ID) Equals(other ID) bool {
	return i.value == other.value
}

// IsZero checks if the ID is the zero value (uninitialized).
func (i ID) IsZero() bool {
	return i.value == ""
}
