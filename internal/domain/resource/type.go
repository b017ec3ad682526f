package resource

import "fmt"

// Type identifies one of the three tracked resources.
type Type string

const (
	Food  Type = "food"
	Gold  Type = "gold"
	Metal Type = "metal"
)

// All returns every resource type in a stable order.
func All() []Type {
	return []Type{Food, Gold, Metal}
}

// IsValid reports whether the type is one of the known resources.
func (t Type) IsValid() bool {
	switch t {
	case Food, Gold, Metal:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// ParseType converts a wire-level string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", &ErrUnknownType{Value: s}
	}
	return t, nil
}

// ErrUnknownType is returned when a payload names a resource that does not exist.
type ErrUnknownType struct {
	Value string
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown resource type: %q", e.Value)
}
