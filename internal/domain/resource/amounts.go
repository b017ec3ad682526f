package resource

import "fmt"

// Amounts is a value object holding one quantity per resource type.
// Signed when used as a delta, non-negative when used as a balance.
type Amounts struct {
	Gold  int
	Food  int
	Metal int
}

// Get returns the quantity for the given type.
func (a Amounts) Get(t Type) int {
	switch t {
	case Gold:
		return a.Gold
	case Food:
		return a.Food
	case Metal:
		return a.Metal
	}
	return 0
}

// Set returns a copy with the quantity for the given type replaced.
func (a Amounts) Set(t Type, v int) Amounts {
	switch t {
	case Gold:
		a.Gold = v
	case Food:
		a.Food = v
	case Metal:
		a.Metal = v
	}
	return a
}

// Add returns the element-wise sum of two Amounts.
func (a Amounts) Add(other Amounts) Amounts {
	return Amounts{
		Gold:  a.Gold + other.Gold,
		Food:  a.Food + other.Food,
		Metal: a.Metal + other.Metal,
	}
}

// IsZero reports whether every quantity is zero.
func (a Amounts) IsZero() bool {
	return a.Gold == 0 && a.Food == 0 && a.Metal == 0
}

func (a Amounts) String() string {
	return fmt.Sprintf("gold=%d food=%d metal=%d", a.Gold, a.Food, a.Metal)
}
