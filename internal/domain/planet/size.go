package planet

import (
	"fmt"
	"math/rand"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// Size categorizes a planet and drives both its claim cost multiplier and
// how rich its resource pools are.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Resource pool bounds per size, in units per resource type.
const (
	smallMinResources  = 500
	mediumMinResources = 1000
	largeMinResources  = 1500
	largeMaxResources  = 2000
)

// IsValid reports whether the size is one of the known categories.
func (s Size) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (s Size) String() string {
	return string(s)
}

// ParseSize converts a wire-level string into a Size.
func ParseSize(v string) (Size, error) {
	s := Size(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown planet size: %q", v)
	}
	return s, nil
}

// CostMultiplier returns the claim cost multiplier for the size.
func (s Size) CostMultiplier() float64 {
	switch s {
	case SizeMedium:
		return 1.5
	case SizeLarge:
		return 2.0
	default:
		return 1.0
	}
}

// RandomSize draws a size with the 40/40/20 small/medium/large weighting.
func RandomSize(rng *rand.Rand) Size {
	roll := rng.Float64()
	switch {
	case roll < 0.4:
		return SizeSmall
	case roll < 0.8:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// GenerateResources rolls the starting resource pool for a planet of the
// given size. Larger planets carry strictly richer ranges.
func GenerateResources(rng *rand.Rand, size Size) resource.Amounts {
	var lo, hi int
	switch size {
	case SizeMedium:
		lo, hi = mediumMinResources, largeMinResources
	case SizeLarge:
		lo, hi = largeMinResources, largeMaxResources
	default:
		lo, hi = smallMinResources, mediumMinResources
	}

	roll := func() int { return lo + rng.Intn(hi-lo+1) }
	return resource.Amounts{
		Food:  roll(),
		Gold:  roll(),
		Metal: roll(),
	}
}
