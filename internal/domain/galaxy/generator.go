// Package galaxy generates the world lazily, one spatial sector at a time.
// Generation is deterministic per sector so every observer of the same
// coordinates sees the same planet.
package galaxy

import (
	"fmt"
	"math/rand"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
)

// SectorSize is the side length of a square sector in world units.
const SectorSize = 100

// planetProbability is the chance that a sector contains a planet.
const planetProbability = 0.4

var namePrefixes = []string{
	"Kepler", "Vega", "Altair", "Rigel", "Sirius", "Deneb", "Lyra",
	"Orion", "Cygnus", "Talos", "Erebus", "Nyx",
}

var nameSuffixes = []string{
	"Prime", "Minor", "Major", "Secundus", "Reach", "Hollow", "Verge",
	"Drift", "Expanse", "Landing",
}

// SectorSeed derives the deterministic RNG seed for a sector.
func SectorSeed(sx, sy int) int64 {
	return (int64(sx)*99991 + int64(sy)*31337) & 0xFFFFFFFF
}

// Generate rolls the planet for a sector, or nil when the sector is empty
// space. Position, size, name and resource pools are fully determined by
// the sector coordinates; only the assigned ID is fresh per discovery.
func Generate(sx, sy int) *planet.Planet {
	rng := rand.New(rand.NewSource(SectorSeed(sx, sy)))
	if rng.Float64() >= planetProbability {
		return nil
	}

	x := sx*SectorSize + rng.Intn(SectorSize)
	y := sy*SectorSize + rng.Intn(SectorSize)
	size := planet.RandomSize(rng)
	available := planet.GenerateResources(rng, size)

	name := fmt.Sprintf("%s %s",
		namePrefixes[rng.Intn(len(namePrefixes))],
		nameSuffixes[rng.Intn(len(nameSuffixes))])

	p := planet.New(planet.NewID(), name, x, y, size, available)
	p.Discover()
	return p
}

// SectorOf returns the sector coordinates containing a world position.
func SectorOf(x, y int) (int, int) {
	return floorDiv(x, SectorSize), floorDiv(y, SectorSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
