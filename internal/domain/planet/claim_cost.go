package planet

import "math"

// BaseClaimCost is the minimum price of any planet, in gold.
const BaseClaimCost = 100

// ClaimCost computes the gold price of claiming a planet at the given
// distance from the origin. Every full 100 units of distance adds 50 gold
// to the base before the size multiplier is applied; the result never drops
// below BaseClaimCost.
func ClaimCost(distance float64, size Size) int {
	distanceCost := int(distance/100) * 50
	cost := int(float64(BaseClaimCost+distanceCost) * size.CostMultiplier())
	if cost < BaseClaimCost {
		return BaseClaimCost
	}
	return cost
}

// Distance returns the euclidean distance of world coordinates from the origin.
func Distance(x, y int) float64 {
	return math.Sqrt(float64(x*x + y*y))
}
