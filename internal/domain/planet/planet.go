package planet

import (
	"fmt"
	"sync"
	"time"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// Planet is the aggregate root for one planet. It exclusively owns its local
// resource pool and upgrade levels: nothing mutates them except harvesting,
// upgrade commands and claiming, all of which go through this entity.
//
// Claiming flips exactly once; concurrent claim attempts are serialized so
// that exactly one succeeds.
type Planet struct {
	mu sync.Mutex

	id         ID
	name       string
	x          int
	y          int
	size       Size
	available  resource.Amounts
	speed      resource.Amounts
	upgrades   resource.Amounts
	claimed    bool
	discovered bool
}

// New creates a planet with the default collection speed of one unit per
// second per resource.
func New(id ID, name string, x, y int, size Size, available resource.Amounts) *Planet {
	return &Planet{
		id:        id,
		name:      name,
		x:         x,
		y:         y,
		size:      size,
		available: available,
		speed:     resource.Amounts{Food: 1, Gold: 1, Metal: 1},
	}
}

// Reconstruct rebuilds a planet from persistence, bypassing defaults.
func Reconstruct(
	id ID,
	name string,
	x, y int,
	size Size,
	available resource.Amounts,
	speed resource.Amounts,
	upgrades resource.Amounts,
	claimed bool,
	discovered bool,
) *Planet {
	return &Planet{
		id:         id,
		name:       name,
		x:          x,
		y:          y,
		size:       size,
		available:  available,
		speed:      speed,
		upgrades:   upgrades,
		claimed:    claimed,
		discovered: discovered,
	}
}

// Getters

func (p *Planet) ID() ID       { return p.id }
func (p *Planet) Name() string { return p.name }
func (p *Planet) X() int       { return p.x }
func (p *Planet) Y() int       { return p.y }
func (p *Planet) Size() Size   { return p.size }

// Available returns a copy of the remaining resource pool.
func (p *Planet) Available() resource.Amounts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// CollectionSpeed returns the base collection speed per resource, in units
// per second.
func (p *Planet) CollectionSpeed() resource.Amounts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// UpgradeLevels returns the current upgrade level per resource.
func (p *Planet) UpgradeLevels() resource.Amounts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.upgrades
}

// Claimed reports whether the planet has been claimed.
func (p *Planet) Claimed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claimed
}

// Discovered reports whether the planet has been revealed by exploration.
func (p *Planet) Discovered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovered
}

// Discover marks the planet as revealed. Idempotent.
func (p *Planet) Discover() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discovered = true
}

// ClaimCost returns the gold price of claiming this planet, derived from its
// distance to the origin and its size.
func (p *Planet) ClaimCost() int {
	return ClaimCost(Distance(p.x, p.y), p.size)
}

// Claim attempts to take ownership of the planet. It succeeds iff the
// payment covers the claim cost and the planet is unclaimed; on failure no
// state changes. Among concurrent attempts exactly one succeeds.
func (p *Planet) Claim(payment int) error {
	cost := p.ClaimCost()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.claimed {
		return &ErrAlreadyClaimed{ID: p.id, Name: p.name}
	}
	if payment < cost {
		return &ErrInsufficientPayment{Cost: cost, Paid: payment}
	}

	p.claimed = true
	return nil
}

// ApplyUpgrade increments the upgrade level for the given resource type.
func (p *Planet) ApplyUpgrade(t resource.Type) error {
	if !t.IsValid() {
		return &resource.ErrUnknownType{Value: t.String()}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.upgrades = p.upgrades.Set(t, p.upgrades.Get(t)+1)
	return nil
}

// Harvest collects resources for the elapsed interval and subtracts them
// from the local pool. Per resource type with a non-empty pool the yield is
// floor(speed * (1 + 0.5*upgradeLevel) * seconds), capped at what remains.
// The returned delta may be zero when the interval is too short or the pool
// is exhausted.
func (p *Planet) Harvest(dt time.Duration) resource.Amounts {
	p.mu.Lock()
	defer p.mu.Unlock()

	var collected resource.Amounts
	seconds := dt.Seconds()

	for _, t := range resource.All() {
		pool := p.available.Get(t)
		if pool <= 0 {
			continue
		}

		multiplier := 1 + 0.5*float64(p.upgrades.Get(t))
		amount := int(float64(p.speed.Get(t)) * multiplier * seconds)
		if amount > pool {
			amount = pool
		}
		if amount <= 0 {
			continue
		}

		p.available = p.available.Set(t, pool-amount)
		collected = collected.Set(t, amount)
	}

	return collected
}

// Depleted reports whether every resource pool is exhausted.
func (p *Planet) Depleted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available.IsZero()
}

// String provides a human-readable representation.
func (p *Planet) String() string {
	return fmt.Sprintf("Planet[%s, name=%s, size=%s, pos=(%d,%d), claimed=%t]",
		p.id, p.name, p.size, p.x, p.y, p.claimed)
}
