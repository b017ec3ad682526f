package planet

import "fmt"

// ErrAlreadyClaimed is returned when a claim is attempted on a planet that
// has already been claimed. A planet is claimed exactly once per session.
type ErrAlreadyClaimed struct {
	ID   ID
	Name string
}

func (e *ErrAlreadyClaimed) Error() string {
	return fmt.Sprintf("planet %s (%s) is already claimed", e.Name, e.ID)
}

// ErrInsufficientPayment is returned when a claim payment does not cover the
// planet's claim cost. No state changes on this error.
type ErrInsufficientPayment struct {
	Cost int
	Paid int
}

func (e *ErrInsufficientPayment) Error() string {
	return fmt.Sprintf("insufficient payment: need %d gold, got %d", e.Cost, e.Paid)
}

// ErrNotFound is returned when a planet is not present in the registry.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("planet not found: %s", e.ID)
}
