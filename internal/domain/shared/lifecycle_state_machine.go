package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus represents the state of a worker in its lifecycle.
type LifecycleStatus string

const (
	// LifecycleStatusProvisioning indicates the worker is being started.
	LifecycleStatusProvisioning LifecycleStatus = "PROVISIONING"

	// LifecycleStatusRunning indicates the worker is actively executing.
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusFailed indicates the worker encountered a fatal error.
	LifecycleStatusFailed LifecycleStatus = "FAILED"

	// LifecycleStatusTerminated indicates the worker was torn down. There is
	// no resurrection from this state within a session.
	LifecycleStatusTerminated LifecycleStatus = "TERMINATED"
)

// LifecycleStateMachine manages the PROVISIONING → RUNNING →
// TERMINATED/FAILED transitions shared by per-planet workers, with
// clock-injected timestamps.
type LifecycleStateMachine struct {
	status       LifecycleStatus
	createdAt    time.Time
	updatedAt    time.Time
	startedAt    *time.Time
	terminatedAt *time.Time
	lastError    error
	clock        Clock
}

// NewLifecycleStateMachine creates a state machine in PROVISIONING state.
// A nil clock means RealClock.
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}

	now := clock.Now()
	return &LifecycleStateMachine{
		status:    LifecycleStatusProvisioning,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

// Status returns the current lifecycle status.
func (sm *LifecycleStateMachine) Status() LifecycleStatus {
	return sm.status
}

// CreatedAt returns when the worker was created.
func (sm *LifecycleStateMachine) CreatedAt() time.Time {
	return sm.createdAt
}

// UpdatedAt returns when the worker was last updated.
func (sm *LifecycleStateMachine) UpdatedAt() time.Time {
	return sm.updatedAt
}

// StartedAt returns when the worker started running (nil if never started).
func (sm *LifecycleStateMachine) StartedAt() *time.Time {
	return sm.startedAt
}

// TerminatedAt returns when the worker was torn down (nil if still alive).
func (sm *LifecycleStateMachine) TerminatedAt() *time.Time {
	return sm.terminatedAt
}

// LastError returns the last fatal error (nil if none).
func (sm *LifecycleStateMachine) LastError() error {
	return sm.lastError
}

// Start transitions from PROVISIONING to RUNNING.
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusProvisioning {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	sm.updatedAt = now
	return nil
}

// Fail transitions to FAILED with the given error.
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.status == LifecycleStatusTerminated {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.updatedAt = now
	return nil
}

// Terminate transitions to TERMINATED. Terminating twice is an error;
// callers treat TERMINATED as final.
func (sm *LifecycleStateMachine) Terminate() error {
	if sm.status == LifecycleStatusTerminated {
		return fmt.Errorf("already terminated")
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusTerminated
	sm.terminatedAt = &now
	sm.updatedAt = now
	return nil
}

// RuntimeDuration calculates how long the worker has been running.
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}
	if sm.terminatedAt != nil {
		return sm.terminatedAt.Sub(*sm.startedAt)
	}
	return sm.clock.Now().Sub(*sm.startedAt)
}
