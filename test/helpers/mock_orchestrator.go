package helpers

import (
	"context"
	"sync"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/orchestrator"
)

// MockOrchestrator records provisioning calls for assertions. Set
// ProvisionErr to simulate a provisioning failure.
type MockOrchestrator struct {
	mu sync.Mutex

	ProvisionErr error

	Provisioned      []planet.ID
	TornDown         []orchestrator.Handle
	TeardownAllCalls int
}

// NewMockOrchestrator creates a new MockOrchestrator
func NewMockOrchestrator() *MockOrchestrator {
	return &MockOrchestrator{}
}

// Provision records the call and returns a synthetic handle.
func (m *MockOrchestrator) Provision(_ context.Context, p *planet.Planet) (orchestrator.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProvisionErr != nil {
		return "", m.ProvisionErr
	}

	m.Provisioned = append(m.Provisioned, p.ID())
	return orchestrator.Handle("planet-" + p.ID().String()), nil
}

// Teardown records the call.
func (m *MockOrchestrator) Teardown(_ context.Context, h orchestrator.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TornDown = append(m.TornDown, h)
	return nil
}

// TeardownAll records the call.
func (m *MockOrchestrator) TeardownAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeardownAllCalls++
	return nil
}

// TeardownAllCount returns how often TeardownAll was called.
func (m *MockOrchestrator) TeardownAllCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TeardownAllCalls
}

// ProvisionedIDs returns the planets provisioned so far.
func (m *MockOrchestrator) ProvisionedIDs() []planet.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]planet.ID, len(m.Provisioned))
	copy(out, m.Provisioned)
	return out
}
