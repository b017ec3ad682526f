package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

func TestNewLedger_StartsWithInitialGrant(t *testing.T) {
	// Act
	ledger := NewLedger()

	// Assert
	assert.Equal(t, resource.Amounts{Gold: 200, Food: 200, Metal: 200}, ledger.Snapshot())
}

func TestLedger_Apply_AddsDelta(t *testing.T) {
	// Arrange
	ledger := NewLedger()

	// Act
	applied := ledger.Apply(resource.Amounts{Gold: 50, Food: -20, Metal: 0})

	// Assert
	assert.Equal(t, resource.Amounts{Gold: 50, Food: -20, Metal: 0}, applied)
	assert.Equal(t, resource.Amounts{Gold: 250, Food: 180, Metal: 200}, ledger.Snapshot())
}

func TestLedger_Apply_ClampsAtZero(t *testing.T) {
	// Arrange
	ledger := NewLedger()
	ledger.Apply(resource.Amounts{Gold: -190}) // gold now 10

	// Act
	applied := ledger.Apply(resource.Amounts{Gold: -50})

	// Assert: only 10 gold could be absorbed
	assert.Equal(t, -10, applied.Gold)
	assert.Equal(t, 0, ledger.Snapshot().Gold)
}

func TestLedger_Apply_ClampsPerResourceIndependently(t *testing.T) {
	// Arrange
	ledger := NewLedger()

	// Act
	applied := ledger.Apply(resource.Amounts{Gold: -500, Food: 30, Metal: -100})

	// Assert
	assert.Equal(t, resource.Amounts{Gold: -200, Food: 30, Metal: -100}, applied)
	assert.Equal(t, resource.Amounts{Gold: 0, Food: 230, Metal: 100}, ledger.Snapshot())
}

func TestLedger_ConsumeFood_ScalesWithSessionAge(t *testing.T) {
	tests := []struct {
		name     string
		baseRate int
		elapsed  time.Duration
		expected int
	}{
		{"fresh session", 2, 0, 2},
		{"just before first step", 2, 29999 * time.Millisecond, 2},
		{"exactly at first step", 2, 30 * time.Second, 3},
		{"just before second step", 2, 59999 * time.Millisecond, 3},
		{"at second step", 2, 60 * time.Second, 4},
		{"five minutes in", 2, 5 * time.Minute, 12},
		{"odd rate floors", 1, 30 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger()

			consumed := ledger.ConsumeFood(tt.baseRate, tt.elapsed)

			assert.Equal(t, tt.expected, consumed)
			assert.Equal(t, 200-tt.expected, ledger.Snapshot().Food)
		})
	}
}

func TestLedger_ConsumeFood_ClampsAtZero(t *testing.T) {
	// Arrange
	ledger := NewLedger()
	ledger.Apply(resource.Amounts{Food: -199}) // food now 1

	// Act
	consumed := ledger.ConsumeFood(5, 0)

	// Assert: reported consumption is the demand, balance clamps
	assert.Equal(t, 5, consumed)
	assert.Equal(t, 0, ledger.Snapshot().Food)
}

func TestLedger_Reset_IsIdempotent(t *testing.T) {
	// Arrange
	ledger := NewLedger()
	ledger.Apply(resource.Amounts{Gold: 1000, Food: -150, Metal: 42})

	// Act
	ledger.Reset()
	first := ledger.Snapshot()
	ledger.Reset()
	second := ledger.Snapshot()

	// Assert
	assert.Equal(t, resource.Amounts{Gold: 200, Food: 200, Metal: 200}, first)
	assert.Equal(t, first, second)
}
