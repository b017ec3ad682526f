package station

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupWindow_RemembersIDs(t *testing.T) {
	// Arrange
	w := NewDedupWindow(4)

	// Act
	w.Remember("a")
	w.Remember("b")

	// Assert
	assert.True(t, w.Seen("a"))
	assert.True(t, w.Seen("b"))
	assert.False(t, w.Seen("c"))
	assert.Equal(t, 2, w.Len())
}

func TestDedupWindow_EvictsOldestWhenFull(t *testing.T) {
	// Arrange
	w := NewDedupWindow(3)
	w.Remember("a")
	w.Remember("b")
	w.Remember("c")

	// Act
	w.Remember("d")

	// Assert: "a" was the oldest
	assert.False(t, w.Seen("a"))
	assert.True(t, w.Seen("b"))
	assert.True(t, w.Seen("c"))
	assert.True(t, w.Seen("d"))
	assert.Equal(t, 3, w.Len())
}

func TestDedupWindow_EvictionFollowsInsertionOrder(t *testing.T) {
	// Arrange
	w := NewDedupWindow(2)
	for i := 0; i < 10; i++ {
		w.Remember(fmt.Sprintf("id-%d", i))
	}

	// Assert: only the two newest survive
	assert.True(t, w.Seen("id-9"))
	assert.True(t, w.Seen("id-8"))
	assert.False(t, w.Seen("id-7"))
}

func TestDedupWindow_IgnoresEmptyAndDuplicateIDs(t *testing.T) {
	// Arrange
	w := NewDedupWindow(3)

	// Act
	w.Remember("")
	w.Remember("a")
	w.Remember("a")

	// Assert
	assert.False(t, w.Seen(""))
	assert.Equal(t, 1, w.Len())
}

func TestDedupWindow_WarmSeedsNewestFirst(t *testing.T) {
	// Arrange: journal returns newest first
	w := NewDedupWindow(2)

	// Act
	w.Warm([]string{"newest", "middle", "oldest"})

	// Assert: capacity keeps only the two newest
	assert.True(t, w.Seen("newest"))
	assert.True(t, w.Seen("middle"))
	assert.False(t, w.Seen("oldest"))
}

func TestDedupWindow_ClearForgetsEverything(t *testing.T) {
	// Arrange
	w := NewDedupWindow(4)
	w.Remember("a")
	w.Remember("b")

	// Act
	w.Clear()

	// Assert
	assert.False(t, w.Seen("a"))
	assert.Equal(t, 0, w.Len())

	// The window still works after clearing
	w.Remember("c")
	assert.True(t, w.Seen("c"))
}
