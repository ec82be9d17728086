package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimeControlMoveTimeWins(t *testing.T) {
	tc := NewTimeControl(Limits{MoveTime: 500 * time.Millisecond, WTime: 60 * time.Second}, White)
	assert.False(t, tc.Expired())
	assert.False(t, tc.Stopped())
}

func TestNewTimeControlFloorsAtMinimum(t *testing.T) {
	tc := NewTimeControl(Limits{WTime: 10 * time.Millisecond}, White)
	// think = 10ms/28 + 0, far below the 20ms floor, so the deadline must
	// sit at least minThinkTime in the future.
	assert.False(t, tc.Expired())
}

func TestNewTimeControlNoClockNeverExpires(t *testing.T) {
	tc := NewTimeControl(Limits{Depth: 5}, White)
	assert.Equal(t, 5, tc.Depth())
	assert.False(t, tc.Expired())
}

func TestTimeControlStopIsSticky(t *testing.T) {
	tc := NewTimeControl(Limits{}, White)
	assert.False(t, tc.Stopped())
	tc.Stop()
	assert.True(t, tc.Stopped())
}

func TestNewTimeControlDepthClampedToLimit(t *testing.T) {
	tc := NewTimeControl(Limits{Depth: 999}, White)
	assert.Equal(t, maxSearchDepthLimit, tc.Depth())
}
