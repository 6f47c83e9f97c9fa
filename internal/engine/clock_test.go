package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepClockAdvancesFixedSeconds(t *testing.T) {
	c := NewStepClock(0.5)
	assert.Equal(t, 0.0, c.Now())

	c.Advance()
	assert.Equal(t, 0.5, c.Now())

	c.Advance()
	c.Advance()
	assert.Equal(t, 1.5, c.Now())
}

func TestWallClockStartsNearZero(t *testing.T) {
	c := NewWallClock()
	now := c.Now()
	assert.GreaterOrEqual(t, now, 0.0)
	assert.Less(t, now, 1.0)

	// Advance is a no-op; time flows regardless.
	c.Advance()
	assert.GreaterOrEqual(t, c.Now(), now)
}
