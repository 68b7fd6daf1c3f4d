package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSp804_Configure(t *testing.T) {
	assert := assert.New(t)

	tm := &Sp804{}
	tm.Reset()
	assert.False(tm.Enabled())

	tm.Configure(TIMER_DEFAULT_PERIOD)
	assert.Equal(uint32(0x00100000), tm.Load)
	assert.Equal(uint32(0x000000e2), tm.Control)
	assert.True(tm.Enabled())
	assert.False(tm.Interrupt())
}

func TestSp804_Periodic(t *testing.T) {
	assert := assert.New(t)

	tm := &Sp804{}
	tm.Configure(10)

	tm.Tick(9)
	assert.False(tm.Interrupt())
	assert.Equal(uint32(1), tm.Value)

	tm.Tick(1)
	assert.True(tm.Interrupt())
	assert.Equal(uint32(10), tm.Value)
	assert.Equal(1, tm.Expired)

	// Stays pending until cleared.
	tm.Tick(3)
	assert.True(tm.Interrupt())
	tm.ClearInterrupt()
	assert.False(tm.Interrupt())
	assert.Equal(uint32(7), tm.Value)

	// Several periods in one step.
	tm.Tick(27)
	assert.Equal(4, tm.Expired)
	assert.Equal(uint32(10), tm.Value)
}

func TestSp804_Modes(t *testing.T) {
	assert := assert.New(t)

	tm := &Sp804{}
	tm.Load = 4
	tm.Value = 4
	tm.Control = TIMER_CTRL_ONESHOT | TIMER_CTRL_ENABLE
	tm.Tick(10)
	assert.False(tm.Enabled())
	assert.Equal(1, tm.Expired)
	assert.True(tm.RawInterrupt())
	assert.False(tm.Interrupt())

	tm = &Sp804{}
	tm.Value = 2
	tm.Control = TIMER_CTRL_ENABLE | TIMER_CTRL_INTEN
	tm.Tick(3)
	assert.True(tm.Interrupt())
	assert.Equal(^uint32(0)-1, tm.Value)

	// A zero reload still makes progress.
	tm = &Sp804{}
	tm.Configure(0)
	tm.Tick(3)
	assert.Greater(tm.Expired, 2)
	assert.True(tm.Interrupt())
}
