package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newGic() *Gic {
	gic := &Gic{}
	gic.SetPriorityMask(GIC_PRIORITY_ALL)
	gic.EnableSource(GIC_SOURCE_TIMER0)
	gic.EnableInterface()
	gic.EnableDistributor()
	return gic
}

func TestGic_Setup(t *testing.T) {
	assert := assert.New(t)

	gic := newGic()

	assert.Equal(uint32(0xf0), gic.Pmr)
	assert.Equal(uint32(0x10), gic.Enable[1])
	assert.Equal(uint32(1), gic.CpuCtlr)
	assert.Equal(uint32(1), gic.DistCtlr)
	assert.True(gic.Enabled(GIC_SOURCE_TIMER0))
	assert.False(gic.Enabled(GIC_SOURCE_UART0))
	assert.False(gic.Enabled(GIC_SPURIOUS))
}

func TestGic_Protocol(t *testing.T) {
	assert := assert.New(t)

	gic := newGic()
	assert.False(gic.Pending())
	assert.Equal(uint32(GIC_SPURIOUS), gic.Acknowledge())

	gic.SetLevel(GIC_SOURCE_TIMER0, true)
	assert.True(gic.Pending())

	id := gic.Acknowledge()
	assert.Equal(uint32(GIC_SOURCE_TIMER0), id)
	assert.True(gic.Active(id))

	// Active, so not signaled again while the line stays high.
	assert.False(gic.Pending())

	gic.SetLevel(GIC_SOURCE_TIMER0, false)
	gic.Complete(id)
	assert.False(gic.Active(id))
	assert.False(gic.Pending())
	assert.Equal(1, gic.Acknowledged)
	assert.Equal(1, gic.Completed)
	assert.Empty(gic.Stalled)

	// Spurious completion has no effect.
	gic.Complete(GIC_SPURIOUS)
	assert.Equal(2, gic.Completed)
	assert.Empty(gic.Stalled)
}

func TestGic_Stall(t *testing.T) {
	assert := assert.New(t)

	gic := newGic()
	gic.SetLevel(GIC_SOURCE_TIMER0, true)
	id := gic.Acknowledge()

	// Completing the wrong id leaves the source stalled.
	gic.Complete(GIC_SOURCE_UART0)
	assert.Equal([]uint32{GIC_SOURCE_UART0}, gic.Stalled)
	assert.True(gic.Active(id))
	assert.False(gic.Pending())

	gic.Complete(id)
	assert.True(gic.Pending())
}

func TestGic_Masking(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		setup func(gic *Gic)
	}{
		{"priority mask", func(gic *Gic) { gic.SetPriorityMask(0) }},
		{"source priority", func(gic *Gic) { gic.SetPriority(GIC_SOURCE_TIMER0, 0xf0) }},
		{"interface", func(gic *Gic) { gic.CpuCtlr = 0 }},
		{"distributor", func(gic *Gic) { gic.DistCtlr = 0 }},
		{"source", func(gic *Gic) { gic.Enable[1] = 0 }},
	}

	for _, entry := range table {
		gic := newGic()
		gic.SetLevel(GIC_SOURCE_TIMER0, true)
		assert.True(gic.Pending(), entry.name)
		entry.setup(gic)
		assert.False(gic.Pending(), entry.name)
		assert.Equal(uint32(GIC_SPURIOUS), gic.Acknowledge(), entry.name)
	}
}

func TestGic_Priority(t *testing.T) {
	assert := assert.New(t)

	gic := newGic()
	gic.EnableSource(GIC_SOURCE_UART0)
	gic.SetPriority(GIC_SOURCE_TIMER0, 0x80)
	gic.SetPriority(GIC_SOURCE_UART0, 0x40)

	gic.SetLevel(GIC_SOURCE_TIMER0, true)
	gic.SetLevel(GIC_SOURCE_UART0, true)

	assert.Equal(uint32(GIC_SOURCE_UART0), gic.Acknowledge())
	// Timer is less urgent than the running UART interrupt.
	assert.False(gic.Pending())

	gic.Complete(GIC_SOURCE_UART0)
	gic.SetLevel(GIC_SOURCE_UART0, false)
	assert.Equal(uint32(GIC_SOURCE_TIMER0), gic.Acknowledge())

	gic.Reset()
	assert.Equal(uint32(0), gic.Pmr)
	assert.False(gic.Active(GIC_SOURCE_TIMER0))
}
