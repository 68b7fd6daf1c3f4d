package kernel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ukern/cpu"
)

func testImages(capacity int) (images []Image) {
	for n := range capacity {
		images = append(images, Image{
			Name:     "prog",
			Entry:    0x1000 * uint32(n+1),
			StackTop: 0x1000*uint32(n+1) + 0x0ff0,
		})
	}
	return
}

func newTestTable(t *testing.T, capacity int) (table *Table, live cpu.Context) {
	table, err := NewTable(capacity)
	assert.NoError(t, err)
	assert.NoError(t, table.Init(testImages(capacity)))
	table.Start(&live)
	return
}

func TestTable_New(t *testing.T) {
	assert := assert.New(t)

	_, err := NewTable(0)
	assert.ErrorIs(err, ErrCapacity)

	table, err := NewTable(3)
	assert.NoError(err)
	assert.Equal(3, table.Capacity())

	// Not yet initialized.
	assert.Error(table.Check())
}

func TestTable_Init(t *testing.T) {
	assert := assert.New(t)

	table, err := NewTable(3)
	assert.NoError(err)
	table.PidBase = 3

	err = table.Init(testImages(2))
	var count *ErrImageCount
	assert.True(errors.As(err, &count))
	assert.Equal(3, count.Capacity)
	assert.Equal(2, count.Images)

	assert.NoError(table.Init(testImages(3)))
	for n, pcb := range table.All() {
		assert.Equal(Pid(3+n), pcb.Pid)
		assert.Equal(STATUS_READY, pcb.Status)
		assert.Equal(uint32(0x50), pcb.Ctx.Psr)
		assert.Equal(0x1000*uint32(n+1), pcb.Ctx.Pc)
		assert.Equal(0x1000*uint32(n+1)+0x0ff0, pcb.Ctx.Sp)
		assert.Equal([cpu.REG_GPR_COUNT]uint32{}, pcb.Ctx.Gpr)
		assert.Equal(uint32(0), pcb.Ctx.Lr)
	}

	var live cpu.Context
	table.Start(&live)
	assert.Equal(0, table.Executing())
	assert.Equal(STATUS_EXECUTING, table.Pcb(0).Status)
	assert.Equal(table.Pcb(0).Ctx, live)
	assert.True(live.IrqEnabled())
	assert.False(live.Privileged())
	assert.NoError(table.Check())
}

func TestTable_FullCycle(t *testing.T) {
	assert := assert.New(t)

	for _, capacity := range []int{1, 2, 3, 5} {
		table, live := newTestTable(t, capacity)
		for range capacity {
			table.SelectNext(&live)
		}
		assert.Equal(0, table.Executing(), capacity)
		assert.Equal(table.Pcb(0).Ctx, live, capacity)
	}
}

func TestTable_MutualExclusion(t *testing.T) {
	assert := assert.New(t)

	table, live := newTestTable(t, 3)
	assert.NoError(table.Check())

	for n := range 10 {
		prev := table.Executing()
		next := table.SelectNext(&live)
		assert.Equal((prev+1)%3, next, n)
		assert.Equal(STATUS_READY, table.Pcb(prev).Status, n)
		assert.Equal(STATUS_EXECUTING, table.Pcb(next).Status, n)
		assert.NoError(table.Check(), n)

		executing := 0
		for _, pcb := range table.All() {
			if pcb.Status == STATUS_EXECUTING {
				executing++
			}
		}
		assert.Equal(1, executing, n)
	}
}

func TestTable_ContextRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table, live := newTestTable(t, 2)

	live.Psr = cpu.PSR_USR_IRQ | cpu.PSR_Z
	live.Pc = 0x1234
	live.Sp = 0x5678
	live.Lr = 0x9abc
	for n := range cpu.REG_GPR_COUNT {
		live.Gpr[n] = uint32(0x11111111 * (n + 1))
	}
	saved := live

	table.SelectNext(&live)
	assert.Equal(table.Pcb(1).Ctx, live)
	assert.Equal(saved, table.Pcb(0).Ctx)

	// Scribble on process 1, then switch back.
	live.Gpr[0] = 0xdeadbeef
	table.SelectNext(&live)
	assert.Equal(saved, live)
	assert.Equal(uint32(0xdeadbeef), table.Pcb(1).Ctx.Gpr[0])
}

func TestTable_SingleProcess(t *testing.T) {
	assert := assert.New(t)

	table, live := newTestTable(t, 1)
	live.Gpr[4] = 44
	saved := live

	assert.Equal(0, table.SelectNext(&live))
	assert.Equal(saved, live)
	assert.Equal(STATUS_EXECUTING, table.Pcb(0).Status)
	assert.NoError(table.Check())
}

func TestTable_Check(t *testing.T) {
	assert := assert.New(t)

	table, _ := newTestTable(t, 3)

	table.pcb[2].Status = STATUS_EXECUTING
	var inv *ErrInvariant
	assert.True(errors.As(table.Check(), &inv))
	assert.Equal(0, inv.Executing)

	table.pcb[2].Status = STATUS_READY
	table.pcb[0].Status = STATUS_READY
	assert.Error(table.Check())

	table.pcb[0].Status = STATUS_EXECUTING
	table.executing = 1
	assert.Error(table.Check())

	table.executing = 0
	assert.NoError(table.Check())
}

func TestStatus_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ready", STATUS_READY.String())
	assert.Equal("executing", STATUS_EXECUTING.String())
	assert.Equal("invalid", STATUS_INVALID.String())
	assert.Equal("Status(9)", Status(9).String())
}
