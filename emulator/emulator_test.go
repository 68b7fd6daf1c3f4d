package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ukern/cpu"
	"github.com/ezrec/ukern/kernel"
)

func newTestEmulator(t *testing.T, config Config, texts ...[]string) (emu *Emulator, out *bytes.Buffer) {
	config.Kernel.Capacity = len(texts)
	for n, text := range texts {
		config.Programs = append(config.Programs, Program{
			Name: string(rune('A' + n)),
			Text: strings.Join(text, "\n"),
		})
	}

	emu, err := NewEmulator(config)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	out = &bytes.Buffer{}
	emu.Uart.Output = out

	return
}

var spin = []string{
	"main: b main",
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, DefaultConfig(), spin, spin)

	assert.False(emu.Verbose)
	assert.ErrorIs(emu.Tick(), ErrNotReset)

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Executing())
	assert.Equal([]int{0}, emu.Trace)
	assert.Equal(EMULATOR_MEMORY_BASE, emu.Context.Pc)
	assert.Equal(EMULATOR_MEMORY_BASE+EMULATOR_REGION_SIZE, emu.Context.Sp)
	assert.Equal(cpu.PSR_USR_IRQ, emu.Context.Psr)
	assert.True(emu.Cpu.IrqEnabled())
	assert.Len(emu.Programs, 2)

	pcb := emu.Kernel.Table().Pcb(1)
	assert.Equal(kernel.Pid(1+1), pcb.Pid)
	assert.Equal(EMULATOR_MEMORY_BASE+EMULATOR_REGION_SIZE, pcb.Ctx.Pc)

	defines := map[string]string{}
	for k, v := range emu.Defines() {
		defines[k] = v
	}
	assert.Equal("1", defines["SYS_WRITE"])
	assert.Equal("0x50", defines["PSR_USR_IRQ"])
	assert.Equal("0x10000", defines["REGION_SIZE"])
}

func TestEmulator_Preempt(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig()
	config.Kernel.TimerPeriod = 4
	config.Kernel.Debug = true
	config.TickCost = 1

	emu, _ := newTestEmulator(t, config, spin, spin, spin)
	assert.NoError(emu.Reset())

	for n := range 5 {
		assert.NoError(emu.Run(4), n)
		assert.Equal((n+1)%3, emu.Executing(), n)
	}

	assert.Equal([]int{0, 1, 2, 0, 1, 2}, emu.Trace)
	assert.Equal(5, emu.Kernel.Stats.Irqs)
	assert.Equal(5, emu.Gic.Completed)
	assert.Empty(emu.Gic.Stalled)
	assert.Equal(15, emu.Cpu.Ticks)
}

func TestEmulator_Yield(t *testing.T) {
	assert := assert.New(t)

	writer := func(c string) []string {
		return []string{
			"msg:  .ascii \"" + c + "\"",
			"      .align 4",
			"main: mov r0 1",
			"      mov r1 msg",
			"      mov r2 1",
			"      svc SYS_WRITE",
			"      svc SYS_YIELD",
			"      b main",
		}
	}

	emu, out := newTestEmulator(t, DefaultConfig(), writer("A"), writer("B"))
	assert.NoError(emu.Reset())

	// The first pass is five instructions, later passes six.
	assert.NoError(emu.Run(6 * 4))

	assert.Equal("ABAB", out.String())
	assert.Equal([]int{0, 1, 0, 1, 0}, emu.Trace)
	assert.Equal(4, emu.Kernel.Stats.Writes)
	assert.Equal(4, emu.Uart.Transmitted)

	// The write returned its length.
	assert.Equal(uint32(1), emu.Kernel.Table().Pcb(1).Ctx.Gpr[0])
}

func TestEmulator_TrapMode(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig()
	config.Kernel.TrapMode = kernel.TRAP_MODE_REGISTER

	writer := []string{
		"msg:  .ascii \"R\"",
		"      .align 4",
		"main: mov r0 SYS_WRITE",
		"      mov r1 1",
		"      mov r2 msg",
		"      mov r3 1",
		"      svc 0",
		"      halt",
	}

	emu, out := newTestEmulator(t, config, writer)
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(10))

	assert.Equal("R", out.String())
	assert.Equal(uint32(1), emu.Context.Gpr[1])
	assert.Equal(kernel.SYS_WRITE, emu.Context.Gpr[0])
}

func TestEmulator_Errors(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, DefaultConfig(), []string{"main: bogus"})
	err := emu.Reset()
	var link *ErrLink
	assert.True(errors.As(err, &link))
	assert.Equal("A", link.Program)
	var syntax *cpu.ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(1, syntax.LineNo)

	emu, _ = newTestEmulator(t, DefaultConfig(), []string{"start: nop"})
	assert.ErrorIs(emu.Reset(), cpu.ErrLabelMissing("main"))

	emu, _ = newTestEmulator(t, DefaultConfig(), []string{"main: b 0"})
	assert.NoError(emu.Reset())
	assert.NoError(emu.Tick())
	err = emu.Tick()
	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal("", runtime.Program)
	assert.Equal(uint32(0), runtime.Pc)
	var fault cpu.ErrMemoryFault
	assert.True(errors.As(err, &fault))
}

func TestEmulator_ResetFailure(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, DefaultConfig(), spin, spin)
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(10))

	emu.Config.Programs[1].Text = "main: bogus r0"
	assert.Error(emu.Reset())
	assert.Nil(emu.Kernel)
	assert.Nil(emu.Trace)
	assert.ErrorIs(emu.Tick(), ErrNotReset)

	emu.Config.Programs[1].Text = spin[0]
	assert.NoError(emu.Reset())
	assert.NoError(emu.Tick())
}

func TestEmulator_Stack(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig()
	config.RegionSize = 0x100

	prog := []string{
		"main:      nop",
		"           .space 0x40",
		"stack_top:",
	}

	emu, _ := newTestEmulator(t, config, prog)
	assert.NoError(emu.Reset())
	assert.Equal(EMULATOR_MEMORY_BASE+0x44, emu.Context.Sp)

	emu, _ = newTestEmulator(t, config, []string{"main: .space 0x104"})
	var size *ErrProgramSize
	assert.True(errors.As(emu.Reset(), &size))
}
