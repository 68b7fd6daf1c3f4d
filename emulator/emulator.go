// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ukern/cpu"
	"github.com/ezrec/ukern/device"
	"github.com/ezrec/ukern/internal"
	"github.com/ezrec/ukern/kernel"
)

var _emulator_defines = map[string]string{
	"REGION_SIZE": fmt.Sprintf("0x%x", EMULATOR_REGION_SIZE),
}

// Emulator state. CPU + timer + interrupt controller + UART + kernel.
type Emulator struct {
	Verbose bool   // If set, enables verbose logging.
	Config  Config // Machine configuration.

	*cpu.Cpu                // Reference to the CPU simulation.
	Timer    device.Sp804   // Scheduling timer.
	Gic      device.Gic     // Interrupt controller.
	Uart     device.Uart    // Console.
	Kernel   *kernel.Kernel // Kernel, created at reset.

	Programs []*cpu.Program // Linked programs, in process table order.
	Context  cpu.Context    // Live context of the executing process.
	Trace    []int          // Executing process index after reset and every switch.
}

// NewEmulator creates a new emulator for a machine configuration.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	size := int(config.RegionSize) * len(config.Programs)

	emu = &Emulator{
		Config: config,
		Cpu:    cpu.NewCpu(cpu.NewMemory(config.MemoryBase, size)),
	}

	emu.Uart.Output = io.Discard

	return
}

// Defines returns an iterator over the assembler defines of every
// emulator.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.NewCpu(nil).Defines(),
		kernel.Defines(),
	)
}

// Defines returns an iterator over all of the assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		kernel.Defines(),
	)
}

// source opens the assembly source of a program.
func (emu *Emulator) source(prog *Program) (input io.ReadCloser, err error) {
	if prog.Text != "" {
		input = io.NopCloser(strings.NewReader(prog.Text))
		return
	}

	path := prog.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(emu.Config.Dir, path)
	}

	input, err = os.Open(path)
	return
}

// link assembles program n at its region, loads it into memory, and
// returns its process image.
func (emu *Emulator) link(n int) (image kernel.Image, err error) {
	prog := &emu.Config.Programs[n]
	defer func() {
		if err != nil {
			err = &ErrLink{Program: prog.Name, Err: err}
		}
	}()

	input, err := emu.source(prog)
	if err != nil {
		return
	}
	defer input.Close()

	origin := emu.Config.Origin(n)

	asm := &cpu.Assembler{Verbose: emu.Verbose, Origin: origin}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	program, err := asm.Parse(input)
	if err != nil {
		return
	}

	if program.Size() > emu.Config.RegionSize {
		err = &ErrProgramSize{Program: prog.Name, Size: program.Size()}
		return
	}

	err = emu.Cpu.Memory.Load(origin, program.Binary())
	if err != nil {
		return
	}

	entry := prog.Entry
	if entry == "" {
		entry = EMULATOR_ENTRY
	}

	pc, ok := program.Symbol(entry)
	if !ok {
		err = cpu.ErrLabelMissing(entry)
		return
	}

	sp := origin + emu.Config.RegionSize
	if prog.Stack != "" {
		sp, ok = program.Symbol(prog.Stack)
		if !ok {
			err = cpu.ErrLabelMissing(prog.Stack)
			return
		}
	} else if top, ok := program.Symbol(EMULATOR_STACK); ok {
		sp = top
	}

	emu.Programs = append(emu.Programs, program)

	image = kernel.Image{
		Name:     prog.Name,
		Entry:    pc,
		StackTop: sp,
	}

	if emu.Verbose {
		log.Printf("emulator: %v: origin 0x%08x size 0x%x entry 0x%08x stack 0x%08x", prog.Name, origin, program.Size(), pc, sp)
	}

	return
}

// Reset links every program, resets the devices, and boots the kernel.
// On error the emulator is left unreset.
func (emu *Emulator) Reset() (err error) {
	emu.Kernel = nil
	clear(emu.Cpu.Memory.Data)
	emu.Programs = nil
	emu.Trace = nil
	emu.Context = cpu.Context{}

	images := make([]kernel.Image, len(emu.Config.Programs))
	for n := range emu.Config.Programs {
		images[n], err = emu.link(n)
		if err != nil {
			return
		}
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Timer.Verbose = emu.Verbose
	emu.Timer.Reset()
	emu.Gic.Verbose = emu.Verbose
	emu.Gic.Reset()
	emu.Uart.Verbose = emu.Verbose
	emu.Uart.Reset()

	k, err := kernel.NewKernel(emu.Config.Kernel)
	if err != nil {
		return
	}

	k.Verbose = emu.Verbose
	k.Images = images
	k.Timer = &emu.Timer
	k.Controller = &emu.Gic
	k.Processor = emu.Cpu
	k.Console = &emu.Uart
	k.Memory = emu.Cpu.Memory

	emu.Kernel = k

	err = emu.dispatch(kernel.ResetEvent())
	if err != nil {
		return
	}

	return
}

// dispatch delivers an event to the kernel, tracing context switches.
func (emu *Emulator) dispatch(ev kernel.Event) (err error) {
	k := emu.Kernel
	switches := k.Stats.Switches

	err = k.Dispatch(ev, &emu.Context)
	if err != nil {
		return
	}

	if ev.Kind == kernel.EVENT_RESET || k.Stats.Switches != switches {
		emu.Trace = append(emu.Trace, k.Executing())
	}

	return
}

// Executing returns the process table index of the executing process.
func (emu *Emulator) Executing() int {
	return emu.Kernel.Executing()
}

// Program returns the linked program covering an address, and its index.
func (emu *Emulator) Program(addr uint32) (n int, prog *cpu.Program) {
	if addr < emu.Config.MemoryBase {
		return -1, nil
	}

	n = int((addr - emu.Config.MemoryBase) / emu.Config.RegionSize)
	if n >= len(emu.Programs) {
		return -1, nil
	}

	prog = emu.Programs[n]
	return
}

// LineNo returns the source line number of the instruction at the live
// program counter.
func (emu *Emulator) LineNo() int {
	_, prog := emu.Program(emu.Context.Pc)
	if prog == nil {
		return 0
	}

	dbg := prog.Debug(emu.Context.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator: the timer advances, then
// either a pending IRQ is taken or one instruction is executed.
func (emu *Emulator) Tick() (err error) {
	if emu.Kernel == nil || emu.Kernel.State() != kernel.STATE_RUNNING {
		err = ErrNotReset
		return
	}

	emu.Timer.Tick(emu.Config.TickCost)
	emu.Gic.SetLevel(emu.Config.Kernel.TimerSource, emu.Timer.Interrupt())

	pc := emu.Context.Pc
	defer func() {
		if err != nil {
			name := ""
			if n, _ := emu.Program(pc); n >= 0 {
				name = emu.Config.Programs[n].Name
			}
			err = &ErrRuntime{Program: name, LineNo: emu.LineNo(), Pc: pc, Err: err}
		}
	}()

	if emu.Gic.Pending() && emu.Context.IrqEnabled() && emu.Cpu.IrqEnabled() {
		err = emu.dispatch(kernel.IrqEvent())
		return
	}

	trap, request, err := emu.Cpu.Step(&emu.Context)
	if err != nil {
		return
	}

	if trap {
		err = emu.dispatch(kernel.SvcEvent(request))
	}

	return
}

// Run performs ticks until count ticks are done or an error occurs.
func (emu *Emulator) Run(count int) (err error) {
	for range count {
		err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
