package kernel

import (
	"fmt"
	"log"

	"github.com/ezrec/ukern/cpu"
)

// State is the kernel lifecycle state.
// Processes are only scheduled once it is running, after reset.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_UNINITIALIZED = State(0) // uninitialized
	STATE_RUNNING       = State(1) // running
)

// Stats counts kernel activity since reset.
type Stats struct {
	Irqs     int // Interrupts dispatched.
	Other    int // Interrupts acknowledged with a non-timer id.
	Switches int // Context switches, from the timer or yield.
	Yields   int // Yield services.
	Writes   int // Write services.
	Bytes    int // Bytes sent to the console.
	Faults   int // Bytes skipped on a memory fault.
	Ignored  int // Unsupported requests.
}

// Kernel is a preemptive round-robin kernel for a single processor.
type Kernel struct {
	Verbose bool // If set, enables verbose logging.

	Config Config  // Kernel configuration.
	Images []Image // Process images, one per table slot, consumed at reset.

	Timer      Timer               // Scheduling timer.
	Controller InterruptController // Interrupt controller.
	Processor  Processor           // Processor IRQ control.
	Console    Console             // Console for the write service.
	Memory     Memory              // User memory for the write service.

	Stats Stats // Activity counters.

	table *Table
	state State
}

// NewKernel creates a kernel in the uninitialized state.
func NewKernel(config Config) (k *Kernel, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	table, err := NewTable(config.Capacity)
	if err != nil {
		return
	}
	table.PidBase = config.PidBase

	k = &Kernel{
		Config: config,
		table:  table,
	}

	return
}

// State of the kernel.
func (k *Kernel) State() State {
	return k.state
}

// Table returns the process table.
func (k *Kernel) Table() *Table {
	return k.table
}

// Executing returns the table index of the executing process.
func (k *Kernel) Executing() int {
	return k.table.Executing()
}

// Dispatch handles one hardware event against the live context of the
// interrupted program. On return, live holds the context to resume.
func (k *Kernel) Dispatch(ev Event, live *cpu.Context) (err error) {
	switch ev.Kind {
	case EVENT_RESET:
		err = k.Reset(live)
	case EVENT_IRQ:
		err = k.Irq(live)
	case EVENT_SVC:
		err = k.Svc(live, ev.Request)
	default:
		err = fmt.Errorf("%w: %v", ErrEventInvalid, ev)
	}

	if err == nil && k.Config.Debug {
		err = k.table.Check()
	}

	return
}

// Reset configures the timer and interrupt controller, initializes the
// process table from Images, enables IRQs, and loads the first process
// into live.
func (k *Kernel) Reset(live *cpu.Context) (err error) {
	if k.state == STATE_RUNNING {
		err = ErrAlreadyRunning
		return
	}

	if k.Timer == nil || k.Controller == nil || k.Processor == nil ||
		k.Console == nil || k.Memory == nil {
		err = ErrDeviceMissing
		return
	}

	if len(k.Images) != k.table.Capacity() {
		err = &ErrImageCount{Capacity: k.table.Capacity(), Images: len(k.Images)}
		return
	}

	k.Timer.Configure(k.Config.TimerPeriod)

	k.Controller.SetPriorityMask(k.Config.PriorityMask)
	k.Controller.EnableSource(k.Config.TimerSource)
	k.Controller.EnableInterface()
	k.Controller.EnableDistributor()

	err = k.table.Init(k.Images)
	if err != nil {
		return
	}

	k.Processor.EnableIrq()

	k.table.Start(live)

	k.Stats = Stats{}
	k.state = STATE_RUNNING

	if k.Verbose {
		for n, pcb := range k.table.All() {
			log.Printf("kernel: reset: slot %d pid %d %v: pc %08x sp %08x", n, pcb.Pid, k.Images[n].Name, pcb.Ctx.Pc, pcb.Ctx.Sp)
		}
	}

	return
}

// Irq handles an interrupt. The timer interrupt switches to the next
// process. Every acknowledged id is completed exactly once.
func (k *Kernel) Irq(live *cpu.Context) (err error) {
	if k.state != STATE_RUNNING {
		err = ErrNotRunning
		return
	}

	k.Stats.Irqs++

	id := k.Controller.Acknowledge()
	if id == k.Config.TimerSource {
		k.schedule(live, "timer")
		k.Timer.ClearInterrupt()
	} else {
		k.Stats.Other++
		if k.Verbose {
			log.Printf("kernel: irq: id %d ignored", id)
		}
	}

	k.Controller.Complete(id)

	return
}

// schedule switches to the next process.
func (k *Kernel) schedule(live *cpu.Context, why string) {
	prev := k.table.Executing()
	next := k.table.SelectNext(live)
	k.Stats.Switches++

	if k.Verbose {
		log.Printf("kernel: %v: pid %d -> pid %d", why, k.table.pcb[prev].Pid, k.table.pcb[next].Pid)
	}
}
