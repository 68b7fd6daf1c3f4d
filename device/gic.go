package device

import (
	"log"
	"slices"
)

const (
	GIC_SOURCES       = 96   // Number of interrupt sources.
	GIC_ENABLE_WORDS  = 3    // Set-enable registers, one bit per source.
	GIC_SOURCE_TIMER0 = 36   // SP804 timer 0 and 1.
	GIC_SOURCE_UART0  = 44   // PL011 UART 0.
	GIC_SPURIOUS      = 1023 // No interrupt pending.

	// GIC_PRIORITY_ALL is a priority mask admitting every source.
	GIC_PRIORITY_ALL = uint32(0xF0)

	// GIC_PRIORITY_IDLE is the running priority with nothing active.
	GIC_PRIORITY_IDLE = uint32(0x100)
)

// Gic is a generic interrupt controller: one distributor plus one CPU
// interface. Sources are level sensitive.
type Gic struct {
	Verbose bool // If set, enables verbose logging.

	Pmr      uint32                   // CPU interface priority mask.
	CpuCtlr  uint32                   // CPU interface control.
	DistCtlr uint32                   // Distributor control.
	Enable   [GIC_ENABLE_WORDS]uint32 // Distributor set-enable registers.
	Priority [GIC_SOURCES]uint8       // Per source priority; lower is more urgent.

	Acknowledged int      // Interrupts acknowledged.
	Completed    int      // Completion register writes.
	Stalled      []uint32 // Completions that did not match the active interrupt.

	level  [GIC_SOURCES]bool
	active []uint32
}

// Reset the controller to its power-on state.
func (gic *Gic) Reset() {
	*gic = Gic{Verbose: gic.Verbose}
}

// SetPriorityMask writes the CPU interface priority mask. Sources of a
// priority numerically lower than the mask are signaled.
func (gic *Gic) SetPriorityMask(mask uint32) {
	gic.Pmr = mask & 0xff
}

// SetPriority sets the priority of a source.
func (gic *Gic) SetPriority(id uint32, priority uint8) {
	if id < GIC_SOURCES {
		gic.Priority[id] = priority
	}
}

// EnableSource sets the enable bit of a source in the distributor.
func (gic *Gic) EnableSource(id uint32) {
	if id < GIC_SOURCES {
		gic.Enable[id/32] |= 1 << (id % 32)
	}
}

// EnableInterface enables signaling by the CPU interface.
func (gic *Gic) EnableInterface() {
	gic.CpuCtlr = 1
}

// EnableDistributor enables forwarding by the distributor.
func (gic *Gic) EnableDistributor() {
	gic.DistCtlr = 1
}

// Enabled returns true if a source is enabled.
func (gic *Gic) Enabled(id uint32) bool {
	return id < GIC_SOURCES && gic.Enable[id/32]&(1<<(id%32)) != 0
}

// Active returns true if a source is acknowledged but not yet completed.
func (gic *Gic) Active(id uint32) bool {
	return slices.Contains(gic.active, id)
}

// SetLevel drives the interrupt line of a source.
func (gic *Gic) SetLevel(id uint32, asserted bool) {
	if id < GIC_SOURCES {
		gic.level[id] = asserted
	}
}

// runningPriority is the priority of the most recently acknowledged
// active interrupt.
func (gic *Gic) runningPriority() uint32 {
	if len(gic.active) == 0 {
		return GIC_PRIORITY_IDLE
	}
	return uint32(gic.Priority[gic.active[len(gic.active)-1]])
}

// highest returns the most urgent signalable source.
func (gic *Gic) highest() (id uint32, ok bool) {
	if gic.CpuCtlr&1 == 0 || gic.DistCtlr&1 == 0 {
		return
	}

	running := gic.runningPriority()
	best := uint32(0)
	for n := range uint32(GIC_SOURCES) {
		if !gic.level[n] || !gic.Enabled(n) || gic.Active(n) {
			continue
		}
		prio := uint32(gic.Priority[n])
		if prio >= gic.Pmr || prio >= running {
			continue
		}
		if !ok || prio < best {
			id, best, ok = n, prio, true
		}
	}

	return
}

// Pending returns true if the IRQ line to the CPU is asserted.
func (gic *Gic) Pending() bool {
	_, ok := gic.highest()
	return ok
}

// Acknowledge reads the interrupt acknowledge register: the id of the most
// urgent pending source, which becomes active, or GIC_SPURIOUS.
func (gic *Gic) Acknowledge() (id uint32) {
	id, ok := gic.highest()
	if !ok {
		id = GIC_SPURIOUS
	} else {
		gic.active = append(gic.active, id)
		gic.Acknowledged++
	}

	if gic.Verbose {
		log.Printf("gic: acknowledge %v", id)
	}

	return
}

// Complete writes the end of interrupt register. Active interrupts must be
// completed most recent first; any other id is recorded in Stalled and the
// active interrupt stays active.
func (gic *Gic) Complete(id uint32) {
	gic.Completed++

	if gic.Verbose {
		log.Printf("gic: complete %v", id)
	}

	if id == GIC_SPURIOUS {
		return
	}

	last := len(gic.active) - 1
	if last < 0 || gic.active[last] != id {
		gic.Stalled = append(gic.Stalled, id)
		return
	}

	gic.active = gic.active[:last]
}
