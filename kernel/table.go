package kernel

import (
	"iter"

	"github.com/ezrec/ukern/cpu"
)

// Table is a fixed-capacity process table with an executing cursor.
type Table struct {
	PidBase int // Pid of the process in slot 0.

	pcb       []Pcb
	executing int
}

// NewTable creates an empty table of the given capacity.
func NewTable(capacity int) (table *Table, err error) {
	if capacity < 1 {
		err = ErrCapacity
		return
	}

	table = &Table{
		pcb: make([]Pcb, capacity),
	}

	return
}

// Capacity of the table.
func (table *Table) Capacity() int {
	return len(table.pcb)
}

// Executing returns the index of the executing process.
func (table *Table) Executing() int {
	return table.executing
}

// Pcb returns a copy of the control block at index n.
func (table *Table) Pcb(n int) Pcb {
	return table.pcb[n]
}

// All iterates over the control blocks in index order.
func (table *Table) All() iter.Seq2[int, Pcb] {
	return func(yield func(int, Pcb) bool) {
		for n, pcb := range table.pcb {
			if !yield(n, pcb) {
				return
			}
		}
	}
}

// Init fills every slot of the table from images, assigning process
// identifiers consecutively from PidBase. Every slot starts READY in user
// mode with IRQs unmasked, all general registers zero, and the stack and
// entry point of its image.
func (table *Table) Init(images []Image) (err error) {
	if len(images) != len(table.pcb) {
		err = &ErrImageCount{Capacity: len(table.pcb), Images: len(images)}
		return
	}

	for n, image := range images {
		table.pcb[n] = Pcb{
			Pid:    Pid(table.PidBase + n),
			Status: STATUS_READY,
			Ctx: cpu.Context{
				Psr: cpu.PSR_USR_IRQ,
				Pc:  image.Entry,
				Sp:  image.StackTop,
			},
		}
	}

	table.executing = 0

	return
}

// Start makes slot 0 executing and loads its context into live.
func (table *Table) Start(live *cpu.Context) {
	table.executing = 0
	table.pcb[0].Status = STATUS_EXECUTING
	*live = table.pcb[0].Ctx
}

// SelectNext saves live into the executing process, advances the cursor
// round robin, and loads the next process context into live. It returns
// the new executing index.
//
// With a capacity of one, the sole process is saved and restored to
// itself.
func (table *Table) SelectNext(live *cpu.Context) int {
	prev := table.executing
	next := (prev + 1) % len(table.pcb)

	table.pcb[prev].Ctx = *live
	table.pcb[prev].Status = STATUS_READY

	*live = table.pcb[next].Ctx
	table.pcb[next].Status = STATUS_EXECUTING

	table.executing = next

	return next
}

// Check verifies that exactly one slot is executing, and that it is the one
// under the cursor.
func (table *Table) Check() (err error) {
	executing := 0
	for n, pcb := range table.pcb {
		switch pcb.Status {
		case STATUS_EXECUTING:
			executing++
			if n != table.executing {
				err = &ErrInvariant{Executing: table.executing, Reason: f("slot %d executing off cursor", n)}
				return
			}
		case STATUS_READY:
		default:
			err = &ErrInvariant{Executing: table.executing, Reason: f("slot %d status %v", n, pcb.Status)}
			return
		}
	}

	if executing != 1 {
		err = &ErrInvariant{Executing: table.executing, Reason: f("%d slots executing", executing)}
		return
	}

	return
}
