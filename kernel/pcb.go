package kernel

import (
	"github.com/ezrec/ukern/cpu"
)

// Pid is a process identifier.
type Pid int

// Status is the scheduling status of a process. A ready process is
// runnable; an executing process owns the processor.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_INVALID   = Status(0) // invalid
	STATUS_READY     = Status(1) // ready
	STATUS_EXECUTING = Status(2) // executing
)

// Pcb is the process control block of one schedulable program.
type Pcb struct {
	Pid    Pid         // Process identifier.
	Status Status      // Scheduling status.
	Ctx    cpu.Context // Saved context while not executing.
}

// Image is a linked program: where it starts executing, and its initial
// stack pointer.
type Image struct {
	Name     string // Program name, for diagnostics only.
	Entry    uint32 // Entry point.
	StackTop uint32 // Top of stack.
}
