// Package kernel implements a preemptive round-robin kernel core for a
// single processor.
//
// A Kernel owns a fixed-capacity process Table, a cursor naming the process
// that is executing, and handles to the timer, interrupt controller and
// console devices. Every transfer of control into the kernel arrives as an
// Event passed to Dispatch together with the live cpu.Context of the
// interrupted program: a reset, an IRQ, or a supervisor call. Dispatch may
// overwrite the live context in place; execution resumes wherever the
// context then points.
//
// Scheduling is strict round robin over table indices. The timer IRQ and
// the yield service both call Table.SelectNext, which saves the live
// context into the current process, and restores the next one.
package kernel
