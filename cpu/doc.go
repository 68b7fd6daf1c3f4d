// Package cpu implements the user-mode processor model for the ukern system.
//
// The saved execution state of a program is a Context: thirteen 32-bit
// general-purpose registers (r0-r12), a stack pointer, a link register, a
// program counter and a processor status register (PSR) that encodes the
// execution mode and the interrupt mask bits. A Context is a plain value;
// assigning one copies the whole snapshot.
//
// The Cpu executes a small word-encoded instruction set out of a flat
// little-endian Memory, and reports supervisor calls (svc) back to its caller
// instead of handling them. The Assembler translates program text into that
// instruction set, supporting labels, macros, equates, data directives and
// compile-time expression evaluation.
package cpu
