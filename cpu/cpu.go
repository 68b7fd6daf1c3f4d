// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"

	"github.com/ezrec/ukern/internal"
)

var _cpu_defines = map[string]string{
	"PSR_MODE_USR": fmt.Sprintf("0x%x", PSR_MODE_USR),
	"PSR_MODE_SVC": fmt.Sprintf("0x%x", PSR_MODE_SVC),
	"PSR_MODE_IRQ": fmt.Sprintf("0x%x", PSR_MODE_IRQ),
	"PSR_F":        fmt.Sprintf("0x%x", PSR_F),
	"PSR_I":        fmt.Sprintf("0x%x", PSR_I),
	"PSR_USR_IRQ":  fmt.Sprintf("0x%x", PSR_USR_IRQ),
}

// Cpu executes user mode instructions against a Context.
//
// The Cpu holds no register state of its own: the registers of the program
// being run are always the Context passed to Step, which lets a kernel swap
// the whole snapshot between steps.
type Cpu struct {
	Verbose bool    // Set to enable verbose logging.
	Memory  *Memory // Memory the instructions are fetched from.

	Ticks int // Instructions executed since reset.

	irqEnabled bool // Global IRQ delivery enable.
}

// NewCpu creates a new CPU attached to a memory.
func NewCpu(mem *Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.SortedAll(_cpu_defines)
}

// Reset clears the statistics and disables IRQ delivery.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Ticks = 0
	cpu.irqEnabled = false
}

// EnableIrq globally enables delivery of IRQ exceptions.
func (cpu *Cpu) EnableIrq() {
	if cpu.Verbose {
		log.Printf("cpu: irq enabled")
	}
	cpu.irqEnabled = true
}

// IrqEnabled returns true if IRQ exceptions can be delivered.
func (cpu *Cpu) IrqEnabled() bool {
	return cpu.irqEnabled
}

// Fetch decodes the instruction at addr, and its immediate word if it has one.
func (cpu *Cpu) Fetch(addr uint32) (code Code, imm uint32, err error) {
	word, err := cpu.Memory.Load32(addr)
	if err != nil {
		return
	}

	code = Code(word)
	if code.HasImm() {
		imm, err = cpu.Memory.Load32(addr + 4)
	}

	return
}

// Step executes a single instruction of ctx.
//
// A supervisor call is not executed: trap is set, request holds the id
// encoded in the instruction, and ctx.Pc points past the svc.
// On error ctx is left unmodified.
func (cpu *Cpu) Step(ctx *Context) (trap bool, request uint32, err error) {
	saved := *ctx
	defer func() {
		if err != nil {
			*ctx = saved
		}
	}()

	code, imm, err := cpu.Fetch(ctx.Pc)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", ctx.Pc, code.Disassemble(imm))
	}

	ctx.Pc += code.Size()
	cpu.Ticks++

	op2 := imm
	if !code.HasImm() {
		op2 = ctx.Reg(code.Rm())
	}
	rd := code.Rd()
	rn := ctx.Reg(code.Rn())

	switch code.Op() {
	case OP_NOP:
	case OP_MOV:
		ctx.SetReg(rd, op2)
	case OP_ADD:
		ctx.SetReg(rd, rn+op2)
	case OP_SUB:
		ctx.SetReg(rd, rn-op2)
	case OP_AND:
		ctx.SetReg(rd, rn&op2)
	case OP_ORR:
		ctx.SetReg(rd, rn|op2)
	case OP_CMP:
		ctx.Psr &= ^(PSR_N | PSR_Z | PSR_C)
		if rn == op2 {
			ctx.Psr |= PSR_Z
		}
		if int32(rn) < int32(op2) {
			ctx.Psr |= PSR_N
		}
		if rn >= op2 {
			ctx.Psr |= PSR_C
		}
	case OP_LDR:
		var value uint32
		value, err = cpu.Memory.Load32(rn + op2)
		if err != nil {
			return
		}
		ctx.SetReg(rd, value)
	case OP_STR:
		err = cpu.Memory.Store32(rn+op2, ctx.Reg(rd))
	case OP_LDRB:
		var value byte
		value, err = cpu.Memory.Load8(rn + op2)
		if err != nil {
			return
		}
		ctx.SetReg(rd, uint32(value))
	case OP_STRB:
		err = cpu.Memory.Store8(rn+op2, byte(ctx.Reg(rd)))
	case OP_B:
		if code.Cond().Holds(ctx.Psr) {
			ctx.Pc = op2
		}
	case OP_BL:
		ctx.Lr = ctx.Pc
		ctx.Pc = op2
	case OP_BX:
		ctx.Pc = op2
	case OP_SVC:
		trap = true
		request = code.SvcId()
	default:
		err = ErrOpcode(code)
	}

	return
}
