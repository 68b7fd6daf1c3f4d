// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

// Processor status register bits.
const (
	PSR_MODE_USR  = uint32(0x10) // Unprivileged user mode.
	PSR_MODE_FIQ  = uint32(0x11) // Fast interrupt mode.
	PSR_MODE_IRQ  = uint32(0x12) // Interrupt mode.
	PSR_MODE_SVC  = uint32(0x13) // Supervisor mode.
	PSR_MODE_MASK = uint32(0x1f) // Mask of the mode bits.

	PSR_F = uint32(1 << 6) // FIQ disabled.
	PSR_I = uint32(1 << 7) // IRQ disabled.

	PSR_Z = uint32(1 << 30) // Compare: equal.
	PSR_N = uint32(1 << 31) // Compare: signed less than.
	PSR_C = uint32(1 << 29) // Compare: unsigned higher or same.

	// PSR_USR_IRQ is the status word of a freshly created process:
	// user mode, IRQ enabled, FIQ masked.
	PSR_USR_IRQ = PSR_MODE_USR | PSR_F
)

// Register numbers.
const (
	REG_GPR_COUNT = 13 // r0-r12
	REG_SP        = 13
	REG_LR        = 14
	REG_PC        = 15
	REG_COUNT     = 16
)

// Context is the complete CPU-visible state of a suspended computation.
type Context struct {
	Psr uint32                // Processor status register.
	Pc  uint32                // Program counter.
	Gpr [REG_GPR_COUNT]uint32 // General purpose registers r0-r12.
	Sp  uint32                // Stack pointer.
	Lr  uint32                // Link register.
}

// Mode returns the execution mode bits of the status register.
func (ctx *Context) Mode() uint32 {
	return ctx.Psr & PSR_MODE_MASK
}

// Privileged is true for every mode other than user mode.
func (ctx *Context) Privileged() bool {
	return ctx.Mode() != PSR_MODE_USR
}

// IrqEnabled is true when the context accepts IRQ exceptions.
func (ctx *Context) IrqEnabled() bool {
	return ctx.Psr&PSR_I == 0
}

// Reg returns register n, where 13 is sp, 14 is lr and 15 is pc.
func (ctx *Context) Reg(n int) uint32 {
	switch n {
	case REG_SP:
		return ctx.Sp
	case REG_LR:
		return ctx.Lr
	case REG_PC:
		return ctx.Pc
	default:
		return ctx.Gpr[n]
	}
}

// SetReg sets register n, where 13 is sp, 14 is lr and 15 is pc.
func (ctx *Context) SetReg(n int, value uint32) {
	switch n {
	case REG_SP:
		ctx.Sp = value
	case REG_LR:
		ctx.Lr = value
	case REG_PC:
		ctx.Pc = value
	default:
		ctx.Gpr[n] = value
	}
}

// RegName returns the assembler name of register n.
func RegName(n int) string {
	switch n {
	case REG_SP:
		return "sp"
	case REG_LR:
		return "lr"
	case REG_PC:
		return "pc"
	default:
		return fmt.Sprintf("r%d", n)
	}
}

// String returns the context as a register dump.
func (ctx *Context) String() (text string) {
	text = fmt.Sprintf("% 5s: %04X_%04X\n", "psr", ctx.Psr>>16, ctx.Psr&0xffff)
	for n := range REG_COUNT {
		val := ctx.Reg(n)
		text += fmt.Sprintf("% 5s: %04X_%04X\n", RegName(n), val>>16, val&0xffff)
	}

	return
}
