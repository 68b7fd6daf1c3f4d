package cpu

import (
	"fmt"
)

// Code is a single 32-bit instruction word.
//
// Layout:
//
//	31..24  operation
//	23..20  rd (destination), or condition for branches
//	19..16  rn (first operand)
//	15..12  rm (second operand register)
//	11      CODE_IMM: the second operand is the next word
//	23..0   svc request id
type Code uint32

// CODE_IMM marks an instruction followed by an immediate word.
const CODE_IMM = Code(1 << 11)

// CODE_SVC_MASK masks the request id of an svc instruction.
const CODE_SVC_MASK = uint32(1<<24) - 1

// CodeOp is the operation of an instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_NOP  = CodeOp(0x00) // nop
	OP_MOV  = CodeOp(0x01) // mov
	OP_ADD  = CodeOp(0x02) // add
	OP_SUB  = CodeOp(0x03) // sub
	OP_AND  = CodeOp(0x04) // and
	OP_ORR  = CodeOp(0x05) // orr
	OP_CMP  = CodeOp(0x08) // cmp
	OP_LDR  = CodeOp(0x10) // ldr
	OP_STR  = CodeOp(0x11) // str
	OP_LDRB = CodeOp(0x12) // ldrb
	OP_STRB = CodeOp(0x13) // strb
	OP_B    = CodeOp(0x20) // b
	OP_BL   = CodeOp(0x21) // bl
	OP_BX   = CodeOp(0x22) // bx
	OP_SVC  = CodeOp(0x30) // svc
)

// CodeCond is a branch condition.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_AL = CodeCond(0) // al
	COND_EQ = CodeCond(1) // eq
	COND_NE = CodeCond(2) // ne
	COND_LT = CodeCond(3) // lt
	COND_GE = CodeCond(4) // ge
	COND_LO = CodeCond(5) // lo
	COND_HS = CodeCond(6) // hs
)

// Holds returns true if the condition is satisfied by the status register.
func (cond CodeCond) Holds(psr uint32) bool {
	switch cond {
	case COND_AL:
		return true
	case COND_EQ:
		return psr&PSR_Z != 0
	case COND_NE:
		return psr&PSR_Z == 0
	case COND_LT:
		return psr&PSR_N != 0
	case COND_GE:
		return psr&PSR_N == 0
	case COND_LO:
		return psr&PSR_C == 0
	case COND_HS:
		return psr&PSR_C != 0
	}

	return false
}

// MakeCode creates a register-operand instruction.
func MakeCode(op CodeOp, rd, rn, rm int) Code {
	return Code(uint32(op)<<24 | uint32(rd&0xf)<<20 | uint32(rn&0xf)<<16 | uint32(rm&0xf)<<12)
}

// MakeCodeImm creates an instruction whose second operand is the next word.
func MakeCodeImm(op CodeOp, rd, rn int) Code {
	return MakeCode(op, rd, rn, 0) | CODE_IMM
}

// MakeCodeBranch creates a branch to the address in the next word.
func MakeCodeBranch(op CodeOp, cond CodeCond) Code {
	return MakeCodeImm(op, int(cond), 0)
}

// MakeCodeSvc creates a supervisor call carrying a request id.
func MakeCodeSvc(id uint32) Code {
	return Code(uint32(OP_SVC)<<24 | (id & CODE_SVC_MASK))
}

// Op returns the operation.
func (code Code) Op() CodeOp {
	return CodeOp(code >> 24)
}

// Rd returns the destination register.
func (code Code) Rd() int {
	return int(code>>20) & 0xf
}

// Rn returns the first operand register.
func (code Code) Rn() int {
	return int(code>>16) & 0xf
}

// Rm returns the second operand register.
func (code Code) Rm() int {
	return int(code>>12) & 0xf
}

// Cond returns the branch condition.
func (code Code) Cond() CodeCond {
	return CodeCond(code.Rd())
}

// HasImm is true when the instruction is followed by an immediate word.
func (code Code) HasImm() bool {
	return code&CODE_IMM != 0
}

// SvcId returns the request id of an svc instruction.
func (code Code) SvcId() uint32 {
	return uint32(code) & CODE_SVC_MASK
}

// Size returns the instruction size in bytes.
func (code Code) Size() uint32 {
	if code.HasImm() {
		return 8
	}
	return 4
}

// Disassemble renders the instruction, with imm used as its immediate word.
func (code Code) Disassemble(imm uint32) string {
	op := code.Op()

	op2 := RegName(code.Rm())
	if code.HasImm() {
		op2 = fmt.Sprintf("0x%x", imm)
	}

	switch op {
	case OP_NOP:
		return "nop"
	case OP_MOV:
		return fmt.Sprintf("%v %v %v", op, RegName(code.Rd()), op2)
	case OP_BX:
		return fmt.Sprintf("%v %v", op, op2)
	case OP_ADD, OP_SUB, OP_AND, OP_ORR, OP_LDR, OP_STR, OP_LDRB, OP_STRB:
		return fmt.Sprintf("%v %v %v %v", op, RegName(code.Rd()), RegName(code.Rn()), op2)
	case OP_CMP:
		return fmt.Sprintf("%v %v %v", op, RegName(code.Rn()), op2)
	case OP_B:
		if code.Cond() == COND_AL {
			return fmt.Sprintf("%v %v", op, op2)
		}
		return fmt.Sprintf("%v%v %v", op, code.Cond(), op2)
	case OP_BL:
		return fmt.Sprintf("%v %v", op, op2)
	case OP_SVC:
		return fmt.Sprintf("%v 0x%x", op, code.SvcId())
	}

	return fmt.Sprintf(".word 0x%08x", uint32(code))
}

func (code Code) String() string {
	return code.Disassemble(0)
}
