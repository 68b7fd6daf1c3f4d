package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	live := Context{Psr: PSR_USR_IRQ, Pc: 0x8000, Sp: 0x9000, Lr: 0x8010}
	for n := range live.Gpr {
		live.Gpr[n] = uint32(0x1000 + n)
	}

	saved := live
	restored := saved

	assert.Equal(live, restored)

	// Changing the live snapshot leaves the saved copy alone.
	live.Gpr[0] = 0xdead
	live.Pc = 0
	assert.Equal(uint32(0x1000), saved.Gpr[0])
	assert.Equal(uint32(0x8000), saved.Pc)
}

func TestContext_Status(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x50), PSR_USR_IRQ)

	ctx := Context{Psr: PSR_USR_IRQ}
	assert.Equal(PSR_MODE_USR, ctx.Mode())
	assert.False(ctx.Privileged())
	assert.True(ctx.IrqEnabled())

	ctx.Psr = PSR_MODE_SVC | PSR_I
	assert.True(ctx.Privileged())
	assert.False(ctx.IrqEnabled())
}

func TestContext_Reg(t *testing.T) {
	assert := assert.New(t)

	ctx := Context{}
	for n := range REG_COUNT {
		ctx.SetReg(n, uint32(n*3))
	}

	for n := range REG_COUNT {
		assert.Equal(uint32(n*3), ctx.Reg(n), RegName(n))
	}
	assert.Equal(uint32(REG_SP*3), ctx.Sp)
	assert.Equal(uint32(REG_LR*3), ctx.Lr)
	assert.Equal(uint32(REG_PC*3), ctx.Pc)

	assert.Equal("r0", RegName(0))
	assert.Equal("r12", RegName(12))
	assert.Equal("sp", RegName(REG_SP))
	assert.Equal("lr", RegName(REG_LR))
	assert.Equal("pc", RegName(REG_PC))
}

func TestContext_String(t *testing.T) {
	assert := assert.New(t)

	ctx := Context{Psr: PSR_USR_IRQ, Pc: 0x12345678}
	text := ctx.String()

	assert.Contains(text, "  psr: 0000_0050\n")
	assert.Contains(text, "   pc: 1234_5678\n")
	assert.Equal(1+REG_COUNT, strings.Count(text, "\n"))
}
