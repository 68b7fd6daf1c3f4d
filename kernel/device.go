package kernel

import (
	"io"
)

// Timer is a periodic countdown timer.
type Timer interface {
	// Configure loads period, and starts the timer periodic, 32-bit, with
	// its interrupt enabled.
	Configure(period uint32)
	// ClearInterrupt acknowledges the timer interrupt at the device.
	ClearInterrupt()
}

// InterruptController is a generic interrupt controller.
type InterruptController interface {
	SetPriorityMask(mask uint32)
	EnableSource(id uint32)
	EnableInterface()
	EnableDistributor()
	// Acknowledge returns the id of the highest priority pending source.
	Acknowledge() uint32
	// Complete signals end of handling for id.
	Complete(id uint32)
}

// Console is a byte-oriented output device. WriteByte blocks until the
// byte has been accepted.
type Console = io.ByteWriter

// Memory is the view of user memory used by the write service.
type Memory interface {
	Load8(addr uint32) (byte, error)
}

// Processor is the local processor control.
type Processor interface {
	// EnableIrq unmasks IRQs on the processor.
	EnableIrq()
}
