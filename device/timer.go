package device

import (
	"log"
)

// Timer control register bits.
const (
	TIMER_CTRL_ONESHOT  = uint32(0x01) // Stop after one expiry.
	TIMER_CTRL_32BIT    = uint32(0x02) // 32-bit counter.
	TIMER_CTRL_INTEN    = uint32(0x20) // Interrupt enable.
	TIMER_CTRL_PERIODIC = uint32(0x40) // Reload from Load on expiry.
	TIMER_CTRL_ENABLE   = uint32(0x80) // Counter enable.

	// TIMER_DEFAULT_PERIOD is 2^20 ticks, about a second on the reference board.
	TIMER_DEFAULT_PERIOD = uint32(0x00100000)
)

// Sp804 is timer 1 of an SP804 dual timer.
type Sp804 struct {
	Verbose bool // If set, enables verbose logging.

	Load    uint32 // Reload value.
	Value   uint32 // Current count.
	Control uint32 // Control register.

	Expired int // Number of expiries since reset.

	raw bool // Raw interrupt status.
}

// Reset the timer to its power-on state.
func (tm *Sp804) Reset() {
	*tm = Sp804{Verbose: tm.Verbose, Value: ^uint32(0)}
}

// Configure programs a periodic 32-bit timer with its interrupt enabled,
// and starts it.
func (tm *Sp804) Configure(period uint32) {
	tm.Load = period
	tm.Value = period
	tm.Control = TIMER_CTRL_32BIT
	tm.Control |= TIMER_CTRL_PERIODIC
	tm.Control |= TIMER_CTRL_INTEN
	tm.Control |= TIMER_CTRL_ENABLE

	if tm.Verbose {
		log.Printf("sp804: period 0x%08x control 0x%02x", tm.Load, tm.Control)
	}
}

// Enabled returns true if the counter is running.
func (tm *Sp804) Enabled() bool {
	return tm.Control&TIMER_CTRL_ENABLE != 0
}

// expire handles the counter reaching zero.
func (tm *Sp804) expire() {
	tm.raw = true
	tm.Expired++

	switch {
	case tm.Control&TIMER_CTRL_ONESHOT != 0:
		tm.Control &= ^TIMER_CTRL_ENABLE
		tm.Value = 0
	case tm.Control&TIMER_CTRL_PERIODIC != 0:
		tm.Value = tm.Load
	default:
		// Free running wraps.
		tm.Value = ^uint32(0)
	}

	if tm.Value == 0 && tm.Enabled() {
		tm.Value = 1
	}
}

// Tick advances the counter by cycles.
func (tm *Sp804) Tick(cycles uint32) {
	for cycles > 0 && tm.Enabled() {
		if tm.Value > cycles {
			tm.Value -= cycles
			return
		}

		cycles -= tm.Value
		tm.expire()
	}
}

// RawInterrupt returns the unmasked interrupt status.
func (tm *Sp804) RawInterrupt() bool {
	return tm.raw
}

// Interrupt returns the masked interrupt status, which drives the
// interrupt line.
func (tm *Sp804) Interrupt() bool {
	return tm.raw && tm.Control&TIMER_CTRL_INTEN != 0
}

// ClearInterrupt clears a pending interrupt.
func (tm *Sp804) ClearInterrupt() {
	tm.raw = false
}
