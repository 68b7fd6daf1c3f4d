package kernel

import (
	"fmt"
	"strings"

	"github.com/ezrec/ukern/device"
)

// TrapMode is the supervisor call convention.
//
// TRAP_MODE_IMMEDIATE takes the request id from the instruction, with
// arguments in r0..r2 and the result in r0. TRAP_MODE_REGISTER takes it
// from r0, with arguments in r1..r3 and the result in r1. TRAP_MODE_FIXED
// treats every trap as Config.FixedRequest, with registers as immediate.
type TrapMode int

//go:generate go tool stringer -linecomment -type=TrapMode
const (
	TRAP_MODE_IMMEDIATE = TrapMode(0) // immediate
	TRAP_MODE_REGISTER  = TrapMode(1) // register
	TRAP_MODE_FIXED     = TrapMode(2) // fixed
)

// Valid returns true for a known trap mode.
func (mode TrapMode) Valid() bool {
	return mode >= TRAP_MODE_IMMEDIATE && mode <= TRAP_MODE_FIXED
}

// ParseTrapMode parses the name of a trap mode.
func ParseTrapMode(name string) (mode TrapMode, err error) {
	for mode = TRAP_MODE_IMMEDIATE; mode.Valid(); mode++ {
		if strings.EqualFold(name, mode.String()) {
			return
		}
	}

	mode = TRAP_MODE_IMMEDIATE
	err = fmt.Errorf("%w: %q", ErrTrapMode, name)
	return
}

// MarshalText implements encoding.TextMarshaler.
func (mode TrapMode) MarshalText() ([]byte, error) {
	if !mode.Valid() {
		return nil, ErrTrapMode
	}
	return []byte(mode.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *TrapMode) UnmarshalText(text []byte) (err error) {
	*mode, err = ParseTrapMode(string(text))
	return
}

// argBase is the first argument register, which also receives the result.
func (mode TrapMode) argBase() int {
	if mode == TRAP_MODE_REGISTER {
		return 1
	}
	return 0
}

// Config is the kernel configuration.
type Config struct {
	Capacity     int      `yaml:"capacity"`      // Number of processes.
	PidBase      int      `yaml:"pid_base"`      // Pid of the first process.
	TimerPeriod  uint32   `yaml:"timer_period"`  // Timer reload value.
	TimerSource  uint32   `yaml:"timer_source"`  // Interrupt id of the timer.
	PriorityMask uint32   `yaml:"priority_mask"` // Interrupt controller priority mask.
	TrapMode     TrapMode `yaml:"trap_mode"`     // Supervisor call convention.
	FixedRequest uint32   `yaml:"fixed_request"` // Request id for TRAP_MODE_FIXED.
	Debug        bool     `yaml:"debug"`         // Check table invariants after every dispatch.
}

// DefaultConfig returns a two process configuration for the reference
// board.
func DefaultConfig() Config {
	return Config{
		Capacity:     2,
		PidBase:      1,
		TimerPeriod:  device.TIMER_DEFAULT_PERIOD,
		TimerSource:  device.GIC_SOURCE_TIMER0,
		PriorityMask: device.GIC_PRIORITY_ALL,
		TrapMode:     TRAP_MODE_IMMEDIATE,
		FixedRequest: SYS_WRITE,
	}
}

// Validate the configuration.
func (config *Config) Validate() (err error) {
	if config.Capacity < 1 {
		err = fmt.Errorf("%w: %d", ErrCapacity, config.Capacity)
		return
	}

	if !config.TrapMode.Valid() {
		err = fmt.Errorf("%w: %v", ErrTrapMode, config.TrapMode)
		return
	}

	return
}
