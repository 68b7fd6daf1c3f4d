package emulator

import (
	"errors"

	"github.com/ezrec/ukern/translate"
)

var f = translate.From

var (
	ErrProgramCount  = errors.New(f("program count does not match kernel capacity"))
	ErrRegionSize    = errors.New(f("program region size invalid"))
	ErrTickCost      = errors.New(f("tick cost invalid"))
	ErrProgramSource = errors.New(f("program has no source"))
	ErrNotReset      = errors.New(f("emulator not reset"))
)

// ErrProgramSize is a program image larger than its memory region.
type ErrProgramSize struct {
	Program string
	Size    uint32
}

func (err *ErrProgramSize) Error() string {
	return f("program %v: image of %v bytes exceeds its region", err.Program, err.Size)
}

// ErrLink indicates the program that failed to assemble or link.
type ErrLink struct {
	Program string
	Err     error
}

func (err *ErrLink) Error() string {
	return f("program %v: %v", err.Program, err.Err)
}

func (err *ErrLink) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Program string
	LineNo  int
	Pc      uint32
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("program %v line %d (pc 0x%08x) %v", err.Program, err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
