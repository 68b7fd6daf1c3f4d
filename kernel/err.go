package kernel

import (
	"errors"

	"github.com/ezrec/ukern/translate"
)

var f = translate.From

var (
	// Kernel errors
	ErrNotRunning     = errors.New(f("kernel not running"))
	ErrAlreadyRunning = errors.New(f("kernel already running"))
	ErrDeviceMissing  = errors.New(f("device missing"))
	ErrEventInvalid   = errors.New(f("event invalid"))

	// Configuration errors
	ErrCapacity = errors.New(f("process table capacity invalid"))
	ErrTrapMode = errors.New(f("trap mode invalid"))
)

// ErrImageCount is a process image list that does not fill the table.
type ErrImageCount struct {
	Capacity int
	Images   int
}

func (err *ErrImageCount) Error() string {
	return f("%d process images for a table of %d", err.Images, err.Capacity)
}

// ErrInvariant is a process table found in an inconsistent state.
type ErrInvariant struct {
	Executing int    // Cursor at the time of the check.
	Reason    string // What was violated.
}

func (err *ErrInvariant) Error() string {
	return f("process table invariant: %v (executing %d)", err.Reason, err.Executing)
}
