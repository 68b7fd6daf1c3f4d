package kernel

import (
	"fmt"
)

// EventKind is the kind of a transfer of control into the kernel:
// power on, an asserted interrupt request line, or a supervisor call trap.
type EventKind int

//go:generate go tool stringer -linecomment -type=EventKind
const (
	EVENT_RESET = EventKind(0) // reset
	EVENT_IRQ   = EventKind(1) // irq
	EVENT_SVC   = EventKind(2) // svc
)

// Event is a hardware event delivered to Kernel.Dispatch.
type Event struct {
	Kind    EventKind
	Request uint32 // Immediate of the trapping instruction, for EVENT_SVC.
}

// ResetEvent returns a reset event.
func ResetEvent() Event {
	return Event{Kind: EVENT_RESET}
}

// IrqEvent returns an interrupt event.
func IrqEvent() Event {
	return Event{Kind: EVENT_IRQ}
}

// SvcEvent returns a supervisor call event carrying the trap immediate.
func SvcEvent(request uint32) Event {
	return Event{Kind: EVENT_SVC, Request: request}
}

func (ev Event) String() string {
	if ev.Kind == EVENT_SVC {
		return fmt.Sprintf("svc %#x", ev.Request)
	}
	return ev.Kind.String()
}
