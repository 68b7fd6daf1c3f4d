package kernel

import (
	"iter"
	"log"
	"strconv"

	"github.com/ezrec/ukern/cpu"
)

// Service request ids.
const (
	SYS_YIELD = uint32(0) // Give up the processor.
	SYS_WRITE = uint32(1) // write(fd, ptr, n): send n bytes at ptr to the console.
)

// Defines returns the assembler equates for the service request ids.
func Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, def := range []struct {
			name  string
			value uint32
		}{
			{"SYS_YIELD", SYS_YIELD},
			{"SYS_WRITE", SYS_WRITE},
		} {
			if !yield(def.name, strconv.FormatUint(uint64(def.value), 10)) {
				return
			}
		}
	}
}

// Svc handles a supervisor call. The request is the immediate of the
// trapping instruction; how the service id and arguments are found depends
// on Config.TrapMode. Unsupported ids are ignored, and leave live
// untouched.
func (k *Kernel) Svc(live *cpu.Context, request uint32) (err error) {
	if k.state != STATE_RUNNING {
		err = ErrNotRunning
		return
	}

	mode := k.Config.TrapMode
	base := mode.argBase()

	var id uint32
	switch mode {
	case TRAP_MODE_REGISTER:
		id = live.Gpr[0]
	case TRAP_MODE_FIXED:
		id = k.Config.FixedRequest
	default:
		id = request
	}

	switch id {
	case SYS_YIELD:
		k.Stats.Yields++
		k.schedule(live, "yield")
	case SYS_WRITE:
		k.Stats.Writes++
		fd := live.Gpr[base]
		ptr := live.Gpr[base+1]
		n := live.Gpr[base+2]
		k.write(fd, ptr, n)
		live.Gpr[base] = n
	default:
		k.Stats.Ignored++
		if k.Verbose {
			log.Printf("kernel: svc: request %d ignored", id)
		}
	}

	return
}

// write sends n bytes from ptr to the console, in order. The descriptor
// is not interpreted. A negative count sends nothing.
func (k *Kernel) write(fd uint32, ptr uint32, n uint32) {
	if k.Verbose {
		log.Printf("kernel: write: fd %d ptr %08x n %d", fd, ptr, int32(n))
	}

	for i := int32(0); i < int32(n); i++ {
		addr := ptr + uint32(i)

		c, err := k.Memory.Load8(addr)
		if err != nil {
			k.Stats.Faults++
			if k.Verbose {
				log.Printf("kernel: write: %08x: %v", addr, err)
			}
			continue
		}

		err = k.Console.WriteByte(c)
		if err != nil {
			if k.Verbose {
				log.Printf("kernel: write: console: %v", err)
			}
			continue
		}

		k.Stats.Bytes++
	}
}
