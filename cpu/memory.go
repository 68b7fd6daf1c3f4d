package cpu

import (
	"encoding/binary"
)

// Memory is a flat little-endian memory mapped at Base.
type Memory struct {
	Base uint32
	Data []byte
}

// NewMemory creates a zeroed memory of size bytes at base.
func NewMemory(base uint32, size int) *Memory {
	return &Memory{
		Base: base,
		Data: make([]byte, size),
	}
}

// Limit returns the first address past the end of the memory.
func (mem *Memory) Limit() uint32 {
	return mem.Base + uint32(len(mem.Data))
}

// offset returns the Data index of an access of width bytes at addr.
func (mem *Memory) offset(addr uint32, width uint32) (off uint32, err error) {
	if addr < mem.Base || uint64(addr)+uint64(width) > uint64(mem.Base)+uint64(len(mem.Data)) {
		err = ErrMemoryFault(addr)
		return
	}

	off = addr - mem.Base
	return
}

// Load8 reads the byte at addr.
func (mem *Memory) Load8(addr uint32) (value byte, err error) {
	off, err := mem.offset(addr, 1)
	if err != nil {
		return
	}

	value = mem.Data[off]
	return
}

// Store8 writes the byte at addr.
func (mem *Memory) Store8(addr uint32, value byte) (err error) {
	off, err := mem.offset(addr, 1)
	if err != nil {
		return
	}

	mem.Data[off] = value
	return
}

// Load32 reads the aligned word at addr.
func (mem *Memory) Load32(addr uint32) (value uint32, err error) {
	if addr&3 != 0 {
		err = ErrMemoryAlign
		return
	}

	off, err := mem.offset(addr, 4)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(mem.Data[off:])
	return
}

// Store32 writes the aligned word at addr.
func (mem *Memory) Store32(addr uint32, value uint32) (err error) {
	if addr&3 != 0 {
		err = ErrMemoryAlign
		return
	}

	off, err := mem.offset(addr, 4)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(mem.Data[off:], value)
	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	off, err := mem.offset(addr, uint32(len(data)))
	if err != nil {
		return
	}

	copy(mem.Data[off:], data)
	return
}
