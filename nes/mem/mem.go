// See license file for copyright and license details.

// Package mem provides the byte addressable memories the NES is built from
// and the errors raised when they are misused.
package mem

import (
	"fmt"

	"github.com/pkg/errors"
)

// Memory is anything that can be read and written through a 16 bit address.
//
// Load and Store don't return errors: accessing an address a Memory can't
// serve is a bug in the caller (a mapper or the cpu) and they panic with an
// *AccessError instead.
type Memory interface {
	Load(addr uint16) uint8
	Store(addr uint16, b uint8)
}

var (
	ErrOutOfRange    = errors.New("address out of range")
	ErrReadOnly      = errors.New("write to read only memory")
	ErrUnmapped      = errors.New("address not mapped")
	ErrUnimplemented = errors.New("not implemented")
)

// AccessError records a failed memory access and the address that caused it.
type AccessError struct {
	Op   string // "load" or "store".
	Addr uint16
	What string // optional, the device or register being accessed.
	Err  error
}

func (e *AccessError) Error() string {
	if e.What != "" {
		return fmt.Sprintf("%s 0x%04X (%s): %v", e.Op, e.Addr, e.What, e.Err)
	}
	return fmt.Sprintf("%s 0x%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Fault panics with an *AccessError annotated with the current stack.
func Fault(op string, addr uint16, what string, err error) {
	panic(errors.WithStack(&AccessError{Op: op, Addr: addr, What: what, Err: err}))
}

// LoadWord reads a little endian word: low byte at addr, high byte at
// addr+1. addr+1 wraps around at 0xffff.
func LoadWord(m Memory, addr uint16) uint16 {
	return uint16(m.Load(addr)) | uint16(m.Load(addr+1))<<8
}

// StoreWord writes w in little endian order at addr and addr+1.
func StoreWord(m Memory, addr uint16, w uint16) {
	m.Store(addr, uint8(w))
	m.Store(addr+1, uint8(w>>8))
}

// RAM is a fixed size read/write memory addressed from 0.
type RAM struct {
	data []uint8
}

func NewRAM(size int) *RAM {
	return &RAM{data: make([]uint8, size)}
}

func (r *RAM) Len() int {
	return len(r.data)
}

func (r *RAM) Load(addr uint16) uint8 {
	if int(addr) >= len(r.data) {
		Fault("load", addr, "ram", ErrOutOfRange)
	}
	return r.data[addr]
}

func (r *RAM) Store(addr uint16, b uint8) {
	if int(addr) >= len(r.data) {
		Fault("store", addr, "ram", ErrOutOfRange)
	}
	r.data[addr] = b
}

// ROM is a read only memory addressed from 0. Any Store panics.
type ROM struct {
	data []uint8
}

// NewROM wraps data without copying it, data must not be modified afterwards.
func NewROM(data []uint8) *ROM {
	return &ROM{data: data}
}

func (r *ROM) Len() int {
	return len(r.data)
}

func (r *ROM) Load(addr uint16) uint8 {
	if int(addr) >= len(r.data) {
		Fault("load", addr, "rom", ErrOutOfRange)
	}
	return r.data[addr]
}

func (r *ROM) Store(addr uint16, b uint8) {
	Fault("store", addr, "rom", ErrReadOnly)
}
