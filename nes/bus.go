// See license file for copyright and license details.

package nes

import (
	"fmt"

	"github.com/MarcoLucidi01/nes6502/nes/mapper"
	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

const (
	ramSize = 0x0800
	ppuRegs = 0x0008
	ppuBase = 0x2000

	ramEnd = 0x1fff
	ppuEnd = 0x3fff
	apuEnd = 0x401f
)

// region is a target of the CPU memory map.
type region int

const (
	regionRAM region = iota
	regionPPU
	regionAPU
	regionCart
)

var regionNames = [...]string{
	regionRAM:  "ram",
	regionPPU:  "ppu",
	regionAPU:  "apu/io",
	regionCart: "cartridge",
}

func (r region) String() string {
	return regionNames[r]
}

// decode maps a CPU address to its region and to the address seen by the
// device in that region (mirrors folded, cartridge addresses untouched).
// see https://www.nesdev.org/wiki/CPU_memory_map
func decode(addr uint16) (region, uint16) {
	switch {
	case addr <= ramEnd:
		return regionRAM, addr & (ramSize - 1)
	case addr <= ppuEnd:
		return regionPPU, ppuBase | addr&(ppuRegs-1)
	case addr <= apuEnd:
		return regionAPU, addr
	default:
		return regionCart, addr
	}
}

// Bus is the CPU bus, the only way the CPU reaches memory and devices.
// PPU and APU registers are not emulated yet: any access to them panics with
// an error wrapping mem.ErrUnimplemented.
type Bus struct {
	ram  *mem.RAM
	cart mapper.Mapper
}

func NewBus(cart mapper.Mapper) *Bus {
	return &Bus{
		ram:  mem.NewRAM(ramSize),
		cart: cart,
	}
}

func (bus *Bus) Load(addr uint16) uint8 {
	r, a := decode(addr)
	switch r {
	case regionRAM:
		return bus.ram.Load(a)
	case regionCart:
		return bus.cart.Load(a)
	default:
		bus.unimplemented("load", addr, r, a)
		return 0
	}
}

func (bus *Bus) Store(addr uint16, b uint8) {
	r, a := decode(addr)
	switch r {
	case regionRAM:
		bus.ram.Store(a, b)
	case regionCart:
		bus.cart.Store(a, b)
	default:
		bus.unimplemented("store", addr, r, a)
	}
}

func (bus *Bus) unimplemented(op string, addr uint16, r region, reg uint16) {
	mem.Fault(op, addr, fmt.Sprintf("%s register 0x%04X", r, reg), mem.ErrUnimplemented)
}
