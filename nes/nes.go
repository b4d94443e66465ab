// See license file for copyright and license details.

// Package nes wires a cartridge, the CPU bus and the CPU together.
package nes

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/cpu"
	"github.com/MarcoLucidi01/nes6502/nes/mapper"
)

type NES struct {
	Rom  Rom
	Cart mapper.Mapper
	Bus  *Bus
	CPU  *cpu.CPU
}

// New builds the console around rom. The CPU is not powered up yet.
func New(rom Rom) (*NES, error) {
	cart, err := mapper.New(rom.Ines, rom.Data)
	if err != nil {
		return nil, errors.Wrap(err, "loading cartridge")
	}
	bus := NewBus(cart)
	return &NES{
		Rom:  rom,
		Cart: cart,
		Bus:  bus,
		CPU:  cpu.New(bus),
	}, nil
}

// PowerUp powers up the CPU, which starts from the cartridge reset vector.
// Reading the vector can fault on a broken cartridge, so the error is
// returned instead of panicking.
func (nes *NES) PowerUp() (err error) {
	defer catch(&err, "power up")
	nes.CPU.PowerUp()
	return nil
}

func (nes *NES) PowerUpAt(pc uint16) {
	nes.CPU.PowerUpAt(pc)
}

func (nes *NES) Reset() (err error) {
	defer catch(&err, "reset")
	nes.CPU.Reset()
	return nil
}

func (nes *NES) Step() error {
	return nes.CPU.Step()
}

// Run runs the CPU until it stops on an error, e.g. the first access to a PPU
// register.
func (nes *NES) Run() error {
	return nes.CPU.Run()
}

// catch recovers memory faults raised outside of an instruction, like the
// vector fetches of PowerUp and Reset.
func catch(err *error, what string) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if _, bug := r.(runtime.Error); !ok || bug {
		panic(r)
	}
	*err = errors.Wrap(e, what)
}
