// See license file for copyright and license details.

package cpu

// status register bits.
const (
	flagC uint8 = 1 << iota // carry.
	flagZ                   // zero.
	flagI                   // interrupt disable.
	flagD                   // decimal.
	flagB                   // break, only meaningful in copies pushed on the stack.
	flagU                   // unused, always reads as 1.
	flagV                   // overflow.
	flagN                   // negative.
)

// Flags is the processor status register.
type Flags struct {
	N bool // negative.
	V bool // overflow.
	B bool // break command.
	D bool // decimal, kept but ignored by adc and sbc.
	I bool // interrupt disable.
	Z bool // zero.
	C bool // carry.
}

// Byte returns the flags packed into a byte, bit 5 is always set.
func (f Flags) Byte() uint8 {
	b := flagU
	if f.N {
		b |= flagN
	}
	if f.V {
		b |= flagV
	}
	if f.B {
		b |= flagB
	}
	if f.D {
		b |= flagD
	}
	if f.I {
		b |= flagI
	}
	if f.Z {
		b |= flagZ
	}
	if f.C {
		b |= flagC
	}
	return b
}

// SetByte loads the flags from a packed byte as plp and rti do: bits 4 and 5
// don't exist in the register so B ends up cleared.
func (f *Flags) SetByte(b uint8) {
	f.N = b&flagN != 0
	f.V = b&flagV != 0
	f.B = false
	f.D = b&flagD != 0
	f.I = b&flagI != 0
	f.Z = b&flagZ != 0
	f.C = b&flagC != 0
}

// Registers is a copy of the CPU registers.
type Registers struct {
	A  uint8  // accumulator.
	X  uint8  // x register.
	Y  uint8  // y register.
	SP uint8  // stack pointer, low byte of the next free slot in page 1.
	PC uint16 // program counter.
	P  Flags  // status flags.
}
