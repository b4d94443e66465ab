// See license file for copyright and license details.

package mapper

import (
	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/ines"
	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

const (
	prgStart  = 0x8000
	prgMirror = 0xc000
)

// NROM (mapper 0) has fixed PRG and CHR banks.
// see https://www.nesdev.org/wiki/NROM
//
//	$6000-$7FFF: PRG RAM on Family Basic only, not supported.
//	$8000-$BFFF: first 16KB of PRG ROM.
//	$C000-$FFFF: last 16KB of PRG ROM (NROM-256) or mirror of $8000-$BFFF (NROM-128).
type NROM struct {
	prg       *mem.ROM
	chr       *mem.ROM
	mirroring bool
}

// NewNROM validates data against the declared unit counts and builds the
// board. Bytes after the CHR data are ignored.
func NewNROM(data []uint8, prgUnits, chrUnits uint8) (*NROM, error) {
	if prgUnits != 1 && prgUnits != 2 {
		return nil, errors.Wrapf(ErrPrgSize, "NROM needs 1 or 2 PRG units, got %d", prgUnits)
	}

	prgSize := int(prgUnits) * ines.PrgUnit
	if len(data) < prgSize {
		return nil, errors.Wrapf(ErrPrgIncomplete, "expected %d bytes, got %d", prgSize, len(data))
	}

	chrSize := int(chrUnits) * ines.ChrUnit
	if len(data)-prgSize < chrSize {
		return nil, errors.Wrapf(ErrChrIncomplete, "expected %d bytes, got %d", chrSize, len(data)-prgSize)
	}

	return &NROM{
		prg:       mem.NewROM(data[:prgSize:prgSize]),
		chr:       mem.NewROM(data[prgSize : prgSize+chrSize : prgSize+chrSize]),
		mirroring: prgUnits == 1,
	}, nil
}

func (m *NROM) Load(addr uint16) uint8 {
	if addr < prgStart {
		mem.Fault("load", addr, "nrom prg ram", mem.ErrUnmapped)
	}
	if m.mirroring && addr >= prgMirror {
		return m.prg.Load(addr - prgMirror)
	}
	return m.prg.Load(addr - prgStart)
}

func (m *NROM) Store(addr uint16, b uint8) {
	if addr < prgStart {
		mem.Fault("store", addr, "nrom prg ram", mem.ErrUnmapped)
	}
	mem.Fault("store", addr, "nrom prg rom", mem.ErrReadOnly)
}

func (m *NROM) CHR() mem.Memory {
	return m.chr
}

// Mirroring reports whether $C000-$FFFF mirrors $8000-$BFFF.
func (m *NROM) Mirroring() bool {
	return m.mirroring
}
