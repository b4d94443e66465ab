// See license file for copyright and license details.

// Package mapper implements the cartridge boards that map PRG and CHR data
// into the CPU and PPU address spaces.
package mapper

import (
	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/ines"
	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

var (
	ErrUnsupportedMapper = errors.New("unsupported mapper")
	ErrPrgIncomplete     = errors.New("PRG ROM incomplete")
	ErrChrIncomplete     = errors.New("CHR ROM incomplete")
	ErrPrgSize           = errors.New("invalid PRG ROM size")
)

// Mapper is a cartridge board as seen from the CPU bus ($4020-$FFFF, using
// CPU addresses). CHR returns the memory the PPU would see at $0000-$1FFF.
type Mapper interface {
	mem.Memory
	CHR() mem.Memory
}

// New builds the mapper declared by header h over the cartridge data (PRG
// data immediately followed by CHR data, as stored in the rom file).
func New(h ines.Ines, data []uint8) (Mapper, error) {
	switch h.Mapper {
	case 0:
		m, err := NewNROM(data, h.PrgBanks, h.ChrBanks)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedMapper, "mapper %d", h.Mapper)
	}
}
