// See license file for copyright and license details.

package ines

import (
	"io"

	"github.com/pkg/errors"
)

const (
	magic       = "NES\x1a"
	HeaderSize  = 0x10
	TrainerSize = 0x200
	PrgUnit     = 0x4000
	PrgRamUnit  = 0x2000
	ChrUnit     = 0x2000
)

type MirroringType int

const (
	Horizontal MirroringType = iota
	Vertical
)

type ConsoleType int

const (
	NES ConsoleType = iota
	VsSystem
	PlayChoice
	UnknownConsole
)

type TvSystemType int

const (
	NTSC TvSystemType = iota
	PAL
)

var (
	ErrBadMagic = errors.New("not an iNES file")
)

// Ines contains information read/parsed from the rom header.
// see https://www.nesdev.org/wiki/INES
type Ines struct {
	PrgBanks          uint8 // number of 16KB PRG ROM units.
	PrgRamBanks       uint8 // number of 8KB PRG RAM units, at least 1.
	ChrBanks          uint8 // number of 8KB CHR ROM units, 0 means CHR RAM.
	Mirroring         MirroringType
	HasBattery        bool
	HasTrainer        bool
	HasFourScreenVRam bool
	Mapper            uint8
	Console           ConsoleType
	Nes2              bool // header carries the NES 2.0 identifier.
	TvSystem          TvSystemType
}

// PrgSize returns the PRG ROM size in bytes declared by the header.
func (h Ines) PrgSize() int {
	return int(h.PrgBanks) * PrgUnit
}

// ChrSize returns the CHR ROM size in bytes declared by the header.
func (h Ines) ChrSize() int {
	return int(h.ChrBanks) * ChrUnit
}

// ReadHeader reads the iNes header from r.
// only iNes 1.0 fields are decoded, a NES 2.0 header is flagged with Nes2 but
// its extended fields are ignored.
func ReadHeader(r io.Reader) (Ines, error) {
	var header [HeaderSize]uint8
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Ines{}, errors.Wrap(err, "reading iNES header")
	}

	if string(header[:len(magic)]) != magic {
		return Ines{}, errors.Wrapf(ErrBadMagic, "identifier % X", header[:len(magic)])
	}

	var ines Ines
	ines.PrgBanks = header[4]
	ines.ChrBanks = header[5]

	ines.Mirroring = MirroringType(header[6] & 0x01)
	ines.HasBattery = header[6]&0x02 != 0
	ines.HasTrainer = header[6]&0x04 != 0
	ines.HasFourScreenVRam = header[6]&0x08 != 0
	ines.Mapper = (header[6] & 0xf0) >> 4

	ines.Console = ConsoleType(header[7] & 0x03)
	ines.Nes2 = header[7]&0x0c == 0x08
	ines.Mapper |= header[7] & 0xf0

	ines.PrgRamBanks = header[8]
	if ines.PrgRamBanks == 0 {
		ines.PrgRamBanks = 1
	}

	ines.TvSystem = TvSystemType(header[9] & 0x01)

	return ines, nil
}
