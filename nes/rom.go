// See license file for copyright and license details.

package nes

import (
	"io"

	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/ines"
)

type Rom struct {
	ines.Ines // header

	Trainer []uint8 // trainer data if present
	Data    []uint8 // PRG ROM followed by CHR ROM, as found in the file
}

// ReadRom reads a rom file from r. PRG and CHR are not split nor checked
// against the header here, that's up to the mapper which knows its layout.
func ReadRom(r io.Reader) (Rom, error) {
	header, err := ines.ReadHeader(r)
	if err != nil {
		return Rom{}, err
	}

	rom := Rom{Ines: header}

	if rom.HasTrainer {
		rom.Trainer = make([]uint8, ines.TrainerSize)
		if _, err := io.ReadFull(r, rom.Trainer); err != nil {
			return Rom{}, errors.Wrap(err, "reading trainer")
		}
	}

	rom.Data, err = io.ReadAll(r)
	if err != nil {
		return Rom{}, errors.Wrap(err, "reading rom data")
	}

	return rom, nil
}
