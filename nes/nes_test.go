// See license file for copyright and license details.

package nes

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/ines"
	"github.com/MarcoLucidi01/nes6502/nes/mapper"
	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

// program stores 0x42 in RAM, reads it back and then touches PPUCTRL.
var program = []uint8{
	0xa2, 0xff,       // LDX #$FF
	0x9a,             // TXS
	0xa9, 0x42,       // LDA #$42
	0x8d, 0x00, 0x02, // STA $0200
	0xad, 0x00, 0x02, // LDA $0200
	0x8d, 0x00, 0x20, // STA $2000
}

// image returns an iNES file with one PRG unit holding program and the reset
// vector pointing to it.
func image(flags6 uint8, trainer bool) []uint8 {
	if trainer {
		flags6 |= 0x04
	}
	img := []uint8{'N', 'E', 'S', 0x1a, 1, 1, flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if trainer {
		img = append(img, make([]uint8, ines.TrainerSize)...)
	}
	prg := make([]uint8, ines.PrgUnit)
	copy(prg, program)
	prg[0x3ffc] = 0x00
	prg[0x3ffd] = 0x80
	img = append(img, prg...)
	return append(img, make([]uint8, ines.ChrUnit)...)
}

func TestReadRom(t *testing.T) {
	rom, err := ReadRom(bytes.NewReader(image(0x01, true)))
	if err != nil {
		t.Fatal(err)
	}
	if !rom.HasTrainer || len(rom.Trainer) != ines.TrainerSize {
		t.Fatalf("expected %d bytes of trainer got %d", ines.TrainerSize, len(rom.Trainer))
	}
	if len(rom.Data) != rom.PrgSize()+rom.ChrSize() {
		t.Fatalf("expected %d bytes of data got %d", rom.PrgSize()+rom.ChrSize(), len(rom.Data))
	}
	if rom.Mirroring != ines.Vertical {
		t.Fatalf("expected vertical mirroring got %v", rom.Mirroring)
	}

	img := image(0, true)
	_, err = ReadRom(bytes.NewReader(img[:ines.HeaderSize+0x100]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF got %v", err)
	}

	_, err = ReadRom(bytes.NewReader([]uint8("NES")))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF got %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		img []uint8
		err error
	}{
		{image(0, false), nil},
		{image(0, false)[:ines.HeaderSize+0x1000], mapper.ErrPrgIncomplete},
		{image(0, false)[:ines.HeaderSize+ines.PrgUnit+0x1000], mapper.ErrChrIncomplete},
		{image(0x10, false), mapper.ErrUnsupportedMapper},
	}
	for i, tt := range tests {
		rom, err := ReadRom(bytes.NewReader(tt.img))
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		nes, err := New(rom)
		if tt.err == nil {
			if err != nil || nes == nil {
				t.Fatalf("%d: unexpected error %v", i, err)
			}
			continue
		}
		if !errors.Is(err, tt.err) || nes != nil {
			t.Fatalf("%d: expected %v got %v", i, tt.err, err)
		}
	}
}

func TestRun(t *testing.T) {
	rom, err := ReadRom(bytes.NewReader(image(0, false)))
	if err != nil {
		t.Fatal(err)
	}
	nes, err := New(rom)
	if err != nil {
		t.Fatal(err)
	}
	if err := nes.PowerUp(); err != nil {
		t.Fatal(err)
	}
	if pc := nes.CPU.Registers().PC; pc != 0x8000 {
		t.Fatalf("expected PC 0x8000 got 0x%04X", pc)
	}

	err = nes.Run()
	if !errors.Is(err, mem.ErrUnimplemented) {
		t.Fatalf("expected ErrUnimplemented got %v", err)
	}
	exp := "0x800B: STA absolute: store 0x2000 (ppu register 0x2000): not implemented"
	if err.Error() != exp {
		t.Fatalf("expected %q got %q", exp, err.Error())
	}

	regs := nes.CPU.Registers()
	if regs.A != 0x42 || regs.SP != 0xff || regs.PC != 0x800e {
		t.Fatalf("unexpected registers %s", nes.CPU)
	}
	if b := nes.Bus.Load(0x0200); b != 0x42 {
		t.Fatalf("expected 0x42 in RAM got 0x%02X", b)
	}

	if err := nes.Reset(); err != nil {
		t.Fatal(err)
	}
	regs = nes.CPU.Registers()
	if regs.PC != 0x8000 || regs.SP != 0xfc || !regs.P.I {
		t.Fatalf("unexpected registers after reset %s", nes.CPU)
	}
	if err := nes.Step(); err != nil {
		t.Fatal(err)
	}
	if x := nes.CPU.Registers().X; x != 0xff {
		t.Fatalf("expected X 0xFF got 0x%02X", x)
	}
}
