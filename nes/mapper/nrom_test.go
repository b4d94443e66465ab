// See license file for copyright and license details.

package mapper

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/ines"
	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

// cartData returns prg units of PRG followed by chr units of CHR. every PRG
// byte holds its offset's low byte xor its bank number, so banks differ.
func cartData(prg, chr int) []uint8 {
	data := make([]uint8, prg*ines.PrgUnit+chr*ines.ChrUnit)
	for i := 0; i < prg*ines.PrgUnit; i++ {
		data[i] = uint8(i) ^ uint8(i/ines.PrgUnit)
	}
	for i := 0; i < chr*ines.ChrUnit; i++ {
		data[prg*ines.PrgUnit+i] = 0xc0 | uint8(i&0x3f)
	}
	return data
}

func TestNewNROM(t *testing.T) {
	tests := []struct {
		data     []uint8
		prg, chr uint8
		err      error
	}{
		{cartData(1, 1), 1, 1, nil},
		{cartData(2, 1), 2, 1, nil},
		{cartData(2, 0), 2, 0, nil},
		{append(cartData(1, 1), 0xff, 0xff), 1, 1, nil},
		{cartData(1, 1), 2, 1, ErrPrgIncomplete},
		{cartData(1, 1)[:ines.PrgUnit-1], 1, 0, ErrPrgIncomplete},
		{cartData(1, 0), 1, 1, ErrChrIncomplete},
		{cartData(2, 1)[:2*ines.PrgUnit+ines.ChrUnit-1], 2, 1, ErrChrIncomplete},
		{cartData(1, 1), 0, 1, ErrPrgSize},
		{cartData(4, 1), 4, 1, ErrPrgSize},
	}
	for i, tt := range tests {
		m, err := NewNROM(tt.data, tt.prg, tt.chr)
		if tt.err == nil {
			if err != nil {
				t.Fatalf("%d: unexpected error %v", i, err)
			}
			if m.Mirroring() != (tt.prg == 1) {
				t.Fatalf("%d: expected mirroring %v", i, tt.prg == 1)
			}
			continue
		}
		if !errors.Is(err, tt.err) {
			t.Fatalf("%d: expected %v got %v", i, tt.err, err)
		}
		if m != nil {
			t.Fatalf("%d: expected nil mapper on error", i)
		}
	}
}

func TestNROMMirroring(t *testing.T) {
	m, err := NewNROM(cartData(1, 1), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	for k := uint16(0); k <= 0x3fff; k++ {
		lo, hi := m.Load(0x8000+k), m.Load(0xc000+k)
		if lo != hi {
			t.Fatalf("0x%04X: expected mirror 0x%02X got 0x%02X", 0xc000+k, lo, hi)
		}
		if lo != uint8(k) {
			t.Fatalf("0x%04X: expected 0x%02X got 0x%02X", 0x8000+k, uint8(k), lo)
		}
	}
}

func TestNROM256(t *testing.T) {
	m, err := NewNROM(cartData(2, 1), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []uint16{0x0000, 0x0001, 0x1234, 0x3fff} {
		if got := m.Load(0x8000 + k); got != uint8(k) {
			t.Fatalf("0x%04X: expected 0x%02X got 0x%02X", 0x8000+k, uint8(k), got)
		}
		if got := m.Load(0xc000 + k); got != uint8(k)^1 {
			t.Fatalf("0x%04X: expected 0x%02X got 0x%02X", 0xc000+k, uint8(k)^1, got)
		}
	}
	if got := mem.LoadWord(m, 0xfffc); got != 0xfcfd {
		t.Fatalf("reset vector: expected 0xFCFD got 0x%04X", got)
	}
}

func TestNROMFaults(t *testing.T) {
	m, err := NewNROM(cartData(1, 1), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		f   func()
		err error
	}{
		{func() { m.Load(0x6000) }, mem.ErrUnmapped},
		{func() { m.Load(0x7fff) }, mem.ErrUnmapped},
		{func() { m.Load(0x4020) }, mem.ErrUnmapped},
		{func() { m.Store(0x6000, 1) }, mem.ErrUnmapped},
		{func() { m.Store(0x8000, 1) }, mem.ErrReadOnly},
		{func() { m.Store(0xffff, 1) }, mem.ErrReadOnly},
		{func() { m.CHR().Store(0x0000, 1) }, mem.ErrReadOnly},
	}
	for i, tt := range tests {
		if err := catch(tt.f); !errors.Is(err, tt.err) {
			t.Fatalf("%d: expected %v got %v", i, tt.err, err)
		}
	}
}

func TestNROMCHR(t *testing.T) {
	m, err := NewNROM(cartData(1, 1), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	chr := m.CHR()
	if got := chr.Load(0x0041); got != 0xc1 {
		t.Fatalf("expected 0xC1 got 0x%02X", got)
	}
	if err := catch(func() { chr.Load(ines.ChrUnit) }); !errors.Is(err, mem.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange got %v", err)
	}
}

func TestNew(t *testing.T) {
	m, err := New(ines.Ines{PrgBanks: 1, ChrBanks: 1, Mapper: 0}, cartData(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(*NROM); !ok {
		t.Fatalf("expected *NROM got %T", m)
	}

	m, err = New(ines.Ines{PrgBanks: 1, ChrBanks: 1, Mapper: 0}, cartData(1, 0))
	if !errors.Is(err, ErrChrIncomplete) || m != nil {
		t.Fatalf("expected ErrChrIncomplete and nil mapper, got %v %v", m, err)
	}

	_, err = New(ines.Ines{PrgBanks: 8, Mapper: 1}, cartData(8, 0))
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Fatalf("expected ErrUnsupportedMapper got %v", err)
	}
}

func catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(error)
		}
	}()
	f()
	return nil
}
