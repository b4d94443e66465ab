// See license file for copyright and license details.

// Package cpu emulates the NES 6502 (2A03 without the APU): official opcodes
// only, no decimal mode, no cycle timing.
package cpu

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"

	"github.com/MarcoLucidi01/nes6502/nes/mem"
)

const (
	stackBase   = 0x0100
	resetVector = 0xfffc
	irqVector   = 0xfffe
	brkVector   = irqVector
)

var ErrUnsupportedOpcode = errors.New("unsupported opcode")

// UnsupportedOpcodeError is returned when the CPU fetches an opcode it
// doesn't implement. The operand length of an unknown opcode is unknown too,
// so execution can't go on.
type UnsupportedOpcodeError struct {
	Opcode uint8
	PC     uint16 // address of the opcode.
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("0x%04X: unsupported opcode 0x%02X", e.PC, e.Opcode)
}

func (e *UnsupportedOpcodeError) Unwrap() error {
	return ErrUnsupportedOpcode
}

type CPU struct {
	a  uint8 // accumulator.
	x  uint8 // x register.
	y  uint8 // y register.
	sp uint8 // stack pointer.

	pc uint16 // program counter.
	p  Flags  // status flags.

	bus mem.Memory

	opc     uint16       // address of the current instruction's opcode.
	inst    *instruction // current instruction, nil until decoded.
	operand uint8        // immediate operand.
	addr    uint16       // effective address computed by the addressing mode.
}

// instruction definition.
type instruction struct {
	// instruction's asm name, used in diagnostics.
	name string

	// CPU function that implements the instruction.
	exec func(cpu *CPU)

	// instruction's addressing mode.
	mode addrMode
}

// addressing mode.
type addrMode struct {
	name string

	// resolve fetches the operand bytes, advancing pc, and leaves either the
	// effective address in cpu.addr or the operand value in cpu.operand.
	resolve func(cpu *CPU)

	// custom read() and write() for addressing modes that don't produce a
	// memory address (e.g. accumulator reads and writes cpu.a).
	read  func(cpu *CPU) uint8
	write func(cpu *CPU, b uint8)
}

// instructions table, documented opcodes only. a zero entry is an
// unsupported opcode.
var table = [256]instruction{
	0x00: {"BRK", (*CPU).brk, implied},
	0x01: {"ORA", (*CPU).ora, zeroPageXIndexedIndirect},
	0x05: {"ORA", (*CPU).ora, zeroPage},
	0x06: {"ASL", (*CPU).asl, zeroPage},
	0x08: {"PHP", (*CPU).php, implied},
	0x09: {"ORA", (*CPU).ora, immediate},
	0x0a: {"ASL", (*CPU).asl, accumulator},
	0x0d: {"ORA", (*CPU).ora, absolute},
	0x0e: {"ASL", (*CPU).asl, absolute},
	0x10: {"BPL", (*CPU).bpl, relative},
	0x11: {"ORA", (*CPU).ora, zeroPageIndirectYIndexed},
	0x15: {"ORA", (*CPU).ora, zeroPageXIndexed},
	0x16: {"ASL", (*CPU).asl, zeroPageXIndexed},
	0x18: {"CLC", (*CPU).clc, implied},
	0x19: {"ORA", (*CPU).ora, absoluteYIndexed},
	0x1d: {"ORA", (*CPU).ora, absoluteXIndexed},
	0x1e: {"ASL", (*CPU).asl, absoluteXIndexed},
	0x20: {"JSR", (*CPU).jsr, absolute},
	0x21: {"AND", (*CPU).and, zeroPageXIndexedIndirect},
	0x24: {"BIT", (*CPU).bit, zeroPage},
	0x25: {"AND", (*CPU).and, zeroPage},
	0x26: {"ROL", (*CPU).rol, zeroPage},
	0x28: {"PLP", (*CPU).plp, implied},
	0x29: {"AND", (*CPU).and, immediate},
	0x2a: {"ROL", (*CPU).rol, accumulator},
	0x2c: {"BIT", (*CPU).bit, absolute},
	0x2d: {"AND", (*CPU).and, absolute},
	0x2e: {"ROL", (*CPU).rol, absolute},
	0x30: {"BMI", (*CPU).bmi, relative},
	0x31: {"AND", (*CPU).and, zeroPageIndirectYIndexed},
	0x35: {"AND", (*CPU).and, zeroPageXIndexed},
	0x36: {"ROL", (*CPU).rol, zeroPageXIndexed},
	0x38: {"SEC", (*CPU).sec, implied},
	0x39: {"AND", (*CPU).and, absoluteYIndexed},
	0x3d: {"AND", (*CPU).and, absoluteXIndexed},
	0x3e: {"ROL", (*CPU).rol, absoluteXIndexed},
	0x40: {"RTI", (*CPU).rti, implied},
	0x41: {"EOR", (*CPU).eor, zeroPageXIndexedIndirect},
	0x45: {"EOR", (*CPU).eor, zeroPage},
	0x46: {"LSR", (*CPU).lsr, zeroPage},
	0x48: {"PHA", (*CPU).pha, implied},
	0x49: {"EOR", (*CPU).eor, immediate},
	0x4a: {"LSR", (*CPU).lsr, accumulator},
	0x4c: {"JMP", (*CPU).jmp, absolute},
	0x4d: {"EOR", (*CPU).eor, absolute},
	0x4e: {"LSR", (*CPU).lsr, absolute},
	0x50: {"BVC", (*CPU).bvc, relative},
	0x51: {"EOR", (*CPU).eor, zeroPageIndirectYIndexed},
	0x55: {"EOR", (*CPU).eor, zeroPageXIndexed},
	0x56: {"LSR", (*CPU).lsr, zeroPageXIndexed},
	0x58: {"CLI", (*CPU).cli, implied},
	0x59: {"EOR", (*CPU).eor, absoluteYIndexed},
	0x5d: {"EOR", (*CPU).eor, absoluteXIndexed},
	0x5e: {"LSR", (*CPU).lsr, absoluteXIndexed},
	0x60: {"RTS", (*CPU).rts, implied},
	0x61: {"ADC", (*CPU).adc, zeroPageXIndexedIndirect},
	0x65: {"ADC", (*CPU).adc, zeroPage},
	0x66: {"ROR", (*CPU).ror, zeroPage},
	0x68: {"PLA", (*CPU).pla, implied},
	0x69: {"ADC", (*CPU).adc, immediate},
	0x6a: {"ROR", (*CPU).ror, accumulator},
	0x6c: {"JMP", (*CPU).jmp, absoluteIndirect},
	0x6d: {"ADC", (*CPU).adc, absolute},
	0x6e: {"ROR", (*CPU).ror, absolute},
	0x70: {"BVS", (*CPU).bvs, relative},
	0x71: {"ADC", (*CPU).adc, zeroPageIndirectYIndexed},
	0x75: {"ADC", (*CPU).adc, zeroPageXIndexed},
	0x76: {"ROR", (*CPU).ror, zeroPageXIndexed},
	0x78: {"SEI", (*CPU).sei, implied},
	0x79: {"ADC", (*CPU).adc, absoluteYIndexed},
	0x7d: {"ADC", (*CPU).adc, absoluteXIndexed},
	0x7e: {"ROR", (*CPU).ror, absoluteXIndexed},
	0x81: {"STA", (*CPU).sta, zeroPageXIndexedIndirect},
	0x84: {"STY", (*CPU).sty, zeroPage},
	0x85: {"STA", (*CPU).sta, zeroPage},
	0x86: {"STX", (*CPU).stx, zeroPage},
	0x88: {"DEY", (*CPU).dey, implied},
	0x8a: {"TXA", (*CPU).txa, implied},
	0x8c: {"STY", (*CPU).sty, absolute},
	0x8d: {"STA", (*CPU).sta, absolute},
	0x8e: {"STX", (*CPU).stx, absolute},
	0x90: {"BCC", (*CPU).bcc, relative},
	0x91: {"STA", (*CPU).sta, zeroPageIndirectYIndexed},
	0x94: {"STY", (*CPU).sty, zeroPageXIndexed},
	0x95: {"STA", (*CPU).sta, zeroPageXIndexed},
	0x96: {"STX", (*CPU).stx, zeroPageYIndexed},
	0x98: {"TYA", (*CPU).tya, implied},
	0x99: {"STA", (*CPU).sta, absoluteYIndexed},
	0x9a: {"TXS", (*CPU).txs, implied},
	0x9d: {"STA", (*CPU).sta, absoluteXIndexed},
	0xa0: {"LDY", (*CPU).ldy, immediate},
	0xa1: {"LDA", (*CPU).lda, zeroPageXIndexedIndirect},
	0xa2: {"LDX", (*CPU).ldx, immediate},
	0xa4: {"LDY", (*CPU).ldy, zeroPage},
	0xa5: {"LDA", (*CPU).lda, zeroPage},
	0xa6: {"LDX", (*CPU).ldx, zeroPage},
	0xa8: {"TAY", (*CPU).tay, implied},
	0xa9: {"LDA", (*CPU).lda, immediate},
	0xaa: {"TAX", (*CPU).tax, implied},
	0xac: {"LDY", (*CPU).ldy, absolute},
	0xad: {"LDA", (*CPU).lda, absolute},
	0xae: {"LDX", (*CPU).ldx, absolute},
	0xb0: {"BCS", (*CPU).bcs, relative},
	0xb1: {"LDA", (*CPU).lda, zeroPageIndirectYIndexed},
	0xb4: {"LDY", (*CPU).ldy, zeroPageXIndexed},
	0xb5: {"LDA", (*CPU).lda, zeroPageXIndexed},
	0xb6: {"LDX", (*CPU).ldx, zeroPageYIndexed},
	0xb8: {"CLV", (*CPU).clv, implied},
	0xb9: {"LDA", (*CPU).lda, absoluteYIndexed},
	0xba: {"TSX", (*CPU).tsx, implied},
	0xbc: {"LDY", (*CPU).ldy, absoluteXIndexed},
	0xbd: {"LDA", (*CPU).lda, absoluteXIndexed},
	0xbe: {"LDX", (*CPU).ldx, absoluteYIndexed},
	0xc0: {"CPY", (*CPU).cpy, immediate},
	0xc1: {"CMP", (*CPU).cmp, zeroPageXIndexedIndirect},
	0xc4: {"CPY", (*CPU).cpy, zeroPage},
	0xc5: {"CMP", (*CPU).cmp, zeroPage},
	0xc6: {"DEC", (*CPU).dec, zeroPage},
	0xc8: {"INY", (*CPU).iny, implied},
	0xc9: {"CMP", (*CPU).cmp, immediate},
	0xca: {"DEX", (*CPU).dex, implied},
	0xcc: {"CPY", (*CPU).cpy, absolute},
	0xcd: {"CMP", (*CPU).cmp, absolute},
	0xce: {"DEC", (*CPU).dec, absolute},
	0xd0: {"BNE", (*CPU).bne, relative},
	0xd1: {"CMP", (*CPU).cmp, zeroPageIndirectYIndexed},
	0xd5: {"CMP", (*CPU).cmp, zeroPageXIndexed},
	0xd6: {"DEC", (*CPU).dec, zeroPageXIndexed},
	0xd8: {"CLD", (*CPU).cld, implied},
	0xd9: {"CMP", (*CPU).cmp, absoluteYIndexed},
	0xdd: {"CMP", (*CPU).cmp, absoluteXIndexed},
	0xde: {"DEC", (*CPU).dec, absoluteXIndexed},
	0xe0: {"CPX", (*CPU).cpx, immediate},
	0xe1: {"SBC", (*CPU).sbc, zeroPageXIndexedIndirect},
	0xe4: {"CPX", (*CPU).cpx, zeroPage},
	0xe5: {"SBC", (*CPU).sbc, zeroPage},
	0xe6: {"INC", (*CPU).inc, zeroPage},
	0xe8: {"INX", (*CPU).inx, implied},
	0xe9: {"SBC", (*CPU).sbc, immediate},
	0xea: {"NOP", (*CPU).nop, implied},
	0xec: {"CPX", (*CPU).cpx, absolute},
	0xed: {"SBC", (*CPU).sbc, absolute},
	0xee: {"INC", (*CPU).inc, absolute},
	0xf0: {"BEQ", (*CPU).beq, relative},
	0xf1: {"SBC", (*CPU).sbc, zeroPageIndirectYIndexed},
	0xf5: {"SBC", (*CPU).sbc, zeroPageXIndexed},
	0xf6: {"INC", (*CPU).inc, zeroPageXIndexed},
	0xf8: {"SED", (*CPU).sed, implied},
	0xf9: {"SBC", (*CPU).sbc, absoluteYIndexed},
	0xfd: {"SBC", (*CPU).sbc, absoluteXIndexed},
	0xfe: {"INC", (*CPU).inc, absoluteXIndexed},
}

// addressing modes.
var (
	absolute                 = addrMode{"absolute", (*CPU).addrAbsolute, nil, nil}
	absoluteIndirect         = addrMode{"absolute indirect", (*CPU).addrAbsoluteIndirect, nil, nil}
	absoluteXIndexed         = addrMode{"absolute,x", (*CPU).addrAbsoluteXIndexed, nil, nil}
	absoluteYIndexed         = addrMode{"absolute,y", (*CPU).addrAbsoluteYIndexed, nil, nil}
	zeroPage                 = addrMode{"zero page", (*CPU).addrZeroPage, nil, nil}
	zeroPageIndirectYIndexed = addrMode{"(zero page),y", (*CPU).addrZeroPageIndirectYIndexed, nil, nil}
	zeroPageXIndexed         = addrMode{"zero page,x", (*CPU).addrZeroPageXIndexed, nil, nil}
	zeroPageXIndexedIndirect = addrMode{"(zero page,x)", (*CPU).addrZeroPageXIndexedIndirect, nil, nil}
	zeroPageYIndexed         = addrMode{"zero page,y", (*CPU).addrZeroPageYIndexed, nil, nil}
	relative                 = addrMode{"relative", (*CPU).addrRelative, cantRead, cantWrite}
	implied                  = addrMode{"implied", (*CPU).addrImplied, cantRead, cantWrite}
	accumulator              = addrMode{"accumulator", (*CPU).addrImplied,
		func(cpu *CPU) uint8 { return cpu.a },
		func(cpu *CPU, b uint8) { cpu.a = b },
	}
	immediate = addrMode{"immediate", (*CPU).addrImmediate,
		func(cpu *CPU) uint8 { return cpu.operand },
		cantWrite,
	}

	// a wrong table entry, not a fault of the running program.
	cantRead = func(cpu *CPU) uint8 {
		panic(fmt.Sprintf("%s: can't read() using %q addressing mode", cpu.inst.name, cpu.inst.mode.name))
	}
	cantWrite = func(cpu *CPU, b uint8) {
		panic(fmt.Sprintf("%s: can't write() using %q addressing mode", cpu.inst.name, cpu.inst.mode.name))
	}
)

// New returns a CPU connected to bus. Registers are zero until PowerUp.
func New(bus mem.Memory) *CPU {
	return &CPU{bus: bus}
}

// PowerUp puts the CPU in its power up state and jumps to the reset vector.
// see https://www.nesdev.org/wiki/CPU_power_up_state
func (cpu *CPU) PowerUp() {
	cpu.PowerUpAt(mem.LoadWord(cpu.bus, resetVector))
}

// PowerUpAt is PowerUp with the program counter set to pc instead of the
// reset vector, e.g. nestest.nes automation mode starts at 0xc000.
func (cpu *CPU) PowerUpAt(pc uint16) {
	cpu.a = 0
	cpu.x = 0
	cpu.y = 0
	cpu.sp = 0xfd
	cpu.p = Flags{I: true}
	cpu.pc = pc
	cpu.inst = nil
}

// Reset emulates the reset button: registers are kept, the stack pointer
// goes down by 3 as if an interrupt was pushed and pc is reloaded from the
// reset vector.
func (cpu *CPU) Reset() {
	cpu.sp -= 3
	cpu.p.I = true
	cpu.pc = mem.LoadWord(cpu.bus, resetVector)
	cpu.inst = nil
}

// Registers returns a copy of the registers.
func (cpu *CPU) Registers() Registers {
	return Registers{A: cpu.a, X: cpu.x, Y: cpu.y, SP: cpu.sp, PC: cpu.pc, P: cpu.p}
}

func (cpu *CPU) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X", cpu.a, cpu.x, cpu.y, cpu.p.Byte(), cpu.sp, cpu.pc)
}

// Step fetches and executes one instruction.
func (cpu *CPU) Step() (err error) {
	defer cpu.catch(&err)
	cpu.inst = nil
	cpu.opc = cpu.pc
	cpu.exec(cpu.fetch())
	return nil
}

// Execute executes opcode as if it had just been fetched: pc must point to the
// byte after the opcode, i.e. to its first operand byte.
func (cpu *CPU) Execute(opcode uint8) (err error) {
	defer cpu.catch(&err)
	cpu.inst = nil
	cpu.opc = cpu.pc - 1
	cpu.exec(opcode)
	return nil
}

// Run executes instructions until one fails and returns its error. It never
// returns nil.
func (cpu *CPU) Run() error {
	for {
		if err := cpu.Step(); err != nil {
			return err
		}
	}
}

func (cpu *CPU) exec(opcode uint8) {
	inst := &table[opcode]
	if inst.exec == nil {
		panic(errors.WithStack(&UnsupportedOpcodeError{Opcode: opcode, PC: cpu.opc}))
	}
	cpu.inst = inst
	inst.mode.resolve(cpu)
	inst.exec(cpu)
}

// catch turns a fault raised while executing into an error. runtime errors and
// non error panics are bugs in the emulator and keep panicking.
func (cpu *CPU) catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(runtime.Error); ok {
		panic(r)
	}
	e, ok := r.(error)
	if !ok {
		panic(r)
	}
	if cpu.inst != nil {
		e = errors.Wrapf(e, "0x%04X: %s %s", cpu.opc, cpu.inst.name, cpu.inst.mode.name)
	}
	*err = e
}

func (cpu *CPU) fetch() uint8 {
	b := cpu.bus.Load(cpu.pc)
	cpu.pc++
	return b
}

func (cpu *CPU) fetchWord() uint16 {
	lo := cpu.fetch()
	hi := cpu.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (cpu *CPU) setZN(b uint8) {
	cpu.p.Z = b == 0
	cpu.p.N = b&0x80 != 0
}

func (cpu *CPU) push(b uint8) {
	cpu.bus.Store(stackBase|uint16(cpu.sp), b)
	cpu.sp--
}

func (cpu *CPU) pop() uint8 {
	cpu.sp++
	return cpu.bus.Load(stackBase | uint16(cpu.sp))
}

func (cpu *CPU) pushWord(w uint16) {
	cpu.push(uint8(w >> 8))
	cpu.push(uint8(w))
}

func (cpu *CPU) popWord() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(hi)<<8 | uint16(lo)
}

func (cpu *CPU) branchIf(cond bool) {
	if cond {
		cpu.pc = cpu.addr
	}
}

// read a byte using the current instruction addressing mode.
func (cpu *CPU) read() uint8 {
	if cpu.inst.mode.read != nil {
		return cpu.inst.mode.read(cpu)
	}
	return cpu.bus.Load(cpu.addr)
}

// write a byte using the current instruction addressing mode.
func (cpu *CPU) write(b uint8) {
	if cpu.inst.mode.write != nil {
		cpu.inst.mode.write(cpu, b)
		return
	}
	cpu.bus.Store(cpu.addr, b)
}

// zeroPageWord reads a pointer from the zero page, the high byte wraps
// around to 0x00 when p is 0xff.
func (cpu *CPU) zeroPageWord(p uint8) uint16 {
	return uint16(cpu.bus.Load(uint16(p+1)))<<8 | uint16(cpu.bus.Load(uint16(p)))
}

func (cpu *CPU) addrAbsolute() {
	cpu.addr = cpu.fetchWord()
}

// the 6502 doesn't carry into the pointer high byte when fetching the target
// high byte, JMP ($10FF) reads $10FF and $1000.
func (cpu *CPU) addrAbsoluteIndirect() {
	ptr := cpu.fetchWord()
	ptr1 := ptr&0xff00 | (ptr+1)&0x00ff
	cpu.addr = uint16(cpu.bus.Load(ptr1))<<8 | uint16(cpu.bus.Load(ptr))
}

func (cpu *CPU) addrAbsoluteXIndexed() {
	cpu.addr = cpu.fetchWord() + uint16(cpu.x)
}

func (cpu *CPU) addrAbsoluteYIndexed() {
	cpu.addr = cpu.fetchWord() + uint16(cpu.y)
}

func (cpu *CPU) addrImmediate() {
	cpu.operand = cpu.fetch()
}

func (cpu *CPU) addrImplied() {}

// the displacement is relative to the address following the branch.
func (cpu *CPU) addrRelative() {
	d := int8(cpu.fetch())
	cpu.addr = cpu.pc + uint16(d)
}

func (cpu *CPU) addrZeroPage() {
	cpu.addr = uint16(cpu.fetch())
}

func (cpu *CPU) addrZeroPageIndirectYIndexed() {
	cpu.addr = cpu.zeroPageWord(cpu.fetch()) + uint16(cpu.y)
}

func (cpu *CPU) addrZeroPageXIndexed() {
	cpu.addr = uint16(cpu.fetch() + cpu.x)
}

func (cpu *CPU) addrZeroPageXIndexedIndirect() {
	cpu.addr = cpu.zeroPageWord(cpu.fetch() + cpu.x)
}

func (cpu *CPU) addrZeroPageYIndexed() {
	cpu.addr = uint16(cpu.fetch() + cpu.y)
}
