// See license file for copyright and license details.

package cpu

import "github.com/MarcoLucidi01/nes6502/nes/mem"

// add with carry in, the decimal flag is ignored like on the 2A03.
func (cpu *CPU) add(b uint8) {
	var c uint16
	if cpu.p.C {
		c = 1
	}
	sum := uint16(cpu.a) + uint16(b) + c
	r := uint8(sum)
	cpu.p.C = sum > 0xff
	cpu.p.V = (cpu.a^r)&(b^r)&0x80 != 0
	cpu.a = r
	cpu.setZN(r)
}

func (cpu *CPU) compare(reg, b uint8) {
	cpu.p.C = reg >= b
	cpu.setZN(reg - b)
}

func (cpu *CPU) adc() {
	cpu.add(cpu.read())
}

func (cpu *CPU) and() {
	cpu.a &= cpu.read()
	cpu.setZN(cpu.a)
}

func (cpu *CPU) asl() {
	b := cpu.read()
	cpu.p.C = b&0x80 != 0
	b <<= 1
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) bcc() {
	cpu.branchIf(!cpu.p.C)
}

func (cpu *CPU) bcs() {
	cpu.branchIf(cpu.p.C)
}

func (cpu *CPU) beq() {
	cpu.branchIf(cpu.p.Z)
}

func (cpu *CPU) bit() {
	b := cpu.read()
	cpu.p.Z = cpu.a&b == 0
	cpu.p.V = b&flagV != 0
	cpu.p.N = b&flagN != 0
}

func (cpu *CPU) bmi() {
	cpu.branchIf(cpu.p.N)
}

func (cpu *CPU) bne() {
	cpu.branchIf(!cpu.p.Z)
}

func (cpu *CPU) bpl() {
	cpu.branchIf(!cpu.p.N)
}

// brk skips the padding byte after the opcode, rti returns past it.
func (cpu *CPU) brk() {
	cpu.p.B = true
	cpu.pushWord(cpu.pc + 1)
	cpu.push(cpu.p.Byte() | flagB)
	cpu.p.I = true
	cpu.pc = mem.LoadWord(cpu.bus, brkVector)
}

func (cpu *CPU) bvc() {
	cpu.branchIf(!cpu.p.V)
}

func (cpu *CPU) bvs() {
	cpu.branchIf(cpu.p.V)
}

func (cpu *CPU) clc() {
	cpu.p.C = false
}

func (cpu *CPU) cld() {
	cpu.p.D = false
}

func (cpu *CPU) cli() {
	cpu.p.I = false
}

func (cpu *CPU) clv() {
	cpu.p.V = false
}

func (cpu *CPU) cmp() {
	cpu.compare(cpu.a, cpu.read())
}

func (cpu *CPU) cpx() {
	cpu.compare(cpu.x, cpu.read())
}

func (cpu *CPU) cpy() {
	cpu.compare(cpu.y, cpu.read())
}

func (cpu *CPU) dec() {
	b := cpu.read() - 1
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) dex() {
	cpu.x--
	cpu.setZN(cpu.x)
}

func (cpu *CPU) dey() {
	cpu.y--
	cpu.setZN(cpu.y)
}

func (cpu *CPU) eor() {
	cpu.a ^= cpu.read()
	cpu.setZN(cpu.a)
}

func (cpu *CPU) inc() {
	b := cpu.read() + 1
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) inx() {
	cpu.x++
	cpu.setZN(cpu.x)
}

func (cpu *CPU) iny() {
	cpu.y++
	cpu.setZN(cpu.y)
}

func (cpu *CPU) jmp() {
	cpu.pc = cpu.addr
}

// jsr pushes the address of its own last byte, rts adds 1 back.
func (cpu *CPU) jsr() {
	cpu.pushWord(cpu.pc - 1)
	cpu.pc = cpu.addr
}

func (cpu *CPU) lda() {
	cpu.a = cpu.read()
	cpu.setZN(cpu.a)
}

func (cpu *CPU) ldx() {
	cpu.x = cpu.read()
	cpu.setZN(cpu.x)
}

func (cpu *CPU) ldy() {
	cpu.y = cpu.read()
	cpu.setZN(cpu.y)
}

func (cpu *CPU) lsr() {
	b := cpu.read()
	cpu.p.C = b&0x01 != 0
	b >>= 1
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) nop() {}

func (cpu *CPU) ora() {
	cpu.a |= cpu.read()
	cpu.setZN(cpu.a)
}

func (cpu *CPU) pha() {
	cpu.push(cpu.a)
}

func (cpu *CPU) php() {
	cpu.push(cpu.p.Byte() | flagB)
}

func (cpu *CPU) pla() {
	cpu.a = cpu.pop()
	cpu.setZN(cpu.a)
}

func (cpu *CPU) plp() {
	cpu.p.SetByte(cpu.pop())
}

func (cpu *CPU) rol() {
	b := cpu.read()
	c := cpu.p.C
	cpu.p.C = b&0x80 != 0
	b <<= 1
	if c {
		b |= 0x01
	}
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) ror() {
	b := cpu.read()
	c := cpu.p.C
	cpu.p.C = b&0x01 != 0
	b >>= 1
	if c {
		b |= 0x80
	}
	cpu.write(b)
	cpu.setZN(b)
}

func (cpu *CPU) rti() {
	cpu.p.SetByte(cpu.pop())
	cpu.pc = cpu.popWord()
}

func (cpu *CPU) rts() {
	cpu.pc = cpu.popWord() + 1
}

// a - b - !c is a + ^b + c in two's complement.
func (cpu *CPU) sbc() {
	cpu.add(^cpu.read())
}

func (cpu *CPU) sec() {
	cpu.p.C = true
}

func (cpu *CPU) sed() {
	cpu.p.D = true
}

func (cpu *CPU) sei() {
	cpu.p.I = true
}

func (cpu *CPU) sta() {
	cpu.write(cpu.a)
}

func (cpu *CPU) stx() {
	cpu.write(cpu.x)
}

func (cpu *CPU) sty() {
	cpu.write(cpu.y)
}

func (cpu *CPU) tax() {
	cpu.x = cpu.a
	cpu.setZN(cpu.x)
}

func (cpu *CPU) tay() {
	cpu.y = cpu.a
	cpu.setZN(cpu.y)
}

func (cpu *CPU) tsx() {
	cpu.x = cpu.sp
	cpu.setZN(cpu.x)
}

func (cpu *CPU) txa() {
	cpu.a = cpu.x
	cpu.setZN(cpu.a)
}

// txs doesn't touch the flags.
func (cpu *CPU) txs() {
	cpu.sp = cpu.x
}

func (cpu *CPU) tya() {
	cpu.a = cpu.y
	cpu.setZN(cpu.a)
}
