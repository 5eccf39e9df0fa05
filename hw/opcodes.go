package hw

/* addressing modes.
   Helpers read operand bytes but never advance PC: each opcode advances PC
   by its own length once done, so a preempting trace sees a stable PC. */

func (c *CPU) imm() uint8 {
	return c.Read8(c.PC + 1)
}

func (c *CPU) zp() uint8 {
	return c.Read8(c.PC + 1)
}

func (c *CPU) zpx() uint8 {
	base := c.Read8(c.PC + 1)
	c.tick()
	return base + c.X
}

func (c *CPU) zpy() uint8 {
	base := c.Read8(c.PC + 1)
	c.tick()
	return base + c.Y
}

func (c *CPU) abs() uint16 {
	lo := c.Read8(c.PC + 1)
	hi := c.Read8(c.PC + 2)
	return uint16(hi)<<8 | uint16(lo)
}

// absolute,X for reads: one extra cycle only when indexing crosses a page.
func (c *CPU) abxRead() uint16 {
	base := c.abs()
	addr := base + uint16(c.X)
	if addr&0xff00 != base&0xff00 {
		c.tick()
	}
	return addr
}

// absolute,X for writes and read-modify-writes: the extra cycle is
// unconditional.
func (c *CPU) abxWrite() uint16 {
	base := c.abs()
	c.tick()
	return base + uint16(c.X)
}

func (c *CPU) abyRead() uint16 {
	base := c.abs()
	addr := base + uint16(c.Y)
	if addr&0xff00 != base&0xff00 {
		c.tick()
	}
	return addr
}

func (c *CPU) abyWrite() uint16 {
	base := c.abs()
	c.tick()
	return base + uint16(c.Y)
}

// (zp,X)
func (c *CPU) izx() uint16 {
	ptr := c.Read8(c.PC+1) + c.X
	c.tick()
	lo := c.Read8(uint16(ptr))
	hi := c.Read8(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// (zp),Y for reads.
func (c *CPU) izyRead() uint16 {
	ptr := c.Read8(c.PC + 1)
	lo := c.Read8(uint16(ptr))
	hi := c.Read8(uint16(ptr + 1))
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.Y)
	if addr&0xff00 != base&0xff00 {
		c.tick()
	}
	return addr
}

// (zp),Y for writes.
func (c *CPU) izyWrite() uint16 {
	ptr := c.Read8(c.PC + 1)
	lo := c.Read8(uint16(ptr))
	hi := c.Read8(uint16(ptr + 1))
	c.tick()
	return (uint16(hi)<<8 | uint16(lo)) + uint16(c.Y)
}

// (zp), no index.
func (c *CPU) izp() uint16 {
	ptr := c.Read8(c.PC + 1)
	lo := c.Read8(uint16(ptr))
	hi := c.Read8(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

/* ALU helpers */

func ora(c *CPU, val uint8) {
	c.A |= val
	c.P.setNZ(c.A)
}

func and(c *CPU, val uint8) {
	c.A &= val
	c.P.setNZ(c.A)
}

func eor(c *CPU, val uint8) {
	c.A ^= val
	c.P.setNZ(c.A)
}

// adc adds with carry. In decimal mode the nibbles are adjusted the way the
// CMOS core does it: V comes from the binary intermediate, N and Z from the
// adjusted result, and the adjust burns one extra cycle.
func adc(c *CPU, val uint8) {
	carry := 0
	if c.P.C() {
		carry = 1
	}
	if c.P.D() {
		lo := int(c.A&0x0f) + int(val&0x0f) + carry
		hi := int(c.A&0xf0) + int(val&0xf0)
		if lo > 0x09 {
			hi += 0x10
			lo += 0x06
		}
		c.P.setV(^(c.A^val)&(c.A^uint8(hi))&0x80 != 0)
		if hi > 0x90 {
			hi += 0x60
		}
		c.P.setC(hi&0xff00 != 0)
		c.A = uint8(lo&0x0f) + uint8(hi&0xf0)
		c.tick()
	} else {
		sum := int(c.A) + int(val) + carry
		c.P.setV(^(c.A^val)&(c.A^uint8(sum))&0x80 != 0)
		c.P.setC(sum&0xff00 != 0)
		c.A = uint8(sum)
	}
	c.P.setNZ(c.A)
}

func sbc(c *CPU, val uint8) {
	carry := 1
	if c.P.C() {
		carry = 0
	}
	sum := int(c.A) - int(val) - carry
	c.P.setV((c.A^val)&(c.A^uint8(sum))&0x80 != 0)
	c.P.setC(sum&0xff00 == 0)
	if c.P.D() {
		lo := int(c.A&0x0f) - int(val&0x0f) - carry
		hi := int(c.A&0xf0) - int(val&0xf0)
		if lo&0xf0 != 0 {
			lo -= 6
		}
		if lo&0x80 != 0 {
			hi -= 0x10
		}
		if hi&0x0f00 != 0 {
			hi -= 0x60
		}
		c.A = uint8(lo&0x0f) + uint8(hi&0xf0)
		c.tick()
	} else {
		c.A = uint8(sum)
	}
	c.P.setNZ(c.A)
}

func compare(c *CPU, reg, val uint8) {
	c.P.setC(reg >= val)
	c.P.setNZ(reg - val)
}

func (c *CPU) asl(val uint8) uint8 {
	c.P.setC(val >= 0x80)
	res := val << 1
	c.P.setNZ(res)
	return res
}

func (c *CPU) lsr(val uint8) uint8 {
	c.P.setC(val&0x01 != 0)
	res := val >> 1
	c.P.setNZ(res)
	return res
}

func (c *CPU) rol(val uint8) uint8 {
	roled := int(val) << 1
	res := uint8(roled)
	if c.P.C() {
		res |= 0x01
	}
	c.P.setNZ(res)
	c.P.setC(roled&0x100 != 0)
	return res
}

func (c *CPU) ror(val uint8) uint8 {
	newC := val&0x01 != 0
	res := val >> 1
	if c.P.C() {
		res |= 0x80
	}
	c.P.setNZ(res)
	c.P.setC(newC)
	return res
}

func (c *CPU) inc(val uint8) uint8 {
	res := val + 1
	c.P.setNZ(res)
	return res
}

func (c *CPU) dec(val uint8) uint8 {
	res := val - 1
	c.P.setNZ(res)
	return res
}

func bit(c *CPU, val uint8) {
	c.P.setZ(c.A&val == 0)
	c.P.setN(val&0x80 != 0)
	c.P.setV(val&0x40 != 0)
}

func (c *CPU) trb(val uint8) uint8 {
	c.P.setZ(c.A&val == 0)
	return val &^ c.A
}

func (c *CPU) tsb(val uint8) uint8 {
	c.P.setZ(c.A&val == 0)
	return val | c.A
}

// rmw performs a read-modify-write: the unmodified value is written back
// before the modified one.
func rmw(c *CPU, addr uint16, f func(uint8) uint8) {
	val := c.Read8(addr)
	c.Write8(addr, val)
	c.Write8(addr, f(val))
}

// branch: 2 cycles not taken, 3 taken, 4 when the target is on another page.
func branch(c *CPU, cond bool) {
	off := int8(c.Read8(c.PC + 1))
	c.PC += 2
	if !cond {
		return
	}
	c.tick()
	target := uint16(int32(c.PC) + int32(off))
	if target&0xff00 != c.PC&0xff00 {
		c.tick()
	}
	c.PC = target
}

/* Rockwell bit instructions */

func rmbzp(c *CPU, bitn uint) {
	addr := uint16(c.zp())
	rmw(c, addr, func(v uint8) uint8 { return v &^ (1 << bitn) })
	c.PC += 2
}

func smbzp(c *CPU, bitn uint) {
	addr := uint16(c.zp())
	rmw(c, addr, func(v uint8) uint8 { return v | (1 << bitn) })
	c.PC += 2
}

func bbranch(c *CPU, bitn uint, set bool) {
	val := c.Read8(uint16(c.zp()))
	c.tick()
	off := int8(c.Read8(c.PC + 2))
	c.PC += 3
	if (val&(1<<bitn) != 0) != set {
		return
	}
	c.tick()
	target := uint16(int32(c.PC) + int32(off))
	if target&0xff00 != c.PC&0xff00 {
		c.tick()
	}
	c.PC = target
}

/* the instructions */

// 00
func BRK(cpu *CPU) {
	_ = cpu.Read8(cpu.PC + 1) // padding byte

	push16(cpu, cpu.PC+2)
	p := cpu.P
	p.writeBit(pbitB, true)
	p.writeBit(pbitU, true)
	push8(cpu, uint8(p))
	cpu.P.setI(true)
	cpu.P.setD(false)
	cpu.PC = cpu.Read16(IRQVector)

	if cpu.breakOnBrk {
		cpu.brkHit = true
		cpu.dbg.Break("BRK")
	}
}

// 01
func ORAizx(cpu *CPU) {
	val := cpu.Read8(cpu.izx())
	ora(cpu, val)
	cpu.PC += 2
}

// 04
func TSBzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.tsb)
	cpu.PC += 2
}

// 05
func ORAzp(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zp()))
	ora(cpu, val)
	cpu.PC += 2
}

// 06
func ASLzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.asl)
	cpu.PC += 2
}

// 08
func PHP(cpu *CPU) {
	cpu.tick()
	p := cpu.P
	p.writeBit(pbitB, true)
	p.writeBit(pbitU, true)
	push8(cpu, uint8(p))
	cpu.PC += 1
}

// 09
func ORAimm(cpu *CPU) {
	ora(cpu, cpu.imm())
	cpu.PC += 2
}

// 0A
func ASLacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.asl(cpu.A)
	cpu.PC += 1
}

// 0C
func TSBabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.tsb)
	cpu.PC += 3
}

// 0D
func ORAabs(cpu *CPU) {
	val := cpu.Read8(cpu.abs())
	ora(cpu, val)
	cpu.PC += 3
}

// 0E
func ASLabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.asl)
	cpu.PC += 3
}

// 10
func BPL(cpu *CPU) {
	branch(cpu, !cpu.P.N())
}

// 11
func ORAizy(cpu *CPU) {
	val := cpu.Read8(cpu.izyRead())
	ora(cpu, val)
	cpu.PC += 2
}

// 12
func ORAizp(cpu *CPU) {
	val := cpu.Read8(cpu.izp())
	ora(cpu, val)
	cpu.PC += 2
}

// 14
func TRBzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.trb)
	cpu.PC += 2
}

// 15
func ORAzpx(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zpx()))
	ora(cpu, val)
	cpu.PC += 2
}

// 16
func ASLzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.asl)
	cpu.PC += 2
}

// 18
func CLC(cpu *CPU) {
	cpu.tick()
	cpu.P.setC(false)
	cpu.PC += 1
}

// 19
func ORAaby(cpu *CPU) {
	val := cpu.Read8(cpu.abyRead())
	ora(cpu, val)
	cpu.PC += 3
}

// 1A
func INCacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.inc(cpu.A)
	cpu.PC += 1
}

// 1C
func TRBabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.trb)
	cpu.PC += 3
}

// 1D
func ORAabx(cpu *CPU) {
	val := cpu.Read8(cpu.abxRead())
	ora(cpu, val)
	cpu.PC += 3
}

// 1E
func ASLabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.asl)
	cpu.PC += 3
}

// 20
func JSR(cpu *CPU) {
	target := cpu.abs()
	cpu.tick()
	push16(cpu, cpu.PC+2)
	cpu.PC = target
}

// 21
func ANDizx(cpu *CPU) {
	val := cpu.Read8(cpu.izx())
	and(cpu, val)
	cpu.PC += 2
}

// 24
func BITzp(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zp()))
	bit(cpu, val)
	cpu.PC += 2
}

// 25
func ANDzp(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zp()))
	and(cpu, val)
	cpu.PC += 2
}

// 26
func ROLzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.rol)
	cpu.PC += 2
}

// 28
func PLP(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.P = P(pull8(cpu)) | (1 << pbitU)
	cpu.P.writeBit(pbitB, false)
	cpu.PC += 1
}

// 29
func ANDimm(cpu *CPU) {
	and(cpu, cpu.imm())
	cpu.PC += 2
}

// 2A
func ROLacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.rol(cpu.A)
	cpu.PC += 1
}

// 2C
func BITabs(cpu *CPU) {
	val := cpu.Read8(cpu.abs())
	bit(cpu, val)
	cpu.PC += 3
}

// 2D
func ANDabs(cpu *CPU) {
	val := cpu.Read8(cpu.abs())
	and(cpu, val)
	cpu.PC += 3
}

// 2E
func ROLabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.rol)
	cpu.PC += 3
}

// 30
func BMI(cpu *CPU) {
	branch(cpu, cpu.P.N())
}

// 31
func ANDizy(cpu *CPU) {
	val := cpu.Read8(cpu.izyRead())
	and(cpu, val)
	cpu.PC += 2
}

// 32
func ANDizp(cpu *CPU) {
	val := cpu.Read8(cpu.izp())
	and(cpu, val)
	cpu.PC += 2
}

// 34
func BITzpx(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zpx()))
	bit(cpu, val)
	cpu.PC += 2
}

// 35
func ANDzpx(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zpx()))
	and(cpu, val)
	cpu.PC += 2
}

// 36
func ROLzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.rol)
	cpu.PC += 2
}

// 38
func SEC(cpu *CPU) {
	cpu.tick()
	cpu.P.setC(true)
	cpu.PC += 1
}

// 39
func ANDaby(cpu *CPU) {
	val := cpu.Read8(cpu.abyRead())
	and(cpu, val)
	cpu.PC += 3
}

// 3A
func DECacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.dec(cpu.A)
	cpu.PC += 1
}

// 3C
func BITabx(cpu *CPU) {
	val := cpu.Read8(cpu.abxRead())
	bit(cpu, val)
	cpu.PC += 3
}

// 3D
func ANDabx(cpu *CPU) {
	val := cpu.Read8(cpu.abxRead())
	and(cpu, val)
	cpu.PC += 3
}

// 3E
func ROLabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.rol)
	cpu.PC += 3
}

// 40
func RTI(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.P = P(pull8(cpu)) | (1 << pbitU)
	cpu.P.writeBit(pbitB, false)
	cpu.PC = pull16(cpu)
}

// 41
func EORizx(cpu *CPU) {
	val := cpu.Read8(cpu.izx())
	eor(cpu, val)
	cpu.PC += 2
}

// 45
func EORzp(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zp()))
	eor(cpu, val)
	cpu.PC += 2
}

// 46
func LSRzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.lsr)
	cpu.PC += 2
}

// 48
func PHA(cpu *CPU) {
	cpu.tick()
	push8(cpu, cpu.A)
	cpu.PC += 1
}

// 49
func EORimm(cpu *CPU) {
	eor(cpu, cpu.imm())
	cpu.PC += 2
}

// 4A
func LSRacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.lsr(cpu.A)
	cpu.PC += 1
}

// 4C
func JMPabs(cpu *CPU) {
	cpu.PC = cpu.abs()
}

// 4D
func EORabs(cpu *CPU) {
	val := cpu.Read8(cpu.abs())
	eor(cpu, val)
	cpu.PC += 3
}

// 4E
func LSRabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.lsr)
	cpu.PC += 3
}

// 50
func BVC(cpu *CPU) {
	branch(cpu, !cpu.P.V())
}

// 51
func EORizy(cpu *CPU) {
	val := cpu.Read8(cpu.izyRead())
	eor(cpu, val)
	cpu.PC += 2
}

// 52
func EORizp(cpu *CPU) {
	val := cpu.Read8(cpu.izp())
	eor(cpu, val)
	cpu.PC += 2
}

// 55
func EORzpx(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zpx()))
	eor(cpu, val)
	cpu.PC += 2
}

// 56
func LSRzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.lsr)
	cpu.PC += 2
}

// 58
func CLI(cpu *CPU) {
	cpu.tick()
	cpu.P.setI(false)
	cpu.PC += 1
}

// 59
func EORaby(cpu *CPU) {
	val := cpu.Read8(cpu.abyRead())
	eor(cpu, val)
	cpu.PC += 3
}

// 5A
func PHY(cpu *CPU) {
	cpu.tick()
	push8(cpu, cpu.Y)
	cpu.PC += 1
}

// 5C: a 65C02 oddity, 3-byte 8-cycle no-op.
func NOP5C(cpu *CPU) {
	_ = cpu.abs()
	for i := 0; i < 5; i++ {
		cpu.tick()
	}
	cpu.PC += 3
}

// 5D
func EORabx(cpu *CPU) {
	val := cpu.Read8(cpu.abxRead())
	eor(cpu, val)
	cpu.PC += 3
}

// 5E
func LSRabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.lsr)
	cpu.PC += 3
}

// 60
func RTS(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	pc := pull16(cpu)
	cpu.tick()
	cpu.PC = pc + 1
}

// 61
func ADCizx(cpu *CPU) {
	val := cpu.Read8(cpu.izx())
	adc(cpu, val)
	cpu.PC += 2
}

// 64
func STZzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), 0)
	cpu.PC += 2
}

// 65
func ADCzp(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zp()))
	adc(cpu, val)
	cpu.PC += 2
}

// 66
func RORzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.ror)
	cpu.PC += 2
}

// 68
func PLA(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.A = pull8(cpu)
	cpu.P.setNZ(cpu.A)
	cpu.PC += 1
}

// 69
func ADCimm(cpu *CPU) {
	adc(cpu, cpu.imm())
	cpu.PC += 2
}

// 6A
func RORacc(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.ror(cpu.A)
	cpu.PC += 1
}

// 6C: the CMOS core fixed the page-wrap pointer bug, at the cost of a cycle.
func JMPind(cpu *CPU) {
	ptr := cpu.abs()
	cpu.tick()
	cpu.PC = cpu.Read16(ptr)
}

// 6D
func ADCabs(cpu *CPU) {
	val := cpu.Read8(cpu.abs())
	adc(cpu, val)
	cpu.PC += 3
}

// 6E
func RORabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.ror)
	cpu.PC += 3
}

// 70
func BVS(cpu *CPU) {
	branch(cpu, cpu.P.V())
}

// 71
func ADCizy(cpu *CPU) {
	val := cpu.Read8(cpu.izyRead())
	adc(cpu, val)
	cpu.PC += 2
}

// 72
func ADCizp(cpu *CPU) {
	val := cpu.Read8(cpu.izp())
	adc(cpu, val)
	cpu.PC += 2
}

// 74
func STZzpx(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpx()), 0)
	cpu.PC += 2
}

// 75
func ADCzpx(cpu *CPU) {
	val := cpu.Read8(uint16(cpu.zpx()))
	adc(cpu, val)
	cpu.PC += 2
}

// 76
func RORzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.ror)
	cpu.PC += 2
}

// 78
func SEI(cpu *CPU) {
	cpu.tick()
	cpu.P.setI(true)
	cpu.PC += 1
}

// 79
func ADCaby(cpu *CPU) {
	val := cpu.Read8(cpu.abyRead())
	adc(cpu, val)
	cpu.PC += 3
}

// 7A
func PLY(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.Y = pull8(cpu)
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 1
}

// 7C
func JMPabxi(cpu *CPU) {
	ptr := cpu.abs() + uint16(cpu.X)
	cpu.tick()
	cpu.PC = cpu.Read16(ptr)
}

// 7D
func ADCabx(cpu *CPU) {
	val := cpu.Read8(cpu.abxRead())
	adc(cpu, val)
	cpu.PC += 3
}

// 7E
func RORabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.ror)
	cpu.PC += 3
}

// 80
func BRA(cpu *CPU) {
	branch(cpu, true)
}

// 81
func STAizx(cpu *CPU) {
	cpu.Write8(cpu.izx(), cpu.A)
	cpu.PC += 2
}

// 84
func STYzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.Y)
	cpu.PC += 2
}

// 85
func STAzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.A)
	cpu.PC += 2
}

// 86
func STXzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.X)
	cpu.PC += 2
}

// 88
func DEY(cpu *CPU) {
	cpu.tick()
	cpu.Y = cpu.dec(cpu.Y)
	cpu.PC += 1
}

// 89: immediate BIT only affects Z.
func BITimm(cpu *CPU) {
	cpu.P.setZ(cpu.A&cpu.imm() == 0)
	cpu.PC += 2
}

// 8A
func TXA(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.X
	cpu.P.setNZ(cpu.A)
	cpu.PC += 1
}

// 8C
func STYabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.Y)
	cpu.PC += 3
}

// 8D
func STAabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.A)
	cpu.PC += 3
}

// 8E
func STXabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.X)
	cpu.PC += 3
}

// 90
func BCC(cpu *CPU) {
	branch(cpu, !cpu.P.C())
}

// 91
func STAizy(cpu *CPU) {
	cpu.Write8(cpu.izyWrite(), cpu.A)
	cpu.PC += 2
}

// 92
func STAizp(cpu *CPU) {
	cpu.Write8(cpu.izp(), cpu.A)
	cpu.PC += 2
}

// 94
func STYzpx(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpx()), cpu.Y)
	cpu.PC += 2
}

// 95
func STAzpx(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpx()), cpu.A)
	cpu.PC += 2
}

// 96
func STXzpy(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpy()), cpu.X)
	cpu.PC += 2
}

// 98
func TYA(cpu *CPU) {
	cpu.tick()
	cpu.A = cpu.Y
	cpu.P.setNZ(cpu.A)
	cpu.PC += 1
}

// 99
func STAaby(cpu *CPU) {
	cpu.Write8(cpu.abyWrite(), cpu.A)
	cpu.PC += 3
}

// 9A
func TXS(cpu *CPU) {
	cpu.tick()
	cpu.SP = cpu.X
	cpu.PC += 1
}

// 9C
func STZabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), 0)
	cpu.PC += 3
}

// 9D
func STAabx(cpu *CPU) {
	cpu.Write8(cpu.abxWrite(), cpu.A)
	cpu.PC += 3
}

// 9E
func STZabx(cpu *CPU) {
	cpu.Write8(cpu.abxWrite(), 0)
	cpu.PC += 3
}

// A0
func LDYimm(cpu *CPU) {
	cpu.Y = cpu.imm()
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 2
}

// A1
func LDAizx(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.izx())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// A2
func LDXimm(cpu *CPU) {
	cpu.X = cpu.imm()
	cpu.P.setNZ(cpu.X)
	cpu.PC += 2
}

// A4
func LDYzp(cpu *CPU) {
	cpu.Y = cpu.Read8(uint16(cpu.zp()))
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 2
}

// A5
func LDAzp(cpu *CPU) {
	cpu.A = cpu.Read8(uint16(cpu.zp()))
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// A6
func LDXzp(cpu *CPU) {
	cpu.X = cpu.Read8(uint16(cpu.zp()))
	cpu.P.setNZ(cpu.X)
	cpu.PC += 2
}

// A8
func TAY(cpu *CPU) {
	cpu.tick()
	cpu.Y = cpu.A
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 1
}

// A9
func LDAimm(cpu *CPU) {
	cpu.A = cpu.imm()
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// AA
func TAX(cpu *CPU) {
	cpu.tick()
	cpu.X = cpu.A
	cpu.P.setNZ(cpu.X)
	cpu.PC += 1
}

// AC
func LDYabs(cpu *CPU) {
	cpu.Y = cpu.Read8(cpu.abs())
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 3
}

// AD
func LDAabs(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.abs())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 3
}

// AE
func LDXabs(cpu *CPU) {
	cpu.X = cpu.Read8(cpu.abs())
	cpu.P.setNZ(cpu.X)
	cpu.PC += 3
}

// B0
func BCS(cpu *CPU) {
	branch(cpu, cpu.P.C())
}

// B1
func LDAizy(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.izyRead())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// B2
func LDAizp(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.izp())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// B4
func LDYzpx(cpu *CPU) {
	cpu.Y = cpu.Read8(uint16(cpu.zpx()))
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 2
}

// B5
func LDAzpx(cpu *CPU) {
	cpu.A = cpu.Read8(uint16(cpu.zpx()))
	cpu.P.setNZ(cpu.A)
	cpu.PC += 2
}

// B6
func LDXzpy(cpu *CPU) {
	cpu.X = cpu.Read8(uint16(cpu.zpy()))
	cpu.P.setNZ(cpu.X)
	cpu.PC += 2
}

// B8
func CLV(cpu *CPU) {
	cpu.tick()
	cpu.P.setV(false)
	cpu.PC += 1
}

// B9
func LDAaby(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.abyRead())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 3
}

// BA
func TSX(cpu *CPU) {
	cpu.tick()
	cpu.X = cpu.SP
	cpu.P.setNZ(cpu.X)
	cpu.PC += 1
}

// BC
func LDYabx(cpu *CPU) {
	cpu.Y = cpu.Read8(cpu.abxRead())
	cpu.P.setNZ(cpu.Y)
	cpu.PC += 3
}

// BD
func LDAabx(cpu *CPU) {
	cpu.A = cpu.Read8(cpu.abxRead())
	cpu.P.setNZ(cpu.A)
	cpu.PC += 3
}

// BE
func LDXaby(cpu *CPU) {
	cpu.X = cpu.Read8(cpu.abyRead())
	cpu.P.setNZ(cpu.X)
	cpu.PC += 3
}

// C0
func CPYimm(cpu *CPU) {
	compare(cpu, cpu.Y, cpu.imm())
	cpu.PC += 2
}

// C1
func CMPizx(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// C4
func CPYzp(cpu *CPU) {
	compare(cpu, cpu.Y, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// C5
func CMPzp(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// C6
func DECzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.dec)
	cpu.PC += 2
}

// C8
func INY(cpu *CPU) {
	cpu.tick()
	cpu.Y = cpu.inc(cpu.Y)
	cpu.PC += 1
}

// C9
func CMPimm(cpu *CPU) {
	compare(cpu, cpu.A, cpu.imm())
	cpu.PC += 2
}

// CA
func DEX(cpu *CPU) {
	cpu.tick()
	cpu.X = cpu.dec(cpu.X)
	cpu.PC += 1
}

// CB: wait for interrupt.
func WAI(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.waiting = true
	cpu.PC += 1
}

// CC
func CPYabs(cpu *CPU) {
	compare(cpu, cpu.Y, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// CD
func CMPabs(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// CE
func DECabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.dec)
	cpu.PC += 3
}

// D0
func BNE(cpu *CPU) {
	branch(cpu, !cpu.P.Z())
}

// D1
func CMPizy(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.izyRead()))
	cpu.PC += 2
}

// D2
func CMPizp(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.izp()))
	cpu.PC += 2
}

// D5
func CMPzpx(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// D6
func DECzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.dec)
	cpu.PC += 2
}

// D8
func CLD(cpu *CPU) {
	cpu.tick()
	cpu.P.setD(false)
	cpu.PC += 1
}

// D9
func CMPaby(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.abyRead()))
	cpu.PC += 3
}

// DA
func PHX(cpu *CPU) {
	cpu.tick()
	push8(cpu, cpu.X)
	cpu.PC += 1
}

// DB: stop the clock until reset.
func STP(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.halted = true
	cpu.PC += 1
}

// DD
func CMPabx(cpu *CPU) {
	compare(cpu, cpu.A, cpu.Read8(cpu.abxRead()))
	cpu.PC += 3
}

// DE
func DECabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.dec)
	cpu.PC += 3
}

// E0
func CPXimm(cpu *CPU) {
	compare(cpu, cpu.X, cpu.imm())
	cpu.PC += 2
}

// E1
func SBCizx(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// E4
func CPXzp(cpu *CPU) {
	compare(cpu, cpu.X, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// E5
func SBCzp(cpu *CPU) {
	sbc(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// E6
func INCzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	rmw(cpu, addr, cpu.inc)
	cpu.PC += 2
}

// E8
func INX(cpu *CPU) {
	cpu.tick()
	cpu.X = cpu.inc(cpu.X)
	cpu.PC += 1
}

// E9
func SBCimm(cpu *CPU) {
	sbc(cpu, cpu.imm())
	cpu.PC += 2
}

// EA
func NOP(cpu *CPU) {
	cpu.tick()
	cpu.PC += 1
}

// EC
func CPXabs(cpu *CPU) {
	compare(cpu, cpu.X, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// ED
func SBCabs(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// EE
func INCabs(cpu *CPU) {
	rmw(cpu, cpu.abs(), cpu.inc)
	cpu.PC += 3
}

// F0
func BEQ(cpu *CPU) {
	branch(cpu, cpu.P.Z())
}

// F1
func SBCizy(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.izyRead()))
	cpu.PC += 2
}

// F2
func SBCizp(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.izp()))
	cpu.PC += 2
}

// F5
func SBCzpx(cpu *CPU) {
	sbc(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// F6
func INCzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	rmw(cpu, addr, cpu.inc)
	cpu.PC += 2
}

// F8
func SED(cpu *CPU) {
	cpu.tick()
	cpu.P.setD(true)
	cpu.PC += 1
}

// F9
func SBCaby(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.abyRead()))
	cpu.PC += 3
}

// FA
func PLX(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.X = pull8(cpu)
	cpu.P.setNZ(cpu.X)
	cpu.PC += 1
}

// FD
func SBCabx(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.abxRead()))
	cpu.PC += 3
}

// FE
func INCabx(cpu *CPU) {
	rmw(cpu, cpu.abxWrite(), cpu.inc)
	cpu.PC += 3
}

/* CMOS no-ops. Undefined opcodes on this core have defined, harmless
   behavior: columns 3/7/B/F decode to single-cycle one-byte no-ops (when not
   taken by the bit instructions), column 2 leftovers to two-byte no-ops. */

// 1-byte, 1-cycle
func NOP1(cpu *CPU) {
	cpu.PC += 1
}

// 2-byte, 2-cycle
func NOPimm(cpu *CPU) {
	_ = cpu.imm()
	cpu.PC += 2
}

// 2-byte, 3-cycle
func NOPzp(cpu *CPU) {
	_ = cpu.Read8(uint16(cpu.zp()))
	cpu.PC += 2
}

// 2-byte, 4-cycle
func NOPzpx(cpu *CPU) {
	_ = cpu.Read8(uint16(cpu.zpx()))
	cpu.PC += 2
}

// 3-byte, 4-cycle
func NOPabs(cpu *CPU) {
	_ = cpu.Read8(cpu.abs())
	cpu.PC += 3
}

/* Rockwell bit instructions */

func RMB0(cpu *CPU) { rmbzp(cpu, 0) }
func RMB1(cpu *CPU) { rmbzp(cpu, 1) }
func RMB2(cpu *CPU) { rmbzp(cpu, 2) }
func RMB3(cpu *CPU) { rmbzp(cpu, 3) }
func RMB4(cpu *CPU) { rmbzp(cpu, 4) }
func RMB5(cpu *CPU) { rmbzp(cpu, 5) }
func RMB6(cpu *CPU) { rmbzp(cpu, 6) }
func RMB7(cpu *CPU) { rmbzp(cpu, 7) }

func SMB0(cpu *CPU) { smbzp(cpu, 0) }
func SMB1(cpu *CPU) { smbzp(cpu, 1) }
func SMB2(cpu *CPU) { smbzp(cpu, 2) }
func SMB3(cpu *CPU) { smbzp(cpu, 3) }
func SMB4(cpu *CPU) { smbzp(cpu, 4) }
func SMB5(cpu *CPU) { smbzp(cpu, 5) }
func SMB6(cpu *CPU) { smbzp(cpu, 6) }
func SMB7(cpu *CPU) { smbzp(cpu, 7) }

func BBR0(cpu *CPU) { bbranch(cpu, 0, false) }
func BBR1(cpu *CPU) { bbranch(cpu, 1, false) }
func BBR2(cpu *CPU) { bbranch(cpu, 2, false) }
func BBR3(cpu *CPU) { bbranch(cpu, 3, false) }
func BBR4(cpu *CPU) { bbranch(cpu, 4, false) }
func BBR5(cpu *CPU) { bbranch(cpu, 5, false) }
func BBR6(cpu *CPU) { bbranch(cpu, 6, false) }
func BBR7(cpu *CPU) { bbranch(cpu, 7, false) }

func BBS0(cpu *CPU) { bbranch(cpu, 0, true) }
func BBS1(cpu *CPU) { bbranch(cpu, 1, true) }
func BBS2(cpu *CPU) { bbranch(cpu, 2, true) }
func BBS3(cpu *CPU) { bbranch(cpu, 3, true) }
func BBS4(cpu *CPU) { bbranch(cpu, 4, true) }
func BBS5(cpu *CPU) { bbranch(cpu, 5, true) }
func BBS6(cpu *CPU) { bbranch(cpu, 6, true) }
func BBS7(cpu *CPU) { bbranch(cpu, 7, true) }

var ops = [256]func(cpu *CPU){
	0x00: BRK,
	0x01: ORAizx,
	0x02: NOPimm,
	0x03: NOP1,
	0x04: TSBzp,
	0x05: ORAzp,
	0x06: ASLzp,
	0x07: RMB0,
	0x08: PHP,
	0x09: ORAimm,
	0x0A: ASLacc,
	0x0B: NOP1,
	0x0C: TSBabs,
	0x0D: ORAabs,
	0x0E: ASLabs,
	0x0F: BBR0,
	0x10: BPL,
	0x11: ORAizy,
	0x12: ORAizp,
	0x13: NOP1,
	0x14: TRBzp,
	0x15: ORAzpx,
	0x16: ASLzpx,
	0x17: RMB1,
	0x18: CLC,
	0x19: ORAaby,
	0x1A: INCacc,
	0x1B: NOP1,
	0x1C: TRBabs,
	0x1D: ORAabx,
	0x1E: ASLabx,
	0x1F: BBR1,
	0x20: JSR,
	0x21: ANDizx,
	0x22: NOPimm,
	0x23: NOP1,
	0x24: BITzp,
	0x25: ANDzp,
	0x26: ROLzp,
	0x27: RMB2,
	0x28: PLP,
	0x29: ANDimm,
	0x2A: ROLacc,
	0x2B: NOP1,
	0x2C: BITabs,
	0x2D: ANDabs,
	0x2E: ROLabs,
	0x2F: BBR2,
	0x30: BMI,
	0x31: ANDizy,
	0x32: ANDizp,
	0x33: NOP1,
	0x34: BITzpx,
	0x35: ANDzpx,
	0x36: ROLzpx,
	0x37: RMB3,
	0x38: SEC,
	0x39: ANDaby,
	0x3A: DECacc,
	0x3B: NOP1,
	0x3C: BITabx,
	0x3D: ANDabx,
	0x3E: ROLabx,
	0x3F: BBR3,
	0x40: RTI,
	0x41: EORizx,
	0x42: NOPimm,
	0x43: NOP1,
	0x44: NOPzp,
	0x45: EORzp,
	0x46: LSRzp,
	0x47: RMB4,
	0x48: PHA,
	0x49: EORimm,
	0x4A: LSRacc,
	0x4B: NOP1,
	0x4C: JMPabs,
	0x4D: EORabs,
	0x4E: LSRabs,
	0x4F: BBR4,
	0x50: BVC,
	0x51: EORizy,
	0x52: EORizp,
	0x53: NOP1,
	0x54: NOPzpx,
	0x55: EORzpx,
	0x56: LSRzpx,
	0x57: RMB5,
	0x58: CLI,
	0x59: EORaby,
	0x5A: PHY,
	0x5B: NOP1,
	0x5C: NOP5C,
	0x5D: EORabx,
	0x5E: LSRabx,
	0x5F: BBR5,
	0x60: RTS,
	0x61: ADCizx,
	0x62: NOPimm,
	0x63: NOP1,
	0x64: STZzp,
	0x65: ADCzp,
	0x66: RORzp,
	0x67: RMB6,
	0x68: PLA,
	0x69: ADCimm,
	0x6A: RORacc,
	0x6B: NOP1,
	0x6C: JMPind,
	0x6D: ADCabs,
	0x6E: RORabs,
	0x6F: BBR6,
	0x70: BVS,
	0x71: ADCizy,
	0x72: ADCizp,
	0x73: NOP1,
	0x74: STZzpx,
	0x75: ADCzpx,
	0x76: RORzpx,
	0x77: RMB7,
	0x78: SEI,
	0x79: ADCaby,
	0x7A: PLY,
	0x7B: NOP1,
	0x7C: JMPabxi,
	0x7D: ADCabx,
	0x7E: RORabx,
	0x7F: BBR7,
	0x80: BRA,
	0x81: STAizx,
	0x82: NOPimm,
	0x83: NOP1,
	0x84: STYzp,
	0x85: STAzp,
	0x86: STXzp,
	0x87: SMB0,
	0x88: DEY,
	0x89: BITimm,
	0x8A: TXA,
	0x8B: NOP1,
	0x8C: STYabs,
	0x8D: STAabs,
	0x8E: STXabs,
	0x8F: BBS0,
	0x90: BCC,
	0x91: STAizy,
	0x92: STAizp,
	0x93: NOP1,
	0x94: STYzpx,
	0x95: STAzpx,
	0x96: STXzpy,
	0x97: SMB1,
	0x98: TYA,
	0x99: STAaby,
	0x9A: TXS,
	0x9B: NOP1,
	0x9C: STZabs,
	0x9D: STAabx,
	0x9E: STZabx,
	0x9F: BBS1,
	0xA0: LDYimm,
	0xA1: LDAizx,
	0xA2: LDXimm,
	0xA3: NOP1,
	0xA4: LDYzp,
	0xA5: LDAzp,
	0xA6: LDXzp,
	0xA7: SMB2,
	0xA8: TAY,
	0xA9: LDAimm,
	0xAA: TAX,
	0xAB: NOP1,
	0xAC: LDYabs,
	0xAD: LDAabs,
	0xAE: LDXabs,
	0xAF: BBS2,
	0xB0: BCS,
	0xB1: LDAizy,
	0xB2: LDAizp,
	0xB3: NOP1,
	0xB4: LDYzpx,
	0xB5: LDAzpx,
	0xB6: LDXzpy,
	0xB7: SMB3,
	0xB8: CLV,
	0xB9: LDAaby,
	0xBA: TSX,
	0xBB: NOP1,
	0xBC: LDYabx,
	0xBD: LDAabx,
	0xBE: LDXaby,
	0xBF: BBS3,
	0xC0: CPYimm,
	0xC1: CMPizx,
	0xC2: NOPimm,
	0xC3: NOP1,
	0xC4: CPYzp,
	0xC5: CMPzp,
	0xC6: DECzp,
	0xC7: SMB4,
	0xC8: INY,
	0xC9: CMPimm,
	0xCA: DEX,
	0xCB: WAI,
	0xCC: CPYabs,
	0xCD: CMPabs,
	0xCE: DECabs,
	0xCF: BBS4,
	0xD0: BNE,
	0xD1: CMPizy,
	0xD2: CMPizp,
	0xD3: NOP1,
	0xD4: NOPzpx,
	0xD5: CMPzpx,
	0xD6: DECzpx,
	0xD7: SMB5,
	0xD8: CLD,
	0xD9: CMPaby,
	0xDA: PHX,
	0xDB: STP,
	0xDC: NOPabs,
	0xDD: CMPabx,
	0xDE: DECabx,
	0xDF: BBS5,
	0xE0: CPXimm,
	0xE1: SBCizx,
	0xE2: NOPimm,
	0xE3: NOP1,
	0xE4: CPXzp,
	0xE5: SBCzp,
	0xE6: INCzp,
	0xE7: SMB6,
	0xE8: INX,
	0xE9: SBCimm,
	0xEA: NOP,
	0xEB: NOP1,
	0xEC: CPXabs,
	0xED: SBCabs,
	0xEE: INCabs,
	0xEF: BBS6,
	0xF0: BEQ,
	0xF1: SBCizy,
	0xF2: SBCizp,
	0xF3: NOP1,
	0xF4: NOPzpx,
	0xF5: SBCzpx,
	0xF6: INCzpx,
	0xF7: SMB7,
	0xF8: SED,
	0xF9: SBCaby,
	0xFA: PLX,
	0xFB: NOP1,
	0xFC: NOPabs,
	0xFD: SBCabx,
	0xFE: INCabx,
	0xFF: BBS7,
}
