// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// Op identifies the operation performed by a decoded instruction.
type Op byte

// Operations. OpUnimplemented marks a prefixed opcode that belongs to the
// Z80 instruction set but is not emulated.
const (
	OpUnimplemented Op = iota
	OpNOP
	OpHALT
	OpLD
	OpLD16
	OpPUSH
	OpPOP
	OpEX
	OpEXAF
	OpEXX
	OpADD
	OpSUB
	OpNEG
	OpINC
	OpDEC
	OpJP
	OpJR
	OpDJNZ
	OpCALL
	OpRET
	OpDI
	OpEI
	OpIM
	OpIN
	OpBIT
	OpRES
	OpSET
)

var opNames = [...]string{
	OpUnimplemented: "???",
	OpNOP:           "NOP",
	OpHALT:          "HALT",
	OpLD:            "LD",
	OpLD16:          "LD",
	OpPUSH:          "PUSH",
	OpPOP:           "POP",
	OpEX:            "EX",
	OpEXAF:          "EX",
	OpEXX:           "EXX",
	OpADD:           "ADD",
	OpSUB:           "SUB",
	OpNEG:           "NEG",
	OpINC:           "INC",
	OpDEC:           "DEC",
	OpJP:            "JP",
	OpJR:            "JR",
	OpDJNZ:          "DJNZ",
	OpCALL:          "CALL",
	OpRET:           "RET",
	OpDI:            "DI",
	OpEI:            "EI",
	OpIM:            "IM",
	OpIN:            "IN",
	OpBIT:           "BIT",
	OpRES:           "RES",
	OpSET:           "SET",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "???"
}

// Mode is an operand addressing mode.
type Mode byte

// Addressing modes.
const (
	ModeNone   Mode = iota
	ModeReg         // 8-bit register
	ModePair        // 16-bit register
	ModeImm8        // 8-bit immediate
	ModeImm16       // 16-bit little-endian immediate
	ModeInd         // memory addressed by a register pair: (BC), (DE), (HL), (SP)
	ModeIdx         // memory addressed by an index register plus displacement: (IX+d)
	ModeDirect      // memory addressed by a 16-bit immediate: (nn)
	ModePort        // 8-bit I/O port: (n)
	ModeRel         // signed displacement from the next instruction
)

// An Operand describes where an instruction reads or writes a value.
type Operand struct {
	Mode  Mode
	Reg   Reg    // ModeReg
	Pair  Pair   // ModePair, ModeInd, ModeIdx
	Disp  int8   // ModeIdx, ModeRel
	Value uint16 // ModeImm8, ModeImm16, ModeDirect, ModePort
}

func reg(r Reg) Operand           { return Operand{Mode: ModeReg, Reg: r} }
func pair(p Pair) Operand         { return Operand{Mode: ModePair, Pair: p} }
func imm8(v byte) Operand         { return Operand{Mode: ModeImm8, Value: uint16(v)} }
func imm16(v uint16) Operand      { return Operand{Mode: ModeImm16, Value: v} }
func ind(p Pair) Operand          { return Operand{Mode: ModeInd, Pair: p} }
func idx(p Pair, d int8) Operand  { return Operand{Mode: ModeIdx, Pair: p, Disp: d} }
func direct(addr uint16) Operand  { return Operand{Mode: ModeDirect, Value: addr} }
func port(n byte) Operand         { return Operand{Mode: ModePort, Value: uint16(n)} }
func rel(d int8) Operand          { return Operand{Mode: ModeRel, Disp: d} }
func regOrHL(code byte) Operand {
	if code == 6 {
		return ind(PairHL)
	}
	return reg(Reg(code))
}

// An Instruction is a fully decoded Z80 instruction.
type Instruction struct {
	Op      Op
	Addr    uint16  // program address of the first byte
	Prefix  byte    // 0xCB, 0xDD, 0xED, 0xFD or 0 for unprefixed opcodes
	Opcode  byte    // opcode byte following any prefix
	Length  byte    // total number of bytes consumed
	Dst     Operand // destination (or sole) operand
	Src     Operand // source operand
	Cond    Cond    // condition for conditional jumps, calls and returns
	HasCond bool    // true if Cond applies
	Bit     byte    // bit number for BIT/RES/SET, mode for IM
}

// NextAddr returns the program address following the instruction.
func (inst *Instruction) NextAddr() uint16 {
	return inst.Addr + uint16(inst.Length)
}

// An UnrecognizedOpcodeError is returned when an opcode matches none of the
// decoder's templates. Only the opcode byte has been consumed.
type UnrecognizedOpcodeError struct {
	Opcode byte
	PC     uint16
}

func (e *UnrecognizedOpcodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode $%02X at $%04X", e.Opcode, e.PC)
}

// An UnimplementedError is returned when executing a prefixed instruction
// that decodes to OpUnimplemented.
type UnimplementedError struct {
	Prefix byte
	Opcode byte
	PC     uint16
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented opcode $%02X $%02X at $%04X", e.Prefix, e.Opcode, e.PC)
}

// A ProgramReader supplies instruction bytes to the decoder, one byte per
// call, in program order.
type ProgramReader interface {
	FetchProgramByte() (byte, error)
}

// A ProgramCursor reads instruction bytes from a program image without
// touching any CPU state. It is used to look ahead and to disassemble.
type ProgramCursor struct {
	Mem  *Memory
	Addr uint16
}

// FetchProgramByte returns the byte at the cursor and advances it.
func (c *ProgramCursor) FetchProgramByte() (byte, error) {
	b, err := c.Mem.ProgramByte(c.Addr)
	if err != nil {
		return 0, err
	}
	c.Addr++
	return b, nil
}

// Pairs selected by bits 4-5 of LD dd,nn style opcodes, and by PUSH/POP.
var (
	ddPairs = [4]Pair{PairBC, PairDE, PairHL, PairSP}
	qqPairs = [4]Pair{PairBC, PairDE, PairHL, PairAF}
)

type decoder struct {
	r    ProgramReader
	inst Instruction
}

func (d *decoder) fetch() (byte, error) {
	b, err := d.r.FetchProgramByte()
	if err != nil {
		return 0, err
	}
	d.inst.Length++
	return b, nil
}

func (d *decoder) fetchWord() (uint16, error) {
	lo, err := d.fetch()
	if err != nil {
		return 0, err
	}
	hi, err := d.fetch()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Decode reads one instruction from r. The instruction is assumed to start
// at program address addr. If the opcode is not recognized, an
// *UnrecognizedOpcodeError is returned after consuming the opcode byte
// only. Errors returned by r are passed through unchanged.
func Decode(r ProgramReader, addr uint16) (Instruction, error) {
	d := decoder{r: r, inst: Instruction{Addr: addr}}

	op, err := d.fetch()
	if err != nil {
		return d.inst, err
	}

	switch op {
	case 0xcb:
		err = d.decodeCB()
	case 0xdd:
		err = d.decodeIndexed(op, PairIX)
	case 0xed:
		err = d.decodeED()
	case 0xfd:
		err = d.decodeIndexed(op, PairIY)
	default:
		d.inst.Opcode = op
		var ok bool
		ok, err = d.decodePrimary(op)
		if err == nil && !ok {
			err = &UnrecognizedOpcodeError{Opcode: op, PC: addr}
		}
	}
	return d.inst, err
}

// Decode an unprefixed opcode. Templates are tested in order and the first
// match wins; the register-field templates only match when their fields
// name plain registers.
func (d *decoder) decodePrimary(op byte) (bool, error) {
	inst := &d.inst
	y, z := (op>>3)&7, op&7

	switch {
	case op&0xc0 == 0x40 && IsRegisterEncodingValid(y) && IsRegisterEncodingValid(z):
		inst.Op, inst.Dst, inst.Src = OpLD, reg(Reg(y)), reg(Reg(z))

	case op&0xc7 == 0x06 && IsRegisterEncodingValid(y):
		n, err := d.fetch()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Dst, inst.Src = OpLD, reg(Reg(y)), imm8(n)

	case op&0xc7 == 0x46 && IsRegisterEncodingValid(y):
		inst.Op, inst.Dst, inst.Src = OpLD, reg(Reg(y)), ind(PairHL)

	case op&0xf8 == 0x70 && IsRegisterEncodingValid(z):
		inst.Op, inst.Dst, inst.Src = OpLD, ind(PairHL), reg(Reg(z))

	case op&0xcf == 0x01:
		nn, err := d.fetchWord()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Dst, inst.Src = OpLD16, pair(ddPairs[op>>4&3]), imm16(nn)

	case op&0xcf == 0xc5:
		inst.Op, inst.Src = OpPUSH, pair(qqPairs[op>>4&3])

	case op&0xcf == 0xc1:
		inst.Op, inst.Dst = OpPOP, pair(qqPairs[op>>4&3])

	case op == 0x00:
		inst.Op = OpNOP

	case op == 0x76:
		inst.Op = OpHALT

	case op == 0x02, op == 0x12:
		inst.Op, inst.Dst, inst.Src = OpLD, ind(ddPairs[op>>4&1]), reg(RegA)

	case op == 0x0a, op == 0x1a:
		inst.Op, inst.Dst, inst.Src = OpLD, reg(RegA), ind(ddPairs[op>>4&1])

	case op == 0x22, op == 0x2a, op == 0x32, op == 0x3a:
		nn, err := d.fetchWord()
		if err != nil {
			return true, err
		}
		switch op {
		case 0x22:
			inst.Op, inst.Dst, inst.Src = OpLD16, direct(nn), pair(PairHL)
		case 0x2a:
			inst.Op, inst.Dst, inst.Src = OpLD16, pair(PairHL), direct(nn)
		case 0x32:
			inst.Op, inst.Dst, inst.Src = OpLD, direct(nn), reg(RegA)
		case 0x3a:
			inst.Op, inst.Dst, inst.Src = OpLD, reg(RegA), direct(nn)
		}

	case op == 0x36:
		n, err := d.fetch()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Dst, inst.Src = OpLD, ind(PairHL), imm8(n)

	case op == 0x08:
		inst.Op = OpEXAF

	case op == 0xd9:
		inst.Op = OpEXX

	case op == 0xeb:
		inst.Op, inst.Dst, inst.Src = OpEX, pair(PairDE), pair(PairHL)

	case op == 0xe3:
		inst.Op, inst.Dst, inst.Src = OpEX, ind(PairSP), pair(PairHL)

	case op&0xf8 == 0x80:
		inst.Op, inst.Dst, inst.Src = OpADD, reg(RegA), regOrHL(z)

	case op&0xf8 == 0x90:
		inst.Op, inst.Src = OpSUB, regOrHL(z)

	case op == 0xc6, op == 0xd6:
		n, err := d.fetch()
		if err != nil {
			return true, err
		}
		if op == 0xc6 {
			inst.Op, inst.Dst, inst.Src = OpADD, reg(RegA), imm8(n)
		} else {
			inst.Op, inst.Src = OpSUB, imm8(n)
		}

	case op&0xc7 == 0x04 && IsRegisterEncodingValid(y):
		inst.Op, inst.Dst = OpINC, reg(Reg(y))

	case op&0xc7 == 0x05 && IsRegisterEncodingValid(y):
		inst.Op, inst.Dst = OpDEC, reg(Reg(y))

	case op == 0xc3, op == 0xcd:
		nn, err := d.fetchWord()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Src = OpJP, imm16(nn)
		if op == 0xcd {
			inst.Op = OpCALL
		}

	case op&0xc7 == 0xc2, op&0xc7 == 0xc4:
		nn, err := d.fetchWord()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Src, inst.Cond, inst.HasCond = OpJP, imm16(nn), Cond(y), true
		if op&0xc7 == 0xc4 {
			inst.Op = OpCALL
		}

	case op == 0xe9:
		inst.Op, inst.Src = OpJP, pair(PairHL)

	case op == 0xf9:
		inst.Op, inst.Dst, inst.Src = OpLD16, pair(PairSP), pair(PairHL)

	case op == 0x18, op == 0x10, op == 0x20, op == 0x28, op == 0x30, op == 0x38:
		// The displacement is consumed whether or not the jump is taken.
		e, err := d.fetch()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Src = OpJR, rel(int8(e))
		switch op {
		case 0x10:
			inst.Op = OpDJNZ
		case 0x18:
		default:
			inst.Cond, inst.HasCond = Cond(y&3), true
		}

	case op == 0xc9:
		inst.Op = OpRET

	case op&0xc7 == 0xc0:
		inst.Op, inst.Cond, inst.HasCond = OpRET, Cond(y), true

	case op == 0xf3:
		inst.Op = OpDI

	case op == 0xfb:
		inst.Op = OpEI

	case op == 0xdb:
		n, err := d.fetch()
		if err != nil {
			return true, err
		}
		inst.Op, inst.Dst, inst.Src = OpIN, reg(RegA), port(n)

	default:
		return false, nil
	}
	return true, nil
}

// Decode a 0xCB-prefixed bit instruction.
func (d *decoder) decodeCB() error {
	inst := &d.inst
	inst.Prefix = 0xcb

	op, err := d.fetch()
	if err != nil {
		return err
	}
	inst.Opcode = op

	y, z := (op>>3)&7, op&7
	switch op >> 6 {
	case 1:
		inst.Op = OpBIT
	case 2:
		inst.Op = OpRES
	case 3:
		inst.Op = OpSET
	default:
		return nil // rotates and shifts
	}
	inst.Bit, inst.Dst = y, regOrHL(z)
	return nil
}

// Decode a 0xED-prefixed extended instruction.
func (d *decoder) decodeED() error {
	inst := &d.inst
	inst.Prefix = 0xed

	op, err := d.fetch()
	if err != nil {
		return err
	}
	inst.Opcode = op

	switch {
	case op == 0x47:
		inst.Op, inst.Dst, inst.Src = OpLD, reg(RegI), reg(RegA)
	case op == 0x4f:
		inst.Op, inst.Dst, inst.Src = OpLD, reg(RegR), reg(RegA)
	case op == 0x57:
		inst.Op, inst.Dst, inst.Src = OpLD, reg(RegA), reg(RegI)
	case op == 0x5f:
		inst.Op, inst.Dst, inst.Src = OpLD, reg(RegA), reg(RegR)

	case op&0xcf == 0x43, op&0xcf == 0x4b:
		nn, err := d.fetchWord()
		if err != nil {
			return err
		}
		p := ddPairs[op>>4&3]
		if op&0x08 == 0 {
			inst.Op, inst.Dst, inst.Src = OpLD16, direct(nn), pair(p)
		} else {
			inst.Op, inst.Dst, inst.Src = OpLD16, pair(p), direct(nn)
		}

	case op == 0x44:
		inst.Op = OpNEG

	case op == 0x46, op == 0x66:
		inst.Op, inst.Bit = OpIM, 0
	case op == 0x56, op == 0x76:
		inst.Op, inst.Bit = OpIM, 1
	case op == 0x5e, op == 0x7e:
		inst.Op, inst.Bit = OpIM, 2
	}
	return nil
}

// Decode a 0xDD- or 0xFD-prefixed index register instruction. The index
// pair is IX for 0xDD and IY for 0xFD.
func (d *decoder) decodeIndexed(prefix byte, ix Pair) error {
	inst := &d.inst
	inst.Prefix = prefix

	op, err := d.fetch()
	if err != nil {
		return err
	}
	inst.Opcode = op

	y, z := (op>>3)&7, op&7
	switch {
	case op == 0xcb:
		// Displacement and sub-opcode follow the 0xcb byte.
		if _, err := d.fetchWord(); err != nil {
			return err
		}

	case op == 0x21:
		nn, err := d.fetchWord()
		if err != nil {
			return err
		}
		inst.Op, inst.Dst, inst.Src = OpLD16, pair(ix), imm16(nn)

	case op == 0x22, op == 0x2a:
		nn, err := d.fetchWord()
		if err != nil {
			return err
		}
		if op == 0x22 {
			inst.Op, inst.Dst, inst.Src = OpLD16, direct(nn), pair(ix)
		} else {
			inst.Op, inst.Dst, inst.Src = OpLD16, pair(ix), direct(nn)
		}

	case op == 0x23:
		inst.Op, inst.Dst = OpINC, pair(ix)
	case op == 0x2b:
		inst.Op, inst.Dst = OpDEC, pair(ix)

	case op&0xc7 == 0x46 && IsRegisterEncodingValid(y):
		e, err := d.fetch()
		if err != nil {
			return err
		}
		inst.Op, inst.Dst, inst.Src = OpLD, reg(Reg(y)), idx(ix, int8(e))

	case op&0xf8 == 0x70 && IsRegisterEncodingValid(z):
		e, err := d.fetch()
		if err != nil {
			return err
		}
		inst.Op, inst.Dst, inst.Src = OpLD, idx(ix, int8(e)), reg(Reg(z))

	case op == 0x36:
		e, err := d.fetch()
		if err != nil {
			return err
		}
		n, err := d.fetch()
		if err != nil {
			return err
		}
		inst.Op, inst.Dst, inst.Src = OpLD, idx(ix, int8(e)), imm8(n)

	case op == 0x86, op == 0x96:
		e, err := d.fetch()
		if err != nil {
			return err
		}
		if op == 0x86 {
			inst.Op, inst.Dst, inst.Src = OpADD, reg(RegA), idx(ix, int8(e))
		} else {
			inst.Op, inst.Src = OpSUB, idx(ix, int8(e))
		}

	case op == 0xe5:
		inst.Op, inst.Src = OpPUSH, pair(ix)
	case op == 0xe1:
		inst.Op, inst.Dst = OpPOP, pair(ix)
	case op == 0xe3:
		inst.Op, inst.Dst, inst.Src = OpEX, ind(PairSP), pair(ix)
	case op == 0xe9:
		inst.Op, inst.Src = OpJP, pair(ix)
	case op == 0xf9:
		inst.Op, inst.Dst, inst.Src = OpLD16, pair(PairSP), pair(ix)
	}
	return nil
}
