// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the Z80 instructions
// understood by the cpu package.
package disasm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/goz80/cpu"
)

// Disassemble the program image in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Opcodes the
// decoder does not recognize are rendered as data bytes.
func Disassemble(m *cpu.Memory, addr uint16) (line string, next uint16) {
	inst, err := cpu.Decode(&cpu.ProgramCursor{Mem: m, Addr: addr}, addr)

	var unrec *cpu.UnrecognizedOpcodeError
	var oor *cpu.OutOfRangeError
	switch {
	case errors.As(err, &unrec):
		return fmt.Sprintf("DB $%02X", unrec.Opcode), addr + 1
	case errors.As(err, &oor):
		return "??", addr + 1
	case inst.Op == cpu.OpUnimplemented:
		return dataBytes(m, addr, inst.Length), inst.NextAddr()
	}
	return Format(&inst), inst.NextAddr()
}

// Render n bytes of the program image as a data directive.
func dataBytes(m *cpu.Memory, addr uint16, n byte) string {
	var b strings.Builder
	b.WriteString("DB ")
	for i := uint16(0); i < uint16(n); i++ {
		v, _ := m.ProgramByte(addr + i)
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "$%02X", v)
	}
	return b.String()
}

// Format returns the assembly language text of a decoded instruction.
func Format(inst *cpu.Instruction) string {
	switch inst.Op {
	case cpu.OpUnimplemented:
		return fmt.Sprintf("DB $%02X,$%02X", inst.Prefix, inst.Opcode)
	case cpu.OpEXAF:
		return "EX AF,AF'"
	case cpu.OpIM:
		return fmt.Sprintf("IM %d", inst.Bit)
	case cpu.OpBIT, cpu.OpRES, cpu.OpSET:
		return fmt.Sprintf("%s %d,%s", inst.Op, inst.Bit, operand(inst, &inst.Dst))
	case cpu.OpJP:
		// JP (HL) transfers to the register value, written as indirection.
		if inst.Src.Mode == cpu.ModePair {
			return fmt.Sprintf("JP (%s)", inst.Src.Pair)
		}
	case cpu.OpSUB:
		// SUB names only its source; the accumulator is implied.
		return "SUB " + operand(inst, &inst.Src)
	}

	var args []string
	if inst.HasCond {
		args = append(args, inst.Cond.String())
	}
	if inst.Dst.Mode != cpu.ModeNone {
		args = append(args, operand(inst, &inst.Dst))
	}
	if inst.Src.Mode != cpu.ModeNone {
		args = append(args, operand(inst, &inst.Src))
	}
	if len(args) == 0 {
		return inst.Op.String()
	}
	return inst.Op.String() + " " + strings.Join(args, ",")
}

func operand(inst *cpu.Instruction, o *cpu.Operand) string {
	switch o.Mode {
	case cpu.ModeReg:
		return o.Reg.String()
	case cpu.ModePair:
		return o.Pair.String()
	case cpu.ModeImm8:
		return fmt.Sprintf("$%02X", o.Value)
	case cpu.ModeImm16:
		return fmt.Sprintf("$%04X", o.Value)
	case cpu.ModeInd:
		return "(" + o.Pair.String() + ")"
	case cpu.ModeIdx:
		if o.Disp < 0 {
			return fmt.Sprintf("(%s-$%02X)", o.Pair, -int(o.Disp))
		}
		return fmt.Sprintf("(%s+$%02X)", o.Pair, o.Disp)
	case cpu.ModeDirect:
		return fmt.Sprintf("($%04X)", o.Value)
	case cpu.ModePort:
		return fmt.Sprintf("($%02X)", o.Value)
	case cpu.ModeRel:
		// Show the branch target rather than the displacement.
		return fmt.Sprintf("$%04X", inst.NextAddr()+uint16(int16(o.Disp)))
	default:
		return ""
	}
}

// FlagString returns the flag register as a string of flag letters, with
// '-' in place of each clear flag. pv is the Parity/Overflow bit mask.
func FlagString(f, pv byte) string {
	flags := []struct {
		mask   byte
		letter byte
	}{
		{cpu.SignFlag, 'S'},
		{cpu.ZeroFlag, 'Z'},
		{cpu.HalfCarryFlag, 'H'},
		{pv, 'P'},
		{cpu.AddSubFlag, 'N'},
		{cpu.CarryFlag, 'C'},
	}

	b := make([]byte, len(flags))
	for i, fl := range flags {
		b[i] = '-'
		if cpu.IsFlagSet(f, fl.mask) {
			b[i] = fl.letter
		}
	}
	return string(b)
}

// RegisterString returns a one-line summary of the CPU registers.
func RegisterString(r *cpu.Registers, pv byte) string {
	return fmt.Sprintf("A=%02X F=%s BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X",
		r.A, FlagString(r.F, pv), r.Pair(cpu.PairBC), r.Pair(cpu.PairDE),
		r.Pair(cpu.PairHL), r.IX, r.IY, r.SP)
}
