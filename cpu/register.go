// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Reg identifies an 8-bit register. The values 0-5 and 7 match the 3-bit
// register encoding used throughout the Z80 opcode map. Encoding 6 means
// "memory via (HL)" and never names a register.
type Reg byte

// 8-bit registers.
const (
	RegB Reg = 0
	RegC Reg = 1
	RegD Reg = 2
	RegE Reg = 3
	RegH Reg = 4
	RegL Reg = 5
	RegA Reg = 7
	RegI Reg = 8 // interrupt vector
	RegR Reg = 9 // memory refresh

	// RegInvalid is returned by the register decode helpers when an
	// encoding does not name a plain register.
	RegInvalid Reg = 0xff
)

var regNames = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A", "I", "R"}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "?"
}

// IsRegisterEncodingValid returns true if the 3-bit register encoding names
// a plain 8-bit register (B, C, D, E, H, L or A).
func IsRegisterEncodingValid(code byte) bool {
	return code <= 7 && code != 6
}

// RegisterFromEncoding converts a register encoding into a Reg, returning
// RegInvalid for encoding 6 and for any value above 7.
func RegisterFromEncoding(code byte) Reg {
	if !IsRegisterEncodingValid(code) {
		return RegInvalid
	}
	return Reg(code)
}

// Pair identifies a 16-bit register or register pair.
type Pair byte

// 16-bit registers.
const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairSP
	PairAF
	PairIX
	PairIY
)

var pairNames = [...]string{"BC", "DE", "HL", "SP", "AF", "IX", "IY"}

func (p Pair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return "?"
}

// Bits assigned to the flag register. The parity/overflow bit is not a
// constant; see Config.ParityOverflowBit.
const (
	CarryFlag     byte = 0x01
	AddSubFlag    byte = 0x02
	HalfCarryFlag byte = 0x10
	ZeroFlag      byte = 0x40
	SignFlag      byte = 0x80

	// ParityOverflowStandard is the documented Z80 parity/overflow bit.
	ParityOverflowStandard byte = 0x04

	// ParityOverflowLegacy selects the legacy flag layout, where the
	// parity/overflow bit overlaps Carry and AddSubtract.
	ParityOverflowLegacy byte = 0x03
)

// IsFlagSet returns true if every bit of flag is present in mask.
func IsFlagSet(mask, flag byte) bool {
	return mask&flag == flag
}

// Registers contains the state of all Z80 registers.
type Registers struct {
	GP   [6]byte // B, C, D, E, H, L indexed by register encoding
	Alt  [6]byte // shadow B', C', D', E', H', L'
	A    byte    // accumulator
	F    byte    // flags
	AltA byte    // shadow accumulator
	AltF byte    // shadow flags
	IX   uint16  // index register
	IY   uint16  // index register
	SP   uint16  // stack pointer
	PC   uint16  // program counter
	I    byte    // interrupt vector
	R    byte    // memory refresh
	IFF1 bool    // interrupt flip-flop 1
	IFF2 bool    // interrupt flip-flop 2
	IM   byte    // interrupt mode (recorded only)
}

// Init zeroes every register.
func (r *Registers) Init() {
	*r = Registers{}
}

// Get returns the value of an 8-bit register. It returns 0 for RegInvalid;
// callers must validate encodings before indexing the register file.
func (r *Registers) Get(reg Reg) byte {
	switch {
	case reg <= RegL:
		return r.GP[reg]
	case reg == RegA:
		return r.A
	case reg == RegI:
		return r.I
	case reg == RegR:
		return r.R
	default:
		return 0
	}
}

// Set assigns an 8-bit register. Writes to RegInvalid are ignored.
func (r *Registers) Set(reg Reg, v byte) {
	switch {
	case reg <= RegL:
		r.GP[reg] = v
	case reg == RegA:
		r.A = v
	case reg == RegI:
		r.I = v
	case reg == RegR:
		r.R = v
	}
}

// Pair returns the 16-bit value of a register pair.
func (r *Registers) Pair(p Pair) uint16 {
	switch p {
	case PairBC:
		return uint16(r.GP[RegB])<<8 | uint16(r.GP[RegC])
	case PairDE:
		return uint16(r.GP[RegD])<<8 | uint16(r.GP[RegE])
	case PairHL:
		return uint16(r.GP[RegH])<<8 | uint16(r.GP[RegL])
	case PairSP:
		return r.SP
	case PairAF:
		return uint16(r.A)<<8 | uint16(r.F)
	case PairIX:
		return r.IX
	case PairIY:
		return r.IY
	default:
		return 0
	}
}

// SetPair assigns the 16-bit value of a register pair.
func (r *Registers) SetPair(p Pair, v uint16) {
	hi, lo := byte(v>>8), byte(v)
	switch p {
	case PairBC:
		r.GP[RegB], r.GP[RegC] = hi, lo
	case PairDE:
		r.GP[RegD], r.GP[RegE] = hi, lo
	case PairHL:
		r.GP[RegH], r.GP[RegL] = hi, lo
	case PairSP:
		r.SP = v
	case PairAF:
		r.A, r.F = hi, lo
	case PairIX:
		r.IX = v
	case PairIY:
		r.IY = v
	}
}

// ExchangeAF swaps AF with its shadow AF'.
func (r *Registers) ExchangeAF() {
	r.A, r.AltA = r.AltA, r.A
	r.F, r.AltF = r.AltF, r.F
}

// ExchangeAll swaps BC, DE and HL with their shadows.
func (r *Registers) ExchangeAll() {
	r.GP, r.Alt = r.Alt, r.GP
}

// Cond is a 3-bit condition code used by conditional jumps, calls and
// returns.
type Cond byte

// Condition codes.
const (
	CondNZ Cond = iota // not zero
	CondZ              // zero
	CondNC             // no carry
	CondC              // carry
	CondPO             // parity odd
	CondPE             // parity even
	CondP              // sign positive
	CondM              // sign negative
)

var condNames = [...]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

func (c Cond) String() string {
	return condNames[c&7]
}

// IsConditionTrue evaluates condition code cc against the flag byte f,
// using pv as the parity/overflow bit.
func IsConditionTrue(cc Cond, f, pv byte) bool {
	switch cc & 7 {
	case CondNZ:
		return !IsFlagSet(f, ZeroFlag)
	case CondZ:
		return IsFlagSet(f, ZeroFlag)
	case CondNC:
		return !IsFlagSet(f, CarryFlag)
	case CondC:
		return IsFlagSet(f, CarryFlag)
	case CondPO:
		return !IsFlagSet(f, pv)
	case CondPE:
		return IsFlagSet(f, pv)
	case CondP:
		return !IsFlagSet(f, SignFlag)
	default:
		return IsFlagSet(f, SignFlag)
	}
}
