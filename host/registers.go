// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/goz80/cpu"

// A registerAccessor reads and writes one register or flag by name. size
// is the register width in bytes, or 0 for a single flag.
type registerAccessor struct {
	size int
	get  func(c *cpu.CPU) int64
	set  func(c *cpu.CPU, v int64)
}

func reg8(r cpu.Reg) registerAccessor {
	return registerAccessor{
		size: 1,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.Get(r)) },
		set:  func(c *cpu.CPU, v int64) { c.Reg.Set(r, byte(v)) },
	}
}

func reg16(p cpu.Pair) registerAccessor {
	return registerAccessor{
		size: 2,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.Pair(p)) },
		set:  func(c *cpu.CPU, v int64) { c.Reg.SetPair(p, uint16(v)) },
	}
}

// shadow returns an accessor for a shadow register pair. hi and lo index
// the shadow register file.
func shadow(hi, lo cpu.Reg) registerAccessor {
	return registerAccessor{
		size: 2,
		get: func(c *cpu.CPU) int64 {
			return int64(c.Reg.Alt[hi])<<8 | int64(c.Reg.Alt[lo])
		},
		set: func(c *cpu.CPU, v int64) {
			c.Reg.Alt[hi], c.Reg.Alt[lo] = byte(v>>8), byte(v)
		},
	}
}

// flag returns an accessor for a flag bit. A zero mask selects the
// CPU's configured parity/overflow bit.
func flag(mask byte) registerAccessor {
	bits := func(c *cpu.CPU) byte {
		if mask == 0 {
			return c.Config.ParityOverflowBit
		}
		return mask
	}
	return registerAccessor{
		get: func(c *cpu.CPU) int64 {
			if cpu.IsFlagSet(c.Reg.F, bits(c)) {
				return 1
			}
			return 0
		},
		set: func(c *cpu.CPU, v int64) {
			if v != 0 {
				c.Reg.F |= bits(c)
			} else {
				c.Reg.F &^= bits(c)
			}
		},
	}
}

var registerAccessors = map[string]registerAccessor{
	"a":  reg8(cpu.RegA),
	"b":  reg8(cpu.RegB),
	"c":  reg8(cpu.RegC),
	"d":  reg8(cpu.RegD),
	"e":  reg8(cpu.RegE),
	"h":  reg8(cpu.RegH),
	"l":  reg8(cpu.RegL),
	"i":  reg8(cpu.RegI),
	"r":  reg8(cpu.RegR),
	"af": reg16(cpu.PairAF),
	"bc": reg16(cpu.PairBC),
	"de": reg16(cpu.PairDE),
	"hl": reg16(cpu.PairHL),
	"ix": reg16(cpu.PairIX),
	"iy": reg16(cpu.PairIY),
	"sp": reg16(cpu.PairSP),
	"f": {
		size: 1,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.F) },
		set:  func(c *cpu.CPU, v int64) { c.Reg.F = byte(v) },
	},
	"pc": {
		size: 2,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.PC) },
		set:  func(c *cpu.CPU, v int64) { c.SetPC(uint16(v)) },
	},
	".": {
		size: 2,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.PC) },
		set:  func(c *cpu.CPU, v int64) { c.SetPC(uint16(v)) },
	},
	"af'": {
		size: 2,
		get:  func(c *cpu.CPU) int64 { return int64(c.Reg.AltA)<<8 | int64(c.Reg.AltF) },
		set:  func(c *cpu.CPU, v int64) { c.Reg.AltA, c.Reg.AltF = byte(v>>8), byte(v) },
	},
	"bc'":       shadow(cpu.RegB, cpu.RegC),
	"de'":       shadow(cpu.RegD, cpu.RegE),
	"hl'":       shadow(cpu.RegH, cpu.RegL),
	"sign":      flag(cpu.SignFlag),
	"zero":      flag(cpu.ZeroFlag),
	"halfcarry": flag(cpu.HalfCarryFlag),
	"parity":    flag(0),
	"subtract":  flag(cpu.AddSubFlag),
	"carry":     flag(cpu.CarryFlag),
}
