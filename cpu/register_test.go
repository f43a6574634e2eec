package cpu_test

import (
	"testing"

	"github.com/beevik/goz80/cpu"
)

func TestRegisterEncoding(t *testing.T) {
	for code := byte(0); code < 16; code++ {
		valid := code <= 7 && code != 6
		if cpu.IsRegisterEncodingValid(code) != valid {
			t.Errorf("encoding %d validity incorrect. exp: %v", code, valid)
		}
		r := cpu.RegisterFromEncoding(code)
		if valid && r != cpu.Reg(code) {
			t.Errorf("encoding %d decoded to %v", code, r)
		}
		if !valid && r != cpu.RegInvalid {
			t.Errorf("encoding %d should decode to RegInvalid, got %v", code, r)
		}
	}
}

func TestRegisterPairs(t *testing.T) {
	var r cpu.Registers
	r.SetPair(cpu.PairBC, 0x0102)
	r.SetPair(cpu.PairDE, 0x0304)
	r.SetPair(cpu.PairHL, 0x0506)
	r.SetPair(cpu.PairAF, 0x0708)

	exp := map[cpu.Reg]byte{
		cpu.RegB: 0x01, cpu.RegC: 0x02,
		cpu.RegD: 0x03, cpu.RegE: 0x04,
		cpu.RegH: 0x05, cpu.RegL: 0x06,
		cpu.RegA: 0x07,
	}
	for reg, v := range exp {
		if got := r.Get(reg); got != v {
			t.Errorf("register %v incorrect. exp: $%02X, got: $%02X", reg, v, got)
		}
	}
	if r.F != 0x08 {
		t.Errorf("F incorrect. exp: $08, got: $%02X", r.F)
	}

	r.Set(cpu.RegInvalid, 0xff)
	if r.Get(cpu.RegInvalid) != 0 {
		t.Error("RegInvalid should read as zero")
	}
}

func TestRegisterExchange(t *testing.T) {
	var r cpu.Registers
	r.SetPair(cpu.PairHL, 0x1234)
	r.A, r.F = 0x56, 0x78

	r.ExchangeAll()
	r.ExchangeAF()
	if r.Pair(cpu.PairHL) != 0 || r.A != 0 || r.F != 0 {
		t.Error("exchange should expose the zeroed shadow set")
	}
	r.ExchangeAll()
	r.ExchangeAF()
	if r.Pair(cpu.PairHL) != 0x1234 || r.A != 0x56 || r.F != 0x78 {
		t.Error("double exchange should restore the primary set")
	}
}

func TestFlagSet(t *testing.T) {
	if !cpu.IsFlagSet(0xff, cpu.ParityOverflowLegacy) {
		t.Error("all bits set should include the legacy P/V mask")
	}
	if cpu.IsFlagSet(cpu.CarryFlag, cpu.ParityOverflowLegacy) {
		t.Error("partial overlap is not a set flag")
	}
}
