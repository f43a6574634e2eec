package cpu_test

import (
	"errors"
	"testing"

	"github.com/beevik/goz80/cpu"
)

func TestRegionBounds(t *testing.T) {
	tests := []struct {
		valid func(uint16) bool
		last  uint16
	}{
		{cpu.IsRAMAddressValid, cpu.RAMSize - 1},
		{cpu.IsVRAMAddressValid, cpu.VRAMSize - 1},
		{cpu.IsStackAddressValid, cpu.StackSize - 1},
		{cpu.IsStackBusAddress, cpu.StackTop - 1},
	}

	for i, test := range tests {
		if !test.valid(test.last) {
			t.Errorf("test %d: $%04X should be valid", i, test.last)
		}
		if test.valid(test.last + 1) {
			t.Errorf("test %d: $%04X should be invalid", i, test.last+1)
		}
	}

	if cpu.IsStackBusAddress(cpu.StackBase - 1) {
		t.Error("address below the stack window should be invalid")
	}
	if cpu.IsStackAddressValid(cpu.StackBase) {
		t.Error("stack bus address should not be a valid stack offset")
	}
}

func TestRegionAccess(t *testing.T) {
	m := cpu.NewMemory()

	if err := m.WriteByte(cpu.RegionRAM, 0x1fff, 0xaa); err != nil {
		t.Fatal(err)
	}
	v, err := m.ReadByte(cpu.RegionRAM, 0x1fff)
	if err != nil || v != 0xaa {
		t.Errorf("RAM read incorrect. exp: $AA, got: $%02X (%v)", v, err)
	}

	err = m.WriteByte(cpu.RegionRAM, 0x2000, 0x01)
	var oor *cpu.OutOfRangeError
	if !errors.As(err, &oor) || oor.Region != cpu.RegionRAM || oor.Addr != 0x2000 {
		t.Errorf("expected a RAM range error, got: %v", err)
	}

	if _, err := m.ReadByte(cpu.RegionStack, cpu.StackSize); err == nil {
		t.Error("read beyond the stack region should fail")
	}
}

func TestBusMapping(t *testing.T) {
	tests := []struct {
		addr   uint16
		region cpu.Region
		offset uint16
	}{
		{0x0000, cpu.RegionBus, 0x0000},
		{0x7fff, cpu.RegionBus, 0x7fff},
		{0x8000, cpu.RegionVRAM, 0x0000},
		{0xbfff, cpu.RegionVRAM, 0x3fff},
		{0xc000, cpu.RegionRAM, 0x0000},
		{0xdfff, cpu.RegionRAM, 0x1fff},
		{0xe000, cpu.RegionStack, 0x0000},
		{0xe3ff, cpu.RegionStack, 0x03ff},
		{0xe400, cpu.RegionBus, 0xe400},
		{0xffff, cpu.RegionBus, 0xffff},
	}

	for _, test := range tests {
		r, off := cpu.Resolve(test.addr)
		if r != test.region || off != test.offset {
			t.Errorf("$%04X resolved to %v+$%04X, exp: %v+$%04X", test.addr, r, off, test.region, test.offset)
		}
	}

	m := cpu.NewMemory()
	if err := m.StoreBytes(0x8000, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if vram := m.VRAM(); vram[0] != 1 || vram[2] != 3 {
		t.Errorf("VRAM contents incorrect: % X", vram[:3])
	}
	if err := m.StoreBytes(0x7ffe, []byte{1, 2, 3}); err == nil {
		t.Error("store to unmapped bus space should fail")
	}

	b := make([]byte, 4)
	m.LoadBytes(0x7ffe, b)
	if b[0] != 0 || b[2] != 1 {
		t.Errorf("LoadBytes incorrect: % X", b)
	}
}

func TestProgramImage(t *testing.T) {
	m := cpu.NewMemory()
	if err := m.LoadProgram(make([]byte, cpu.MaxProgramSize+1)); err == nil {
		t.Error("oversized program image should be rejected")
	}

	if err := m.LoadProgram([]byte{0x3e, 0x42}); err != nil {
		t.Fatal(err)
	}
	if m.ProgramSize() != 2 {
		t.Errorf("program size incorrect. exp: 2, got: %d", m.ProgramSize())
	}
	if v, err := m.ProgramByte(1); err != nil || v != 0x42 {
		t.Errorf("program byte incorrect. exp: $42, got: $%02X (%v)", v, err)
	}
	if _, err := m.ProgramByte(2); err == nil {
		t.Error("fetch beyond the image should fail")
	}
	if err := m.WriteByte(cpu.RegionProgram, 0, 0); err == nil {
		t.Error("program image should be read-only")
	}
}
