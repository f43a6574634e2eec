// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// Region identifies one of the independently bounded memory regions.
type Region byte

// Memory regions.
const (
	RegionRAM Region = iota
	RegionVRAM
	RegionStack
	RegionProgram
	RegionBus // an address that maps to no region at all
)

var regionNames = [...]string{"RAM", "VRAM", "stack", "program", "bus"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "?"
}

// Region sizes and their windows on the data bus.
const (
	RAMSize        = 8 * 1024
	VRAMSize       = 16 * 1024
	StackSize      = 1024
	MaxProgramSize = 512 * 1024

	VRAMBase  = 0x8000
	RAMBase   = 0xc000
	StackBase = 0xe000
	StackTop  = StackBase + StackSize
)

// An OutOfRangeError reports an access outside the bounds of a memory
// region. Addr is the address as presented by the caller: a region offset
// for region accessors, a bus address for bus accessors, and the program
// counter for instruction fetches.
type OutOfRangeError struct {
	Region Region
	Addr   uint16
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s address $%04X out of range", e.Region, e.Addr)
}

// Memory owns the RAM, video RAM and stack regions and the loaded program
// image. Every access is bounds checked.
type Memory struct {
	ram     [RAMSize]byte
	vram    [VRAMSize]byte
	stack   [StackSize]byte
	program []byte
}

// NewMemory creates zeroed memory with an empty program image.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadProgram replaces the program image. The image is copied.
func (m *Memory) LoadProgram(image []byte) error {
	if len(image) > MaxProgramSize {
		return fmt.Errorf("program image of %d bytes exceeds %d bytes", len(image), MaxProgramSize)
	}
	m.program = append(m.program[:0], image...)
	return nil
}

// ProgramSize returns the size of the loaded program image.
func (m *Memory) ProgramSize() int {
	return len(m.program)
}

// VRAM exposes the video RAM region to a presentation layer. The slice
// aliases memory and must not be retained across frames.
func (m *Memory) VRAM() []byte {
	return m.vram[:]
}

// IsRAMAddressValid returns true if addr is an offset within RAM.
func IsRAMAddressValid(addr uint16) bool {
	return int(addr) < RAMSize
}

// IsVRAMAddressValid returns true if addr is an offset within video RAM.
func IsVRAMAddressValid(addr uint16) bool {
	return int(addr) < VRAMSize
}

// IsStackAddressValid returns true if addr is an offset within the stack.
func IsStackAddressValid(addr uint16) bool {
	return int(addr) < StackSize
}

// IsStackBusAddress returns true if the data bus address addr lies within
// the stack window.
func IsStackBusAddress(addr uint16) bool {
	return addr >= StackBase && addr < StackTop
}

func (m *Memory) region(r Region) []byte {
	switch r {
	case RegionRAM:
		return m.ram[:]
	case RegionVRAM:
		return m.vram[:]
	case RegionStack:
		return m.stack[:]
	case RegionProgram:
		return m.program
	default:
		return nil
	}
}

// ReadByte reads the byte at offset addr within a region.
func (m *Memory) ReadByte(r Region, addr uint16) (byte, error) {
	b := m.region(r)
	if int(addr) >= len(b) {
		return 0, &OutOfRangeError{Region: r, Addr: addr}
	}
	return b[addr], nil
}

// WriteByte writes v at offset addr within a region. The program image is
// read-only.
func (m *Memory) WriteByte(r Region, addr uint16, v byte) error {
	b := m.region(r)
	if r == RegionProgram || int(addr) >= len(b) {
		return &OutOfRangeError{Region: r, Addr: addr}
	}
	b[addr] = v
	return nil
}

// Resolve maps a data bus address to the region and offset it refers to.
// It returns RegionBus if no region is mapped at addr.
func Resolve(addr uint16) (Region, uint16) {
	switch {
	case addr >= VRAMBase && addr < VRAMBase+VRAMSize:
		return RegionVRAM, addr - VRAMBase
	case addr >= RAMBase && addr < RAMBase+RAMSize:
		return RegionRAM, addr - RAMBase
	case IsStackBusAddress(addr):
		return RegionStack, addr - StackBase
	default:
		return RegionBus, addr
	}
}

// LoadByte reads the byte at a data bus address.
func (m *Memory) LoadByte(addr uint16) (byte, error) {
	r, off := Resolve(addr)
	if r == RegionBus {
		return 0, &OutOfRangeError{Region: RegionBus, Addr: addr}
	}
	return m.ReadByte(r, off)
}

// StoreByte writes v to a data bus address.
func (m *Memory) StoreByte(addr uint16, v byte) error {
	r, off := Resolve(addr)
	if r == RegionBus {
		return &OutOfRangeError{Region: RegionBus, Addr: addr}
	}
	return m.WriteByte(r, off, v)
}

// LoadBytes copies bytes starting at a data bus address into b. Unmapped
// addresses read as zero.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i], _ = m.LoadByte(addr + uint16(i))
	}
}

// StoreBytes copies b to consecutive data bus addresses, stopping at the
// first unmapped address.
func (m *Memory) StoreBytes(addr uint16, b []byte) error {
	for i, v := range b {
		if err := m.StoreByte(addr+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

// ProgramByte returns the byte at offset addr within the program image.
func (m *Memory) ProgramByte(addr uint16) (byte, error) {
	return m.ReadByte(RegionProgram, addr)
}
