// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a Z80 CPU interpreter for a Game Gear cartridge
// image. Code is fetched from the program image, while data accesses go
// through a data bus that maps video RAM, RAM and the stack.
package cpu

import (
	"errors"

	"github.com/beevik/goz80/logger"
)

// FlagModel selects how arithmetic instructions compute flags.
type FlagModel byte

const (
	// FlagsApproximate takes Sign and Zero from the result, HalfCarry from
	// bit 4 of the result, clears AddSubtract, mirrors IFF2 into
	// Parity/Overflow and leaves Carry untouched.
	FlagsApproximate FlagModel = iota

	// FlagsExact computes all flags from the operands as a real Z80 does.
	FlagsExact
)

// Config holds the construction-time options of a CPU.
type Config struct {
	FlagModel         FlagModel
	ParityOverflowBit byte   // bit mask of the Parity/Overflow flag
	EntryPoint        uint16 // PC after reset
	LogEntries        int    // capacity of the CPU's log
}

// DefaultConfig returns the configuration used when none is specified.
func DefaultConfig() Config {
	return Config{
		FlagModel:         FlagsApproximate,
		ParityOverflowBit: ParityOverflowStandard,
		LogEntries:        logger.DefaultMaxEntries,
	}
}

// FaultHandler is an interface implemented by types that wish to be
// notified when a data access falls outside every memory region.
type FaultHandler interface {
	OnFault(cpu *CPU, err error)
}

// CPU represents a single Z80 CPU bound to its memory.
type CPU struct {
	Reg          Registers   // CPU registers
	Mem          *Memory     // assigned memory
	Config       Config      // construction options
	Log          *logger.Log // fault and diagnostic log
	Steps        uint64      // total executed instructions
	LastPC       uint16      // address of the most recently started instruction
	Halted       bool        // a HALT instruction has executed
	debugger     *Debugger
	faultHandler FaultHandler
	storeByte    func(cpu *CPU, addr uint16, v byte)
}

// NewCPU creates an emulated Z80 CPU bound to the specified memory and
// resets it.
func NewCPU(m *Memory, config Config) *CPU {
	if config.ParityOverflowBit == 0 {
		config.ParityOverflowBit = ParityOverflowStandard
	}
	cpu := &CPU{
		Mem:       m,
		Config:    config,
		Log:       logger.New(config.LogEntries),
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.Reset()
	return cpu
}

// Reset zeroes every register, then sets PC to the entry point and SP to
// the top of the stack.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Reg.PC = cpu.Config.EntryPoint
	cpu.Reg.SP = StackTop
	cpu.Halted = false
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
	cpu.Halted = false
}

// FetchProgramByte returns the program byte at PC and advances PC. If PC
// lies outside the program image, PC is left unchanged and an
// *OutOfRangeError is returned.
func (cpu *CPU) FetchProgramByte() (byte, error) {
	b, err := cpu.Mem.ProgramByte(cpu.Reg.PC)
	if err != nil {
		return 0, err
	}
	cpu.Reg.PC++
	return b, nil
}

// GetInstruction decodes the instruction at addr without changing any CPU
// state.
func (cpu *CPU) GetInstruction(addr uint16) (Instruction, error) {
	return Decode(&ProgramCursor{Mem: cpu.Mem, Addr: addr}, addr)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	inst, err := cpu.GetInstruction(addr)
	if err != nil {
		return addr + 1
	}
	return inst.NextAddr()
}

// IsConditionTrue evaluates a condition code against the current flags.
func (cpu *CPU) IsConditionTrue(cc Cond) bool {
	return IsConditionTrue(cc, cpu.Reg.F, cpu.Config.ParityOverflowBit)
}

// Step the cpu by one instruction. A halted CPU does nothing until it is
// reset. An unrecognized opcode leaves PC just past the opcode byte; a
// program fetch outside the image leaves PC at the start of the
// instruction.
func (cpu *CPU) Step() error {
	if cpu.Halted {
		return nil
	}

	cpu.LastPC = cpu.Reg.PC
	inst, err := Decode(cpu, cpu.LastPC)
	if err != nil {
		var oor *OutOfRangeError
		if errors.As(err, &oor) {
			cpu.Reg.PC = cpu.LastPC
		}
		cpu.Log.Logf("cpu", "%v", err)
		return err
	}

	cpu.refresh(&inst)
	err = execTable[inst.Op](cpu, &inst)
	if err != nil {
		cpu.Log.Logf("cpu", "%v", err)
		return err
	}
	cpu.Steps++

	// Update the debugger so it can handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return nil
}

// AttachFaultHandler attaches a handler that is called whenever a data
// access is out of range.
func (cpu *CPU) AttachFaultHandler(handler FaultHandler) {
	cpu.faultHandler = handler
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently attached debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Advance the low 7 bits of R once per opcode fetch, prefix included.
func (cpu *CPU) refresh(inst *Instruction) {
	n := byte(1)
	if inst.Prefix != 0 {
		n = 2
	}
	cpu.Reg.R = cpu.Reg.R&0x80 | (cpu.Reg.R+n)&0x7f
}

// Record an out-of-range data access.
func (cpu *CPU) fault(err error) {
	cpu.Log.Logf("memory", "%v (PC=$%04X)", err, cpu.LastPC)
	if cpu.faultHandler != nil {
		cpu.faultHandler.OnFault(cpu, err)
	}
}

// Load a byte from the data bus. Unmapped addresses read as 0xff.
func (cpu *CPU) loadByte(addr uint16) byte {
	v, err := cpu.Mem.LoadByte(addr)
	if err != nil {
		cpu.fault(err)
		return 0xff
	}
	return v
}

// Load a little-endian 16-bit value from the data bus.
func (cpu *CPU) loadWord(addr uint16) uint16 {
	lo := cpu.loadByte(addr)
	hi := cpu.loadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Store a little-endian 16-bit value to the data bus.
func (cpu *CPU) storeWord(addr uint16, v uint16) {
	cpu.storeByte(cpu, addr, byte(v))
	cpu.storeByte(cpu, addr+1, byte(v>>8))
}

// Store the byte value 'v' at the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	if err := cpu.Mem.StoreByte(addr, v); err != nil {
		cpu.fault(err)
	}
}

// Store the byte value 'v' at the address 'addr', notifying the debugger.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.storeByteNormal(addr, v)
}

// Compute the effective data bus address of a memory operand.
func (cpu *CPU) effectiveAddr(o *Operand) uint16 {
	switch o.Mode {
	case ModeInd:
		return cpu.Reg.Pair(o.Pair)
	case ModeIdx:
		return cpu.Reg.Pair(o.Pair) + uint16(int16(o.Disp))
	case ModeDirect:
		return o.Value
	default:
		panic("Invalid addressing mode")
	}
}

// Load an 8-bit value using the operand's addressing mode.
func (cpu *CPU) load8(o *Operand) byte {
	switch o.Mode {
	case ModeReg:
		return cpu.Reg.Get(o.Reg)
	case ModeImm8:
		return byte(o.Value)
	case ModeInd, ModeIdx, ModeDirect:
		return cpu.loadByte(cpu.effectiveAddr(o))
	default:
		panic("Invalid addressing mode")
	}
}

// Store an 8-bit value using the operand's addressing mode.
func (cpu *CPU) store8(o *Operand, v byte) {
	switch o.Mode {
	case ModeReg:
		cpu.Reg.Set(o.Reg, v)
	case ModeInd, ModeIdx, ModeDirect:
		cpu.storeByte(cpu, cpu.effectiveAddr(o), v)
	default:
		panic("Invalid addressing mode")
	}
}

// Load a 16-bit value using the operand's addressing mode.
func (cpu *CPU) load16(o *Operand) uint16 {
	switch o.Mode {
	case ModePair:
		return cpu.Reg.Pair(o.Pair)
	case ModeImm16:
		return o.Value
	case ModeDirect:
		return cpu.loadWord(o.Value)
	default:
		panic("Invalid addressing mode")
	}
}

// Store a 16-bit value using the operand's addressing mode.
func (cpu *CPU) store16(o *Operand, v uint16) {
	switch o.Mode {
	case ModePair:
		cpu.Reg.SetPair(o.Pair, v)
	case ModeDirect:
		cpu.storeWord(o.Value, v)
	default:
		panic("Invalid addressing mode")
	}
}

// Read a byte from the stack window. Addresses outside the window are
// reported and read as 0xff.
func (cpu *CPU) stackRead(addr uint16) byte {
	if !IsStackBusAddress(addr) {
		cpu.fault(&OutOfRangeError{Region: RegionStack, Addr: addr})
		return 0xff
	}
	v, _ := cpu.Mem.ReadByte(RegionStack, addr-StackBase)
	return v
}

// Write a byte to the stack window. Addresses outside the window are
// reported and the write is dropped.
func (cpu *CPU) stackWrite(addr uint16, v byte) {
	if !IsStackBusAddress(addr) {
		cpu.fault(&OutOfRangeError{Region: RegionStack, Addr: addr})
		return
	}
	if cpu.debugger != nil {
		cpu.debugger.onDataStore(cpu, addr, v)
	}
	cpu.Mem.WriteByte(RegionStack, addr-StackBase, v)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.Reg.SP--
	cpu.stackWrite(cpu.Reg.SP, v)
}

// Push a 16-bit value onto the stack, high byte first.
func (cpu *CPU) pushWord(v uint16) {
	cpu.push(byte(v >> 8))
	cpu.push(byte(v))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	v := cpu.stackRead(cpu.Reg.SP)
	cpu.Reg.SP++
	return v
}

// Pop a 16-bit value off the stack.
func (cpu *CPU) popWord() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | uint16(hi)<<8
}

func setFlag(f, flag byte, on bool) byte {
	if on {
		return f | flag
	}
	return f &^ flag
}

// Update the flags named in 'affected' from the value 'v'. HalfCarry is
// taken from bit 4 of the value, AddSubtract is cleared and
// Parity/Overflow mirrors IFF2. Carry is never touched.
func (cpu *CPU) updateFlags(v byte, affected byte) {
	f := cpu.Reg.F
	if IsFlagSet(affected, SignFlag) {
		f = setFlag(f, SignFlag, v&0x80 != 0)
	}
	if IsFlagSet(affected, ZeroFlag) {
		f = setFlag(f, ZeroFlag, v == 0)
	}
	if IsFlagSet(affected, HalfCarryFlag) {
		f = setFlag(f, HalfCarryFlag, v&0x10 != 0)
	}
	if IsFlagSet(affected, AddSubFlag) {
		f &^= AddSubFlag
	}
	if pv := cpu.Config.ParityOverflowBit; IsFlagSet(affected, pv) {
		f = setFlag(f, pv, cpu.Reg.IFF2)
	}
	cpu.Reg.F = f
}

// Flags affected by the approximate arithmetic model.
func (cpu *CPU) arithFlags() byte {
	return SignFlag | ZeroFlag | HalfCarryFlag | AddSubFlag | cpu.Config.ParityOverflowBit
}

// Add or subtract b from a and update the flags according to the flag
// model. INC and DEC pass keepCarry to leave Carry untouched.
func (cpu *CPU) arith(a, b byte, sub, keepCarry bool) byte {
	var r uint16
	if sub {
		r = uint16(a) - uint16(b)
	} else {
		r = uint16(a) + uint16(b)
	}
	v := byte(r)

	if cpu.Config.FlagModel == FlagsApproximate {
		cpu.updateFlags(v, cpu.arithFlags())
		return v
	}

	var overflow bool
	if sub {
		overflow = (a^b)&0x80 != 0 && (a^v)&0x80 != 0
	} else {
		overflow = (a^b)&0x80 == 0 && (a^v)&0x80 != 0
	}

	var f byte
	f = setFlag(f, SignFlag, v&0x80 != 0)
	f = setFlag(f, ZeroFlag, v == 0)
	f = setFlag(f, HalfCarryFlag, (a^b^v)&0x10 != 0)
	f = setFlag(f, cpu.Config.ParityOverflowBit, overflow)
	f = setFlag(f, AddSubFlag, sub)
	if keepCarry {
		f = setFlag(f, CarryFlag, IsFlagSet(cpu.Reg.F, CarryFlag))
	} else {
		f = setFlag(f, CarryFlag, r&0x100 != 0)
	}
	cpu.Reg.F = f
	return v
}

type execFunc func(cpu *CPU, inst *Instruction) error

var execTable [OpSET + 1]execFunc

func init() {
	execTable = [...]execFunc{
		OpUnimplemented: (*CPU).unimplemented,
		OpNOP:           (*CPU).nop,
		OpHALT:          (*CPU).halt,
		OpLD:            (*CPU).ld,
		OpLD16:          (*CPU).ld16,
		OpPUSH:          (*CPU).pushOp,
		OpPOP:           (*CPU).popOp,
		OpEX:            (*CPU).ex,
		OpEXAF:          (*CPU).exaf,
		OpEXX:           (*CPU).exx,
		OpADD:           (*CPU).add,
		OpSUB:           (*CPU).sub,
		OpNEG:           (*CPU).neg,
		OpINC:           (*CPU).inc,
		OpDEC:           (*CPU).dec,
		OpJP:            (*CPU).jp,
		OpJR:            (*CPU).jr,
		OpDJNZ:          (*CPU).djnz,
		OpCALL:          (*CPU).call,
		OpRET:           (*CPU).ret,
		OpDI:            (*CPU).di,
		OpEI:            (*CPU).ei,
		OpIM:            (*CPU).im,
		OpIN:            (*CPU).in,
		OpBIT:           (*CPU).bit,
		OpRES:           (*CPU).res,
		OpSET:           (*CPU).set,
	}
}

// Prefixed opcode outside the emulated subset
func (cpu *CPU) unimplemented(inst *Instruction) error {
	return &UnimplementedError{Prefix: inst.Prefix, Opcode: inst.Opcode, PC: inst.Addr}
}

// No-operation
func (cpu *CPU) nop(inst *Instruction) error {
	return nil
}

// Halt until reset
func (cpu *CPU) halt(inst *Instruction) error {
	cpu.Halted = true
	return nil
}

// 8-bit load
func (cpu *CPU) ld(inst *Instruction) error {
	v := cpu.load8(&inst.Src)
	cpu.store8(&inst.Dst, v)

	// LD A,I and LD A,R report IFF2 through Parity/Overflow.
	if inst.Src.Mode == ModeReg && (inst.Src.Reg == RegI || inst.Src.Reg == RegR) {
		cpu.updateFlags(v, SignFlag|ZeroFlag|AddSubFlag|cpu.Config.ParityOverflowBit)
		cpu.Reg.F &^= HalfCarryFlag
	}
	return nil
}

// 16-bit load
func (cpu *CPU) ld16(inst *Instruction) error {
	cpu.store16(&inst.Dst, cpu.load16(&inst.Src))
	return nil
}

// Push register pair
func (cpu *CPU) pushOp(inst *Instruction) error {
	cpu.pushWord(cpu.Reg.Pair(inst.Src.Pair))
	return nil
}

// Pop register pair
func (cpu *CPU) popOp(inst *Instruction) error {
	cpu.Reg.SetPair(inst.Dst.Pair, cpu.popWord())
	return nil
}

// Exchange DE,HL or (SP),rr
func (cpu *CPU) ex(inst *Instruction) error {
	if inst.Dst.Mode == ModePair {
		de, hl := cpu.Reg.Pair(inst.Dst.Pair), cpu.Reg.Pair(inst.Src.Pair)
		cpu.Reg.SetPair(inst.Dst.Pair, hl)
		cpu.Reg.SetPair(inst.Src.Pair, de)
		return nil
	}

	sp := cpu.Reg.SP
	lo := cpu.stackRead(sp)
	hi := cpu.stackRead(sp + 1)
	v := cpu.Reg.Pair(inst.Src.Pair)
	cpu.stackWrite(sp, byte(v))
	cpu.stackWrite(sp+1, byte(v>>8))
	cpu.Reg.SetPair(inst.Src.Pair, uint16(hi)<<8|uint16(lo))
	return nil
}

// Exchange AF,AF'
func (cpu *CPU) exaf(inst *Instruction) error {
	cpu.Reg.ExchangeAF()
	return nil
}

// Exchange BC, DE and HL with their shadows
func (cpu *CPU) exx(inst *Instruction) error {
	cpu.Reg.ExchangeAll()
	return nil
}

// Add to accumulator
func (cpu *CPU) add(inst *Instruction) error {
	cpu.Reg.A = cpu.arith(cpu.Reg.A, cpu.load8(&inst.Src), false, false)
	return nil
}

// Subtract from accumulator
func (cpu *CPU) sub(inst *Instruction) error {
	cpu.Reg.A = cpu.arith(cpu.Reg.A, cpu.load8(&inst.Src), true, false)
	return nil
}

// Negate accumulator
func (cpu *CPU) neg(inst *Instruction) error {
	cpu.Reg.A = cpu.arith(0, cpu.Reg.A, true, false)
	return nil
}

// Increment register, memory or register pair
func (cpu *CPU) inc(inst *Instruction) error {
	if inst.Dst.Mode == ModePair {
		cpu.Reg.SetPair(inst.Dst.Pair, cpu.Reg.Pair(inst.Dst.Pair)+1)
		return nil
	}
	cpu.store8(&inst.Dst, cpu.arith(cpu.load8(&inst.Dst), 1, false, true))
	return nil
}

// Decrement register, memory or register pair
func (cpu *CPU) dec(inst *Instruction) error {
	if inst.Dst.Mode == ModePair {
		cpu.Reg.SetPair(inst.Dst.Pair, cpu.Reg.Pair(inst.Dst.Pair)-1)
		return nil
	}
	cpu.store8(&inst.Dst, cpu.arith(cpu.load8(&inst.Dst), 1, true, true))
	return nil
}

func (cpu *CPU) taken(inst *Instruction) bool {
	return !inst.HasCond || cpu.IsConditionTrue(inst.Cond)
}

// Jump to absolute address or register pair
func (cpu *CPU) jp(inst *Instruction) error {
	if cpu.taken(inst) {
		cpu.Reg.PC = cpu.load16(&inst.Src)
	}
	return nil
}

// Jump relative
func (cpu *CPU) jr(inst *Instruction) error {
	if cpu.taken(inst) {
		cpu.Reg.PC += uint16(int16(inst.Src.Disp))
	}
	return nil
}

// Decrement B and jump relative if not zero
func (cpu *CPU) djnz(inst *Instruction) error {
	b := cpu.Reg.Get(RegB) - 1
	cpu.Reg.Set(RegB, b)
	if b != 0 {
		cpu.Reg.PC += uint16(int16(inst.Src.Disp))
	}
	return nil
}

// Call subroutine
func (cpu *CPU) call(inst *Instruction) error {
	if cpu.taken(inst) {
		cpu.pushWord(cpu.Reg.PC)
		cpu.Reg.PC = inst.Src.Value
	}
	return nil
}

// Return from subroutine
func (cpu *CPU) ret(inst *Instruction) error {
	if cpu.taken(inst) {
		cpu.Reg.PC = cpu.popWord()
	}
	return nil
}

// Disable interrupts
func (cpu *CPU) di(inst *Instruction) error {
	cpu.Reg.IFF1, cpu.Reg.IFF2 = false, false
	return nil
}

// Enable interrupts
func (cpu *CPU) ei(inst *Instruction) error {
	cpu.Reg.IFF1, cpu.Reg.IFF2 = true, true
	return nil
}

// Set interrupt mode
func (cpu *CPU) im(inst *Instruction) error {
	cpu.Reg.IM = inst.Bit
	return nil
}

// Read from an I/O port. No devices are attached, so the bus floats high.
func (cpu *CPU) in(inst *Instruction) error {
	cpu.Reg.A = 0xff
	return nil
}

// Test bit
func (cpu *CPU) bit(inst *Instruction) error {
	v := cpu.load8(&inst.Dst)
	set := v&(1<<inst.Bit) != 0

	f := cpu.Reg.F&CarryFlag | HalfCarryFlag
	if !set {
		f |= ZeroFlag | cpu.Config.ParityOverflowBit
	}
	if set && inst.Bit == 7 {
		f |= SignFlag
	}
	cpu.Reg.F = f
	return nil
}

// Reset bit
func (cpu *CPU) res(inst *Instruction) error {
	cpu.store8(&inst.Dst, cpu.load8(&inst.Dst)&^(1<<inst.Bit))
	return nil
}

// Set bit
func (cpu *CPU) set(inst *Instruction) error {
	cpu.store8(&inst.Dst, cpu.load8(&inst.Dst)|1<<inst.Bit)
	return nil
}
