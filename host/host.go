// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive debugger shell around an emulated
// Z80 CPU running a Game Gear cartridge.
package host

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/goz80/cartridge"
	"github.com/beevik/goz80/cpu"
	"github.com/beevik/goz80/disasm"
	"github.com/beevik/goz80/video"
)

type state int32

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
)

// A Host represents an emulated Game Gear CPU and its memory, a debugger,
// and the video presenter that displays video RAM while the CPU runs.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.Memory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	cart        *cartridge.Cartridge
	presenter   video.Presenter
	lastCmd     *cmd.Selection
	state       atomic.Int32
	exprParser  *exprParser
	settings    *settings
	frameSteps  int
}

// New creates a new host environment. Frames are shown on presenter,
// which may be nil.
func New(presenter video.Presenter) *Host {
	h := &Host{
		presenter:  presenter,
		exprParser: newExprParser(),
		settings:   newSettings(),
		output:     bufio.NewWriter(io.Discard),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewMemory()
	h.cpu = cpu.NewCPU(h.mem, cpu.DefaultConfig())

	// Create a CPU debugger and attach it to the CPU.
	handler := newDebugHandler(h)
	h.debugger = cpu.NewDebugger(handler)
	h.cpu.AttachDebugger(h.debugger)
	h.cpu.AttachFaultHandler(handler)

	h.onSettingsUpdate()
	return h
}

// LoadCartridge copies a cartridge image into program memory and resets
// the CPU.
func (h *Host) LoadCartridge(c *cartridge.Cartridge) error {
	if err := h.mem.LoadProgram(c.Image); err != nil {
		return err
	}
	h.cart = c
	h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	h.onSettingsUpdate()

	if interactive {
		h.println()
	}

	h.displayPC()
	h.processCommands()
	h.flush()
}

// processCommands reads commands from the current input until it is
// exhausted or a command asks to quit, in which case it returns an error.
func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		cc := c.Command.Data.(*command)
		err = cc.handler(h, c)
		h.setState(stateProcessingCommands)
		if err != nil {
			return err
		}
	}
}

// Break interrupts a running CPU.
func (h *Host) Break() {
	if h.state.CompareAndSwap(int32(stateRunning), int32(stateProcessingCommands)) {
		return
	}
	h.println()
	h.prompt()
}

func (h *Host) getState() state {
	return state(h.state.Load())
}

func (h *Host) setState(s state) {
	h.state.Store(int32(s))
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.print("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, true)
		h.println(d)
	}
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Hits")
	h.println("----- -------  ----")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %-7v  %d\n", b.Address, !b.Disabled, b.Hits)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b != nil {
		h.debugger.RemoveBreakpoint(b.Address)
		h.printf("Breakpoint at $%04X removed.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b != nil {
		b.Disabled = false
		h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b != nil {
		b.Disabled = true
		h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	}
	return nil
}

func (h *Host) lookupBreakpoint(c cmd.Selection) *cpu.Breakpoint {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil || b.StepOver {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}
	return b
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value  Hits")
	h.println("----- -------  -----  ----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		value := "<none>"
		if b.Conditional {
			value = fmt.Sprintf("$%02X", b.Value)
		}
		h.printf("$%04X %-7v  %-6s %d\n", b.Address, !b.Disabled, value, b.Hits)
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b != nil {
		h.debugger.RemoveDataBreakpoint(b.Address)
		h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b != nil {
		b.Disabled = false
		h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b != nil {
		b.Disabled = true
		h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	}
	return nil
}

func (h *Host) lookupDataBreakpoint(c cmd.Selection) *cpu.DataBreakpoint {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for range lines {
		d, next := h.disassemble(addr, false)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEval(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X\n", v)
	return nil
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	defer file.Close()

	input, interactive, lastCmd := h.input, h.interactive, h.lastCmd
	h.input, h.interactive, h.lastCmd = bufio.NewScanner(file), false, nil
	err = h.processCommands()
	h.input, h.interactive, h.lastCmd = input, interactive, lastCmd
	return err
}

func (h *Host) cmdHeader(c cmd.Selection) error {
	if h.cart == nil {
		h.println("No cartridge loaded.")
		return nil
	}
	h.cart.WriteInfo(h.output)
	h.flush()
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands("")
		return nil
	}

	if cc := findCommand(strings.Join(c.Args, " ")); cc != nil {
		h.printf("Syntax: %s\n\n", cc.usage)
		switch {
		case cc.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, cc.description))
		case cc.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, cc.brief))
		}
		return nil
	}

	if g, ok := findGroup(c.Args[0]); ok && len(c.Args) == 1 {
		h.displayCommands(g.name)
		return nil
	}

	h.println("Command not found.")
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	cart, err := cartridge.Load(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if err := h.LoadCartridge(cart); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("Loaded '%s' (%d bytes).\n", cart.Path, len(cart.Image))
	h.displayPC()
	return nil
}

func (h *Host) cmdLog(c cmd.Selection) error {
	log := h.cpu.Log
	n := h.settings.LogLines
	if len(c.Args) > 0 {
		if strings.EqualFold(c.Args[0], "clear") {
			log.Clear()
			h.println("Log cleared.")
			return nil
		}
		v, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		n = int(v)
	}

	if log.Len() == 0 {
		h.println("Log is empty.")
		return nil
	}
	log.Tail(h.output, n)
	h.flush()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
		if addr == 0 {
			addr = cpu.RAMBase
		}

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, s := range c.Args[1:] {
		v, err := h.parseExpr(s)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, byte(v))
	}

	if err := h.mem.StoreBytes(addr, b); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.dumpMemory(addr, uint16(len(b)))
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting program")
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.cpu.Reg.PC, true)
		h.println(d)
		return nil
	}
	if len(c.Args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	r, ok := registerAccessors[key]
	if !ok {
		h.printf("Register '%s' not found.\n", key)
		return nil
	}

	value := strings.Join(c.Args[1:], " ")
	var v int64
	if r.size == 0 {
		if b, err := stringToBool(value); err == nil {
			if b {
				v = 1
			}
		} else if v, err = h.exprParser.Parse(value, h); err != nil {
			h.printf("%v\n", err)
			return nil
		}
	} else {
		var err error
		if v, err = h.exprParser.Parse(value, h); err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}
	r.set(h.cpu, v)

	name := strings.ToUpper(key)
	switch r.size {
	case 0:
		h.printf("Flag %s set to %v.\n", name, r.get(h.cpu) != 0)
	case 1:
		h.printf("Register %s set to $%02X.\n", name, byte(v))
	default:
		h.printf("Register %s set to $%04X.\n", name, uint16(v))
	}

	if key == "pc" || key == "." {
		h.settings.NextDisasmAddr = h.cpu.Reg.PC
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reset()
	h.debugger.ClearStepOverBreakpoints()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.println("CPU reset.")
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)

	h.setState(stateRunning)
	for h.getState() == stateRunning {
		h.step()
	}
	if h.getState() == stateProcessingCommands {
		h.printf("Interrupted at $%04X.\n", h.cpu.Reg.PC)
		h.displayPC()
	}
	h.present()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var b bool
			if b, err = stringToBool(value); err == nil {
				err = h.settings.Set(key, b)
			}
		default:
			var v int64
			if v, err = h.exprParser.Parse(value, h); err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	h.stepCount(c, h.step)
	return nil
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	h.stepCount(c, h.stepOver)
	return nil
}

// stepCount calls step once for each of the requested number of steps,
// displaying the last MaxStepLines instructions reached.
func (h *Host) stepCount(c cmd.Selection, step func()) {
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err == nil {
			count = int(n)
		}
	}

	h.setState(stateRunning)
	for i := count - 1; i >= 0 && h.getState() == stateRunning; i-- {
		step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.present()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
}

func (h *Host) cmdStepOut(c cmd.Selection) error {
	sp := h.cpu.Reg.SP

	h.setState(stateRunning)
	for h.getState() == stateRunning {
		inst, err := h.cpu.GetInstruction(h.cpu.Reg.PC)
		h.step()
		if err == nil && inst.Op == cpu.OpRET && h.cpu.Reg.SP > sp {
			break
		}
	}
	h.displayPC()
	h.present()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// step executes a single instruction, stopping the host when the CPU
// halts or reports an error.
func (h *Host) step() {
	err := h.cpu.Step()
	switch {
	case err != nil:
		h.setState(stateBreakpoint)
		h.printf("%v\n", err)
	case h.cpu.Halted:
		h.setState(stateBreakpoint)
		h.printf("CPU halted at $%04X.\n", h.cpu.LastPC)
	}

	h.frameSteps++
	if h.frameSteps >= h.settings.FrameSteps {
		h.frameSteps = 0
		h.present()
	}
}

// stepOver executes the next instruction. A subroutine call is run until
// it returns to the instruction following the call.
func (h *Host) stepOver() {
	inst, err := h.cpu.GetInstruction(h.cpu.Reg.PC)
	if err != nil || inst.Op != cpu.OpCALL || (inst.HasCond && !h.cpu.IsConditionTrue(inst.Cond)) {
		h.step()
		return
	}

	h.debugger.AddStepOverBreakpoint(inst.NextAddr())
	for h.getState() == stateRunning {
		h.step()
	}
	h.debugger.ClearStepOverBreakpoints()

	if h.getState() == stateStepOverBreakpoint {
		h.setState(stateRunning)
	}
}

func (h *Host) present() {
	if h.presenter == nil {
		return
	}
	if err := h.presenter.Present(h.mem.VRAM()); err != nil {
		h.printf("%v\n", err)
		h.presenter = nil
		if h.getState() == stateRunning {
			h.setState(stateBreakpoint)
		}
	}
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode

	config := &h.cpu.Config
	config.FlagModel = cpu.FlagsApproximate
	if h.settings.ExactFlags {
		config.FlagModel = cpu.FlagsExact
	}
	config.ParityOverflowBit = cpu.ParityOverflowStandard
	if h.settings.LegacyParity {
		config.ParityOverflowBit = cpu.ParityOverflowLegacy
	}

	if h.settings.FrameSteps < 1 {
		h.settings.FrameSteps = 1
	}

	if h.settings.EchoLog {
		h.cpu.Log.SetEcho(h.output)
	} else {
		h.cpu.Log.SetEcho(nil)
	}
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func (h *Host) disassemble(addr uint16, showRegs bool) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	var code []byte
	for a := addr; a != next; a++ {
		b, err := h.mem.ProgramByte(a)
		if err != nil {
			break
		}
		code = append(code, b)
	}

	str = fmt.Sprintf("%04X-   %-11s   %-18s", addr, codeString(code), line)
	if showRegs {
		str += " " + disasm.RegisterString(&h.cpu.Reg, h.cpu.Config.ParityOverflowBit)
	}
	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))
	dumpByte := func(a uint16, c1, c2 int) {
		m, err := h.mem.LoadByte(a)
		if err != nil {
			buf[c1], buf[c1+1], buf[c2] = '-', '-', ' '
			return
		}
		byteToBuf(m, buf[c1:c1+2])
		buf[c2] = toPrintableChar(m)
	}

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := addr0, 6, 32; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			dumpByte(a, c1, c2)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := min((uint32(addr1)+8)&0xffff8, 0x10000)

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				dumpByte(a, c1, c2)
			} else {
				buf[c1], buf[c1+1], buf[c2] = ' ', ' ', ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayHelpText(c cmd.Selection) {
	cc := c.Command.Data.(*command)
	if cc.usage != "" {
		h.printf("Syntax: %s\n", cc.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(prefix string) {
	type entry struct{ name, brief string }
	var entries []entry

	if prefix == "" {
		h.println("goz80 commands:")
		for _, c := range commands {
			if !strings.Contains(c.path, " ") && c.brief != "" {
				entries = append(entries, entry{c.path, c.brief})
			}
		}
		for _, g := range groups {
			entries = append(entries, entry{g.name, g.brief})
		}
	} else {
		h.printf("%s commands:\n", prefix)
		for _, c := range commands {
			if name, ok := strings.CutPrefix(c.path, prefix+" "); ok {
				entries = append(entries, entry{name, c.brief})
			}
		}
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.name, b.name)
	})
	for _, e := range entries {
		h.printf("    %-15s  %s\n", e.name, e.brief)
	}
}

func (h *Host) resolveIdentifier(s string) (int64, error) {
	s = strings.ToLower(s)
	if r, ok := registerAccessors[s]; ok {
		return r.get(h.cpu), nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.setState(stateStepOverBreakpoint)
	} else {
		h.setState(stateBreakpoint)
		h.printf("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.setState(stateBreakpoint)

	if cpu.LastPC != cpu.Reg.PC {
		d, _ := h.disassemble(cpu.LastPC, true)
		h.println(d)
	}
}

func (h *Host) onFault(cpu *cpu.CPU, err error) {
	if h.settings.FaultBreak && h.getState() == stateRunning {
		h.setState(stateBreakpoint)
		h.printf("Fault at $%04X: %v.\n", cpu.LastPC, err)
	}
}
