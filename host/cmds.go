// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
)

// A command carries the handler and help text attached to each entry of
// the command tree.
type command struct {
	path        string // full command name, e.g. "breakpoint add"
	brief       string
	description string
	usage       string
	handler     func(h *Host, c cmd.Selection) error
}

// A group is a subtree of related commands.
type group struct {
	name  string
	brief string
}

var (
	cmds      *cmd.Tree
	commands  []*command
	groups    []group
	shortcuts = make(map[string]string)
)

func addCommand(t *cmd.Tree, prefix string, c *command) {
	name := c.path
	if prefix != "" {
		c.path = prefix + " " + name
	}
	t.AddCommand(cmd.CommandDescriptor{
		Name:        name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        c,
	})
	commands = append(commands, c)
}

func addGroup(root *cmd.Tree, name, brief string) *cmd.Tree {
	groups = append(groups, group{name, brief})
	return root.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief})
}

func addShortcut(root *cmd.Tree, shortcut, target string) {
	root.AddShortcut(shortcut, target)
	shortcuts[shortcut] = target
}

// expandShortcut replaces a leading shortcut in a command line with the
// command it stands for.
func expandShortcut(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return line
	}
	if target, ok := shortcuts[fields[0]]; ok {
		fields = append(strings.Fields(target), fields[1:]...)
	}
	return strings.Join(fields, " ")
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "goz80"})
	addCommand(root, "", &command{
		path:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		handler:     (*Host).cmdHelp,
	})

	// Breakpoint commands
	bp := addGroup(root, "breakpoint", "Breakpoint commands")
	addCommand(bp, "breakpoint", &command{
		path:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		handler:     (*Host).cmdBreakpointList,
	})
	addCommand(bp, "breakpoint", &command{
		path:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified program address." +
			" The breakpoint starts enabled.",
		usage:   "breakpoint add <address>",
		handler: (*Host).cmdBreakpointAdd,
	})
	addCommand(bp, "breakpoint", &command{
		path:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		handler:     (*Host).cmdBreakpointRemove,
	})
	addCommand(bp, "breakpoint", &command{
		path:        "enable",
		brief:       "Enable a breakpoint",
		description: "Enable a previously added breakpoint.",
		usage:       "breakpoint enable <address>",
		handler:     (*Host).cmdBreakpointEnable,
	})
	addCommand(bp, "breakpoint", &command{
		path:  "disable",
		brief: "Disable a breakpoint",
		description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		usage:   "breakpoint disable <address>",
		handler: (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := addGroup(root, "databreakpoint", "Data breakpoint commands")
	addCommand(db, "databreakpoint", &command{
		path:        "list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		handler:     (*Host).cmdDataBreakpointList,
	})
	addCommand(db, "databreakpoint", &command{
		path:  "add",
		brief: "Add a data breakpoint",
		description: "Add a new data breakpoint at the specified data bus" +
			" address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only when" +
			" this value is stored. The data breakpoint starts enabled.",
		usage:   "databreakpoint add <address> [<value>]",
		handler: (*Host).cmdDataBreakpointAdd,
	})
	addCommand(db, "databreakpoint", &command{
		path:        "remove",
		brief:       "Remove a data breakpoint",
		description: "Remove a previously added data breakpoint.",
		usage:       "databreakpoint remove <address>",
		handler:     (*Host).cmdDataBreakpointRemove,
	})
	addCommand(db, "databreakpoint", &command{
		path:        "enable",
		brief:       "Enable a data breakpoint",
		description: "Enable a previously added data breakpoint.",
		usage:       "databreakpoint enable <address>",
		handler:     (*Host).cmdDataBreakpointEnable,
	})
	addCommand(db, "databreakpoint", &command{
		path:        "disable",
		brief:       "Disable a data breakpoint",
		description: "Disable a previously added data breakpoint.",
		usage:       "databreakpoint disable <address>",
		handler:     (*Host).cmdDataBreakpointDisable,
	})

	addCommand(root, "", &command{
		path:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble code from the program image, starting at" +
			" the requested address. The number of lines to disassemble" +
			" may be specified as an option. If no address is specified," +
			" the disassembly continues from where the last disassembly" +
			" left off.",
		usage:   "disassemble [<address>] [<lines>]",
		handler: (*Host).cmdDisassemble,
	})
	addCommand(root, "", &command{
		path:  "evaluate",
		brief: "Evaluate an expression",
		description: "Evaluate a mathematical expression. Register names" +
			" such as hl and pc may be used as operands.",
		usage:   "evaluate <expression>",
		handler: (*Host).cmdEval,
	})
	addCommand(root, "", &command{
		path:  "execute",
		brief: "Execute a command script",
		description: "Load a text file and run each of its lines as a" +
			" host command.",
		usage:   "execute <filename>",
		handler: (*Host).cmdExecute,
	})
	addCommand(root, "", &command{
		path:        "header",
		brief:       "Display the cartridge header",
		description: "Display the header fields of the loaded cartridge.",
		usage:       "header",
		handler:     (*Host).cmdHeader,
	})
	addCommand(root, "", &command{
		path:  "load",
		brief: "Load a cartridge",
		description: "Load a Game Gear cartridge image from disk into the" +
			" program region and reset the CPU.",
		usage:   "load <filename>",
		handler: (*Host).cmdLoad,
	})
	addCommand(root, "", &command{
		path:  "log",
		brief: "Display the log",
		description: "Display the most recent entries of the CPU log. Pass" +
			" a count to limit the number of entries, or 'clear' to" +
			" empty the log.",
		usage:   "log [<count>|clear]",
		handler: (*Host).cmdLog,
	})

	// Memory commands
	mem := addGroup(root, "memory", "Memory commands")
	addCommand(mem, "memory", &command{
		path:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of the data bus starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. Unmapped addresses are shown as" +
			" '--'.",
		usage:   "memory dump [<address>] [<bytes>]",
		handler: (*Host).cmdMemoryDump,
	})
	addCommand(mem, "memory", &command{
		path:  "set",
		brief: "Set memory at address",
		description: "Set the contents of memory starting from the" +
			" specified data bus address. The values to assign should be" +
			" separated by spaces.",
		usage:   "memory set <address> <byte> [<byte> ...]",
		handler: (*Host).cmdMemorySet,
	})

	addCommand(root, "", &command{
		path:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		handler:     (*Host).cmdQuit,
	})
	addCommand(root, "", &command{
		path:  "register",
		brief: "View or change register values",
		description: "When used without arguments, this command displays" +
			" the current contents of the CPU registers. When used with" +
			" arguments, this command changes the value of a register or" +
			" one of the CPU's status flags. Allowed register names" +
			" include A, F, B, C, D, E, H, L, I, R, AF, BC, DE, HL, IX," +
			" IY, SP and PC. Allowed flag names include SIGN, ZERO," +
			" HALFCARRY, PARITY, SUBTRACT and CARRY.",
		usage:   "register [<name> <value>]",
		handler: (*Host).cmdRegister,
	})
	addCommand(root, "", &command{
		path:        "reset",
		brief:       "Reset the CPU",
		description: "Reset the CPU registers and return to the entry point.",
		usage:       "reset",
		handler:     (*Host).cmdReset,
	})
	addCommand(root, "", &command{
		path:  "run",
		brief: "Run the CPU",
		description: "Run the CPU until a breakpoint is hit, the CPU halts" +
			" or faults, or until the user types Ctrl-C. Video RAM is" +
			" presented every FrameSteps instructions.",
		usage:   "run [<address>]",
		handler: (*Host).cmdRun,
	})
	addCommand(root, "", &command{
		path:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage:   "set [<var> <value>]",
		handler: (*Host).cmdSet,
	})

	// Step commands
	st := addGroup(root, "step", "Step the debugger")
	addCommand(st, "step", &command{
		path:  "in",
		brief: "Step into next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		usage:   "step in [<count>]",
		handler: (*Host).cmdStepIn,
	})
	addCommand(st, "step", &command{
		path:  "over",
		brief: "Step over next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the subroutine." +
			" The number of steps may be specified as an option.",
		usage:   "step over [<count>]",
		handler: (*Host).cmdStepOver,
	})
	addCommand(st, "step", &command{
		path:  "out",
		brief: "Step out of the current subroutine",
		description: "Step the CPU until it executes a RET that returns" +
			" from the currently running subroutine.",
		usage:   "step out",
		handler: (*Host).cmdStepOut,
	})

	// Add command shortcuts.
	addShortcut(root, "b", "breakpoint")
	addShortcut(root, "bp", "breakpoint")
	addShortcut(root, "ba", "breakpoint add")
	addShortcut(root, "br", "breakpoint remove")
	addShortcut(root, "bl", "breakpoint list")
	addShortcut(root, "be", "breakpoint enable")
	addShortcut(root, "bd", "breakpoint disable")
	addShortcut(root, "d", "disassemble")
	addShortcut(root, "db", "databreakpoint")
	addShortcut(root, "dbp", "databreakpoint")
	addShortcut(root, "dbl", "databreakpoint list")
	addShortcut(root, "dba", "databreakpoint add")
	addShortcut(root, "dbr", "databreakpoint remove")
	addShortcut(root, "dbe", "databreakpoint enable")
	addShortcut(root, "dbd", "databreakpoint disable")
	addShortcut(root, "e", "evaluate")
	addShortcut(root, "m", "memory dump")
	addShortcut(root, "ms", "memory set")
	addShortcut(root, "r", "register")
	addShortcut(root, "s", "step over")
	addShortcut(root, "si", "step in")
	addShortcut(root, "so", "step out")
	addShortcut(root, "?", "help")
	addShortcut(root, ".", "register")

	cmds = root
}

// findCommand returns the command whose full name matches path, where
// each word of path may be an unambiguous prefix.
func findCommand(path string) *command {
	words := strings.Fields(expandShortcut(path))
	var found *command
	for _, c := range commands {
		names := strings.Fields(c.path)
		if len(names) != len(words) {
			continue
		}
		match := true
		for i := range names {
			if !strings.HasPrefix(names[i], words[i]) {
				match = false
				break
			}
		}
		if match {
			if found != nil {
				return nil
			}
			found = c
		}
	}
	return found
}

// findGroup returns the command group whose name begins with prefix.
func findGroup(prefix string) (group, bool) {
	prefix = expandShortcut(prefix)
	var found []group
	for _, g := range groups {
		if g.name == prefix {
			return g, true
		}
		if strings.HasPrefix(g.name, prefix) {
			found = append(found, g)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return group{}, false
}
