package debugger

import (
	"fmt"
	"strings"

	"github.com/matrixsmaster/NanoRVI/vm"
)

// StepMode represents the current single-stepping mode.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
	StepOver
)

// Debugger wraps a *vm.VM with breakpoint management, command history,
// and a REPL command dispatcher shared by the CLI and TUI front ends.
type Debugger struct {
	VM *vm.VM

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running    bool
	StepMode   StepMode
	StepOverPC uint32

	// Symbols allows break/print/x to accept a label instead of a raw
	// hex address; empty unless a caller fills it (the loader does not
	// read ELF symbol tables).
	Symbols map[string]uint32

	LastCommand string

	Output strings.Builder
}

// NewDebugger creates a debugger session wrapping machine.
func NewDebugger(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
		Symbols:     make(map[string]uint32),
	}
}

// ResolveAddress resolves a label to an address, or parses a numeric one.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return addr, nil
	}

	var addr uint32
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		if _, err := fmt.Sscanf(addrStr, "0x%x", &addr); err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	} else {
		if _, err := fmt.Sscanf(addrStr, "%d", &addr); err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	}
	return addr, nil
}

// ExecuteCommand parses and runs one command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "disas", "disassemble":
		return d.cmdDisassemble(args)

	case "load":
		return d.cmdLoad(args)
	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause at the VM's current
// PC, and why.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.VM.CPU.PC

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"
	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil {
		if !bp.Enabled {
			return false, ""
		}
		bp.HitCount++
		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	return false, ""
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}

// SetStepOver arms step-over mode: if the instruction at PC is a call
// (jal/jalr targeting ra), run until control returns past it; otherwise
// this degrades to a plain single step.
func (d *Debugger) SetStepOver() {
	instr, err := d.VM.Memory.ReadWord(d.VM.CPU.PC)
	if err != nil {
		d.StepMode = StepSingle
		d.Running = true
		return
	}

	op, _, ok := vm.Decode(instr)
	rd, _, _, _ := vm.DecodeFields(instr)
	isCall := ok && (op == vm.JAL || op == vm.JALR) && rd == vm.RegRA

	if isCall {
		d.StepOverPC = d.VM.CPU.PC + vm.InstructionSize
		d.StepMode = StepOver
	} else {
		d.StepMode = StepSingle
	}
	d.Running = true
}
