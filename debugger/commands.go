package debugger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/matrixsmaster/NanoRVI/disasm"
	"github.com/matrixsmaster/NanoRVI/loader"
	"github.com/matrixsmaster/NanoRVI/vm"
)

func (d *Debugger) cmdRun(args []string) error {
	d.VM.Reset()
	d.VM.Bootstrap(d.VM.EntryPoint, d.VM.StackTop, d.VM.ProgramArguments)
	d.VM.State = vm.StateRunning
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.VM.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}

	d.VM.State = vm.StateRunning
	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

func (d *Debugger) cmdNext(args []string) error {
	d.SetStepOver()
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label>")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(address, false)
	d.Printf("Breakpoint %d at 0x%08X\n", bp.ID, address)
	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(address, true)
	d.Printf("Temporary breakpoint %d at 0x%08X\n", bp.ID, address)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		for _, bp := range d.Breakpoints.GetAllBreakpoints() {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdPrint shows a register's value, e.g. "print a0" or "print x10".
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register>")
	}

	reg, err := resolveRegister(args[0])
	if err != nil {
		return err
	}

	value := d.VM.CPU.GetRegister(reg)
	d.Printf("%s = 0x%08X (%d)\n", vm.RegisterName(reg), value, vm.AsInt32(value))
	return nil
}

// cmdExamine dumps memory starting at an address: "x/4xw 0x1000".
func (d *Debugger) cmdExamine(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x[/nfu] <address>\n  n: count, f: format (x/d/u), u: unit size (b/h/w)")
	}

	count := 1
	format := 'x'
	unit := 'w'
	addrArg := args[0]

	if strings.HasPrefix(args[0], "/") {
		formatStr := args[0][1:]
		if len(args) < 2 {
			return fmt.Errorf("missing address")
		}
		addrArg = args[1]

		i := 0
		for i < len(formatStr) && formatStr[i] >= '0' && formatStr[i] <= '9' {
			i++
		}
		if i > 0 {
			if n, err := strconv.Atoi(formatStr[:i]); err == nil {
				count = n
			}
			formatStr = formatStr[i:]
		}
		if len(formatStr) > 0 {
			format = rune(formatStr[0])
			formatStr = formatStr[1:]
		}
		if len(formatStr) > 0 {
			unit = rune(formatStr[0])
		}
	}

	address, err := d.ResolveAddress(addrArg)
	if err != nil {
		return err
	}

	d.Printf("0x%08X:", address)
	for i := 0; i < count; i++ {
		var value uint32
		var readErr error

		switch unit {
		case 'b':
			var v uint8
			v, readErr = d.VM.Memory.ReadByte(address)
			value = uint32(v)
			address++
		case 'h':
			var v uint16
			v, readErr = d.VM.Memory.ReadHalfword(address)
			value = uint32(v)
			address += 2
		default:
			value, readErr = d.VM.Memory.ReadWord(address)
			address += vm.InstructionSize
		}
		if readErr != nil {
			return readErr
		}

		switch format {
		case 'd':
			d.Printf(" %d", vm.AsInt32(value))
		case 'u':
			d.Printf(" %d", value)
		default:
			d.Printf(" 0x%08X", value)
		}
	}
	d.Println()
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints|stats>")
	}

	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "stats":
		return d.showStats()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

func (d *Debugger) showRegisters() error {
	d.Println("Registers:")
	for i := 0; i < vm.RegisterCount; i++ {
		d.Printf("  x%-2d %-4s = 0x%08X (%d)\n", i, vm.RegisterName(i),
			d.VM.CPU.GetRegister(i), vm.AsInt32(d.VM.CPU.GetRegister(i)))
	}
	d.Printf("  pc       = 0x%08X\n", d.VM.CPU.PC)
	d.Printf("  cycles   = %d\n", d.VM.CPU.Cycles)
	return nil
}

func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}
	sort.Slice(breakpoints, func(i, j int) bool { return breakpoints[i].ID < breakpoints[j].ID })

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		kind := "breakpoint"
		if bp.Temporary {
			kind = "temporary breakpoint"
		}
		d.Printf("  %d: %s at 0x%08X (%s, hit %d times)\n", bp.ID, kind, bp.Address, status, bp.HitCount)
	}
	return nil
}

func (d *Debugger) showStats() error {
	if d.VM.Statistics == nil {
		d.Println("statistics collection is not enabled for this session")
		return nil
	}
	return d.VM.Statistics.Report(&d.Output)
}

// cmdDisassemble renders count instructions starting at an address
// ("disas 0x1000 8"), defaulting to the current PC and a single line.
func (d *Debugger) cmdDisassemble(args []string) error {
	address := d.VM.CPU.PC
	count := 1

	if len(args) > 0 {
		a, err := d.ResolveAddress(args[0])
		if err != nil {
			return err
		}
		address = a
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid instruction count: %s", args[1])
		}
		count = n
	}

	for i := 0; i < count; i++ {
		word, err := d.VM.Memory.ReadWord(address)
		if err != nil {
			return err
		}
		text, err := disasm.Format(word)
		if err != nil {
			text = fmt.Sprintf("<%v>", err)
		}
		marker := "  "
		if address == d.VM.CPU.PC {
			marker = "=>"
		}
		d.Printf("%s 0x%08X: %s\n", marker, address, text)
		address += vm.InstructionSize
	}
	return nil
}

func (d *Debugger) cmdLoad(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <path>")
	}

	result, err := loader.LoadFile(d.VM, args[0])
	if err != nil {
		return err
	}

	d.VM.Reset()
	d.VM.Bootstrap(result.EntryPoint, d.VM.StackTop, nil)
	d.Printf("Loaded %s: entry=0x%08X, %d section(s)\n", args[0], result.EntryPoint, result.Sections)
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.VM.Reset()
	d.Breakpoints = NewBreakpointManager()
	d.Running = false
	d.StepMode = StepNone
	d.Println("VM reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Commands:")
	d.Println("  run, r                 start execution from the entry point")
	d.Println("  continue, c             resume execution")
	d.Println("  step, s, si             execute one instruction")
	d.Println("  next, n                 step over a call instruction")
	d.Println("  break, b <addr>         set a breakpoint")
	d.Println("  tbreak, tb <addr>       set a one-shot breakpoint")
	d.Println("  delete, d [id]          delete one or all breakpoints")
	d.Println("  enable/disable <id>     toggle a breakpoint")
	d.Println("  print, p <reg>          show a register's value")
	d.Println("  x[/nfu] <addr>          examine memory")
	d.Println("  disas [addr] [count]    disassemble instructions")
	d.Println("  info registers|breakpoints|stats")
	d.Println("  load <path>             load a new ELF image")
	d.Println("  reset                   reset the VM and breakpoints")
	d.Println("  quit, q, exit           leave the debugger")
	return nil
}

// resolveRegister accepts either an ABI name ("a0") or an "x<N>" form.
func resolveRegister(name string) (int, error) {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "x") {
		n, err := strconv.Atoi(name[1:])
		if err != nil || n < 0 || n >= vm.RegisterCount {
			return 0, fmt.Errorf("invalid register: %s", name)
		}
		return n, nil
	}
	for i := 0; i < vm.RegisterCount; i++ {
		if vm.RegisterName(i) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown register: %s", name)
}
