package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matrixsmaster/NanoRVI/disasm"
	"github.com/matrixsmaster/NanoRVI/vm"
)

// TUI is the tview-based text interface for a debugging session, laid
// out as registers/disassembly/breakpoints panels over an output log
// and command line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView    *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MainLayout *tview.Flex
}

// NewTUI builds a TUI bound to an existing debugger session.
func NewTUI(dbg *Debugger) *TUI {
	tui := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}

	tui.initializeViews()
	tui.buildLayout()
	tui.setupKeyBindings()

	return tui
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 14, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF10:
			t.executeCommand("next")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	if t.Debugger.Running {
		t.runUntilStop()
	}

	t.RefreshAll()
}

// runUntilStop steps the VM until a breakpoint, halt, or error, mirroring
// the CLI front end's run loop in interface.go.
func (t *TUI) runUntilStop() {
	for t.Debugger.Running {
		if shouldBreak, reason := t.Debugger.ShouldBreak(); shouldBreak {
			t.Debugger.Running = false
			t.WriteOutput(fmt.Sprintf("Stopped: %s at PC=0x%08X\n", reason, t.Debugger.VM.CPU.PC))
			return
		}

		result, err := t.Debugger.VM.Step()
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]Runtime error:[white] %v\n", err))
			t.Debugger.Running = false
			return
		}
		if result == vm.ResultHalt {
			t.WriteOutput(fmt.Sprintf("Program exited with code %d\n", t.Debugger.VM.ExitCode))
			t.Debugger.Running = false
			return
		}
	}
}

// WriteOutput appends text to the output log.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current VM state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateDisassemblyView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	cpu := t.Debugger.VM.CPU
	var lines []string

	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			cols = append(cols, fmt.Sprintf("x%-2d %-4s 0x%08X", reg, vm.RegisterName(reg), cpu.GetRegister(reg)))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("pc     0x%08X   cycles %d", cpu.PC, cpu.Cycles))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateDisassemblyView() {
	pc := t.Debugger.VM.CPU.PC
	var lines []string

	start := pc
	if start >= 5*vm.InstructionSize {
		start -= 5 * vm.InstructionSize
	} else {
		start = 0
	}

	for addr := start; addr < pc+15*vm.InstructionSize; addr += vm.InstructionSize {
		word, err := t.Debugger.VM.Memory.ReadWord(addr)
		if err != nil {
			break
		}
		text, err := disasm.Format(word)
		if err != nil {
			text = "???"
		}

		marker := "  "
		color := "white"
		if addr == pc {
			marker = "=>"
			color = "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(addr) != nil {
			marker = "* "
		}

		lines = append(lines, fmt.Sprintf("[%s]%s 0x%08X: %s[white]", color, marker, addr, text))
	}

	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	breakpoints := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		t.BreakpointsView.SetText("[grey]no breakpoints[white]")
		return
	}

	var lines []string
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		lines = append(lines, fmt.Sprintf("%d: 0x%08X (%s, hit %d)", bp.ID, bp.Address, status, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the tview application event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
