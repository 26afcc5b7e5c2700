package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/matrixsmaster/NanoRVI/vm"
)

// RunCLI runs the command-line debugger REPL.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(nanorvi-dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		if dbg.Running {
			for dbg.Running {
				if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
					dbg.Running = false
					fmt.Printf("Stopped: %s at PC=0x%08X\n", reason, dbg.VM.CPU.PC)
					break
				}

				result, err := dbg.VM.Step()
				if err != nil {
					if dbg.VM.State == vm.StateHalted {
						dbg.Running = false
						fmt.Printf("Program exited with code %d\n", dbg.VM.ExitCode)
						break
					}
					fmt.Printf("Runtime error: %v\n", err)
					dbg.Running = false
					break
				}
				if result == vm.ResultHalt {
					dbg.Running = false
					fmt.Printf("Program exited with code %d\n", dbg.VM.ExitCode)
					break
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}

// RunTUI runs the tview-based text user interface.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
