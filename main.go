package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/matrixsmaster/NanoRVI/api"
	"github.com/matrixsmaster/NanoRVI/config"
	"github.com/matrixsmaster/NanoRVI/debugger"
	"github.com/matrixsmaster/NanoRVI/loader"
	"github.com/matrixsmaster/NanoRVI/vm"
)

// Version information, overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")

		ramSizeKiB   = flag.Uint("m", 0, "RAM size in KiB (default: config value)")
		stackSizeKiB = flag.Uint("s", 0, "Stack size in KiB (default: config value)")
		execFile     = flag.String("f", "", "Executable ELF image to load")
		debugOpts    = flag.String("d", "", "Debug option characters: t,s,m,r,i,l")
		fsRoot       = flag.String("fsroot", "", "Filesystem root stored on the VM (default: current directory); no file access is restricted to it")
		verboseMode  = flag.Bool("verbose", false, "Verbose output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("NanoRVI %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if *execFile == "" {
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ramSize := cfg.RAMSizeBytes()
	if *ramSizeKiB != 0 {
		ramSize = uint32(*ramSizeKiB) * 1024
	}
	stackSize := cfg.StackSizeBytes()
	if *stackSizeKiB != 0 {
		stackSize = uint32(*stackSizeKiB) * 1024
	}

	machine := vm.NewVM(ramSize)
	machine.MaxCycles = cfg.Execution.MaxCycles

	filesystemRoot := *fsRoot
	if filesystemRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting current directory: %v\n", err)
			os.Exit(1)
		}
		filesystemRoot = cwd
	}
	absRoot, err := filepath.Abs(filesystemRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving filesystem root: %v\n", err)
		os.Exit(1)
	}
	machine.FilesystemRoot = absRoot

	result, err := loader.LoadFile(machine, *execFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(2)
	}

	stackTop := uint32(len(machine.Memory.RAM))
	machine.Bootstrap(result.EntryPoint, stackTop, nil)

	if *verboseMode {
		fmt.Printf("Loaded %s: entry=0x%08X break=0x%08X sections=%d\n",
			*execFile, result.EntryPoint, result.ProgramBreak, result.Sections)
		fmt.Printf("Stack top: 0x%08X (stack size %d bytes)\n", stackTop, stackSize)
	}

	traceCleanup := applyDebugOptions(machine, *debugOpts, cfg, *verboseMode)
	defer traceCleanup()

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("NanoRVI Debugger - Type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", *execFile)
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	runDirect(machine, *verboseMode, traceCleanup)
}

// runDirect executes the loaded program to completion outside the debugger,
// calling cleanup before the process exits.
func runDirect(machine *vm.VM, verbose bool, cleanup func()) {
	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nRuntime error at PC=0x%08X: %v\n", machine.CPU.PC, err)
		cleanup()
		os.Exit(1)
	}

	if verbose {
		fmt.Println("\n----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("Exit code: %d\n", machine.ExitCode)
		fmt.Printf("CPU cycles: %d\n", machine.CPU.Cycles)
	}

	if machine.Statistics != nil {
		var report strings.Builder
		if err := machine.Statistics.Report(&report); err == nil {
			fmt.Println(report.String())
		}
	}

	cleanup()
	os.Exit(int(machine.ExitCode))
}

// applyDebugOptions wires each debug-option character to its vm diagnostic
// component (SUPPLEMENTED FEATURES): t=instruction trace, s=syscall trace,
// m=memory trace, r=register dump, i=interactive step wait, l=load-time
// section trace. Returns a cleanup func that flushes any file-backed
// trace before exit.
func applyDebugOptions(machine *vm.VM, opts string, cfg *config.Config, verbose bool) func() {
	var closers []func() error

	for _, c := range opts {
		switch c {
		case 't':
			path := filepath.Join(config.GetLogPath(), "trace.log")
			f, err := os.Create(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
				continue
			}
			machine.ExecutionTrace = vm.NewExecutionTrace(f, cfg.Trace.MaxEntries)
			closers = append(closers, func() error {
				err := machine.ExecutionTrace.Flush()
				f.Close()
				return err
			})
			if verbose {
				fmt.Printf("Instruction trace enabled: %s\n", path)
			}

		case 's':
			machine.SyscallLog = make([]vm.SyscallLogEntry, 0, 256)
			if verbose {
				fmt.Println("Syscall trace enabled")
			}

		case 'm':
			path := filepath.Join(config.GetLogPath(), "memtrace.log")
			f, err := os.Create(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating memory trace file: %v\n", err)
				continue
			}
			machine.MemoryTrace = vm.NewMemoryTrace(f, cfg.Trace.MaxEntries)
			closers = append(closers, func() error {
				err := machine.MemoryTrace.Flush()
				f.Close()
				return err
			})
			if verbose {
				fmt.Printf("Memory trace enabled: %s\n", path)
			}

		case 'r':
			for i := 0; i < vm.RegisterCount; i++ {
				fmt.Printf("x%-2d %-4s 0x%08X\n", i, vm.RegisterName(i), machine.CPU.GetRegister(i))
			}

		case 'i':
			machine.Interactive = true
			if verbose {
				fmt.Println("Interactive single-step wait enabled")
			}

		case 'l':
			if verbose {
				fmt.Printf("Load-time section trace: entry=0x%08X break=0x%08X\n",
					machine.EntryPoint, machine.ProgramBreak)
			}

		default:
			fmt.Fprintf(os.Stderr, "Warning: unknown debug option '%c'\n", c)
		}
	}

	if machine.Statistics == nil && strings.ContainsRune(opts, 'r') {
		machine.Statistics = vm.NewPerformanceStatistics()
	}

	return func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}
}

// runAPIServer starts the HTTP+WebSocket API and blocks until a shutdown signal.
func runAPIServer(port int) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	server := api.NewServer(port, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Println("NanoRVI - a RISC-V RV32I user-mode emulator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nanorvi -f <elf-file> [-m <kib>] [-s <kib>] [-d <chars>]")
	fmt.Println("  nanorvi -debug -f <elf-file>")
	fmt.Println("  nanorvi -tui -f <elf-file>")
	fmt.Println("  nanorvi -api-server [-port <n>]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Debug options (-d):")
	fmt.Println("  t  instruction trace")
	fmt.Println("  s  syscall trace")
	fmt.Println("  m  memory trace")
	fmt.Println("  r  register dump")
	fmt.Println("  i  interactive step wait")
	fmt.Println("  l  load-time section trace")
}
