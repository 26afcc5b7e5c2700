package api

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/matrixsmaster/NanoRVI/config"
	"github.com/matrixsmaster/NanoRVI/loader"
	"github.com/matrixsmaster/NanoRVI/vm"
)

// Session wraps a single VM instance exposed over the HTTP+WebSocket API,
// replacing the teacher's service.DebuggerService indirection with a
// direct vm.VM owner since the service/tools packages are out of scope.
type Session struct {
	ID        string
	VM        *vm.VM
	CreatedAt time.Time

	mu sync.Mutex
}

// SessionManager tracks the set of live sessions and assigns them IDs.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      *config.Config
	nextID   uint64
	broad    *Broadcaster
}

// NewSessionManager builds a manager using cfg for session defaults.
func NewSessionManager(cfg *config.Config, broadcaster *Broadcaster) *SessionManager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		broad:    broadcaster,
	}
}

// Create allocates a new session with the given RAM size and cycle limit,
// falling back to configured defaults when either is zero.
func (m *SessionManager) Create(ramSize uint32, maxCycles uint64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ramSize == 0 {
		ramSize = m.cfg.RAMSizeBytes()
	}
	if maxCycles == 0 {
		maxCycles = m.cfg.Execution.MaxCycles
	}

	m.nextID++
	id := fmt.Sprintf("sess-%d", m.nextID)

	machine := vm.NewVM(ramSize)
	machine.MaxCycles = maxCycles
	machine.OutputWriter = NewEventWriter(id, m.broad)

	session := &Session{
		ID:        id,
		VM:        machine,
		CreatedAt: time.Now(),
	}
	m.sessions[id] = session
	return session
}

// Get returns the session with the given ID, or nil if none exists.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Delete removes a session.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadProgram parses and installs an ELF image, bootstrapping the VM at
// its entry point with the stack pointer at the top of RAM.
func (s *Session) LoadProgram(body []byte) (*loader.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := loader.LoadProgramIntoVM(s.VM, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}

	stackTop := uint32(len(s.VM.Memory.RAM))
	s.VM.Bootstrap(result.EntryPoint, stackTop, nil)
	return result, nil
}

// Step executes exactly one instruction and reports the outcome.
func (s *Session) Step() (vm.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.VM.Step()
}

// Run executes instructions until halt, error, or the cycle limit.
func (s *Session) Run() (vm.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		result, err := s.VM.Step()
		if err != nil {
			return result, err
		}
		if result == vm.ResultHalt {
			return result, nil
		}
		if s.VM.MaxCycles > 0 && s.VM.CPU.Cycles >= s.VM.MaxCycles {
			return result, fmt.Errorf("cycle limit %d reached", s.VM.MaxCycles)
		}
	}
}

// Reset clears CPU state, keeping loaded RAM contents.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.VM.Reset()
}

// Registers snapshots the session's register file.
func (s *Session) Registers() RegistersResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resp RegistersResponse
	for i := 0; i < len(resp.X); i++ {
		resp.X[i] = s.VM.CPU.GetRegister(i)
	}
	resp.PC = s.VM.CPU.PC
	resp.Cycles = s.VM.CPU.Cycles
	return resp
}

// Status summarizes the session's current execution state.
func (s *Session) Status() SessionStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := SessionStatusResponse{
		SessionID: s.ID,
		State:     s.VM.State.String(),
		PC:        s.VM.CPU.PC,
		Cycles:    s.VM.CPU.Cycles,
		ExitCode:  s.VM.ExitCode,
	}
	if s.VM.LastError != nil {
		resp.Error = s.VM.LastError.Error()
	}
	return resp
}
