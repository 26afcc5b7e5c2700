package api

import "time"

// SessionCreateRequest is the body of POST /api/v1/session.
type SessionCreateRequest struct {
	RAMSize   uint32 `json:"ramSize,omitempty"`   // bytes, default config.Memory.RAMSizeKiB*1024
	MaxCycles uint64 `json:"maxCycles,omitempty"` // default config.Execution.MaxCycles
}

// SessionCreateResponse is returned after a session is created.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse reports a session's current execution state.
type SessionStatusResponse struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	PC        uint32 `json:"pc"`
	Cycles    uint64 `json:"cycles"`
	ExitCode  int32  `json:"exitCode,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LoadProgramResponse is returned from POST .../load. The ELF image itself
// is sent as the raw request body rather than inside JSON; on success this
// reports the entry point, program break and section count.
type LoadProgramResponse struct {
	EntryPoint   uint32 `json:"entryPoint"`
	ProgramBreak uint32 `json:"programBreak"`
	Sections     int    `json:"sections"`
}

// RegistersResponse mirrors the 32 RV32I general-purpose registers.
type RegistersResponse struct {
	X      [32]uint32 `json:"x"`
	PC     uint32     `json:"pc"`
	Cycles uint64     `json:"cycles"`
}

// StepResponse is returned from POST .../step.
type StepResponse struct {
	Result string `json:"result"`
	PC     uint32 `json:"pc"`
	Error  string `json:"error,omitempty"`
}

// ErrorResponse is the JSON body for any non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
