package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/matrixsmaster/NanoRVI/config"
)

// Server is the HTTP+WebSocket API surface for driving a VM session
// remotely: session create/load/step/run/reset plus a streamed event
// feed over WebSocket. Scoped down from the teacher's much larger route
// table (config/examples/watchpoints/expression-evaluation endpoints
// drop with the gui/service/tools packages that backed them) to the
// session lifecycle and event stream SPEC_FULL.md names.
type Server struct {
	sessions    *SessionManager
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int
}

// NewServer builds a server bound to port, using cfg for session defaults.
func NewServer(port int, cfg *config.Config) *Server {
	broadcaster := NewBroadcaster()

	s := &Server{
		sessions:    NewSessionManager(cfg, broadcaster),
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
		port:        port,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler with CORS middleware applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/v1/session", s.handleSession)
	s.mux.HandleFunc("/api/v1/session/", s.handleSessionRoute)
}

// Start runs the HTTP server until it is shut down or fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("api server starting on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and disconnects WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAllowedOrigin restricts CORS to localhost origins, matching the
// teacher's policy of never trusting a remote origin for a local tool.
func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "file://") {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"time":     time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SessionCreateRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	session := s.sessions.Create(req.RAMSize, req.MaxCycles)
	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleSessionRoute dispatches /api/v1/session/{id}/{action}.
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "session ID required")
		return
	}

	session := s.sessions.Get(parts[0])
	if session == nil {
		writeError(w, http.StatusNotFound, "unknown session "+parts[0])
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, session.Status())
		case http.MethodDelete:
			s.sessions.Delete(session.ID)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch parts[1] {
	case "load":
		s.handleLoadProgram(w, r, session)
	case "step":
		s.handleStep(w, r, session)
	case "run":
		s.handleRun(w, r, session)
	case "reset":
		s.handleReset(w, r, session)
	case "registers":
		writeJSON(w, http.StatusOK, session.Registers())
	default:
		writeError(w, http.StatusNotFound, "unknown action: "+parts[1])
	}
}

func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16*1024*1024))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}

	result, err := session.LoadProgram(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.broadcaster.BroadcastState(session.ID, map[string]interface{}{"event": "loaded"})
	writeJSON(w, http.StatusOK, LoadProgramResponse{
		EntryPoint:   result.EntryPoint,
		ProgramBreak: result.ProgramBreak,
		Sections:     result.Sections,
	})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := session.Step()
	resp := StepResponse{Result: result.String(), PC: session.VM.CPU.PC}
	if err != nil {
		resp.Error = err.Error()
	}
	s.broadcaster.BroadcastState(session.ID, map[string]interface{}{"event": "step", "pc": resp.PC})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := session.Run()
	resp := StepResponse{Result: result.String(), PC: session.VM.CPU.PC}
	if err != nil {
		resp.Error = err.Error()
	}
	s.broadcaster.BroadcastState(session.ID, map[string]interface{}{"event": "run-stopped", "pc": resp.PC})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session.Reset()
	s.broadcaster.BroadcastState(session.ID, map[string]interface{}{"event": "reset"})
	writeJSON(w, http.StatusOK, session.Status())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1024*1024))
	return decoder.Decode(v)
}
