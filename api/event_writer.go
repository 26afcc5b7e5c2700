package api

// EventWriter implements io.Writer, forwarding every write as an output
// event on a session's broadcast stream. Installed as a VM session's
// stdout sink so guest console output reaches subscribed WebSocket clients.
type EventWriter struct {
	sessionID   string
	broadcaster *Broadcaster
}

// NewEventWriter builds a writer that publishes to broadcaster under sessionID.
func NewEventWriter(sessionID string, broadcaster *Broadcaster) *EventWriter {
	return &EventWriter{sessionID: sessionID, broadcaster: broadcaster}
}

func (w *EventWriter) Write(p []byte) (int, error) {
	w.broadcaster.BroadcastOutput(w.sessionID, string(p))
	return len(p), nil
}
