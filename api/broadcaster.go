package api

import "sync"

// EventType identifies the kind of event a BroadcastEvent carries.
type EventType string

const (
	EventTypeState     EventType = "state"
	EventTypeOutput    EventType = "output"
	EventTypeExecution EventType = "execution"
)

// BroadcastEvent is a single message fanned out to subscribed WebSocket
// clients, carrying a session state change or a chunk of guest output.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription represents one client's filtered view of the event stream.
type Subscription struct {
	SessionID string
	Channel   chan BroadcastEvent
}

// Broadcaster fans out BroadcastEvents to any number of subscribers,
// filtered by session ID, without ever blocking the publisher.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts a broadcaster's event loop in the background.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new subscription, optionally filtered to one session.
func (b *Broadcaster) Subscribe(sessionID string) *Subscription {
	sub := &Subscription{
		SessionID: sessionID,
		Channel:   make(chan BroadcastEvent, 64),
	}
	b.register <- sub
	return sub
}

// Unsubscribe removes and closes a subscription.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast publishes event to all matching subscribers without blocking.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastState publishes a VM state-change event.
func (b *Broadcaster) BroadcastState(sessionID string, data map[string]interface{}) {
	b.Broadcast(BroadcastEvent{Type: EventTypeState, SessionID: sessionID, Data: data})
}

// BroadcastOutput publishes guest stdout output.
func (b *Broadcaster) BroadcastOutput(sessionID, content string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeOutput,
		SessionID: sessionID,
		Data:      map[string]interface{}{"content": content},
	})
}

// Close shuts down the broadcaster and disconnects all subscribers.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
