// Package hostsrv exposes a running exec.Engine over a single WebSocket
// event stream, the narrow slice of the reference ARM emulator's multi-session HTTP API
// an external web UI actually needs. Grounded on the reference ARM emulator's
// api/broadcaster.go fan-out pattern and api/websocket.go's
// upgrade/read-pump/write-pump shape, narrowed from per-session
// subscriptions to one implicit stream since x366run serves exactly one
// engine per process.
package hostsrv

import "sync"

// EventType tags a BroadcastEvent's Data shape.
type EventType string

const (
	EventState     EventType = "state"
	EventOutput    EventType = "output"
	EventExecution EventType = "execution"
)

// BroadcastEvent is one message sent down the event stream.
type BroadcastEvent struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Broadcaster fans events out to every connected client, exactly like the
// reference emulator's Broadcaster but without the per-session filtering: every x366run
// process serves one engine, so every client sees every event.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[chan BroadcastEvent]bool
	broadcast  chan BroadcastEvent
	register   chan chan BroadcastEvent
	unregister chan chan BroadcastEvent
	done       chan struct{}
}

// NewBroadcaster creates and starts a broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[chan BroadcastEvent]bool),
		broadcast:  make(chan BroadcastEvent, 256),
		register:   make(chan chan BroadcastEvent),
		unregister: make(chan chan BroadcastEvent),
		done:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case ch := <-b.register:
			b.mu.Lock()
			b.clients[ch] = true
			b.mu.Unlock()

		case ch := <-b.unregister:
			b.mu.Lock()
			if b.clients[ch] {
				delete(b.clients, ch)
				close(ch)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for ch := range b.clients {
				select {
				case ch <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for ch := range b.clients {
				close(ch)
			}
			b.clients = make(map[chan BroadcastEvent]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new client channel with the broadcaster.
func (b *Broadcaster) Subscribe() chan BroadcastEvent {
	ch := make(chan BroadcastEvent, 64)
	b.register <- ch
	return ch
}

// Unsubscribe removes and closes a client channel.
func (b *Broadcaster) Unsubscribe(ch chan BroadcastEvent) {
	b.unregister <- ch
}

// Broadcast sends event to every subscribed client, dropping it if the
// broadcaster's internal queue is full rather than blocking the caller.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// Close shuts the broadcaster down and closes every subscription.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriberCount reports how many clients are currently connected.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
