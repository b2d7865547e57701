package hostsrv

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"x366/exec"
	"x366/isa"
)

// Server drives an exec.Engine to completion while streaming its state over
// a single "/events" WebSocket endpoint. It plays the role of the reference ARM emulator's
// api.Server, narrowed from session-routed REST+WebSocket to the one stream
// x366run's "serve" subcommand needs.
type Server struct {
	engine      *exec.Engine
	broadcaster *Broadcaster
	mux         *http.ServeMux
	httpServer  *http.Server
}

// New wraps engine's Host.Output so every PRINT_STRING/PRINT_CHAR/PRINT_INT
// syscall is also broadcast as an EventOutput message, alongside whatever
// sink the caller already installed (stdout, typically).
func New(engine *exec.Engine) *Server {
	broadcaster := NewBroadcaster()

	prevOutput := engine.Host.Output
	engine.Host.Output = func(s string) {
		if prevOutput != nil {
			prevOutput(s)
		}
		broadcaster.Broadcast(BroadcastEvent{
			Type: EventOutput,
			Data: map[string]interface{}{"text": s},
		})
	}

	s := &Server{
		engine:      engine,
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/events", s.handleWebSocket)
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "halted=%t subscribers=%d", s.engine.Halted(), s.broadcaster.SubscriberCount())
}

// ListenAndServe starts the HTTP server on addr and drives the engine's
// run loop until it halts or errors, broadcasting a state event after every
// step and a terminal execution event at the end.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()
	go s.runEngine()

	err := <-errCh
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and the broadcaster.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) runEngine() {
	for !s.engine.Halted() {
		s.broadcastState()
		if err := s.engine.Step(); err != nil {
			s.broadcaster.Broadcast(BroadcastEvent{
				Type: EventExecution,
				Data: map[string]interface{}{"event": "error", "message": err.Error()},
			})
			return
		}
	}
	s.broadcastState()
	s.broadcaster.Broadcast(BroadcastEvent{
		Type: EventExecution,
		Data: map[string]interface{}{"event": "halt"},
	})
}

func (s *Server) broadcastState() {
	r := s.engine.Regs
	s.broadcaster.Broadcast(BroadcastEvent{
		Type: EventState,
		Data: map[string]interface{}{
			"pc":     r.PC,
			"ax":     r.Get(isa.AX),
			"bx":     r.Get(isa.BX),
			"cx":     r.Get(isa.CX),
			"dx":     r.Get(isa.DX),
			"halted": s.engine.Halted(),
		},
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(ch)
	defer conn.Close()

	for event := range ch {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
