package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/truco/internal/game"
)

// Server is the websocket front of the session layer. It owns the
// connection set and implements session.Sender for event fan-out.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	router      *Router
	httpServer  *http.Server
}

// NewServer creates a new websocket server.
func NewServer(addr string, router *Router, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The rooms are invite-by-id; origin checking is the
				// reverse proxy's job in production.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		router:      router,
	}
	router.sender = s
	return s
}

// Start starts the websocket server and blocks until it exits.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting websocket server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server and closes every connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				if playerID := conn.GetPlayer(); playerID != "" {
					// Start the grace window; the session layer decides
					// whether the seat survives.
					s.router.manager.PlayerDisconnected(playerID)
				}
				_ = conn.Close()
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles websocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.router)
	s.register <- client
	client.Start()

	go func() {
		<-client.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// SendToPlayer sends a message to a specific player's connection.
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			return conn.SendMessage(msg)
		}
	}
	return fmt.Errorf("player not connected: %s", playerID)
}

// SendEvent implements session.Sender.
func (s *Server) SendEvent(playerID, tableID string, e game.Event) {
	msg, err := NewMessage(MessageTypeGameEvent, GameEventData{
		TableID: tableID,
		Event:   e.EventType(),
		Payload: e,
	})
	if err != nil {
		s.logger.Error("Failed to encode event", "error", err, "event", e.EventType())
		return
	}
	_ = s.SendToPlayer(playerID, msg)
}

// SendView implements session.Sender.
func (s *Server) SendView(playerID string, view game.TableView) {
	msg, err := NewMessage(MessageTypeTableView, view)
	if err != nil {
		s.logger.Error("Failed to encode view", "error", err)
		return
	}
	_ = s.SendToPlayer(playerID, msg)
}
