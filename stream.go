package orbitsim

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	streamWriteWait    = 2 * time.Second
	streamCommandQueue = 64
)

// FrameStreamer is an http.Handler that upgrades clients to websockets and
// broadcasts every rendered frame to them as JSON. Clients may send Command
// objects back; they are queued and handed out by Poll before the next tick.
type FrameStreamer struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	commands chan Command
}

// NewFrameStreamer returns a streamer accepting any origin. A nil logger
// discards output.
func NewFrameStreamer(logger *slog.Logger) *FrameStreamer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FrameStreamer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:   logger,
		clients:  make(map[*websocket.Conn]struct{}),
		commands: make(chan Command, streamCommandQueue),
	}
}

// ServeHTTP upgrades the connection and reads commands until the client
// goes away.
func (s *FrameStreamer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("frame client connected", "remote", r.RemoteAddr)
	defer s.drop(conn)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("frame client read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		select {
		case s.commands <- cmd:
		default:
			s.logger.Warn("command queue full, dropping command", "body", cmd.Body)
		}
	}
}

// Render broadcasts f to every connected client. A client that cannot keep
// up is disconnected; the frame is never retried.
func (s *FrameStreamer) Render(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	msg, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WritePreparedMessage(msg); err != nil {
			s.logger.Warn("dropping frame client", "remote", conn.RemoteAddr().String(), "err", err)
			delete(s.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// Poll drains the commands received since the last call without blocking.
func (s *FrameStreamer) Poll() []Command {
	var cmds []Command
	for {
		select {
		case cmd := <-s.commands:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

// Clients returns the number of connected clients.
func (s *FrameStreamer) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *FrameStreamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation stopped"),
			time.Now().Add(streamWriteWait))
		conn.Close()
		delete(s.clients, conn)
	}
	return nil
}

func (s *FrameStreamer) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}
