package orbitsim

import (
	"image/color"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialStreamer(t *testing.T, s *FrameStreamer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return s.Clients() == 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFrameStreamerBroadcast(t *testing.T) {
	s := NewFrameStreamer(nil)
	defer s.Close()
	conn := dialStreamer(t, s)

	f := Frame{
		Tick:    12,
		Central: BodyView{X: 600, Y: 400, Radius: 45, Color: CentralColor},
		Bodies:  []BodyView{{X: 700, Y: 501, Radius: 30, Color: color.RGBA{G: 255, A: 255}}},
	}
	if err := s.Render(f); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Tick    uint64 `json:"tick"`
		Central struct {
			X, Y  int
			Color string `json:"color"`
		} `json:"central"`
		Bodies []struct {
			X      int     `json:"x"`
			Y      int     `json:"y"`
			Radius float64 `json:"radius"`
			Color  string  `json:"color"`
		} `json:"bodies"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got.Tick != 12 || got.Central.X != 600 || got.Central.Color != "#c80000" {
		t.Errorf("unexpected frame header: %+v", got)
	}
	if len(got.Bodies) != 1 || got.Bodies[0].X != 700 || got.Bodies[0].Color != "#00ff00" {
		t.Errorf("unexpected bodies: %+v", got.Bodies)
	}
}

func TestFrameStreamerCommands(t *testing.T) {
	s := NewFrameStreamer(nil)
	defer s.Close()
	conn := dialStreamer(t, s)

	if cmds := s.Poll(); len(cmds) != 0 {
		t.Fatalf("expected no commands yet, got %v", cmds)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"body":0,"delta_theta":0.2,"delta_phi":0.2}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.WriteJSON(Rewind(1)); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var cmds []Command
	waitFor(t, func() bool {
		cmds = append(cmds, s.Poll()...)
		return len(cmds) == 2
	})
	if cmds[0] != Advance(0) || cmds[1] != Rewind(1) {
		t.Errorf("got %+v", cmds)
	}
}

func TestFrameStreamerClose(t *testing.T) {
	s := NewFrameStreamer(nil)
	conn := dialStreamer(t, s)

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.Clients() != 0 {
		t.Errorf("clients after Close: %d", s.Clients())
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected a going-away close, got %v", err)
	}
}

func TestFrameStreamerRejectsPlainHTTP(t *testing.T) {
	s := NewFrameStreamer(nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/frames", nil))
	if rec.Code < 400 {
		t.Errorf("status: got %d, want an error", rec.Code)
	}
	if s.Clients() != 0 {
		t.Errorf("plain request registered as a client")
	}
}
