package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func dialAnimation(t *testing.T, env *testEnv, query string) (*websocket.Conn, context.Context) {
	t.Helper()

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/staircase?" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) wsMessage {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	return msg
}

func TestAnimate_StreamsEveryPath(t *testing.T) {
	env := newTestEnv(t)
	conn, ctx := dialAnimation(t, env, "n=3&interval_ms=2")

	start := readMessage(t, ctx, conn)
	if start.Type != "start" || start.Total != 3 || start.StreamID == "" {
		t.Fatalf("Unexpected start message %+v", start)
	}

	want := []string{"1/3: +1 +1 +1", "2/3: +1 +2", "3/3: +2 +1"}
	for i, label := range want {
		msg := readMessage(t, ctx, conn)
		if msg.Type != "frame" || msg.Frame == nil {
			t.Fatalf("Frame %d: unexpected message %+v", i+1, msg)
		}
		if msg.Frame.Label != label {
			t.Errorf("Frame %d: expected %q, got %q", i+1, label, msg.Frame.Label)
		}
		if msg.StreamID != start.StreamID {
			t.Errorf("Frame %d: stream ID changed", i+1)
		}
		if len(msg.Primitives) == 0 {
			t.Errorf("Frame %d: no primitives", i+1)
		}
	}

	if end := readMessage(t, ctx, conn); end.Type != "done" {
		t.Errorf("Expected done, got %+v", end)
	}
}

func TestAnimate_Stop(t *testing.T) {
	env := newTestEnv(t)
	// 10 steps have 89 paths; at 50ms a frame the stream would run for
	// several seconds without the stop.
	conn, ctx := dialAnimation(t, env, "n=10&interval_ms=50")

	if start := readMessage(t, ctx, conn); start.Type != "start" {
		t.Fatalf("Unexpected start message %+v", start)
	}
	if first := readMessage(t, ctx, conn); first.Type != "frame" {
		t.Fatalf("Unexpected first message %+v", first)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"stop"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for {
		msg := readMessage(t, ctx, conn)
		if msg.Type == "frame" {
			continue
		}
		if msg.Type != "stopped" {
			t.Fatalf("Expected stopped, got %+v", msg)
		}
		if msg.Frame != nil {
			t.Error("Stopped message carries a frame")
		}
		return
	}
}

func TestAnimate_RejectsBadParameters(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/ws/staircase?n=21",
		"/ws/staircase?n=3&interval_ms=0",
		"/ws/staircase",
	} {
		if code := env.do(t, http.MethodGet, target, "", nil); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, code)
		}
	}
}
