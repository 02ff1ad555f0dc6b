package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"securechat/internal/config"
	"securechat/internal/core"
	"securechat/internal/proto"
)

func startTestServer(t *testing.T) (*httptest.Server, *core.Hub) {
	t.Helper()
	return startTestServerWithConfig(t, config.Default())
}

func startTestServerWithConfig(t *testing.T, cfg config.Config) (*httptest.Server, *core.Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := core.NewHub(nil, nil, nil)
	go hub.Run(ctx)

	cfg.Addr = ":0"
	server := NewServer(hub, cfg, testLogger())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readEvent reads outbound frames until one matches the wanted event name.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if outbound.Type == proto.OutboundTypeError && event != "error" {
			t.Fatalf("unexpected error frame: %+v", outbound.Error)
		}
		if event == "error" && outbound.Type == proto.OutboundTypeError {
			data, _ := json.Marshal(outbound.Error)
			return data
		}
		if outbound.Event == event {
			return outbound.Data
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinHistoryAndMessage(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, ts)
	connB := dial(t, ctx, ts)

	send(t, ctx, connA, proto.InboundTypeHello, proto.HelloData{User: "alice"})
	send(t, ctx, connB, proto.InboundTypeHello, proto.HelloData{User: "bob"})

	send(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "general"})
	var histA proto.EventHistory
	if err := json.Unmarshal(readEvent(t, ctx, connA, "history"), &histA); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if histA.Room != "general" || len(histA.Messages) != 0 {
		t.Fatalf("unexpected first history: %+v", histA)
	}

	send(t, ctx, connA, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "hi there"})
	var echo proto.EventMessage
	if err := json.Unmarshal(readEvent(t, ctx, connA, "message"), &echo); err != nil {
		t.Fatalf("unmarshal echo: %v", err)
	}
	if echo.SenderName != "alice" || echo.Text != "hi there" || echo.Room != "general" || echo.ID != 1 {
		t.Fatalf("unexpected echo payload: %+v", echo)
	}

	// The second joiner gets the logged message as private history.
	send(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "general"})
	var histB proto.EventHistory
	if err := json.Unmarshal(readEvent(t, ctx, connB, "history"), &histB); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(histB.Messages) != 1 || histB.Messages[0].Text != "hi there" {
		t.Fatalf("unexpected second history: %+v", histB)
	}

	// The existing member sees the join notice.
	var status proto.EventStatus
	if err := json.Unmarshal(readEvent(t, ctx, connA, "status"), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.Text != "bob has entered the room." {
		t.Fatalf("unexpected status: %+v", status)
	}

	send(t, ctx, connB, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "hello alice", Obfuscated: false})
	var msg proto.EventMessage
	if err := json.Unmarshal(readEvent(t, ctx, connA, "message"), &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.SenderName != "bob" || msg.Text != "hello alice" || msg.ID != 2 {
		t.Fatalf("unexpected message payload: %+v", msg)
	}
}

func TestWebSocketUnknownTypeReturnsError(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var errPayload proto.Error
	if err := json.Unmarshal(readEvent(t, ctx, conn, "error"), &errPayload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errPayload.Code != core.ErrCodeInvalidMessage {
		t.Fatalf("unexpected error code: %+v", errPayload)
	}
}

func TestWebSocketRateLimitedFramesAreRejected(t *testing.T) {
	cfg := config.Default()
	cfg.MessageRateLimit = 2
	ts, _ := startTestServerWithConfig(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{User: "chatty"})
	send(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: "general"})
	readEvent(t, ctx, conn, "history")

	// The third frame in the window is rejected with an error frame.
	send(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "one too many"})
	var errPayload proto.Error
	if err := json.Unmarshal(readEvent(t, ctx, conn, "error"), &errPayload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errPayload.Code != core.ErrCodeRateLimited {
		t.Fatalf("unexpected error code: %+v", errPayload)
	}

	// The connection stays up: later frames still get answers.
	send(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "still here"})
	if err := json.Unmarshal(readEvent(t, ctx, conn, "error"), &errPayload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errPayload.Code != core.ErrCodeRateLimited {
		t.Fatalf("connection should keep answering: %+v", errPayload)
	}
}

func TestWebSocketSendWithoutJoinRejected(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{User: "drifter"})
	send(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "hi"})

	var errPayload proto.Error
	if err := json.Unmarshal(readEvent(t, ctx, conn, "error"), &errPayload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errPayload.Code != core.ErrCodeNotMember {
		t.Fatalf("unexpected error code: %+v", errPayload)
	}
}
