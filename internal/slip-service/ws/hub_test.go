package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitSubscribers(t *testing.T, h *Hub, id string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers(id) != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers(%s) = %d, want %d", id, h.Subscribers(id), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	h := NewHub(func(*http.Request) bool { return true }, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(ClientMsg{Type: "subscribe", SessionID: "s-1"}); err != nil {
		t.Fatal(err)
	}
	waitSubscribers(t, h, "s-1", 1)

	// outra sessão não chega a este cliente
	h.Broadcast(events.SessionUpdate{SessionID: "s-2", Kind: events.SessionReset})
	h.Broadcast(events.SessionUpdate{SessionID: "s-1", Kind: events.SessionMarketAdded, MarketCount: 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got events.SessionUpdate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.SessionID != "s-1" || got.Kind != events.SessionMarketAdded || got.MarketCount != 3 {
		t.Errorf("update = %+v", got)
	}
}

func TestHub_PingAndUnsubscribe(t *testing.T) {
	h := NewHub(func(*http.Request) bool { return true }, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	conn.WriteJSON(ClientMsg{Type: "ping"})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong map[string]string
	if err := conn.ReadJSON(&pong); err != nil || pong["type"] != "pong" {
		t.Fatalf("pong = %v, err = %v", pong, err)
	}

	conn.WriteJSON(ClientMsg{Type: "subscribe", SessionID: "s-1"})
	waitSubscribers(t, h, "s-1", 1)
	conn.WriteJSON(ClientMsg{Type: "unsubscribe", SessionID: "s-1"})
	waitSubscribers(t, h, "s-1", 0)
}
