package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/location-quest/game/world"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected buffered broadcast channel, got capacity %d", cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub(nil)

	client := &Client{
		hub:       hub,
		sessionID: "abcd1234",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.sessions["abcd1234"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["abcd1234"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["abcd1234"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub(nil)

	client := &Client{
		hub:       hub,
		sessionID: "abcd1234",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["abcd1234"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// unregistering twice is harmless
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub(nil)
	sessionID := "multi"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub(nil)

	client := &Client{hub: hub, sessionID: "state", send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		SessionID: "state",
		Event:     EventStateUpdate,
		State:     &world.State{ActiveLocationID: 3, ShowMap: true},
	})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %q", EventStateUpdate, message.Event)
		}
		if message.State == nil || message.State.ActiveLocationID != 3 || !message.State.ShowMap {
			t.Errorf("State not correctly transmitted: %+v", message.State)
		}
	default:
		t.Error("No message queued for client")
	}

	if len(other.send) != 0 {
		t.Error("Clients of other sessions must not receive the message")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)

	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "ping"})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Expected slow client to be dropped")
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub(nil)

	hub.BroadcastEvent("event-test", "location_unlocked", 2)

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != "location_unlocked" {
			t.Errorf("Expected event 'location_unlocked', got %s", message.Event)
		}
		if message.Data != 2 {
			t.Errorf("Expected data 2, got %v", message.Data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message received within timeout")
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub, "ws-test")

	waitForClients(t, hub, "ws-test", 1)

	conn.Close()

	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub, "msg-test")
	waitForClients(t, hub, "msg-test", 1)

	hub.BroadcastState("msg-test", &world.State{
		ActiveLocationID: 2,
		WindowWidth:      1280,
		WindowHeight:     720,
		Locations:        []world.LocationState{{ID: 2, Name: "Gallery", Unlocked: true}},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.State == nil || message.State.ActiveLocationID != 2 || len(message.State.Locations) != 1 {
		t.Errorf("State not correctly received: %+v", message.State)
	}
}

func TestCloseSession(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub, "closing")
	waitForClients(t, hub, "closing", 1)

	hub.CloseSession("closing")
	waitForClients(t, hub, "closing", 0)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed")
	}
}

func TestHubStopsWithContext(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// calls after shutdown must not block
	hub.BroadcastEvent("any", "quit", nil)
	if n := hub.ClientCount("any"); n != 0 {
		t.Errorf("Expected 0 clients, got %d", n)
	}
}
