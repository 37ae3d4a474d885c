// Package websocket pushes game updates to browsers and other watchers.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each connection gets a read pump and a write pump
// goroutine; the hub's own goroutine is the only one that touches the
// registry of clients, so broadcasts from HTTP handlers are queued on a
// buffered channel instead of writing to clients directly.
//
// Message Protocol:
//
// Messages are JSON objects, one per WebSocket frame:
//   - {"session_id": "3f2a9c1b", "event": "state_update", "state": {...}}
//     after every action, carrying the full world snapshot
//   - {"session_id": "3f2a9c1b", "event": "location_unlocked", "data": {...}}
//     for each progression event the action produced
//
// Clients choose their session with the ?session= query parameter. They are
// not expected to send anything; incoming frames only keep the connection
// alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Cancelling the context passed to Run closes every connection.
package websocket
