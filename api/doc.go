// Package api provides the HTTP REST API over the game service.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"seed": 42} is optional
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session and disconnect its watchers
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current world snapshot
//   - POST /api/sessions/{id}/click - {"x": 300, "y": 300, "space": "screen|virtual|canvas"}
//   - POST /api/sessions/{id}/key - {"key": "m"}
//   - POST /api/sessions/{id}/map - {"location_id": 2} opens the map and clicks the location
//   - GET /api/sessions/{id}/frame.png - The current frame at window size
//
// Other:
//   - GET /ws?session={id} - WebSocket stream of state updates and progression events
//   - GET /health - Liveness probe
//
// Every action responds with the action result: success flag, message,
// the state after the action and the events it produced. The same state and
// events are pushed to the session's WebSocket clients.
//
// Error Handling:
//
// Errors are returned as JSON, {"error": "error message"}, with 404 for an
// unknown session, 400 for malformed input, 409 once the player has quit the
// session and 500 otherwise.
package api
