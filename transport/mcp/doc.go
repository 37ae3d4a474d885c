// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API of a running server, so agents and browsers share the same
// sessions and WebSocket watchers see what an agent does.
//
// MCP Tools:
//   - create_session: Create a session, optionally with a shuffle seed
//   - list_sessions: List all active sessions
//   - game_state: Locations with their lock and solve status
//   - click: Left click in screen, virtual or canvas coordinates
//   - press_key: Press a key (map toggle, quit)
//   - travel: Open the map and enter an unlocked location
//   - screenshot: The current frame as a PNG image
//   - game_instructions: Rules of the map and every mini-game
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
