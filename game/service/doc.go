// Package service provides the business logic layer for headless play.
//
// The service package implements:
//   - Multi-session game management, one world per session
//   - Input actions: screen clicks, canvas clicks, key presses, map travel
//   - Progression events derived from world state changes
//   - Frame rendering to PNG
//
// Core Interfaces:
//
// GameService is the main service interface used by the REST API and, through
// it, the MCP tools. SessionManager handles session creation, retrieval and
// expiry.
//
// Architecture:
//
// The service sits between the transport layer (HTTP/WebSocket/MCP) and the
// world. Each session owns its own world built from the shared game directory,
// so sessions never affect each other. Access to a single session's world is
// serialised by the session's mutex.
//
// Usage:
//
//	cfg, _ := config.NewManager("game")
//	loader, _ := assets.NewFileLoader("game")
//	gameService := service.NewGameService(session.NewManager(), cfg, loader, slog.Default())
//
//	info, err := gameService.CreateSession(ctx, service.SessionOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Click(ctx, info.ID, service.ClickRequest{X: 640, Y: 360})
package service
