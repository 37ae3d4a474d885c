package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/wricardo/location-quest/game/world"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Click(ctx context.Context, sessionID string, req ClickRequest) (*ActionResult, error)
	PressKey(ctx context.Context, sessionID, key string) (*ActionResult, error)
	Travel(ctx context.Context, sessionID string, locationID int) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*world.State, error)
	RenderFrame(ctx context.Context, sessionID string, w io.Writer) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, w *world.World) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// Session is one independent playthrough
type Session struct {
	ID             string
	World          *world.World
	Seed           int64
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock serialises access to the session's world
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}
