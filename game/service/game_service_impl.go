package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
	"github.com/wricardo/location-quest/game/world"
)

var (
	ErrGameFinished = errors.New("game has been quit")
	ErrInvalidInput = errors.New("invalid input")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  *config.Manager
	loader   assets.Loader
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs *config.Manager, loader assets.Loader, logger *slog.Logger) GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		loader:   loader,
		logger:   logger.With("component", "service"),
	}
}

// CreateSession builds a fresh world from the game directory
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w, err := world.Load(s.configs, s.loader, rand.New(rand.NewSource(seed)), s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}

	sess, err := s.sessions.Create("", w)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.Seed = seed

	s.logger.Info("session created", "session", sess.ID, "seed", seed)
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	s.logger.Info("session deleted", "session", sessionID)
	return nil
}

// GetGameState returns a snapshot of the session's world
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*world.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	state := sess.World.State()
	return &state, nil
}

// Click sends a left click. Positions in virtual or canvas space are
// converted to the window first, so every click goes through the same routing.
func (s *gameServiceImpl) Click(ctx context.Context, sessionID string, req ClickRequest) (*ActionResult, error) {
	return s.act(sessionID, func(w *world.World) (bool, string, error) {
		pos, err := screenPosition(w, req)
		if err != nil {
			return false, "", err
		}

		w.HandleEvents([]input.Event{
			input.MouseDownEvent(pos.X, pos.Y, input.ButtonLeft),
			input.MouseUpEvent(pos.X, pos.Y, input.ButtonLeft),
		})
		return true, fmt.Sprintf("Clicked screen position (%d, %d)", pos.X, pos.Y), nil
	})
}

// PressKey sends a key release
func (s *gameServiceImpl) PressKey(ctx context.Context, sessionID, key string) (*ActionResult, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidInput)
	}

	return s.act(sessionID, func(w *world.World) (bool, string, error) {
		w.HandleEvent(input.KeyUpEvent(input.Key(key)))
		return true, fmt.Sprintf("Pressed %q", key), nil
	})
}

// Travel opens the map and clicks the centre of the location's map button
func (s *gameServiceImpl) Travel(ctx context.Context, sessionID string, locationID int) (*ActionResult, error) {
	return s.act(sessionID, func(w *world.World) (bool, string, error) {
		pos, err := w.MapButtonScreenPos(locationID)
		if err != nil {
			return false, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		opened := false
		if !w.ShowingMap() {
			w.ToggleMap()
			opened = true
		}
		w.HandleEvents([]input.Event{
			input.MouseDownEvent(pos.X, pos.Y, input.ButtonLeft),
			input.MouseUpEvent(pos.X, pos.Y, input.ButtonLeft),
		})

		if w.ShowingMap() || w.Active().ID() != locationID {
			if opened && w.ShowingMap() {
				w.ToggleMap()
			}
			return false, fmt.Sprintf("Location %d is not reachable yet", locationID), nil
		}
		return true, fmt.Sprintf("Travelled to %s", w.Active().Name()), nil
	})
}

// RenderFrame writes the current frame, scaled to the window, as PNG
func (s *gameServiceImpl) RenderFrame(ctx context.Context, sessionID string, out io.Writer) error {
	s.mu.RLock()
	sess, err := s.touch(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	sess.Lock()
	size := sess.World.WindowSize()
	frame := assets.NewCanvas(size.X, size.Y)
	assets.ScaleInto(frame, frame.Bounds(), sess.World.Draw())
	sess.Unlock()

	if err := png.Encode(out, frame); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// act runs one action against a session's world and reports what changed
func (s *gameServiceImpl) act(sessionID string, action func(w *world.World) (bool, string, error)) (*ActionResult, error) {
	s.mu.RLock()
	sess, err := s.touch(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	w := sess.World
	if w.Done() {
		return nil, ErrGameFinished
	}

	before := w.State()
	success, message, err := action(w)
	if err != nil {
		return nil, err
	}
	w.Update()
	after := w.State()

	events := diffStates(before, after, time.Now())
	for _, ev := range events {
		s.logger.Debug("game event", "session", sess.ID, "type", ev.Type, "location", ev.LocationID)
	}

	return &ActionResult{
		Success: success,
		Message: message,
		State:   &after,
		Events:  events,
	}, nil
}

func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	sess.Lock()
	state := sess.World.State()
	sess.Unlock()

	info := &SessionInfo{
		ID:             sess.ID,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          &state,
	}
	if settings := s.configs.Settings(); settings != nil {
		info.Title = settings.Title
	}
	return info
}

// screenPosition converts a click request into window coordinates
func screenPosition(w *world.World, req ClickRequest) (image.Point, error) {
	p := image.Pt(req.X, req.Y)

	switch strings.ToLower(req.Space) {
	case "", SpaceScreen:
		return p, nil
	case SpaceVirtual:
		return w.ScreenPos(p), nil
	case SpaceCanvas:
		if w.ShowingMap() {
			return image.Point{}, fmt.Errorf("%w: canvas clicks need the map closed", ErrInvalidInput)
		}
		pos, ok := w.Active().ScreenCoordinates(p)
		if !ok {
			return image.Point{}, fmt.Errorf("%w: location %d has no mini-game", ErrInvalidInput, w.Active().ID())
		}
		return pos, nil
	default:
		return image.Point{}, fmt.Errorf("%w: unknown coordinate space %q", ErrInvalidInput, req.Space)
	}
}
