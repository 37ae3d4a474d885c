package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"testing"
	"time"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/demo"
	"github.com/wricardo/location-quest/game/service"
	"github.com/wricardo/location-quest/game/world"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, w *world.World) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session := &service.Session{
		ID:             id,
		World:          w,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return errors.New("session not found")
	}
	session.LastAccessedAt = time.Now()
	return nil
}

func newTestService(t *testing.T) service.GameService {
	t.Helper()

	dir := t.TempDir()
	if err := demo.Write(dir); err != nil {
		t.Fatalf("Failed to write demo: %v", err)
	}
	cfg, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	loader, err := assets.NewFileLoader(dir)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	return service.NewGameService(NewMockSessionManager(), cfg, loader, nil)
}

func newTestSession(t *testing.T, svc service.GameService) string {
	t.Helper()

	info, err := svc.CreateSession(context.Background(), service.SessionOptions{Seed: 42})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func hasEvent(events []service.GameEvent, eventType string, locationID int) bool {
	for _, ev := range events {
		if ev.Type == eventType && ev.LocationID == locationID {
			return true
		}
	}
	return false
}

// pressEntranceButton clicks the demo entrance's button in canvas space
func pressEntranceButton(t *testing.T, svc service.GameService, id string) *service.ActionResult {
	t.Helper()

	result, err := svc.Click(context.Background(), id, service.ClickRequest{X: 175, Y: 200, Space: service.SpaceCanvas})
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	return result
}

func TestGameService_CreateSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.SessionOptions{Seed: 7})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if info.ID == "" {
		t.Error("Expected session ID")
	}
	if info.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", info.Seed)
	}
	if info.Title != "Location Quest Demo" {
		t.Errorf("Expected demo title, got %q", info.Title)
	}
	if info.State == nil || info.State.ActiveLocationID != 1 {
		t.Fatalf("Expected session to start in location 1, got %+v", info.State)
	}
	if info.State.WindowWidth != 1280 || info.State.WindowHeight != 720 {
		t.Errorf("Expected 1280x720 window, got %dx%d", info.State.WindowWidth, info.State.WindowHeight)
	}

	random, err := svc.CreateSession(ctx, service.SessionOptions{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if random.Seed == 0 {
		t.Error("Expected a seed to be chosen")
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}
}

func TestGameService_GetAndDeleteSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := newTestSession(t, svc)

	info, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.ID != id {
		t.Errorf("Expected %s, got %s", id, info.ID)
	}

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); err == nil {
		t.Error("Expected error for deleted session")
	}
	if err := svc.DeleteSession(ctx, id); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestGameService_ClickCompletesMiniGame(t *testing.T) {
	svc := newTestService(t)
	id := newTestSession(t, svc)

	result := pressEntranceButton(t, svc, id)
	if !result.Success {
		t.Fatalf("Expected click to succeed: %s", result.Message)
	}

	if !hasEvent(result.Events, service.EventMiniGameCompleted, 1) {
		t.Errorf("Expected completion event, got %+v", result.Events)
	}
	for _, next := range []int{2, 3} {
		if !hasEvent(result.Events, service.EventLocationUnlocked, next) {
			t.Errorf("Expected location %d to be unlocked, got %+v", next, result.Events)
		}
	}
	if hasEvent(result.Events, service.EventLocationUnlocked, 4) {
		t.Error("Location 4 must stay locked")
	}

	// a second press changes nothing
	again := pressEntranceButton(t, svc, id)
	if len(again.Events) != 0 {
		t.Errorf("Expected no events, got %+v", again.Events)
	}
}

func TestGameService_CanvasClickOnButtonEdge(t *testing.T) {
	svc := newTestService(t)
	id := newTestSession(t, svc)

	// (100,100) is the top-left corner of the entrance button
	result, err := svc.Click(context.Background(), id, service.ClickRequest{X: 100, Y: 100, Space: service.SpaceCanvas})
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if !hasEvent(result.Events, service.EventMiniGameCompleted, 1) {
		t.Errorf("Expected the edge click to press the button, got %+v", result.Events)
	}
}

func TestGameService_ClickSpaces(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := newTestSession(t, svc)

	tests := []struct {
		name    string
		req     service.ClickRequest
		wantErr bool
	}{
		{"screen default", service.ClickRequest{X: 10, Y: 10}, false},
		{"virtual", service.ClickRequest{X: 10, Y: 10, Space: "virtual"}, false},
		{"canvas upper case", service.ClickRequest{X: 10, Y: 10, Space: "CANVAS"}, false},
		{"unknown", service.ClickRequest{X: 10, Y: 10, Space: "world"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Click(ctx, id, tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Click() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := svc.Click(ctx, "missing", service.ClickRequest{}); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_Travel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := newTestSession(t, svc)

	locked, err := svc.Travel(ctx, id, 2)
	if err != nil {
		t.Fatalf("Travel failed: %v", err)
	}
	if locked.Success {
		t.Error("Expected travel to a locked location to fail")
	}
	if locked.State.ShowMap {
		t.Error("Expected the map to be closed again")
	}
	if locked.State.ActiveLocationID != 1 {
		t.Errorf("Expected to stay in location 1, got %d", locked.State.ActiveLocationID)
	}

	pressEntranceButton(t, svc, id)

	result, err := svc.Travel(ctx, id, 2)
	if err != nil {
		t.Fatalf("Travel failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected travel to succeed: %s", result.Message)
	}
	if result.State.ActiveLocationID != 2 {
		t.Errorf("Expected location 2, got %d", result.State.ActiveLocationID)
	}
	if !hasEvent(result.Events, service.EventLocationEntered, 2) {
		t.Errorf("Expected location_entered event, got %+v", result.Events)
	}

	gallery, _ := result.State.Location(2)
	if !gallery.ShowIntro {
		t.Error("Expected gallery intro to be showing")
	}

	// the first click only dismisses the intro
	dismissed, err := svc.Click(ctx, id, service.ClickRequest{X: 640, Y: 360})
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if !hasEvent(dismissed.Events, service.EventIntroDismissed, 2) {
		t.Errorf("Expected intro_dismissed event, got %+v", dismissed.Events)
	}

	if _, err := svc.Travel(ctx, id, 99); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown location, got %v", err)
	}
}

func TestGameService_PressKey(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := newTestSession(t, svc)

	result, err := svc.PressKey(ctx, id, "M")
	if err != nil {
		t.Fatalf("PressKey failed: %v", err)
	}
	if !result.State.ShowMap {
		t.Error("Expected map to be open")
	}
	if len(result.Events) != 1 || result.Events[0].Type != service.EventMapOpened {
		t.Errorf("Expected map_opened event, got %+v", result.Events)
	}

	result, err = svc.PressKey(ctx, id, "m")
	if err != nil {
		t.Fatalf("PressKey failed: %v", err)
	}
	if result.State.ShowMap {
		t.Error("Expected map to be closed")
	}

	if _, err := svc.PressKey(ctx, id, " "); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty key, got %v", err)
	}

	quit, err := svc.PressKey(ctx, id, "q")
	if err != nil {
		t.Fatalf("PressKey failed: %v", err)
	}
	if !quit.State.Done || !hasEvent(quit.Events, service.EventQuit, 0) {
		t.Errorf("Expected quit, got %+v", quit)
	}

	if _, err := svc.PressKey(ctx, id, "m"); !errors.Is(err, service.ErrGameFinished) {
		t.Errorf("Expected ErrGameFinished, got %v", err)
	}
}

func TestGameService_GetGameState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := newTestSession(t, svc)

	state, err := svc.GetGameState(ctx, id)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if len(state.Locations) != 4 {
		t.Fatalf("Expected 4 locations, got %d", len(state.Locations))
	}

	entrance, ok := state.Location(1)
	if !ok || !entrance.Unlocked || !entrance.Active {
		t.Errorf("Expected entrance to be unlocked and active, got %+v", entrance)
	}
	vault, _ := state.Location(4)
	if vault.Unlocked {
		t.Error("Expected vault to be locked")
	}
	if vault.MiniGame == "" {
		t.Errorf("Expected vault mini-game name, got %q", vault.MiniGame)
	}
}

func TestGameService_RenderFrame(t *testing.T) {
	svc := newTestService(t)
	id := newTestSession(t, svc)

	var buf bytes.Buffer
	if err := svc.RenderFrame(context.Background(), id, &buf); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}
	if img.Bounds().Dx() != 1280 || img.Bounds().Dy() != 720 {
		t.Errorf("Expected 1280x720 frame, got %v", img.Bounds())
	}

	if err := svc.RenderFrame(context.Background(), "missing", &buf); err == nil {
		t.Error("Expected error for unknown session")
	}
}
