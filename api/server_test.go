package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wricardo/location-quest/game/service"
	"github.com/wricardo/location-quest/game/session"
	"github.com/wricardo/location-quest/game/world"
	"github.com/wricardo/location-quest/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, opts service.SessionOptions) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	ClickFunc    func(ctx context.Context, sessionID string, req service.ClickRequest) (*service.ActionResult, error)
	PressKeyFunc func(ctx context.Context, sessionID, key string) (*service.ActionResult, error)
	TravelFunc   func(ctx context.Context, sessionID string, locationID int) (*service.ActionResult, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*world.State, error)
	RenderFrameFunc  func(ctx context.Context, sessionID string, w io.Writer) error
}

func notFound(sessionID string) error {
	return fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
}

func okResult() *service.ActionResult {
	return &service.ActionResult{Success: true, State: &world.State{ActiveLocationID: 1}, Events: []service.GameEvent{}}
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, opts service.SessionOptions) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, opts)
	}
	return &service.SessionInfo{ID: "abcd1234", Seed: opts.Seed, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Click(ctx context.Context, sessionID string, req service.ClickRequest) (*service.ActionResult, error) {
	if m.ClickFunc != nil {
		return m.ClickFunc(ctx, sessionID, req)
	}
	return okResult(), nil
}

func (m *MockGameService) PressKey(ctx context.Context, sessionID, key string) (*service.ActionResult, error) {
	if m.PressKeyFunc != nil {
		return m.PressKeyFunc(ctx, sessionID, key)
	}
	return okResult(), nil
}

func (m *MockGameService) Travel(ctx context.Context, sessionID string, locationID int) (*service.ActionResult, error) {
	if m.TravelFunc != nil {
		return m.TravelFunc(ctx, sessionID, locationID)
	}
	return okResult(), nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*world.State, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &world.State{ActiveLocationID: 1}, nil
}

func (m *MockGameService) RenderFrame(ctx context.Context, sessionID string, w io.Writer) error {
	if m.RenderFrameFunc != nil {
		return m.RenderFrameFunc(ctx, sessionID, w)
	}
	return png.Encode(w, image.NewRGBA(image.Rect(0, 0, 4, 3)))
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	hub := websocket.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return NewServer(mockService, hub, nil)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Create session with defaults",
			requestBody:    nil,
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "abcd1234" {
					t.Errorf("Expected session ID abcd1234, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with seed",
			requestBody: map[string]int64{"seed": 99},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.SessionOptions) (*service.SessionInfo, error) {
					if opts.Seed != 99 {
						t.Errorf("Expected seed 99, got %d", opts.Seed)
					}
					return &service.SessionInfo{ID: "seeded01", Seed: opts.Seed}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.Seed != 99 {
					t.Errorf("Expected seed 99, got %d", resp.Seed)
				}
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.SessionOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("failed to load world")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "failed to load world" {
					t.Errorf("Unexpected error message %q", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
				{ID: "new", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "mid", CreatedAt: now.Add(-90 * time.Minute), LastAccessedAt: now},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantTotal int
	}{
		{"default sorts by last access desc", "", []string{"mid", "old", "new"}, 3},
		{"created ascending", "?sort=created&order=asc", []string{"old", "mid", "new"}, 3},
		{"limit", "?limit=1", []string{"mid"}, 3},
		{"invalid limit ignored", "?limit=abc", []string{"mid", "old", "new"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != len(tt.wantIDs) || resp.Total != tt.wantTotal {
				t.Errorf("Expected count %d total %d, got %d/%d", len(tt.wantIDs), tt.wantTotal, resp.Count, resp.Total)
			}
			for i, id := range tt.wantIDs {
				if i >= len(resp.Sessions) || resp.Sessions[i].ID != id {
					t.Errorf("Expected session %d to be %s", i, id)
				}
			}
		})
	}
}

func TestListSessionsError(t *testing.T) {
	server := setupTestServer(t, &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return nil, fmt.Errorf("listing failed")
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "abcd1234" {
				return nil, notFound(sessionID)
			}
			return &service.SessionInfo{ID: sessionID, Title: "Demo"}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name           string
		sessionID      string
		expectedStatus int
	}{
		{"existing session", "abcd1234", http.StatusOK},
		{"unknown session", "nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/"+tt.sessionID, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return notFound(sessionID)
			}
			deleted = sessionID
			return nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/abcd1234", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "abcd1234" {
		t.Errorf("Expected abcd1234 to be deleted, got %q", deleted)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Game Operation Tests

func TestGetGameState(t *testing.T) {
	server := setupTestServer(t, &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*world.State, error) {
			return &world.State{
				ActiveLocationID: 2,
				Locations:        []world.LocationState{{ID: 2, Name: "Gallery", Unlocked: true, Next: []int{}}},
			}, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/abcd1234/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var state world.State
	parseResponse(t, w, &state)
	if state.ActiveLocationID != 2 || len(state.Locations) != 1 || state.Locations[0].Name != "Gallery" {
		t.Errorf("Unexpected state %+v", state)
	}
}

func TestClick(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		clickErr       error
		expectedStatus int
	}{
		{"screen click", map[string]interface{}{"x": 300, "y": 300}, nil, http.StatusOK},
		{"canvas click", map[string]interface{}{"x": 450, "y": 150, "space": "canvas"}, nil, http.StatusOK},
		{"invalid body", "not json", nil, http.StatusBadRequest},
		{"invalid input", map[string]interface{}{"x": 1, "y": 1, "space": "world"}, fmt.Errorf("%w: unknown coordinate space", service.ErrInvalidInput), http.StatusBadRequest},
		{"finished game", map[string]interface{}{"x": 1, "y": 1}, service.ErrGameFinished, http.StatusConflict},
		{"unknown session", map[string]interface{}{"x": 1, "y": 1}, notFound("abcd1234"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.ClickRequest
			mockService := &MockGameService{
				ClickFunc: func(ctx context.Context, sessionID string, req service.ClickRequest) (*service.ActionResult, error) {
					got = req
					if tt.clickErr != nil {
						return nil, tt.clickErr
					}
					return okResult(), nil
				},
			}
			server := setupTestServer(t, mockService)

			var req *http.Request
			if s, ok := tt.body.(string); ok {
				req = httptest.NewRequest("POST", "/api/sessions/abcd1234/click", strings.NewReader(s))
			} else {
				req = makeRequest("POST", "/api/sessions/abcd1234/click", tt.body)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.name == "canvas click" && (got.X != 450 || got.Y != 150 || got.Space != "canvas") {
				t.Errorf("Click request not decoded: %+v", got)
			}
		})
	}
}

func TestPressKey(t *testing.T) {
	var got string
	server := setupTestServer(t, &MockGameService{
		PressKeyFunc: func(ctx context.Context, sessionID, key string) (*service.ActionResult, error) {
			got = key
			return okResult(), nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/abcd1234/key", map[string]string{"key": "m"}))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got != "m" {
		t.Errorf("Expected key m, got %q", got)
	}
}

func TestTravel(t *testing.T) {
	server := setupTestServer(t, &MockGameService{
		TravelFunc: func(ctx context.Context, sessionID string, locationID int) (*service.ActionResult, error) {
			if locationID != 3 {
				return &service.ActionResult{Success: false, Message: "locked", State: &world.State{ActiveLocationID: 1}}, nil
			}
			return &service.ActionResult{
				Success: true,
				State:   &world.State{ActiveLocationID: 3},
				Events:  []service.GameEvent{{Type: service.EventLocationEntered, LocationID: 3}},
			}, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/abcd1234/map", map[string]int{"location_id": 3}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result service.ActionResult
	parseResponse(t, w, &result)
	if !result.Success || result.State.ActiveLocationID != 3 || len(result.Events) != 1 {
		t.Errorf("Unexpected result %+v", result)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/abcd1234/map", map[string]int{"location_id": 4}))
	parseResponse(t, w, &result)
	if result.Success {
		t.Error("Expected travel to a locked location to fail")
	}
}

func TestFrame(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/abcd1234/frame.png", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("Unexpected frame size %v", img.Bounds())
	}

	missing := setupTestServer(t, &MockGameService{
		RenderFrameFunc: func(ctx context.Context, sessionID string, w io.Writer) error {
			return notFound(sessionID)
		},
	})
	w = httptest.NewRecorder()
	missing.ServeHTTP(w, makeRequest("GET", "/api/sessions/missing/frame.png", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", resp)
	}
}

// WebSocket Tests

func TestWebSocketRequiresSession(t *testing.T) {
	server := setupTestServer(t, &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, notFound(sessionID)
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?session=missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestClickBroadcastsToWebSocket(t *testing.T) {
	mockService := &MockGameService{
		ClickFunc: func(ctx context.Context, sessionID string, req service.ClickRequest) (*service.ActionResult, error) {
			return &service.ActionResult{
				Success: true,
				State:   &world.State{ActiveLocationID: 1},
				Events:  []service.GameEvent{{Type: service.EventLocationUnlocked, LocationID: 2}},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)
	ts := httptest.NewServer(server)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=abcd1234"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for server.hub.ClientCount("abcd1234") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/api/sessions/abcd1234/click", "application/json", strings.NewReader(`{"x":1,"y":2}`))
	if err != nil {
		t.Fatalf("Click request failed: %v", err)
	}
	resp.Body.Close()

	var events []string
	conn.SetReadDeadline(time.Now().Add(time.Second))
	for len(events) < 2 {
		var message websocket.Message
		if err := conn.ReadJSON(&message); err != nil {
			t.Fatalf("Failed to read message: %v", err)
		}
		events = append(events, message.Event)
	}

	if events[0] != websocket.EventStateUpdate || events[1] != service.EventLocationUnlocked {
		t.Errorf("Unexpected events %v", events)
	}
}
