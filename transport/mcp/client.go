package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/location-quest/game/service"
	"github.com/wricardo/location-quest/game/world"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Location Quest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Location Quest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Solve the puzzle in each location to unlock the locations that follow it, until every location is open.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- game_state: Locations, what is unlocked and solved, where you are
- click: Left click at a position (screen, virtual or canvas space)
- press_key: Press a key (m toggles the map, q quits)
- travel: Open the map and go to an unlocked location
- screenshot: The current frame as a PNG image
- game_instructions: Full rules and coordinate spaces`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for puzzle shuffles (optional, random when omitted)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "click",
		Description: "Left click at a position. Canvas space addresses the active mini-game directly (0-899 on both axes).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate",
				},
				"space": map[string]interface{}{
					"type":        "string",
					"enum":        []string{service.SpaceScreen, service.SpaceVirtual, service.SpaceCanvas},
					"description": "Coordinate space of x and y (default screen)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleClick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "press_key",
		Description: "Press and release a key",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Key name, e.g. m (map) or q (quit)",
				},
			},
			Required: []string{"session_id", "key"},
		},
	}, c.handlePressKey)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "travel",
		Description: "Open the map and click a location's button. Only unlocked locations can be entered.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"location_id": map[string]interface{}{
					"type":        "integer",
					"description": "Location to travel to",
				},
			},
			Required: []string{"session_id", "location_id"},
		},
	}, c.handleTravel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "screenshot",
		Description: "Get the current frame as a PNG image",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleScreenshot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return resp, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if seed, ok := intArg(args, "seed"); ok && seed != 0 {
		body["seed"] = seed
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		location := 0
		if s.State != nil {
			location = s.State.ActiveLocationID
		}
		fmt.Fprintf(&result, "- %s (Location: %d, Created: %s)\n", s.ID, location, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state world.State
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	space, _ := args["space"].(string)

	body := service.ClickRequest{X: x, Y: y, Space: space}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/click", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handlePressKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	key, _ := args["key"].(string)

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/key", sessionID), map[string]string{"key": key}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleTravel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	locationID, ok := intArg(args, "location_id")
	if !ok {
		return mcp.NewToolResultError("location_id is required"), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/map", sessionID), map[string]int{"location_id": locationID}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	resp, err := c.do(ctx, "GET", fmt.Sprintf("/api/sessions/%s/frame.png", sessionID), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read frame: %v", err)), nil
	}

	return mcp.NewToolResultImage(
		fmt.Sprintf("Frame of session %s (%d bytes)", sessionID, len(data)),
		base64.StdEncoding.EncodeToString(data),
		"image/png",
	), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Location Quest - Complete Instructions

GAME OBJECTIVE:
Travel between locations and solve the mini-game in each one. Solving a
location's mini-game unlocks the locations that directly follow it in the
location tree. Only the next step opens up; later locations stay locked until
their own predecessor is solved.

CONTROLS:
- click: left click. Mouse down and up are both sent.
- press_key "m": toggle the map overview (the key can be changed per game)
- press_key "q": quit. The session accepts no more actions afterwards.
- travel: opens the map and clicks the centre of the location's button

COORDINATE SPACES:
- screen: the window, sized by the game's screen settings (see game_state)
- virtual: the 1920x1080 scene. Map buttons and game areas are given in it.
- canvas: the 900x900 surface of the active mini-game

THE MAP:
Every unlocked location shows its icon. Clicking the smallest button under
the cursor selects it; a locked button swallows the click even when a larger
unlocked one lies underneath. Selecting a location closes the map.

INTRODUCTIONS:
Some locations open with an introduction over the scene. The first click
only dismisses it.

MINI-GAMES:
- Button Click: click the button at canvas (100,100)-(250,300).
- Sliding Puzzle: click a tile next to the empty cell to slide it there.
  Restore the picture to win.
- Sokoban Blocks: each block shows arrows for the directions it can move.
  Wide blocks move sideways, tall blocks up and down, square blocks both
  ways. Bring the first cell of block x to the finish cell.
- Code Lock: numbers next to the empty slot can move into it. A moved
  number is added to the slot's other neighbours. Make any row except the
  empty slot's equal the target code.

TIPS:
- Use canvas space to click mini-games precisely.
- Use screenshot to look at the current frame.
- Events in each action result tell you what was solved or unlocked.`

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nTitle: %s\nSeed: %d\nCreated: %s\n\n%s",
		info.ID, info.Title, info.Seed,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(info.State))
}

func formatGameState(state *world.State) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	view := "location"
	if state.ShowMap {
		view = "map"
	}
	fmt.Fprintf(&result, "Active location: %d | View: %s | Window: %dx%d\n",
		state.ActiveLocationID, view, state.WindowWidth, state.WindowHeight)

	if state.Done {
		result.WriteString("The player has quit this session.\n")
	}

	result.WriteString("\nLocations:\n")
	for _, l := range state.Locations {
		status := "locked"
		switch {
		case l.Completed:
			status = "solved"
		case l.Unlocked:
			status = "unlocked"
		}

		marker := " "
		if l.Active {
			marker = "*"
		}

		fmt.Fprintf(&result, "%s %d %s [%s]", marker, l.ID, l.Name, status)
		if l.MiniGame != "" {
			fmt.Fprintf(&result, " mini-game: %s", l.MiniGame)
		}
		if l.ShowIntro {
			result.WriteString(" (introduction showing)")
		}
		if len(l.Next) > 0 {
			fmt.Fprintf(&result, " leads to %v", l.Next)
		}
		result.WriteString("\n")
	}

	return result.String()
}

func formatActionResult(result *service.ActionResult) string {
	var out strings.Builder

	if result.Success {
		out.WriteString("✓ ")
	} else {
		out.WriteString("✗ ")
	}
	out.WriteString(result.Message)
	out.WriteString("\n")

	if len(result.Events) > 0 {
		out.WriteString("\nEvents:\n")
		for _, ev := range result.Events {
			fmt.Fprintf(&out, "- %s: %s\n", ev.Type, ev.Message)
		}
	}

	out.WriteString("\n")
	out.WriteString(formatGameState(result.State))
	return out.String()
}
