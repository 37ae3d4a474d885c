// Command location-quest plays and serves Location Quest games.
//
// Commands:
//  1. "play" (default) – opens the game window
//  2. "serve" – runs the HTTP server exposing the REST API, WebSocket and an /mcp HTTP endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  4. "validate" – checks a game directory
//  5. "demo" – writes a small generated game directory
//
// Flags can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/location-quest/api"
	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/demo"
	"github.com/wricardo/location-quest/game/service"
	"github.com/wricardo/location-quest/game/session"
	"github.com/wricardo/location-quest/logger"
	"github.com/wricardo/location-quest/transport/mcp"
	"github.com/wricardo/location-quest/transport/websocket"
	"github.com/wricardo/location-quest/validate"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Location Quest"
)

const (
	sessionCleanupInterval = time.Hour
	shutdownTimeout        = 10 * time.Second
)

var errInvalidGame = errors.New("game directory has errors")

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}

	if envErr != nil && !os.IsNotExist(envErr) {
		slog.Warn("error loading .env file", "error", envErr)
	}
}

// newApp builds the command tree. Flags on the root command are visible to every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "location-quest",
		Usage:   "a location-based puzzle adventure",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "game-dir",
				Value:   "game",
				Usage:   "directory containing settings.yml, map.png and locations/",
				Sources: cli.EnvVars("GAME_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logger.FormatText,
				Usage:   "text or json",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "open the game window",
				Action: runPlay,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "fullscreen", Usage: "start in fullscreen mode"},
				},
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action: runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   "localhost:8080",
						Usage:   "HTTP listen address",
						Sources: cli.EnvVars("ADDR"),
					},
					&cli.DurationFlag{
						Name:  "session-ttl",
						Value: 24 * time.Hour,
						Usage: "remove sessions idle for longer than this",
					},
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "enable ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "custom ngrok domain (optional)",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server, with an internal HTTP API if none is running",
				Action: runStdioMCP,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   "localhost:8080",
						Usage:   "address of an external API server to reuse",
						Sources: cli.EnvVars("ADDR"),
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "check a game directory for configuration errors",
				Action: runValidate,
			},
			{
				Name:      "demo",
				Usage:     "write a generated demo game",
				ArgsUsage: "[dir]",
				Action:    runDemo,
			},
		},
	}
}

// setupLogger configures the process logger from the root flags. --debug wins over --log-level.
func setupLogger(cmd *cli.Command) (*slog.Logger, error) {
	level := cmd.String("log-level")
	if cmd.Bool("debug") {
		level = "debug"
	}
	return logger.Setup(logger.Options{
		Level:  level,
		Format: cmd.String("log-format"),
	})
}

// services holds everything the headless commands share
type services struct {
	configs  *config.Manager
	sessions *session.Manager
	game     service.GameService
}

// buildServices wires the config manager, asset loader, session manager and game service for gameDir
func buildServices(gameDir string, log *slog.Logger) (*services, error) {
	configs, err := config.NewManager(gameDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	loader, err := assets.NewFileLoader(gameDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset loader: %w", err)
	}

	sessions := session.NewManager()
	return &services{
		configs:  configs,
		sessions: sessions,
		game:     service.NewGameService(sessions, configs, loader, log),
	}, nil
}

// newRouter mounts the API server at the root and the MCP endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(mcpClient))
	return router
}

// mcpHandler answers single JSON-RPC messages posted to /mcp
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runServe starts the HTTP server with REST API, WebSocket hub and the /mcp endpoint.
// With --ngrok it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	svcs, err := buildServices(cmd.String("game-dir"), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	go svcs.sessions.RunCleanup(ctx, sessionCleanupInterval, cmd.Duration("session-ttl"), log)

	addr := cmd.String("addr")
	router := newRouter(api.NewServer(svcs.game, hub, log), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("HTTP server listening",
			"version", Version,
			"game_dir", svcs.configs.GameDir(),
			"api", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serveNgrok(ctx, router, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), log); err != nil {
				log.Error("ngrok tunnel failed", "error", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	log.Info("server stopped")
	return nil
}

// serveNgrok serves handler through an ngrok tunnel until ctx is done
func serveNgrok(ctx context.Context, handler http.Handler, authToken, domain string, log *slog.Logger) error {
	if authToken == "" {
		return errors.New("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info("starting ngrok tunnel", "domain", domain)
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn("failed to close ngrok tunnel", "error", err)
		}
	}()

	url := tun.URL()
	log.Info("ngrok tunnel established",
		"url", url,
		"api", url+"/api",
		"websocket", url+"/ws?session=<session_id>",
		"mcp", url+"/mcp",
	)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("ngrok tunnel closed")
	return nil
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at --addr when one answers;
// otherwise it starts an internal HTTP API bound to a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout belongs to the MCP transport, the logger writes to stderr
	log, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	externalURL := "http://" + cmd.String("addr")
	if externalAPIAvailable(externalURL) {
		log.Info("external API server found, using it for MCP", "url", externalURL)
		return server.ServeStdio(mcp.NewClient(externalURL).GetMCPServer())
	}

	log.Info("no external API server found, starting internal HTTP server")

	svcs, err := buildServices(cmd.String("game-dir"), log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(svcs.game, hub, log)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("internal HTTP server error", "error", err)
		}
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()
	log.Info("MCP stdio server ready", "internal_api", baseURL)

	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// externalAPIAvailable reports whether an API server answers its health check at baseURL
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	if _, err := setupLogger(cmd); err != nil {
		return err
	}

	report := validate.GameDir(cmd.String("game-dir"))
	validate.Print(cmd.Root().Writer, report)
	if !report.Valid() {
		return errInvalidGame
	}
	return nil
}

func runDemo(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	dir := cmd.Args().First()
	if dir == "" {
		dir = cmd.String("game-dir")
	}

	if err := demo.Write(dir); err != nil {
		return fmt.Errorf("failed to write demo game: %w", err)
	}
	log.Info("demo game written", "dir", dir)
	return nil
}
