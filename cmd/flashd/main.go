package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugo/flashd/internal/animator"
	"github.com/hugo/flashd/internal/config"
	"github.com/hugo/flashd/internal/daemon"
	"github.com/hugo/flashd/internal/database"
	"github.com/hugo/flashd/internal/flashd"
	"github.com/hugo/flashd/internal/web"
	"github.com/hugo/flashd/pkg/backend"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "flash":
		flashOnce()
	case "version":
		fmt.Printf("flashd version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`flashd - window focus flash daemon

Flashes a fading overlay (or border) over a window whenever it gains focus.

Usage:
  flashd <command>

Commands:
  start              Start the flash daemon
  serve              Start daemon with web API server
  stop               Stop the flash daemon
  status             Show daemon status and current focused window
  flash              Flash the currently focused window once and exit
  version            Show version information
  help               Show this help message

Examples:
  flashd start
  flashd serve
  flashd flash
  flashd status
  flashd stop

Environment Variables:
  FLASHD_DB_PATH         Flash history database path
  FLASHD_DURATION_MS     Flash duration in milliseconds
  FLASHD_COLOR           Flash color as #RRGGBB
  FLASHD_ALPHA           Starting opacity (0-1)
  FLASHD_EASING          Easing curve: quad, cubic, quart, expo
  FLASHD_EFFECT          Effect kind: fade or border
  FLASHD_EXCLUDE         Comma-separated app names that never flash
  FLASHD_DEBOUNCE_MS     Per-window trigger debounce in milliseconds
  FLASHD_PID_FILE        PID file path
  FLASHD_WEB_HOST        Web API host
  FLASHD_WEB_PORT        Web API port

Version: %s
`, version)
}

func startDaemon(withWeb bool) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Check if already running
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	// Check if we should daemonize
	if os.Getenv("FLASHD_DAEMON_CHILD") != "1" {
		// Parent process - fork and exit
		daemonize(cfg, withWeb)
		return
	}

	// Child process - run the daemon
	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	// Redirect logs to file
	logFile, err := os.OpenFile(cfg.Daemon.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	// Initialize database
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := database.NewRepository(db)

	// Prune old flash history
	cutoff := time.Now().Add(-cfg.Database.HistoryRetention)
	if n, err := repo.DeleteOldEvents(cutoff); err != nil {
		log.Printf("Failed to prune flash history: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d flash history rows", n)
	}

	// Initialize compositor backend
	comp, err := backend.New()
	if err != nil {
		log.Fatalf("Failed to initialize compositor backend: %v", err)
	}
	defer comp.Close()

	log.Printf("Compositor backend initialized: %s", backend.DetectDisplayServer())

	// Write PID file
	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	svc := flashd.NewService(cfg, repo, comp)

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, repo, svc)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
		log.Printf("Web API available at: http://%s", webServer.GetAddress())
	}

	log.Println("Starting flashd daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Flash service error: %v", err)
	}

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop daemon: %v", err)
	}

	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Effect: %s (%s, %v)\n", cfg.Flash.Effect, cfg.Flash.Easing, cfg.Flash.Duration)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}

	// Show the current focused window even when not running
	comp, err := backend.New()
	if err != nil {
		fmt.Printf("\nCould not connect to display server: %v\n", err)
		return
	}
	defer comp.Close()

	w, err := comp.FocusedWindow()
	if err == nil && w != nil {
		fmt.Printf("\nFocused Window:\n")
		fmt.Printf("  App: %s\n", w.AppName)
		fmt.Printf("  Title: %s\n", w.Title)
		fmt.Printf("  ID: 0x%x\n", uint32(w.ID))
	}
}

// flashOnce triggers a single flash of the focused window from the calling
// process, without a daemon. Useful for previewing config changes.
func flashOnce() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	comp, err := backend.New()
	if err != nil {
		log.Fatalf("Failed to initialize compositor backend: %v", err)
	}
	defer comp.Close()

	w, err := comp.FocusedWindow()
	if err != nil {
		log.Fatalf("Failed to resolve focused window: %v", err)
	}
	if w == nil {
		fmt.Println("No focused window")
		return
	}

	engine := animator.NewEngine(cfg, comp, nil)
	defer engine.Shutdown()

	if err := engine.Trigger(*w); err != nil {
		log.Fatalf("Flash failed: %v", err)
	}

	fmt.Printf("Flashing %q (0x%x)\n", w.AppName, uint32(w.ID))
	time.Sleep(cfg.Flash.Duration + 100*time.Millisecond)
}

func daemonize(cfg *config.Config, withWeb bool) {
	// Fork the process
	env := os.Environ()
	env = append(env, "FLASHD_DAEMON_CHILD=1")

	args := os.Args

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true, // Create new session
		},
	}

	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
}
