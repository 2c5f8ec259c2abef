// Package main is the entry point for the gangway shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sevir/gangway/internal/bridge"
	"github.com/sevir/gangway/internal/config"
	"github.com/sevir/gangway/internal/console"
	"github.com/sevir/gangway/internal/server"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	// Parse flags
	var (
		configPath  = flag.String("config", "", "Path to config file")
		host        = flag.String("host", "", "Server host (default: 127.0.0.1)")
		port        = flag.Int("port", 0, "Server port (default: 8423)")
		bridgeDir   = flag.String("bridge-dir", "", "Project directory containing the bridge subproject")
		showVersion = flag.Bool("version", false, "Show version and exit")
		initConfig  = flag.Bool("init", false, "Initialize default config and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gangway %s (%s)\n", version, commit)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with flags
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *bridgeDir != "" {
		cfg.Bridge.ProjectDir = *bridgeDir
	}

	if *initConfig {
		if err := cfg.Save(*configPath); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		fmt.Println("Configuration initialized")
		os.Exit(0)
	}

	// Create supervisor and perform the initial spawn. A failed spawn is a
	// degraded state, not a fatal one: the shell still comes up and the
	// bridge can be started later via restart.
	sup := bridge.New(bridge.Config{
		Spawn: bridge.SpawnOptions{
			ProjectDir:     cfg.Bridge.ProjectDir,
			EntryPoint:     cfg.Bridge.EntryPoint,
			Interpreter:    cfg.Bridge.Interpreter,
			PackageManager: cfg.Bridge.PackageManager,
			DevTask:        cfg.Bridge.DevTask,
		},
	})
	if err := sup.Start(); err != nil {
		log.Printf("bridge_event=spawn_failed err=%v", err)
		log.Printf("continuing without a bridge")
	}

	history := console.NewHistory(cfg.Console.Scrollback)

	// Create server
	srv := server.New(server.Config{
		Addr:       cfg.Address(),
		Supervisor: sup,
		History:    history,
		Version:    version,
		Commit:     commit,
		AppConfig:  cfg,
	})

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-sigCh
		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		// Kill the bridge last so no orphaned process survives exit.
		sup.Shutdown()
	}()

	// Print startup info
	log.Printf("gangway %s starting", version)
	log.Printf("UI endpoint:     http://%s/ui", cfg.Address())
	log.Printf("Events endpoint: http://%s/api/events", cfg.Address())
	log.Printf("Health check:    http://%s/health", cfg.Address())

	// Start server
	if err := srv.Start(); err != nil {
		select {
		case <-ctx.Done():
			// Expected shutdown: wait for the exit hook to finish killing
			// the bridge before the process goes away.
			<-shutdownDone
		default:
			sup.Shutdown()
			log.Fatalf("Server error: %v", err)
		}
	}
}
