package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/config"
	"github.com/piedpiper/teamboard/internal/logger"
	"github.com/piedpiper/teamboard/internal/server"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = pflag.String("config", "", "path to config file")
	addr        = pflag.String("addr", "", "listen address (overrides config)")
	agentsDir   = pflag.String("agents-dir", "", "agent logs root directory (overrides config)")
	boardFile   = pflag.String("board-file", "", "sprint board JSON file (overrides config)")
	debugFlag   = pflag.Bool("debug", false, "enable debug logging")
	versionFlag = pflag.BoolP("version", "v", false, "print version and exit")
)

func main() {
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("teamboard version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	if *debugFlag {
		logger.SetDebug()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *agentsDir != "" {
		cfg.Agents.Dir = config.ExpandPath(*agentsDir)
	}
	if *boardFile != "" {
		cfg.Board.Path = *boardFile
	}
	if cfg.Server.AuthPass == "" {
		fmt.Fprintln(os.Stderr, "No dashboard password configured; set DASHBOARD_PASS.")
		os.Exit(1)
	}

	store := board.NewStore(cfg.Board.Path)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "agents_dir", cfg.Agents.Dir)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return "devel+" + rev
		}
	}
	return "devel"
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: teamboard [options]\n\n")
		fmt.Fprintf(os.Stderr, "Team activity dashboard server for AI coding agents.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}
}
