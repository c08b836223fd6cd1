package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/piedpiper/teamboard/internal/agentlog"
	"github.com/piedpiper/teamboard/internal/config"
	"github.com/piedpiper/teamboard/internal/logger"
	"github.com/piedpiper/teamboard/internal/tui"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = pflag.String("config", "", "path to config file")
	serverURL   = pflag.String("server", "http://localhost:8787", "dashboard server base URL")
	user        = pflag.String("user", "", "dashboard username (overrides config)")
	pass        = pflag.String("pass", "", "dashboard password (overrides config)")
	watchDir    = pflag.String("watch", "", "local agents dir to watch for instant refresh")
	debugFlag   = pflag.Bool("debug", false, "enable debug logging")
	versionFlag = pflag.BoolP("version", "v", false, "print version and exit")
)

func main() {
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("teamboard-tui version %s\n", effectiveVersion(Version))
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
	if *user != "" {
		cfg.Server.AuthUser = *user
	}
	if *pass != "" {
		cfg.Server.AuthPass = *pass
	}

	client := tui.NewClient(*serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = client.Login(ctx, cfg.Server.AuthUser, cfg.Server.AuthPass)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}

	var events <-chan agentlog.Event
	if *watchDir != "" {
		dir := config.ExpandPath(*watchDir)
		ch, closeWatch, err := agentlog.NewWatcher(dir, cfg.Agents.IDs)
		if err != nil {
			logger.Warn("watcher unavailable", "dir", dir, "error", err)
		} else {
			defer closeWatch()
			events = ch
		}
	}

	model := tui.NewModel(client, events)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
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
	return "devel"
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: teamboard-tui [options]\n\n")
		fmt.Fprintf(os.Stderr, "Terminal client for the teamboard dashboard.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}
}
