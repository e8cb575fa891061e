package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/imoji/internal/config"
	"github.com/csheth/imoji/internal/generation"
	"github.com/csheth/imoji/internal/telemetry"
	"github.com/csheth/imoji/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a config.toml or config.yaml (default: user config dir)")
	variant := flag.String("variant", "", "open a generation screen directly (classic or experience)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	noParticles := flag.Bool("no-particles", false, "disable the drifting particle strip")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *noAltScreen {
		cfg.UI.AltScreen = false
	}
	if *noParticles {
		cfg.UI.Particles = false
	}
	if *logPath != "" {
		cfg.Log.Path = *logPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid options:", err)
		os.Exit(1)
	}

	if cfg.Log.Path != "" {
		f, err := tea.LogToFile(cfg.Log.Path, "imoji")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx := context.Background()
	tracer, err := telemetry.NewOTLP(ctx, cfg.Telemetry)
	if err != nil {
		fmt.Println("tracing disabled:", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[telemetry] shutdown: %v", err)
		}
	}()

	start := ""
	if v, ok, _ := cfg.StartVariant(); ok {
		start = v.Name
	}

	var observer generation.Observer
	if tracer != nil {
		observer = tracer
	}

	opts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Variants:      cfg.Variants(),
			Start:         start,
			Observer:      observer,
			FrameInterval: cfg.FrameInterval(),
			Particles:     cfg.UI.Particles,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}
