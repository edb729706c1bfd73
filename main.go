package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/stempel/internal/action"
	"github.com/sadopc/stempel/internal/api"
	"github.com/sadopc/stempel/internal/auth"
	"github.com/sadopc/stempel/internal/config"
	"github.com/sadopc/stempel/internal/store"
	"github.com/sadopc/stempel/internal/tui"
)

func main() {
	log.SetOutput(io.Discard)

	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogPath(), "stempel")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(store.DBPath(cfg.DataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	session := auth.NewSession(auth.Options{
		LoginURL:  cfg.LoginURL,
		TokenPath: cfg.TokenPath(),
		TTL:       cfg.TokenTTL,
	})
	client := api.New(cfg.ServerURL, session, api.Options{CacheTTL: cfg.CacheTTL})
	handler := action.New(client, session, action.Options{ExportDir: home})

	log.Printf("stempel: server %s, config %s", cfg.ServerURL, cfg.File)

	app := tui.NewApp(handler, session, s)
	p := tea.NewProgram(app)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
