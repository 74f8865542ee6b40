package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/app"
	"github.com/nvidal/jobtrack/internal/config"
	"github.com/nvidal/jobtrack/internal/session"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobtrack: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobtrack: opening credential store: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.ServerURL, sess)

	p := tea.NewProgram(
		app.New(cfg, *cfgPath, sess, client),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "jobtrack: %v\n", err)
		os.Exit(1)
	}
}
