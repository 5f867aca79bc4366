package cmd

import (
	"fmt"

	"github.com/heymarley/writebot/internal/api"
	"github.com/heymarley/writebot/internal/app"
	"github.com/heymarley/writebot/internal/config"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var svc api.Service
	if cfg.APIBaseURL != "" {
		svc = api.WithLogging(api.New(cfg.APIBaseURL, cfg.APITimeout), st)
	}

	opts := app.Options{
		State:   session.New(st),
		Service: svc,
	}
	return app.Run(opts)
}
