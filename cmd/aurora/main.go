package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"aurora-cli/internal/app"
	"aurora-cli/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// applyEnvOverrides backfills credentials from the environment so the
// config file never has to hold the API key.
func applyEnvOverrides(cfg *app.Config) {
	if v := os.Getenv("AURORA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AURORA_API_KEY")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("API_KEY")
	}
}

func loadConfig() (app.Config, error) {
	// .env is optional; silently skip when absent.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return app.Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func newLogger(cfg app.Config) (*app.Logger, func()) {
	path := cfg.LogFile
	if path == "" {
		path = app.DefaultLogPath()
	}
	f, err := app.OpenLogFile(path)
	if err != nil {
		// The TUI owns the terminal, so a broken log path degrades to
		// a silent logger rather than stderr noise.
		return app.NewLogger(io.Discard), func() {}
	}
	return app.NewLogger(f), func() { _ = f.Close() }
}

func main() {
	root := &cobra.Command{
		Use:     "aurora",
		Short:   "Interactive console for the AURORA scam-analysis service",
		Long:    "aurora drives a conversation with a remote scam-analysis honeypot service and shows per-turn risk signals, extracted intelligence, and the final session report.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key configured: set AURORA_API_KEY or edit %s", app.DefaultConfigPath())
			}

			log, closeLog := newLogger(cfg)
			defer closeLog()

			client := app.NewClient(cfg.APIURL, cfg.APIKey)
			ctrl := app.NewSessionController(cfg, client, log)

			p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the remote service and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := app.NewClient(cfg.APIURL, cfg.APIKey)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := client.Health(ctx); err != nil {
				return fmt.Errorf("service unreachable at %s: %w", cfg.APIURL, err)
			}
			fmt.Printf("ok: %s\n", cfg.APIURL)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Fetch a session snapshot and write it to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key configured: set AURORA_API_KEY or edit %s", app.DefaultConfigPath())
			}
			client := app.NewClient(cfg.APIURL, cfg.APIKey)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			raw, err := client.ExportSession(ctx, args[0])
			if err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = cfg.ExportDir
			}
			path, err := app.WriteSnapshot(dir, args[0], raw)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	exportCmd.Flags().String("dir", "", "directory to write the snapshot into (defaults to the configured export dir)")

	root.AddCommand(healthCmd, exportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
