package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nguyentin082/poc-vexere/internal/app"
	"github.com/nguyentin082/poc-vexere/internal/chatapi"
	"github.com/nguyentin082/poc-vexere/internal/tui"
)

const version = "1.0.0"

// bootstrap loads configuration and wires the API client and logger the
// same way for the TUI and the headless subcommands.
func bootstrap() (app.Config, *chatapi.Client, *app.Logger, io.Closer) {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = app.DefaultConfig()
	}

	var closer io.Closer
	var sink io.Writer = io.Discard
	if f, err := app.OpenLogFile(); err == nil {
		sink = f
		closer = f
	}
	log := app.NewLogger(sink)
	client := chatapi.NewClient(cfg.HistoryBaseURL, cfg.AgentBaseURL, cfg.RequestTimeout(), log)
	return cfg, client, log, closer
}

func runTUI() error {
	cfg, client, log, closer := bootstrap()
	if closer != nil {
		defer closer.Close()
	}

	ctrl := app.NewController(app.RefreshPolicy{
		InitialDelay: cfg.RefreshDelay(),
		RetryDelay:   cfg.RetryDelay(),
	}, log)

	model := tui.NewModel(&tui.Shell{
		Controller: ctrl,
		API:        client,
		Timeout:    cfg.RequestTimeout(),
	}, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func main() {
	root := &cobra.Command{
		Use:           "vexchat",
		Short:         "Terminal client for Vexere customer support chat",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List chat sessions without starting the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, _, closer := bootstrap()
			if closer != nil {
				defer closer.Close()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
			defer cancel()

			sessions, err := client.FetchHistory(ctx)
			if err != nil {
				return err
			}
			for _, s := range sessions {
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%-26s %-10s %3d msgs  %s\n",
					s.ID, s.Status, len(s.Messages), title)
			}
			return nil
		},
	}
	root.AddCommand(historyCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a chat session by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, _, closer := bootstrap()
			if closer != nil {
				defer closer.Close()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
			defer cancel()

			if err := client.DeleteSession(ctx, args[0]); err != nil {
				if errors.Is(err, chatapi.ErrSessionGone) {
					fmt.Println("session already gone")
					return nil
				}
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
	root.AddCommand(deleteCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
