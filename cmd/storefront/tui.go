package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/tui"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; logs go to a file.
			if err := os.MkdirAll(filepath.Dir(e.cfg.Logging.File), 0o755); err != nil {
				return fmt.Errorf("log dir: %w", err)
			}
			f, err := os.OpenFile(e.cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			level, _ := e.cfg.LogLevel()
			e.logger = telemetry.InitLogger(f, level)

			ctx := cmd.Context()
			store, closer, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			return tui.Run(ctx, store, e.newLoader())
		},
	}
}
