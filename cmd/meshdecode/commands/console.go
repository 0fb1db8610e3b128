package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/danmuck/meshdecode/internal/console"
	"github.com/spf13/cobra"
)

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive decode prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p, err := newPipeline(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c := console.New(p, cmd.InOrStdin(), cmd.OutOrStdout())
			c.DefaultPSK = cfg.PSK
			if _, err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
