package commands

import (
	"context"
	"strings"
	"time"

	"github.com/danmuck/meshdecode/internal/hexinput"
	"github.com/danmuck/meshdecode/internal/ingest"
	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	var (
		addr       string
		insecure   bool
		caFile     string
		serverName string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send <hex...>",
		Short: "Send one envelope to a listener",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hexinput.Parse(strings.Join(args, ""))
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}
			files := cfg.TLS
			if caFile != "" {
				files.CAFile = caFile
			}
			if serverName != "" {
				files.ServerName = serverName
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return ingest.Send(ctx, addr, raw, files, insecure)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listener address (default from config)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "skip certificate verification")
	cmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle the listener must chain to (default dev pin)")
	cmd.Flags().StringVar(&serverName, "server-name", "", "name to verify on the listener certificate")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "dial and write timeout")
	return cmd
}
