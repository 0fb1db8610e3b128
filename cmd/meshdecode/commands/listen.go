package commands

import (
	"context"
	"net"
	"os"
	"os/signal"
	"sync"

	"github.com/danmuck/meshdecode/internal/ingest"
	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	var (
		addr     string
		httpAddr string
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Decode envelopes received over QUIC and serve HTTP endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTPAddr = httpAddr
			}
			key, err := resolveKey()
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			stream, err := keystream.Lookup(cfg.Cipher)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			// one decode at a time so report blocks never interleave
			var mu sync.Mutex
			ing := &ingest.Server{
				Addr:     cfg.ListenAddr,
				MaxBytes: cfg.MaxEnvelopeBytes,
				Logger:   log.Logger,
				TLS:      cfg.TLS,
				Handler: func(remote net.Addr, data []byte) {
					mu.Lock()
					defer mu.Unlock()
					log.Info().Str("remote", remote.String()).Int("bytes", len(data)).Msg("envelope received")
					p.Decode(data, pipeline.Request{Key: key})
				},
			}

			errs := make(chan error, 2)
			running := 1
			go func() { errs <- ing.Serve(ctx, nil) }()

			if cfg.HTTPAddr != "" {
				// HTTP callers get results in the response, not on stdout.
				srv := server.New("meshdecode", cfg.HTTPAddr, cfg.CorsOrigins, pipeline.New(
					pipeline.WithStream(stream),
					pipeline.WithFallback(cfg.Fallback),
				))
				running++
				go func() { errs <- srv.Serve(ctx) }()
			}

			var first error
			for i := 0; i < running; i++ {
				if err := <-errs; err != nil && first == nil {
					first = err
					cancel()
				}
			}
			return first
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "QUIC listen address (default from config)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address, empty to disable (default from config)")
	return cmd
}
