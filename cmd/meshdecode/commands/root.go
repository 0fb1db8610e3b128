package commands

import (
	"io"
	"os"

	"github.com/danmuck/meshdecode/internal/config"
	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/logging"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/psk"
	"github.com/danmuck/meshdecode/internal/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cipherName string
	pskInput   string
	format     string
	traces     bool

	cfg config.Config
)

func Execute() error {
	return newRoot(os.Stdin, os.Stdout).Execute()
}

func newRoot(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "meshdecode",
		Short:         "Decode and decrypt mesh broker envelopes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()
			return loadConfig(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&cipherName, "cipher", "", "keystream: xor | chacha20 | aes-ctr")
	root.PersistentFlags().StringVar(&pskInput, "psk", "", `PSK: "AQ==" for the default key, hex, or base64:<data>`)
	root.PersistentFlags().StringVar(&format, "format", "", "report format: text | json")
	root.PersistentFlags().BoolVar(&traces, "traces", false, "list every decoded field")

	root.AddCommand(decodeCmd(), consoleCmd(), encodeCmd(), listenCmd(), sendCmd())
	return root
}

func loadConfig(cmd *cobra.Command) error {
	cfg = config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Debug().Str("path", configPath).Msg("loaded config")
	}
	flags := cmd.Flags()
	if flags.Changed("cipher") {
		cfg.Cipher = cipherName
	}
	if flags.Changed("psk") {
		cfg.PSK = pskInput
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("traces") {
		cfg.Traces = traces
	}
	return config.Validate(cfg)
}

// newPipeline builds the pipeline described by cfg, reporting to out.
func newPipeline(out io.Writer) (*pipeline.Pipeline, error) {
	stream, err := keystream.Lookup(cfg.Cipher)
	if err != nil {
		return nil, err
	}
	var rep pipeline.Reporter = report.NewText(out, cfg.Traces)
	if cfg.Format == "json" {
		rep = report.NewJSON(out)
	}
	return pipeline.New(
		pipeline.WithStream(stream),
		pipeline.WithFallback(cfg.Fallback),
		pipeline.WithReporter(rep),
	), nil
}

// resolveKey returns nil when no PSK is configured.
func resolveKey() ([]byte, error) {
	if cfg.PSK == "" {
		return nil, nil
	}
	key, err := psk.Resolve(cfg.PSK)
	if err != nil {
		return nil, err
	}
	return key.Bytes, nil
}
