package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/meshdecode/internal/hexinput"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/spf13/cobra"
)

func decodeCmd() *cobra.Command {
	var expected string
	cmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode one envelope from arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, "")
			if input == "" || input == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(b)
			}
			raw, err := hexinput.Parse(input)
			if err != nil {
				return err
			}
			key, err := resolveKey()
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			res := p.Decode(raw, pipeline.Request{Key: key, Expected: expected})
			if !res.Envelope.Valid {
				return fmt.Errorf("no packet in envelope")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "expect", "", "expected plaintext to compare against")
	return cmd
}
