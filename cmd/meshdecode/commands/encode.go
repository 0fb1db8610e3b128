package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/vectors"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	var (
		file string
		v    vectors.Vector
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build hex envelopes from flags or a vector file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if file != "" {
				vs, err := vectors.Load(file)
				if err != nil {
					return err
				}
				for _, vec := range vs {
					if vec.Cipher == "" {
						vec.Cipher = cfg.Cipher
					}
					raw, err := vectors.Build(vec)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s\n", vec.Name, hex.EncodeToString(raw))
				}
				return nil
			}
			v.Name = "flags"
			v.PSK = cfg.PSK
			v.Cipher = cfg.Cipher
			raw, err := vectors.Build(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hex.EncodeToString(raw))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&file, "vectors", "", "TOML file with [[vector]] tables")
	f.Uint32Var(&v.From, "from", 0, "source node address")
	f.Uint32Var(&v.To, "to", mesh.Broadcast, "destination node address")
	f.Uint64Var(&v.ID, "id", 0, "message id")
	f.Uint32Var(&v.Channel, "channel", 0, "channel hash byte")
	f.Uint32Var(&v.HopLimit, "hop-limit", 3, "hop limit")
	f.Uint32Var(&v.HopStart, "hop-start", 0, "hop start")
	f.BoolVar(&v.WantAck, "want-ack", false, "request an ack")
	f.StringVar(&v.ChannelID, "channel-id", "", "envelope channel id")
	f.StringVar(&v.GatewayID, "gateway-id", "", "envelope gateway id")
	f.StringVar(&v.Text, "text", "", "payload text, sealed when --psk is set")
	return cmd
}
