// Package vectors builds sealed envelopes from declarative TOML test vectors.
package vectors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/psk"
	"github.com/pelletier/go-toml/v2"
)

var ErrNoVectors = errors.New("vectors: file declares no vectors")

// Vector describes one envelope to build.
type Vector struct {
	Name      string `toml:"name"`
	From      uint32 `toml:"from"`
	To        uint32 `toml:"to"`
	ID        uint64 `toml:"id"`
	Channel   uint32 `toml:"channel"`
	HopLimit  uint32 `toml:"hop_limit"`
	HopStart  uint32 `toml:"hop_start"`
	WantAck   bool   `toml:"want_ack"`
	ChannelID string `toml:"channel_id"`
	GatewayID string `toml:"gateway_id"`
	Text      string `toml:"text"`
	PSK       string `toml:"psk"`
	Cipher    string `toml:"cipher"`
}

type file struct {
	Vectors []Vector `toml:"vector"`
}

// Load parses a vector file with one [[vector]] table per envelope.
func Load(path string) ([]Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vectors load failed (%s): %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Vector, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("vectors parse failed: %w", err)
	}
	if len(f.Vectors) == 0 {
		return nil, ErrNoVectors
	}
	for i := range f.Vectors {
		if strings.TrimSpace(f.Vectors[i].Name) == "" {
			f.Vectors[i].Name = fmt.Sprintf("vector-%d", i)
		}
	}
	return f.Vectors, nil
}

// Build encodes v, sealing Text with the named stream when both Text and PSK
// are set. An empty Cipher means the reference xor stream.
func Build(v Vector) ([]byte, error) {
	pkt := mesh.Packet{
		From:     v.From,
		To:       v.To,
		ID:       v.ID,
		Channel:  v.Channel,
		HopLimit: v.HopLimit,
		HopStart: v.HopStart,
		WantAck:  v.WantAck,
	}
	if v.Text != "" {
		pkt.Encrypted = []byte(v.Text)
		if v.PSK != "" {
			sealed, err := seal(v, pkt)
			if err != nil {
				return nil, fmt.Errorf("vector %s: %w", v.Name, err)
			}
			pkt.Encrypted = sealed
		}
	}
	return mesh.EncodeEnvelope(mesh.Envelope{
		Packet:    mesh.EncodePacket(pkt),
		ChannelID: v.ChannelID,
		GatewayID: v.GatewayID,
	}), nil
}

func seal(v Vector, pkt mesh.Packet) ([]byte, error) {
	name := v.Cipher
	if name == "" {
		name = keystream.XOR{}.Name()
	}
	s, err := keystream.Lookup(name)
	if err != nil {
		return nil, err
	}
	key, err := psk.Resolve(v.PSK)
	if err != nil {
		return nil, err
	}
	return keystream.Encrypt(s, key.Bytes, pkt.Nonce(), pkt.Encrypted)
}
