// Package psk resolves operator PSK input to key bytes.
package psk

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/meshdecode/internal/hexinput"
)

// DefaultToken selects the well-known default channel key.
const DefaultToken = "AQ=="

var defaultKey = [16]byte{
	0xd4, 0xf1, 0xbb, 0x3a, 0x20, 0x29, 0x07, 0x59,
	0xf0, 0xbc, 0xff, 0xab, 0xcf, 0x4e, 0x69, 0x01,
}

var ErrEmptyPSK = errors.New("psk: empty input")

// Source names how a key was resolved.
type Source string

const (
	SourceDefault Source = "default"
	SourceHex     Source = "hex"
	SourceBase64  Source = "base64"
)

// Key is resolved key material.
type Key struct {
	Bytes  []byte
	Source Source
}

// Default returns a copy of the well-known default key.
func Default() []byte {
	k := defaultKey
	return k[:]
}

// Resolve maps input to key bytes: the default token, "base64:<data>",
// "hex:<digits>" or bare hex digits. Length is not checked here; the cipher
// refuses short keys.
func Resolve(input string) (Key, error) {
	in := strings.TrimSpace(input)
	switch {
	case in == "":
		return Key{}, ErrEmptyPSK
	case in == DefaultToken:
		return Key{Bytes: Default(), Source: SourceDefault}, nil
	case strings.HasPrefix(in, "base64:"):
		b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(in, "base64:"))
		if err != nil {
			return Key{}, fmt.Errorf("psk: base64: %w", err)
		}
		return Key{Bytes: b, Source: SourceBase64}, nil
	default:
		b, err := hexinput.Parse(strings.TrimPrefix(in, "hex:"))
		if err != nil {
			return Key{}, fmt.Errorf("psk: %w", err)
		}
		return Key{Bytes: b, Source: SourceHex}, nil
	}
}
