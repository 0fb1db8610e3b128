// Package hexinput parses operator-supplied hex dumps.
package hexinput

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrEmpty = errors.New("hexinput: no hex digits")

// Parse decodes s after removing all whitespace, an optional 0x prefix and
// ':' or '-' separators. A trailing odd nibble is dropped.
func Parse(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' || r == '-' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = s[:len(s)-1]
	}
	if s == "" {
		return nil, ErrEmpty
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hexinput: %w", err)
	}
	return out, nil
}

// Format renders b as space-separated lowercase pairs.
func Format(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}
