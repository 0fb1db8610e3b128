// Package console runs the interactive decode prompt.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/meshdecode/internal/hexinput"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/psk"
)

// Decoder is the slice of the pipeline the console drives.
type Decoder interface {
	Decode(raw []byte, req pipeline.Request) pipeline.Result
}

// Console reads envelopes, expectations and PSKs line by line.
type Console struct {
	decoder Decoder
	in      *bufio.Scanner
	out     io.Writer
	// DefaultPSK is used when the operator leaves the PSK prompt empty.
	DefaultPSK string
}

func New(decoder Decoder, in io.Reader, out io.Writer) *Console {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{decoder: decoder, in: sc, out: out}
}

// Run loops until quit/exit, end of input or ctx cancellation. It returns
// the number of envelopes decoded.
func (c *Console) Run(ctx context.Context) (int, error) {
	decoded := 0
	for {
		if err := ctx.Err(); err != nil {
			return decoded, err
		}
		line, ok := c.prompt("\nEnter envelope hex (quit to exit):\n> ")
		if !ok {
			return decoded, c.in.Err()
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			c.printf("exiting\n")
			return decoded, nil
		}

		raw, err := hexinput.Parse(line)
		if err != nil {
			c.printf("ERROR: %v\n", err)
			continue
		}
		if env, _ := mesh.DecodeEnvelope(raw); !env.Valid {
			c.printf("ERROR: no packet in envelope, skipping\n")
			continue
		}

		expected, _ := c.prompt("Expected content (optional): ")
		pskInput, _ := c.prompt("PSK (AQ== for default, hex, base64:<data>): ")
		if pskInput == "" {
			pskInput = c.DefaultPSK
		}

		req := pipeline.Request{Expected: expected}
		if pskInput != "" {
			key, err := psk.Resolve(pskInput)
			if err != nil {
				c.printf("ERROR: %v\n", err)
			} else {
				req.Key = key.Bytes
			}
		}
		c.decoder.Decode(raw, req)
		decoded++
	}
}

func (c *Console) prompt(text string) (string, bool) {
	c.printf("%s", text)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
