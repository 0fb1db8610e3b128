// Package report renders pipeline results for operators.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/danmuck/meshdecode/internal/hexinput"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/protocol/wire"
)

// previewBytes caps the raw bytes shown for an unreadable decryption.
const previewBytes = 20

// Text writes a human-readable summary per result.
type Text struct {
	mu     sync.Mutex
	w      io.Writer
	traces bool
}

// NewText returns a text reporter. With traces set, every decoded field is
// listed as well.
func NewText(w io.Writer, traces bool) *Text {
	return &Text{w: w, traces: traces}
}

func (t *Text) Report(r pipeline.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := printer{w: t.w}

	p.line("=== envelope (%d bytes) ===", r.InputLen)
	t.trace(&p, r.EnvelopeTrace)
	if !r.Envelope.Valid {
		p.line("ERROR: no packet in envelope")
		return
	}
	p.line("channel: %s", r.Envelope.ChannelID)
	p.line("gateway: %s", r.Envelope.GatewayID)

	pkt := r.Packet
	p.line("=== packet (%d bytes) ===", len(r.Envelope.Packet))
	t.trace(&p, r.PacketTrace)
	p.line("from: %s", mesh.NodeID(pkt.From))
	if pkt.IsBroadcast() {
		p.line("to: broadcast")
	} else {
		p.line("to: %s", mesh.NodeID(pkt.To))
	}
	p.line("id: 0x%x", pkt.ID)
	p.line("hops: limit=%d start=%d want_ack=%t", pkt.HopLimit, pkt.HopStart, pkt.WantAck)
	p.line("payload: %d bytes", len(pkt.Encrypted))

	d := r.Decryption
	if d == nil {
		return
	}
	p.line("=== decryption (%s, nonce 0x%x) ===", d.Stream, d.Nonce)
	switch {
	case d.Err != nil:
		p.line("ERROR: %v", d.Err)
	case d.Validation.Readable():
		p.line("text: %q", d.Validation.Text)
		if met, checked := r.ExpectationMet(); checked {
			if met {
				p.line("matches expected content")
			} else {
				p.line("WARNING: does not match expected content (%s)", r.Expected)
			}
		}
	default:
		n := min(len(d.Plaintext), previewBytes)
		p.line("not readable text; first %d bytes: %s", n, hexinput.Format(d.Plaintext[:n]))
	}
}

func (t *Text) trace(p *printer, tr wire.Trace) {
	if !t.traces {
		return
	}
	for _, ev := range tr.Events {
		name := ev.Name
		if name == "" {
			name = "-"
		}
		p.line("  field %d %s %s %s len=%d", ev.Field, ev.Type, name, ev.Action, ev.Len)
	}
	if tr.Halted {
		p.line("  halted after %d bytes", tr.Consumed)
	}
}

type printer struct {
	w io.Writer
}

func (p printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// JSON writes one JSON document per result.
type JSON struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

func (j *JSON) Report(r pipeline.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(r)
}
