// Package pipeline runs one envelope through decode, decrypt and validation.
//
// The core packages it drives are pure; logging, metrics and reporting happen
// here so they stay out of the decoders.
package pipeline

import (
	"time"

	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/observability"
	"github.com/danmuck/meshdecode/internal/plaintext"
	"github.com/danmuck/meshdecode/internal/protocol/wire"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Request carries the optional decryption inputs for one envelope.
type Request struct {
	Key      []byte
	Expected string
}

// Decryption is the outcome of the cipher and validation stages.
type Decryption struct {
	Stream     string           `json:"stream"`
	Nonce      uint64           `json:"nonce"`
	Plaintext  []byte           `json:"plaintext,omitempty"`
	Validation plaintext.Result `json:"validation"`
	Err        error            `json:"-"`
	Error      string           `json:"error,omitempty"`
}

// Result is everything one Decode learned. Packet is nil when the envelope
// was invalid; Decryption is nil when no attempt was made.
type Result struct {
	InputLen      int           `json:"input_len"`
	Envelope      mesh.Envelope `json:"envelope"`
	EnvelopeTrace wire.Trace    `json:"envelope_trace"`
	Packet        *mesh.Packet  `json:"packet,omitempty"`
	PacketTrace   wire.Trace    `json:"packet_trace"`
	Decryption    *Decryption   `json:"decryption,omitempty"`
	Expected      string        `json:"expected,omitempty"`
}

// Readable reports a decryption that produced non-empty printable text.
func (r Result) Readable() bool {
	return r.Decryption != nil && r.Decryption.Err == nil && r.Decryption.Validation.Readable()
}

// ExpectationMet reports whether the recovered text equals the expected
// string. checked is false when no expectation was supplied or nothing was
// recovered.
func (r Result) ExpectationMet() (met, checked bool) {
	if r.Expected == "" || !r.Readable() {
		return false, false
	}
	return r.Decryption.Validation.Matches(r.Expected), true
}

// Reporter presents results. Implementations must not retain r's slices.
type Reporter interface {
	Report(r Result)
}

type ReporterFunc func(Result)

func (f ReporterFunc) Report(r Result) { f(r) }

// Pipeline holds immutable stage configuration and is safe for concurrent use
// as long as its Reporter is.
type Pipeline struct {
	stream   keystream.Stream
	packets  *mesh.PacketDecoder
	reporter Reporter
	logger   zerolog.Logger
}

type Option func(*Pipeline)

func WithStream(s keystream.Stream) Option {
	return func(p *Pipeline) { p.stream = s }
}

func WithFallback(fb mesh.PayloadFallback) Option {
	return func(p *Pipeline) { p.packets = mesh.NewPacketDecoder(fb) }
}

func WithReporter(r Reporter) Option {
	return func(p *Pipeline) { p.reporter = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		stream:  keystream.XOR{},
		packets: mesh.NewPacketDecoder(mesh.DefaultPayloadFallback()),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decode runs every stage that its inputs allow and reports the result.
func (p *Pipeline) Decode(raw []byte, req Request) Result {
	start := time.Now()
	res := p.decode(raw, req)
	observability.RecordDecode(time.Since(start))
	if p.reporter != nil {
		p.reporter.Report(res)
	}
	return res
}

func (p *Pipeline) decode(raw []byte, req Request) Result {
	res := Result{InputLen: len(raw), Expected: req.Expected}

	res.Envelope, res.EnvelopeTrace = mesh.DecodeEnvelope(raw)
	if !res.Envelope.Valid {
		observability.RecordStage("envelope", "invalid")
		p.logger.Warn().
			Int("bytes", len(raw)).
			Bool("halted", res.EnvelopeTrace.Halted).
			Msg("envelope decode failed")
		return res
	}
	observability.RecordStage("envelope", "valid")
	p.logger.Debug().
		Int("packet_bytes", len(res.Envelope.Packet)).
		Str("channel", res.Envelope.ChannelID).
		Str("gateway", res.Envelope.GatewayID).
		Msg("envelope decoded")

	pkt, tr := p.packets.Decode(res.Envelope.Packet)
	res.Packet, res.PacketTrace = &pkt, tr
	observability.RecordStage("packet", outcome(!tr.Halted, "complete", "partial"))
	p.logger.Debug().
		Str("from", mesh.NodeID(pkt.From)).
		Str("to", mesh.NodeID(pkt.To)).
		Uint64("id", pkt.ID).
		Int("payload_bytes", len(pkt.Encrypted)).
		Bool("halted", tr.Halted).
		Msg("packet decoded")

	if len(req.Key) == 0 || len(pkt.Encrypted) == 0 {
		return res
	}
	res.Decryption = p.decrypt(pkt, req.Key)
	return res
}

func (p *Pipeline) decrypt(pkt mesh.Packet, key []byte) *Decryption {
	d := &Decryption{Stream: p.stream.Name(), Nonce: pkt.Nonce()}
	out, err := keystream.Decrypt(p.stream, key, d.Nonce, pkt.Encrypted)
	if err != nil {
		d.Err, d.Error = err, err.Error()
		observability.RecordStage("decrypt", "refused")
		p.logger.Warn().Err(err).Str("stream", d.Stream).Msg("decryption refused")
		return d
	}
	d.Plaintext = out
	d.Validation = plaintext.Validate(out)
	observability.RecordStage("decrypt", outcome(d.Validation.Readable(), "readable", "unreadable"))
	p.logger.Debug().
		Str("stream", d.Stream).
		Bool("printable", d.Validation.Printable).
		Int("text_len", len(d.Validation.Text)).
		Msg("payload decrypted")
	return d
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
