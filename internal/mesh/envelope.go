package mesh

import "github.com/danmuck/meshdecode/internal/protocol/wire"

// Envelope field numbers.
const (
	FieldEnvelopePacket  uint32 = 1
	FieldEnvelopeChannel uint32 = 2
	FieldEnvelopeGateway uint32 = 3
)

// Envelope is the outer broker record.
type Envelope struct {
	Packet    []byte `json:"packet"`
	ChannelID string `json:"channel_id"`
	GatewayID string `json:"gateway_id"`
	Valid     bool   `json:"valid"`
}

var envelopeSchema = wire.NewSchema("envelope",
	wire.FieldSpec[Envelope]{
		Field: FieldEnvelopePacket, Type: wire.LengthDelimited, Name: "packet",
		Set: func(e *Envelope, v wire.Value) { e.Packet = cloneBytes(v.Bytes) },
	},
	wire.FieldSpec[Envelope]{
		Field: FieldEnvelopeChannel, Type: wire.LengthDelimited, Name: "channel_id",
		Set: func(e *Envelope, v wire.Value) { e.ChannelID = string(v.Bytes) },
	},
	wire.FieldSpec[Envelope]{
		Field: FieldEnvelopeGateway, Type: wire.LengthDelimited, Name: "gateway_id",
		Set: func(e *Envelope, v wire.Value) { e.GatewayID = string(v.Bytes) },
	},
)

// DecodeEnvelope decodes b. The result is valid iff it carries a non-empty
// inner packet; malformed input yields a partial, possibly invalid record.
func DecodeEnvelope(b []byte) (Envelope, wire.Trace) {
	var env Envelope
	tr := envelopeSchema.Decode(b, &env)
	env.Valid = len(env.Packet) > 0
	return env, tr
}

// EncodeEnvelope is the inverse of DecodeEnvelope for the recognized fields.
// Empty fields are omitted.
func EncodeEnvelope(env Envelope) []byte {
	var b wire.Builder
	if len(env.Packet) > 0 {
		b.Bytes(FieldEnvelopePacket, env.Packet)
	}
	if env.ChannelID != "" {
		b.Text(FieldEnvelopeChannel, env.ChannelID)
	}
	if env.GatewayID != "" {
		b.Text(FieldEnvelopeGateway, env.GatewayID)
	}
	return b.Encoded()
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
