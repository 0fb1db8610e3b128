package mesh

import (
	"fmt"

	"github.com/danmuck/meshdecode/internal/protocol/wire"
)

// Packet field numbers. The encrypted payload has been observed under 3, 4
// and 5 depending on message variant.
const (
	FieldPacketFrom     uint32 = 1
	FieldPacketTo       uint32 = 2
	FieldPacketPayload3 uint32 = 3
	FieldPacketPayload4 uint32 = 4
	FieldPacketPayload5 uint32 = 5
	FieldPacketID       uint32 = 6
	FieldPacketChannel  uint32 = 7
	FieldPacketHopLimit uint32 = 8
	FieldPacketHopStart uint32 = 9
	FieldPacketWantAck  uint32 = 10
)

// Broadcast is the destination address that reaches every node.
const Broadcast uint32 = 0xFFFFFFFF

// Packet is the inner addressing record.
type Packet struct {
	From      uint32 `json:"from"`
	To        uint32 `json:"to"`
	ID        uint64 `json:"id"`
	Channel   uint32 `json:"channel"`
	HopLimit  uint32 `json:"hop_limit"`
	HopStart  uint32 `json:"hop_start"`
	WantAck   bool   `json:"want_ack"`
	Encrypted []byte `json:"encrypted,omitempty"`
	Valid     bool   `json:"valid"`
}

func (p Packet) IsBroadcast() bool {
	return p.To == Broadcast
}

// Nonce derives the per-message cipher nonce.
func (p Packet) Nonce() uint64 {
	return p.ID ^ (uint64(p.From) << 32)
}

// NodeID renders a node address in the conventional !hex form.
func NodeID(addr uint32) string {
	return fmt.Sprintf("!%08x", addr)
}

func setPayload(p *Packet, v wire.Value) {
	p.Encrypted = cloneBytes(v.Bytes)
}

func setID(p *Packet, v wire.Value) {
	p.ID = v.Uint
}

var packetFields = []wire.FieldSpec[Packet]{
	{Field: FieldPacketFrom, Type: wire.Varint, Name: "from", Set: func(p *Packet, v wire.Value) { p.From = uint32(v.Uint) }},
	{Field: FieldPacketTo, Type: wire.Varint, Name: "to", Set: func(p *Packet, v wire.Value) { p.To = uint32(v.Uint) }},
	{Field: FieldPacketPayload3, Type: wire.LengthDelimited, Name: "encrypted", Set: setPayload},
	{Field: FieldPacketPayload4, Type: wire.LengthDelimited, Name: "encrypted", Set: setPayload},
	{Field: FieldPacketPayload5, Type: wire.LengthDelimited, Name: "encrypted", Set: setPayload},
	{Field: FieldPacketID, Type: wire.Fixed64, Name: "id", Set: setID},
	{Field: FieldPacketID, Type: wire.Varint, Name: "id", Set: setID},
	{Field: FieldPacketChannel, Type: wire.Varint, Name: "channel", Set: func(p *Packet, v wire.Value) { p.Channel = uint32(v.Uint) }},
	{Field: FieldPacketHopLimit, Type: wire.Varint, Name: "hop_limit", Set: func(p *Packet, v wire.Value) { p.HopLimit = uint32(v.Uint) }},
	{Field: FieldPacketHopStart, Type: wire.Varint, Name: "hop_start", Set: func(p *Packet, v wire.Value) { p.HopStart = uint32(v.Uint) }},
	{Field: FieldPacketWantAck, Type: wire.Varint, Name: "want_ack", Set: func(p *Packet, v wire.Value) { p.WantAck = v.Uint != 0 }},
}

var packetSchema = wire.NewSchema("packet", packetFields...)

// PacketDecoder decodes packets with an optional payload fallback.
type PacketDecoder struct {
	schema *wire.Schema[Packet]
}

// NewPacketDecoder returns a decoder using fb for unknown length-delimited
// fields. Pass a disabled PayloadFallback to decode by table only.
func NewPacketDecoder(fb PayloadFallback) *PacketDecoder {
	return &PacketDecoder{schema: packetSchema.WithFallback(fb.strategy())}
}

// Decode decodes b. The result is always marked valid; a packet without a
// payload is a legitimate outcome.
func (d *PacketDecoder) Decode(b []byte) (Packet, wire.Trace) {
	var p Packet
	tr := d.schema.Decode(b, &p)
	p.Valid = true
	return p, tr
}

// DecodePacket decodes b with the default payload fallback.
func DecodePacket(b []byte) (Packet, wire.Trace) {
	return defaultPacketDecoder.Decode(b)
}

var defaultPacketDecoder = NewPacketDecoder(DefaultPayloadFallback())

// EncodePacket writes the recognized fields of p. The id is written as
// fixed64 and the payload under field 5.
func EncodePacket(p Packet) []byte {
	var b wire.Builder
	b.Varint(FieldPacketFrom, uint64(p.From))
	b.Varint(FieldPacketTo, uint64(p.To))
	if len(p.Encrypted) > 0 {
		b.Bytes(FieldPacketPayload5, p.Encrypted)
	}
	b.Fixed64(FieldPacketID, p.ID)
	if p.Channel != 0 {
		b.Varint(FieldPacketChannel, uint64(p.Channel))
	}
	if p.HopLimit != 0 {
		b.Varint(FieldPacketHopLimit, uint64(p.HopLimit))
	}
	if p.HopStart != 0 {
		b.Varint(FieldPacketHopStart, uint64(p.HopStart))
	}
	if p.WantAck {
		b.Varint(FieldPacketWantAck, 1)
	}
	return b.Encoded()
}
