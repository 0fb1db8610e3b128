package wire

import "google.golang.org/protobuf/encoding/protowire"

// Builder appends fields in wire order. Its zero value is ready to use.
type Builder struct {
	buf []byte
}

func (b *Builder) Varint(field uint32, v uint64) *Builder {
	b.buf = protowire.AppendTag(b.buf, protowire.Number(field), protowire.VarintType)
	b.buf = protowire.AppendVarint(b.buf, v)
	return b
}

func (b *Builder) Fixed64(field uint32, v uint64) *Builder {
	b.buf = protowire.AppendTag(b.buf, protowire.Number(field), protowire.Fixed64Type)
	b.buf = protowire.AppendFixed64(b.buf, v)
	return b
}

func (b *Builder) Fixed32(field uint32, v uint32) *Builder {
	b.buf = protowire.AppendTag(b.buf, protowire.Number(field), protowire.Fixed32Type)
	b.buf = protowire.AppendFixed32(b.buf, v)
	return b
}

func (b *Builder) Bytes(field uint32, v []byte) *Builder {
	b.buf = protowire.AppendTag(b.buf, protowire.Number(field), protowire.BytesType)
	b.buf = protowire.AppendBytes(b.buf, v)
	return b
}

func (b *Builder) Text(field uint32, v string) *Builder {
	b.buf = protowire.AppendTag(b.buf, protowire.Number(field), protowire.BytesType)
	b.buf = protowire.AppendString(b.buf, v)
	return b
}

// Raw appends pre-encoded bytes verbatim.
func (b *Builder) Raw(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Encoded returns a copy of the accumulated message.
func (b *Builder) Encoded() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}
