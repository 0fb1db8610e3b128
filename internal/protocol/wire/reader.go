package wire

import (
	"encoding/binary"
	"fmt"
)

// WireType is the 3-bit framing code carried in every tag.
type WireType uint8

const (
	Varint          WireType = 0
	Fixed64         WireType = 1
	LengthDelimited WireType = 2
	Fixed32         WireType = 5
)

func (t WireType) String() string {
	switch t {
	case Varint:
		return "varint"
	case Fixed64:
		return "fixed64"
	case LengthDelimited:
		return "bytes"
	case Fixed32:
		return "fixed32"
	default:
		return fmt.Sprintf("wiretype(%d)", uint8(t))
	}
}

func (t WireType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *WireType) UnmarshalText(b []byte) error {
	for _, c := range []WireType{Varint, Fixed64, LengthDelimited, Fixed32} {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	var n uint8
	if _, err := fmt.Sscanf(string(b), "wiretype(%d)", &n); err != nil {
		return fmt.Errorf("wire: unknown wire type %q", b)
	}
	*t = WireType(n)
	return nil
}

// Tag is one decoded field key.
type Tag struct {
	Field uint32
	Type  WireType
}

// Value is one field payload as read off the wire. Bytes aliases the reader's
// buffer; setters that keep it must copy.
type Value struct {
	Type  WireType
	Uint  uint64
	Bytes []byte
}

// Reader is a bounds-checked cursor over an encoded message.
type Reader struct {
	buf    []byte
	off    int
	halted bool
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining reports the unread byte count.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset reports how many bytes have been consumed.
func (r *Reader) Offset() int {
	return r.off
}

// Halted reports whether a short length-delimited read stopped the reader.
func (r *Reader) Halted() bool {
	return r.halted
}

// More reports whether another tag can be read.
func (r *Reader) More() bool {
	return !r.halted && r.Remaining() > 0
}

// ReadVarint consumes one varint.
func (r *Reader) ReadVarint() uint64 {
	v, n := ReadVarint(r.buf[r.off:])
	r.off += n
	return v
}

// ReadTag consumes one tag varint and splits it into field number and wire type.
func (r *Reader) ReadTag() Tag {
	v := r.ReadVarint()
	return Tag{Field: uint32(v >> 3), Type: WireType(v & 0x7)}
}

// ReadFixed64 consumes a little-endian 64-bit value. A short buffer fails the
// read and leaves the cursor in place; the reader is not halted, so the
// following bytes are still read as tags.
func (r *Reader) ReadFixed64() (uint64, bool) {
	if r.Remaining() < 8 {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, true
}

// ReadFixed32 consumes a little-endian 32-bit value. A short buffer fails the
// read and leaves the cursor in place; the reader is not halted, so the
// following bytes are still read as tags.
func (r *Reader) ReadFixed32() (uint32, bool) {
	if r.Remaining() < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, true
}

// ReadBytes consumes a length prefix and the payload it declares. When the
// declared length exceeds what remains, only the prefix is consumed and the
// reader halts.
func (r *Reader) ReadBytes() ([]byte, bool) {
	n := r.ReadVarint()
	if uint64(r.Remaining()) < n {
		r.halted = true
		return nil, false
	}
	end := r.off + int(n)
	b := r.buf[r.off:end:end]
	r.off = end
	return b, true
}

// ReadValue consumes the payload framed by t. Wire types outside the four
// supported ones carry no payload here and consume nothing.
func (r *Reader) ReadValue(t WireType) (Value, bool) {
	v := Value{Type: t}
	var ok bool
	switch t {
	case Varint:
		v.Uint, ok = r.ReadVarint(), true
	case Fixed64:
		v.Uint, ok = r.ReadFixed64()
	case LengthDelimited:
		v.Bytes, ok = r.ReadBytes()
	case Fixed32:
		var u uint32
		u, ok = r.ReadFixed32()
		v.Uint = uint64(u)
	default:
		ok = true
	}
	return v, ok
}
