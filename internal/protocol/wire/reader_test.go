package wire

import (
	"bytes"
	"testing"

	"github.com/danmuck/meshdecode/internal/testutil/testlog"
)

func TestReadTagSplitsFieldAndType(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x0A, 0x31, 0x98, 0x01})
	if tag := r.ReadTag(); tag != (Tag{Field: 1, Type: LengthDelimited}) {
		t.Fatalf("unexpected tag: %+v", tag)
	}
	if tag := r.ReadTag(); tag != (Tag{Field: 6, Type: Fixed64}) {
		t.Fatalf("unexpected tag: %+v", tag)
	}
	if tag := r.ReadTag(); tag != (Tag{Field: 19, Type: Varint}) {
		t.Fatalf("unexpected tag: %+v", tag)
	}
	if r.More() {
		t.Fatalf("expected reader exhausted")
	}
}

func TestReadFixedWidthLittleEndian(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8, 0xAA, 0xBB, 0xCC, 0xDD})
	v64, ok := r.ReadFixed64()
	if !ok || v64 != 0x0807060504030201 {
		t.Fatalf("fixed64: ok=%v v=0x%x", ok, v64)
	}
	v32, ok := r.ReadFixed32()
	if !ok || v32 != 0xDDCCBBAA {
		t.Fatalf("fixed32: ok=%v v=0x%x", ok, v32)
	}
}

func TestShortFixedFailsWithoutHalting(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{1, 2, 3})
	if _, ok := r.ReadFixed64(); ok {
		t.Fatalf("expected short fixed64 to fail")
	}
	if r.Halted() || r.Offset() != 0 || !r.More() {
		t.Fatalf("expected live reader at offset 0, halted=%v off=%d", r.Halted(), r.Offset())
	}
	if _, ok := r.ReadFixed32(); ok {
		t.Fatalf("expected short fixed32 to fail")
	}
	if r.Halted() || r.Offset() != 0 {
		t.Fatalf("short fixed32 moved the reader: halted=%v off=%d", r.Halted(), r.Offset())
	}
}

func TestReadBytesHonoursDeclaredLength(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x03, 'a', 'b', 'c', 'd'})
	b, ok := r.ReadBytes()
	if !ok || !bytes.Equal(b, []byte("abc")) {
		t.Fatalf("unexpected bytes: ok=%v b=%q", ok, b)
	}
	if r.Remaining() != 1 {
		t.Fatalf("expected 1 byte remaining, got %d", r.Remaining())
	}
}

func TestReadBytesOverlongLengthHalts(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x05, 'a', 'b'})
	if _, ok := r.ReadBytes(); ok {
		t.Fatalf("expected overlong length to fail")
	}
	if !r.Halted() || r.Offset() != 1 {
		t.Fatalf("expected halt after length prefix, halted=%v off=%d", r.Halted(), r.Offset())
	}
}

func TestReadValueUnsupportedTypeConsumesNothing(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x01})
	v, ok := r.ReadValue(WireType(3))
	if !ok || v.Uint != 0 || v.Bytes != nil || r.Offset() != 0 {
		t.Fatalf("unexpected result: ok=%v v=%+v off=%d", ok, v, r.Offset())
	}
}

func TestWireTypeTextRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, want := range []WireType{Varint, Fixed64, LengthDelimited, Fixed32, WireType(6)} {
		b, _ := want.MarshalText()
		var got WireType
		if err := got.UnmarshalText(b); err != nil || got != want {
			t.Fatalf("%s: got %v err=%v", b, got, err)
		}
	}
	var bad WireType
	if err := bad.UnmarshalText([]byte("float")); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}
