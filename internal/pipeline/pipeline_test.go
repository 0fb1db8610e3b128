package pipeline

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/psk"
	"github.com/danmuck/meshdecode/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

func quiet() Option {
	return WithLogger(zerolog.New(io.Discard))
}

func sealedEnvelope(t *testing.T, s keystream.Stream, text string) []byte {
	t.Helper()
	pkt := mesh.Packet{From: 0xA1B2C3D4, To: mesh.Broadcast, ID: 0x0000BEEF, HopLimit: 3}
	ct, err := keystream.Encrypt(s, psk.Default(), pkt.Nonce(), []byte(text))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	pkt.Encrypted = ct
	return mesh.EncodeEnvelope(mesh.Envelope{
		Packet:    mesh.EncodePacket(pkt),
		ChannelID: "LongFast",
		GatewayID: "!a1b2c3d4",
	})
}

func TestDecodeRecoversPlaintext(t *testing.T) {
	testlog.Start(t)
	raw := sealedEnvelope(t, keystream.XOR{}, "hello mesh")

	var reported []Result
	p := New(quiet(), WithReporter(ReporterFunc(func(r Result) { reported = append(reported, r) })))
	res := p.Decode(raw, Request{Key: psk.Default(), Expected: "hello mesh"})

	if !res.Envelope.Valid || res.Packet == nil || !res.Packet.IsBroadcast() {
		t.Fatalf("unexpected decode: %+v", res)
	}
	if !res.Readable() || res.Decryption.Validation.Text != "hello mesh" {
		t.Fatalf("expected readable plaintext, got %+v", res.Decryption)
	}
	if met, checked := res.ExpectationMet(); !met || !checked {
		t.Fatalf("expected expectation met, got met=%v checked=%v", met, checked)
	}
	if len(reported) != 1 {
		t.Fatalf("expected one report, got %d", len(reported))
	}
}

func TestDecodeWithAlternateStream(t *testing.T) {
	testlog.Start(t)
	raw := sealedEnvelope(t, keystream.ChaCha20{}, "over chacha")
	res := New(quiet(), WithStream(keystream.ChaCha20{})).Decode(raw, Request{Key: psk.Default()})
	if !res.Readable() || res.Decryption.Validation.Text != "over chacha" || res.Decryption.Stream != "chacha20" {
		t.Fatalf("unexpected decryption: %+v", res.Decryption)
	}
}

func TestDecodeWrongKeyIsNotAnError(t *testing.T) {
	testlog.Start(t)
	raw := sealedEnvelope(t, keystream.ChaCha20{}, "secret words")
	wrong := bytes.Repeat([]byte{0x42}, 16)
	res := New(quiet(), WithStream(keystream.ChaCha20{})).Decode(raw, Request{Key: wrong, Expected: "secret words"})
	if res.Decryption == nil || res.Decryption.Err != nil {
		t.Fatalf("expected attempted decryption without error: %+v", res.Decryption)
	}
	if met, _ := res.ExpectationMet(); met {
		t.Fatalf("wrong key must not match expectation")
	}
}

func TestDecodeEmptyInputSkipsPacket(t *testing.T) {
	testlog.Start(t)
	res := New(quiet()).Decode(nil, Request{Key: psk.Default()})
	if res.Envelope.Valid || res.Packet != nil || res.Decryption != nil {
		t.Fatalf("expected invalid envelope only, got %+v", res)
	}
}

func TestDecodeShortKeyRecordsRefusal(t *testing.T) {
	testlog.Start(t)
	raw := sealedEnvelope(t, keystream.XOR{}, "hi")
	res := New(quiet()).Decode(raw, Request{Key: []byte{1, 2, 3}})
	if res.Decryption == nil || !errors.Is(res.Decryption.Err, keystream.ErrShortKey) {
		t.Fatalf("expected ErrShortKey refusal, got %+v", res.Decryption)
	}
	if res.Decryption.Plaintext != nil || res.Readable() {
		t.Fatalf("refused decryption must not produce output")
	}
}

func TestDecodeWithoutKeyOrPayloadSkipsDecrypt(t *testing.T) {
	testlog.Start(t)
	raw := sealedEnvelope(t, keystream.XOR{}, "hi")
	if res := New(quiet()).Decode(raw, Request{}); res.Decryption != nil {
		t.Fatalf("expected no decryption without key")
	}

	bare := mesh.EncodeEnvelope(mesh.Envelope{Packet: mesh.EncodePacket(mesh.Packet{From: 1, To: 2, ID: 3})})
	res := New(quiet()).Decode(bare, Request{Key: psk.Default()})
	if res.Packet == nil || !res.Packet.Valid || res.Decryption != nil {
		t.Fatalf("expected valid packet without decryption, got %+v", res)
	}
}

func TestDecodeFallbackDisabledLeavesPayloadEmpty(t *testing.T) {
	testlog.Start(t)
	inner := []byte{0x08, 0x01, 0xA2, 0x02, 0x02, 'h', 'i'} // field 36, bytes
	raw := mesh.EncodeEnvelope(mesh.Envelope{Packet: inner})

	on := New(quiet()).Decode(raw, Request{})
	if string(on.Packet.Encrypted) != "hi" {
		t.Fatalf("expected fallback capture, got %q", on.Packet.Encrypted)
	}
	off := New(quiet(), WithFallback(mesh.PayloadFallback{})).Decode(raw, Request{})
	if off.Packet.Encrypted != nil {
		t.Fatalf("expected no capture, got %q", off.Packet.Encrypted)
	}
}
