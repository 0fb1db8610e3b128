package keystream

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const chachaBlock = 64

var chachaInfo = []byte("meshdecode chacha20")

// ChaCha20 stretches the PSK to 32 bytes with HKDF-SHA256 and runs the IETF
// ChaCha20 stream with nonce = 0x00000000 || be64(nonce).
type ChaCha20 struct{}

func (ChaCha20) Name() string { return "chacha20" }

func (ChaCha20) KeyStream(dst, key []byte, nonce, offset uint64) error {
	if len(key) < MinKeyLen {
		return ErrShortKey
	}
	block := offset / chachaBlock
	last := (offset + uint64(len(dst)) + chachaBlock - 1) / chachaBlock
	if last > 1<<32 {
		return ErrOffsetRange
	}

	k := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, chachaInfo), k); err != nil {
		return err
	}
	n := make([]byte, chacha20.NonceSize)
	binary.BigEndian.PutUint64(n[4:], nonce)

	c, err := chacha20.NewUnauthenticatedCipher(k, n)
	if err != nil {
		return err
	}
	c.SetCounter(uint32(block))
	if skip := offset % chachaBlock; skip > 0 {
		scratch := make([]byte, skip)
		c.XORKeyStream(scratch, scratch)
	}
	clear(dst)
	c.XORKeyStream(dst, dst)
	return nil
}
