package keystream

import (
	"errors"
	"fmt"
	"sort"
)

// MinKeyLen is the shortest key any stream accepts.
const MinKeyLen = 16

var (
	ErrEmptyCiphertext = errors.New("keystream: empty ciphertext")
	ErrShortKey        = errors.New("keystream: key shorter than 16 bytes")
	ErrKeySize         = errors.New("keystream: unsupported key size")
	ErrOffsetRange     = errors.New("keystream: offset out of range")
	ErrUnknownStream   = errors.New("keystream: unknown stream")
)

// Stream produces keystream bytes.
type Stream interface {
	Name() string
	// KeyStream fills dst with the keystream bytes at [offset, offset+len(dst)).
	KeyStream(dst, key []byte, nonce, offset uint64) error
}

// Decrypt XORs ciphertext with the keystream of s starting at offset 0. Empty
// ciphertext and short keys are refused before any byte is processed.
func Decrypt(s Stream, key []byte, nonce uint64, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrEmptyCiphertext
	}
	if len(key) < MinKeyLen {
		return nil, ErrShortKey
	}
	out := make([]byte, len(ciphertext))
	if err := s.KeyStream(out, key, nonce, 0); err != nil {
		return nil, fmt.Errorf("%s keystream: %w", s.Name(), err)
	}
	for i := range out {
		out[i] ^= ciphertext[i]
	}
	return out, nil
}

// Encrypt is Decrypt; XOR is its own inverse.
func Encrypt(s Stream, key []byte, nonce uint64, plaintext []byte) ([]byte, error) {
	return Decrypt(s, key, nonce, plaintext)
}

var streams = map[string]Stream{
	XOR{}.Name():      XOR{},
	ChaCha20{}.Name(): ChaCha20{},
	AESCTR{}.Name():   AESCTR{},
}

// Lookup resolves a stream by name.
func Lookup(name string) (Stream, error) {
	s, ok := streams[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStream, name)
	}
	return s, nil
}

// Names lists the registered stream names in order.
func Names() []string {
	out := make([]string, 0, len(streams))
	for name := range streams {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
