package keystream

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// AESCTR runs AES in counter mode with IV = le64(nonce) || be64(block). The
// key must be 16, 24 or 32 bytes.
type AESCTR struct{}

func (AESCTR) Name() string { return "aes-ctr" }

func (AESCTR) KeyStream(dst, key []byte, nonce, offset uint64) error {
	if len(key) < MinKeyLen {
		return ErrShortKey
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return ErrKeySize
	}
	iv := make([]byte, aes.BlockSize)
	binary.LittleEndian.PutUint64(iv[:8], nonce)
	binary.BigEndian.PutUint64(iv[8:], offset/aes.BlockSize)

	ctr := cipher.NewCTR(b, iv)
	if skip := offset % aes.BlockSize; skip > 0 {
		scratch := make([]byte, skip)
		ctr.XORKeyStream(scratch, scratch)
	}
	clear(dst)
	ctr.XORKeyStream(dst, dst)
	return nil
}
