package keystream

// XOR is the reference placeholder stream:
//
//	ks[i] = key[i % 16] ^ byte(nonce >> (i % 8))
//
// Only the first 16 key bytes take part.
type XOR struct{}

func (XOR) Name() string { return "xor" }

func (XOR) KeyStream(dst, key []byte, nonce, offset uint64) error {
	if len(key) < MinKeyLen {
		return ErrShortKey
	}
	for j := range dst {
		i := offset + uint64(j)
		dst[j] = key[i%MinKeyLen] ^ byte(nonce>>(i%8))
	}
	return nil
}
