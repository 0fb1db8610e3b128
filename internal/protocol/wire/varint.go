package wire

// MaxVarintLen is the longest varint that still contributes bits to a uint64.
const MaxVarintLen = 10

// ReadVarint decodes a base-128 varint from the front of b.
//
// Bits beyond shift 64 are discarded instead of reported. Input that ends
// before a terminating byte yields whatever was accumulated, so n == len(b)
// with the high bit set on the last byte is the only truncation signal.
func ReadVarint(b []byte) (uint64, int) {
	var v uint64
	var shift uint
	n := 0
	for n < len(b) && shift < 64 {
		c := b[n]
		n++
		v |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			break
		}
		shift += 7
	}
	return v, n
}
