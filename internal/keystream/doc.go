// Package keystream defines the shared-key stream cipher contract used to
// recover packet payloads.
//
// A Stream maps (key, nonce, offset) to keystream bytes deterministically and
// supports random access, so any offset can be produced without generating the
// bytes before it. Decrypt and Encrypt are the same XOR.
//
// The "xor" stream reproduces the reference behavior and is not a secure
// construction. "chacha20" and "aes-ctr" satisfy the same contract with real
// ciphers and can replace it without touching the decoder.
package keystream
