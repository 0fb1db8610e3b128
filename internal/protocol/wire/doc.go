// Package wire owns the protobuf wire-format subset used by mesh messages.
//
// Ownership boundary:
// - varint primitives
// - tag and typed field readers
// - schema-driven decode loop
//
// Decoding never fails hard. Truncated or malformed input halts the reader and
// the caller keeps whatever fields were populated before the halt.
package wire
