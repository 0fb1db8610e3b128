// Package mesh decodes the envelope and packet records carried over the
// broker transport.
//
// Both records are declared as field tables over wire.Schema; adding a
// recognized field means adding a table entry, not another dispatch loop.
package mesh
