// Package commands wires the meshdecode CLI.
//
// Commands
//
//   - decode: decode one hex envelope given as arguments or on stdin
//   - console: interactive prompt loop
//   - encode: build envelopes from flags or a TOML vector file
//   - listen: QUIC ingest plus HTTP health/metrics/decode endpoints
//   - send: push one hex envelope to a listener
//
// Every command reads the optional --config file first; explicit flags win
// over file values.
package commands
