package mesh

import "github.com/danmuck/meshdecode/internal/protocol/wire"

// PayloadFallback is a heuristic: an unknown length-delimited packet field
// whose length falls inside [Min, Max] is taken as the encrypted payload.
// It is a capture aid for variants with unexpected field numbers, not part of
// the packet schema. Later matches overwrite earlier ones.
type PayloadFallback struct {
	Enabled bool
	Min     int
	Max     int
}

// DefaultPayloadFallback captures payloads of 1 to 999 bytes.
func DefaultPayloadFallback() PayloadFallback {
	return PayloadFallback{Enabled: true, Min: 1, Max: 999}
}

// Accepts reports whether a field of n bytes would be captured. Empty fields
// are never captured, whatever Min says.
func (f PayloadFallback) Accepts(n int) bool {
	return f.Enabled && n > 0 && n >= f.Min && n <= f.Max
}

func (f PayloadFallback) strategy() wire.Fallback[Packet] {
	if !f.Enabled {
		return nil
	}
	return func(p *Packet, _ uint32, v wire.Value) bool {
		if !f.Accepts(len(v.Bytes)) {
			return false
		}
		p.Encrypted = cloneBytes(v.Bytes)
		return true
	}
}
