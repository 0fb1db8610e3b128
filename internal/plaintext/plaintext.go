// Package plaintext decides whether recovered bytes look like text.
package plaintext

// Result is the outcome of one scan.
type Result struct {
	Printable bool   `json:"printable"`
	Text      string `json:"text"`
}

// Readable reports a printable, non-empty recovery.
func (r Result) Readable() bool {
	return r.Printable && r.Text != ""
}

// Matches reports whether the recovery is printable and equals expected.
func (r Result) Matches(expected string) bool {
	return r.Printable && r.Text == expected
}

// Validate scans b in order. Printable ASCII (32..126) is collected, a zero
// byte ends the text, anything else fails the scan and discards the text.
func Validate(b []byte) Result {
	text := make([]byte, 0, len(b))
	for _, c := range b {
		switch {
		case c >= 32 && c <= 126:
			text = append(text, c)
		case c == 0:
			return Result{Printable: true, Text: string(text)}
		default:
			return Result{}
		}
	}
	return Result{Printable: true, Text: string(text)}
}
