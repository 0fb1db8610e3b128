package config

import (
	"fmt"
	"os"
)

// Template returns a commented config file with the default values.
func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# keystream: xor | chacha20 | aes-ctr
cipher = "xor"

# "AQ==" selects the default channel key; otherwise hex or base64:<data>
psk = "AQ=="

# capture unknown length-delimited packet fields of this size as payload
fallback_enabled = true
fallback_min = 1
fallback_max = 999

# text | json
format = "text"
traces = false

listen_addr = "127.0.0.1:4443"
http_addr = "127.0.0.1:9180"
cors_origins = ["http://localhost:3000"]
max_envelope_bytes = 65536

# leave empty for the built-in dev certificate
tls_cert_file = ""
tls_key_file = ""
# senders verify against this CA instead of the dev pin
tls_ca_file = ""
tls_server_name = ""
`
