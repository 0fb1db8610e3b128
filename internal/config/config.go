package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/meshdecode/internal/ingest"
	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/mesh"
)

// Config is the resolved runtime configuration.
type Config struct {
	Cipher           string
	PSK              string
	Fallback         mesh.PayloadFallback
	Format           string
	Traces           bool
	ListenAddr       string
	HTTPAddr         string
	CorsOrigins      []string
	MaxEnvelopeBytes int64
	TLS              ingest.TLSFiles
}

type fileConfig struct {
	Cipher           string   `toml:"cipher"`
	PSK              string   `toml:"psk"`
	FallbackEnabled  bool     `toml:"fallback_enabled"`
	FallbackMin      int      `toml:"fallback_min"`
	FallbackMax      int      `toml:"fallback_max"`
	Format           string   `toml:"format"`
	Traces           bool     `toml:"traces"`
	ListenAddr       string   `toml:"listen_addr"`
	HTTPAddr         string   `toml:"http_addr"`
	CorsOrigins      []string `toml:"cors_origins"`
	MaxEnvelopeBytes int64    `toml:"max_envelope_bytes"`
	TLSCertFile      string   `toml:"tls_cert_file"`
	TLSKeyFile       string   `toml:"tls_key_file"`
	TLSCAFile        string   `toml:"tls_ca_file"`
	TLSServerName    string   `toml:"tls_server_name"`
}

// ValidationError names the offending key.
type ValidationError struct {
	Key    string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

func DefaultConfig() Config {
	return Config{
		Cipher:           keystream.XOR{}.Name(),
		Fallback:         mesh.DefaultPayloadFallback(),
		Format:           "text",
		ListenAddr:       "127.0.0.1:4443",
		HTTPAddr:         "127.0.0.1:9180",
		CorsOrigins:      []string{"http://localhost:3000"},
		MaxEnvelopeBytes: 64 * 1024,
	}
}

// Load reads path over DefaultConfig. Only keys present in the file
// override defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, ValidationError{Key: undecoded[0].String(), Reason: "unknown key"}
	}

	if meta.IsDefined("cipher") {
		cfg.Cipher = strings.TrimSpace(raw.Cipher)
	}
	if meta.IsDefined("psk") {
		cfg.PSK = strings.TrimSpace(raw.PSK)
	}
	if meta.IsDefined("fallback_enabled") {
		cfg.Fallback.Enabled = raw.FallbackEnabled
	}
	if meta.IsDefined("fallback_min") {
		cfg.Fallback.Min = raw.FallbackMin
	}
	if meta.IsDefined("fallback_max") {
		cfg.Fallback.Max = raw.FallbackMax
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("traces") {
		cfg.Traces = raw.Traces
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("http_addr") {
		cfg.HTTPAddr = strings.TrimSpace(raw.HTTPAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("max_envelope_bytes") {
		cfg.MaxEnvelopeBytes = raw.MaxEnvelopeBytes
	}
	cfg.TLS = ingest.TLSFiles{
		CertFile:   strings.TrimSpace(raw.TLSCertFile),
		KeyFile:    strings.TrimSpace(raw.TLSKeyFile),
		CAFile:     strings.TrimSpace(raw.TLSCAFile),
		ServerName: strings.TrimSpace(raw.TLSServerName),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := keystream.Lookup(cfg.Cipher); err != nil {
		return ValidationError{Key: "cipher", Reason: fmt.Sprintf("unknown stream %q (have %s)", cfg.Cipher, strings.Join(keystream.Names(), ", "))}
	}
	if cfg.Fallback.Min < 1 {
		return ValidationError{Key: "fallback_min", Reason: "must be at least 1"}
	}
	if cfg.Fallback.Max < cfg.Fallback.Min {
		return ValidationError{Key: "fallback_max", Reason: "window must satisfy 1 <= min <= max"}
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return ValidationError{Key: "format", Reason: "must be text or json"}
	}
	if cfg.MaxEnvelopeBytes <= 0 {
		return ValidationError{Key: "max_envelope_bytes", Reason: "must be positive"}
	}
	if err := cfg.TLS.ValidateServer(); err != nil {
		key := "tls_key_file"
		if errors.Is(err, ingest.ErrTLSCertFileRequired) {
			key = "tls_cert_file"
		}
		return ValidationError{Key: key, Reason: err.Error()}
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
