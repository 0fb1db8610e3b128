package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/meshdecode/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshdecode.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTemplateMatchesDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "meshdecode.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Cipher != def.Cipher || cfg.Fallback != def.Fallback || cfg.Format != def.Format ||
		cfg.ListenAddr != def.ListenAddr || cfg.HTTPAddr != def.HTTPAddr || cfg.MaxEnvelopeBytes != def.MaxEnvelopeBytes {
		t.Fatalf("template drifted from defaults:\n got=%+v\nwant=%+v", cfg, def)
	}
	if cfg.PSK != "AQ==" {
		t.Fatalf("unexpected psk: %q", cfg.PSK)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
cipher = " chacha20 "
fallback_enabled = false
format = "JSON"
cors_origins = ["  ", "http://a.example"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cipher != "chacha20" || cfg.Fallback.Enabled || cfg.Format != "json" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.Fallback.Min != 1 || cfg.Fallback.Max != 999 {
		t.Fatalf("fallback window should keep defaults: %+v", cfg.Fallback)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://a.example" {
		t.Fatalf("unexpected origins: %+v", cfg.CorsOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"cipher":             `cipher = "rot13"`,
		"fallback_min":       "fallback_min = 0",
		"fallback_max":       "fallback_min = 10\nfallback_max = 5",
		"format":             `format = "yaml"`,
		"max_envelope_bytes": "max_envelope_bytes = 0",
		"surprise":           "surprise = 1",
	}
	for key, body := range cases {
		_, err := Load(writeConfig(t, body))
		var verr ValidationError
		if !errors.As(err, &verr) || verr.Key != key {
			t.Fatalf("%s: expected ValidationError for key, got %v", key, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadTLSFiles(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "tls_cert_file = \"server.crt\"\ntls_key_file = \"server.key\"\ntls_ca_file = \"ca.crt\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TLS.CertFile != "server.crt" || cfg.TLS.KeyFile != "server.key" || cfg.TLS.CAFile != "ca.crt" {
		t.Fatalf("unexpected tls: %+v", cfg.TLS)
	}

	path = writeConfig(t, "tls_key_file = \"server.key\"\n")
	var verr ValidationError
	if _, err := Load(path); !errors.As(err, &verr) || verr.Key != "tls_cert_file" {
		t.Fatalf("expected tls_cert_file validation error, got %v", err)
	}
}
