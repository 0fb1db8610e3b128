package ingest

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"strings"
	"time"
)

// ALPN is the application protocol negotiated on every ingest connection.
const ALPN = "meshdecode"

var (
	ErrTLSCertFileRequired = errors.New("ingest: tls cert file required")
	ErrTLSKeyFileRequired  = errors.New("ingest: tls key file required")
)

// TLSFiles points at PEM material. A zero value selects the built-in dev
// certificate on the server and pins it on the client.
type TLSFiles struct {
	CertFile string
	KeyFile  string
	// CAFile is the trust root used by senders.
	CAFile string
	// ServerName overrides SNI/verification name on the sender side.
	ServerName string
}

func (f TLSFiles) custom() bool {
	return strings.TrimSpace(f.CertFile) != "" || strings.TrimSpace(f.KeyFile) != ""
}

// ValidateServer reports whether f describes a usable listener identity.
func (f TLSFiles) ValidateServer() error {
	if !f.custom() {
		return nil
	}
	if strings.TrimSpace(f.CertFile) == "" {
		return ErrTLSCertFileRequired
	}
	if strings.TrimSpace(f.KeyFile) == "" {
		return ErrTLSKeyFileRequired
	}
	return nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// devCertificate is deterministic so a sender can pin it without exchanging
// files. It is only fit for local capture setups.
func devCertificate() (tls.Certificate, []byte, error) {
	seed := sha256.Sum256([]byte("meshdecode-ingest-dev-key"))
	priv := ed25519.NewKeyFromSeed(seed[:])
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
	der, err := x509.CreateCertificate(zeroReader{}, &template, &template, priv.Public(), priv)
	if err != nil {
		return tls.Certificate{}, nil, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}, der, nil
}

func serverTLSConfig(files TLSFiles) (*tls.Config, error) {
	if err := files.ValidateServer(); err != nil {
		return nil, err
	}
	var cert tls.Certificate
	var err error
	if files.custom() {
		cert, err = tls.LoadX509KeyPair(files.CertFile, files.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("ingest load key pair: %w", err)
		}
	} else {
		cert, _, err = devCertificate()
		if err != nil {
			return nil, err
		}
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}

func clientTLSConfig(files TLSFiles, insecure bool) (*tls.Config, error) {
	if insecure {
		return &tls.Config{
			InsecureSkipVerify: true,
			NextProtos:         []string{ALPN},
			MinVersion:         tls.VersionTLS13,
		}, nil
	}
	pool := x509.NewCertPool()
	serverName := "localhost"
	if strings.TrimSpace(files.CAFile) != "" {
		data, err := os.ReadFile(files.CAFile)
		if err != nil {
			return nil, fmt.Errorf("ingest read ca: %w", err)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("ingest: no certificates in %s", files.CAFile)
		}
	} else {
		_, der, err := devCertificate()
		if err != nil {
			return nil, err
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, err
		}
		pool.AddCert(cert)
	}
	if files.ServerName != "" {
		serverName = files.ServerName
	}
	return &tls.Config{
		RootCAs:    pool,
		ServerName: serverName,
		NextProtos: []string{ALPN},
		MinVersion: tls.VersionTLS13,
	}, nil
}
