// Package ingest receives raw envelopes over QUIC, one envelope per stream.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/danmuck/meshdecode/internal/observability"
	quic "github.com/quic-go/quic-go"
	"github.com/rs/zerolog"
)

var ErrEnvelopeTooLarge = errors.New("ingest: envelope exceeds size limit")

// Handler receives one complete envelope. It may be called concurrently.
type Handler func(remote net.Addr, data []byte)

type Server struct {
	Addr     string
	MaxBytes int64
	Handler  Handler
	Logger   zerolog.Logger
	TLS      TLSFiles
}

// Serve listens until ctx is cancelled. The bound address is sent on ready
// once the listener is up.
func (s *Server) Serve(ctx context.Context, ready chan<- net.Addr) error {
	tlsConf, err := serverTLSConfig(s.TLS)
	if err != nil {
		return err
	}
	listener, err := quic.ListenAddr(s.Addr, tlsConf, nil)
	if err != nil {
		return fmt.Errorf("ingest listen %s: %w", s.Addr, err)
	}
	defer listener.Close()
	s.Logger.Info().Str("addr", listener.Addr().String()).Msg("ingest listening")
	if ready != nil {
		ready <- listener.Addr()
	}

	stop := closeOnDone(ctx, listener)
	defer stop()

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("ingest accept: %w", err)
		}
		s.Logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("ingest connection")
		go s.serveConn(ctx, conn)
	}
}

// closeOnDone closes c when ctx ends. The returned stop detaches the hook so
// nothing outlives an early return from Serve.
func closeOnDone(ctx context.Context, c io.Closer) (stop func() bool) {
	return context.AfterFunc(ctx, func() { _ = c.Close() })
}

func (s *Server) serveConn(ctx context.Context, conn *quic.Conn) {
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			s.Logger.Debug().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("ingest connection closed")
			return
		}
		go s.serveStream(conn.RemoteAddr(), stream)
	}
}

func (s *Server) serveStream(remote net.Addr, stream *quic.Stream) {
	defer stream.Close()
	data, err := readEnvelope(stream, s.MaxBytes)
	if err != nil {
		observability.RecordIngest("quic", false)
		s.Logger.Warn().Err(err).Str("remote", remote.String()).Msg("ingest stream dropped")
		stream.CancelRead(0)
		return
	}
	if len(data) == 0 {
		return
	}
	observability.RecordIngest("quic", true)
	s.Handler(remote, data)
}

func readEnvelope(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrEnvelopeTooLarge
	}
	return data, nil
}

// Send dials addr and writes data as a single envelope stream. With insecure
// unset, the server must chain to files.CAFile, or present the built-in dev
// certificate when no CA is given.
func Send(ctx context.Context, addr string, data []byte, files TLSFiles, insecure bool) error {
	tlsConf, err := clientTLSConfig(files, insecure)
	if err != nil {
		return err
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, nil)
	if err != nil {
		return fmt.Errorf("ingest dial %s: %w", addr, err)
	}
	defer conn.CloseWithError(0, "")

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return err
	}
	if _, err := stream.Write(data); err != nil {
		return err
	}
	if err := stream.Close(); err != nil {
		return err
	}
	// Wait for the server to finish reading before the connection closes.
	_, _ = io.Copy(io.Discard, stream)
	return nil
}
