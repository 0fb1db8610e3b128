package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/meshdecode/internal/keystream"
	"github.com/danmuck/meshdecode/internal/mesh"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/psk"
	"github.com/danmuck/meshdecode/internal/testutil/testlog"
)

func sealedHex(t *testing.T, text string) string {
	t.Helper()
	pkt := mesh.Packet{From: 0x1234, To: mesh.Broadcast, ID: 99}
	ct, err := keystream.Encrypt(keystream.XOR{}, psk.Default(), pkt.Nonce(), []byte(text))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	pkt.Encrypted = ct
	return hex.EncodeToString(mesh.EncodeEnvelope(mesh.Envelope{Packet: mesh.EncodePacket(pkt), ChannelID: "LongFast"}))
}

func TestHealthRoute(t *testing.T) {
	testlog.Start(t)
	s := New("meshdecode", ":0", nil, pipeline.New())
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response: %d %s", rr.Code, rr.Body.String())
	}
}

func TestDecodeRouteRecoversText(t *testing.T) {
	testlog.Start(t)
	s := New("meshdecode", ":0", nil, pipeline.New())
	body := `{"envelope":"` + sealedHex(t, "over http") + `","psk":"AQ==","expected":"over http"}`
	req := httptest.NewRequest(http.MethodPost, "/decode", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Readable bool            `json:"readable"`
		Matched  bool            `json:"matched"`
		Result   pipeline.Result `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !out.Readable || !out.Matched || out.Result.Envelope.ChannelID != "LongFast" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
	testlog.Logf("server/http: POST /decode status=%d", rr.Code)
}

func TestDecodeRouteRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	s := New("meshdecode", ":0", nil, pipeline.New())
	for _, body := range []string{`{}`, `{"envelope":"zz"}`, `{"envelope":"0a00","psk":"base64:***"}`} {
		req := httptest.NewRequest(http.MethodPost, "/decode", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		s.HTTPRouter().ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
}
