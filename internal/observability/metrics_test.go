package observability

import (
	"testing"
	"time"

	"github.com/danmuck/meshdecode/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(decodeStages.WithLabelValues("envelope", "valid"))
	RecordStage("envelope", "valid")
	RecordDecode(40 * time.Microsecond)
	RecordIngest("quic", true)
	RecordHTTPRequest("meshdecode", "GET", "/health", 200, 12*time.Millisecond)

	if got := testutil.ToFloat64(decodeStages.WithLabelValues("envelope", "valid")); got != before+1 {
		t.Fatalf("expected stage counter to advance by 1, got %v -> %v", before, got)
	}
	testlog.Logf("observability/metrics: registration idempotent and recording paths executed")
}
