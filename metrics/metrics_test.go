package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordResolve(t *testing.T) {
	beforeFallback := testutil.ToFloat64(FallbackTotal.WithLabelValues("content"))
	beforeTotal := testutil.ToFloat64(ResolveTotal.WithLabelValues("content", "popularity"))

	RecordResolve("content", "popularity", true, 5*time.Millisecond)
	RecordResolve("hybrid", "hybrid", false, time.Millisecond)

	if got := testutil.ToFloat64(FallbackTotal.WithLabelValues("content")); got != beforeFallback+1 {
		t.Errorf("fallback counter = %v, want %v", got, beforeFallback+1)
	}
	if got := testutil.ToFloat64(ResolveTotal.WithLabelValues("content", "popularity")); got != beforeTotal+1 {
		t.Errorf("resolve counter = %v, want %v", got, beforeTotal+1)
	}
	if got := testutil.ToFloat64(FallbackTotal.WithLabelValues("hybrid")); got != 0 {
		t.Errorf("hybrid fallback counter = %v, want 0", got)
	}
}
