package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCacheStatsIncrementsCounters(t *testing.T) {
	before := testutil.ToFloat64(CacheHits)
	ObserveCacheStats(3, 1, 0)
	after := testutil.ToFloat64(CacheHits)
	if after-before != 3 {
		t.Fatalf("expected CacheHits to increase by 3, got delta %v", after-before)
	}
}

func TestObjectOpsTotalLabelsByOutcome(t *testing.T) {
	ObjectOpsTotal.WithLabelValues("put", "success").Inc()
	v := testutil.ToFloat64(ObjectOpsTotal.WithLabelValues("put", "success"))
	if v < 1 {
		t.Fatalf("expected at least 1 recorded PUT success, got %v", v)
	}
}
