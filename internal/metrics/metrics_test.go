package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.RecordsRead == nil || r.OffersRejected == nil || r.ClustersEmitted == nil {
		t.Fatal("metrics not initialized")
	}
	if r.registry == nil {
		t.Fatal("Prometheus registry not initialized")
	}
}

func TestRecordRejected(t *testing.T) {
	r := NewRegistry()
	r.RecordRejected("strand")
	r.RecordRejected("strand")
	r.RecordRejected("category")

	c, err := r.OffersRejected.GetMetricWithLabelValues("strand")
	if err != nil {
		t.Fatalf("get metric: %v", err)
	}
	if got := counterValue(t, c); got != 2 {
		t.Errorf("strand rejections = %v, want 2", got)
	}
}

func TestRecordEmitted(t *testing.T) {
	r := NewRegistry()
	r.RecordEmitted(3, 56)
	r.RecordDropped("min_reads")
	r.RecordTagError()

	if got := counterValue(t, r.ClustersEmitted); got != 1 {
		t.Errorf("emitted = %v, want 1", got)
	}
	if got := counterValue(t, r.TagErrors); got != 1 {
		t.Errorf("tag errors = %v, want 1", got)
	}

	var m dto.Metric
	if err := r.ClusterSize.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetHistogram().GetSampleCount() != 1 || m.GetHistogram().GetSampleSum() != 56 {
		t.Errorf("size histogram = %v", m.GetHistogram())
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordRead("in.bam")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `meclust_records_read_total{input="in.bam"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestGatherer(t *testing.T) {
	r := NewRegistry()
	r.RecordEmitted(1, 10)
	mfs, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(mfs) == 0 {
		t.Fatal("no metric families gathered")
	}
}
