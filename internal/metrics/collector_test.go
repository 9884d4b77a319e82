package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter_SameKeyReturnsSameInstance(t *testing.T) {
	c := NewMetricsCollector()

	a := c.Counter("test_total", "help", `kind="x"`)
	b := c.Counter("test_total", "help", `kind="x"`)
	a.Inc()
	b.Add(2)

	if a.Value() != 3 {
		t.Errorf("expected shared counter value 3, got %d", a.Value())
	}

	other := c.Counter("test_total", "help", `kind="y"`)
	if other.Value() != 0 {
		t.Errorf("expected separate counter per label set, got %d", other.Value())
	}
}

func TestGauge_IncDec(t *testing.T) {
	c := NewMetricsCollector()
	g := c.Gauge("test_gauge", "help", "")

	g.Inc()
	g.Inc()
	g.Dec()
	if g.Value() != 1 {
		t.Errorf("expected 1, got %d", g.Value())
	}
}

func TestHistogram_Observe(t *testing.T) {
	c := NewMetricsCollector()
	h := c.Histogram("test_seconds", "help", "", []float64{0.01, 0.1, 1})

	h.Observe(0.005)
	h.Observe(0.05)
	h.Observe(5)

	if h.count != 3 {
		t.Errorf("expected count 3, got %d", h.count)
	}
	if h.buckets[0].count != 1 || h.buckets[1].count != 2 || h.buckets[2].count != 2 {
		t.Errorf("unexpected bucket counts: %+v", h.buckets)
	}
}

func TestHandler_RendersPrometheusText(t *testing.T) {
	c := NewMetricsCollector()
	c.Counter("orbi_test_total", "A test counter", "").Inc()
	c.Gauge("orbi_test_gauge", "A test gauge", "").Set(7)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"orbi_uptime_seconds",
		"# TYPE orbi_test_total counter",
		"orbi_test_total 1",
		"orbi_test_gauge 7",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("unexpected content type %q", got)
	}
}
