package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"
)

func TestMetrics_StoreObserver(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	st := store.InitialState(time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC))
	st.SystemStatus.WaterPressure = 2.5
	st.ActiveZones = []string{st.Zones[0].ID}

	m.StateCommitted("toggle_zone", st)
	m.StateCommitted("toggle_zone", st)
	m.NotificationEmitted(ic.Notification{Type: ic.NotificationSuccess})
	m.PersistFailed("irrigation-storage", errors.New("disk full"))

	if got := testutil.ToFloat64(m.commits.WithLabelValues("toggle_zone")); got != 2 {
		t.Fatalf("commits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.pressure); got != 2.5 {
		t.Fatalf("pressure = %v, want 2.5", got)
	}
	if got := testutil.ToFloat64(m.activeZones); got != 1 {
		t.Fatalf("active zones = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.notifications.WithLabelValues("success")); got != 1 {
		t.Fatalf("notifications = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.persistFails.WithLabelValues("irrigation-storage")); got != 1 {
		t.Fatalf("persist failures = %v, want 1", got)
	}
}

func TestMetrics_RequestsAndHandler(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveRequest(http.MethodGet, "/api/v1/zones", http.StatusOK, 3*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/zones", "200")); got != 1 {
		t.Fatalf("requests = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.latency); n != 1 {
		t.Fatalf("latency series = %d, want 1", n)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "irrigation_http_requests_total") {
		t.Fatalf("exposition missing request counter:\n%s", rec.Body.String())
	}
}
