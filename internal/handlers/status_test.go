package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	ic "irrigation_controller"
	"irrigation_controller/internal/service"
	"irrigation_controller/internal/store"
)

func TestStatusHandlers(t *testing.T) {
	mon := &mockMonitoring{
		status:   ic.SystemStatus{WaterPressure: 3.1, OperationMode: ic.ModeOnline, Timestamp: "2025-06-01T08:00:00Z"},
		overview: service.Overview{PressureBand: store.BandOptimal, Zones: 2},
	}
	r := newTestRouter(&service.Service{Monitoring: mon})

	w := doJSON(t, r, http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	var st ic.SystemStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil || st != mon.status {
		t.Fatalf("status body %s (%v)", w.Body.String(), err)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/status", `{"waterPressure":0.4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d body=%s", w.Code, w.Body.String())
	}
	if mon.lastUpdate.WaterPressure == nil || *mon.lastUpdate.WaterPressure != 0.4 || mon.lastUpdate.OperationMode != nil {
		t.Fatalf("partial update not passed: %+v", mon.lastUpdate)
	}

	mon.updateErr = service.ErrInvalidMode
	w = doJSON(t, r, http.MethodPut, "/api/v1/status", `{"operationMode":"turbo"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid mode: want 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/overview", "")
	var ov service.Overview
	if err := json.Unmarshal(w.Body.Bytes(), &ov); err != nil || ov.PressureBand != store.BandOptimal || ov.Zones != 2 {
		t.Fatalf("overview body %s (%v)", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health %d %s", w.Code, w.Body.String())
	}
}
