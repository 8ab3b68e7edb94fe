package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"
)

func TestMonitoringService_UpdateStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := NewMonitoringService(f.deps)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, StatusParams{OperationMode: ptr("turbo")}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("want ErrInvalidMode, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, StatusParams{WaterPressure: ptr(math.NaN())}); !errors.Is(err, ErrInvalidPressure) {
		t.Fatalf("want ErrInvalidPressure, got %v", err)
	}

	st, err := svc.UpdateStatus(ctx, StatusParams{WaterPressure: ptr(1.0), OperationMode: ptr(" Online ")})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if st.WaterPressure != 1.0 || st.OperationMode != ic.ModeOnline {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Timestamp != testNow.Format(time.RFC3339Nano) {
		t.Fatalf("timestamp not stamped: %q", st.Timestamp)
	}
}

func TestMonitoringService_PressureNotificationsAreEdgeTriggered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := NewMonitoringService(f.deps)
	ctx := context.Background()

	for _, p := range []float64{3.0, 1.0, 0.3, 0.2} {
		if _, err := svc.UpdateStatus(ctx, StatusParams{WaterPressure: ptr(p)}); err != nil {
			t.Fatalf("UpdateStatus(%v): %v", p, err)
		}
	}

	ns := f.store.Snapshot().Notifications
	// 0 -> 3.0 is a rise, 3.0 -> 1.0 enters the low band, 1.0 -> 0.3 the critical band, 0.2 stays critical.
	if len(ns) != 2 {
		t.Fatalf("want 2 notifications, got %d: %+v", len(ns), ns)
	}
	if ns[0].Type != ic.NotificationWarning || ns[1].Type != ic.NotificationError {
		t.Fatalf("unexpected types: %s, %s", ns[0].Type, ns[1].Type)
	}
}

func TestMonitoringService_Overview(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := NewMonitoringService(f.deps)
	f.store.AddSchedule(ic.Schedule{ID: "a", ZoneID: ic.DefaultZoneID, StartTime: "06:00", Duration: 5, Days: []int{1}, Active: true})
	f.store.AddSchedule(ic.Schedule{ID: "b", ZoneID: ic.DefaultZoneID, StartTime: "07:00", Duration: 5, Days: []int{1}, Active: false})
	f.store.ToggleZone(ic.DefaultZoneID)
	f.store.UpdateSystemStatus(store.StatusPatch{WaterPressure: ptr(4.5)})

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.ActiveSchedules != 1 || ov.ActiveZones != 1 || ov.Zones != 1 {
		t.Fatalf("unexpected counts: %+v", ov)
	}
	if ov.PressureBand != store.BandHigh {
		t.Fatalf("band: want high, got %s", ov.PressureBand)
	}
	var total float64
	for _, s := range f.store.Snapshot().Sessions {
		total += s.WaterUsage
	}
	if ov.TotalWaterUsage != total || ov.PendingNotifications != 1 {
		t.Fatalf("unexpected totals: %+v", ov)
	}
}

func TestMonitoringService_Watch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := NewMonitoringService(f.deps)
	ch, cancel := svc.Watch()
	defer cancel()

	if _, err := svc.UpdateStatus(context.Background(), StatusParams{OperationMode: ptr("online")}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	select {
	case st := <-ch:
		if st.SystemStatus.OperationMode != ic.ModeOnline {
			t.Fatalf("unexpected snapshot mode %q", st.SystemStatus.OperationMode)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
	}
}
