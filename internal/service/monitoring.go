package service

import (
	"context"
	"math"
	"strings"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"
)

type MonitoringService struct {
	store StateStore
	log   *logger.Logger
}

func NewMonitoringService(d Deps) *MonitoringService {
	d = d.withDefaults()
	return &MonitoringService{store: d.Store, log: d.Log.Named("monitoring")}
}

// Status returns the latest system status.
func (s *MonitoringService) Status(ctx context.Context) (ic.SystemStatus, error) {
	return s.store.Snapshot().SystemStatus, nil
}

// UpdateStatus merges p into the status. The timestamp is always refreshed,
// and downward pressure crossings raise notifications in the store.
func (s *MonitoringService) UpdateStatus(ctx context.Context, p StatusParams) (ic.SystemStatus, error) {
	var patch store.StatusPatch
	if p.WaterPressure != nil {
		v := *p.WaterPressure
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ic.SystemStatus{}, ErrInvalidPressure
		}
		patch.WaterPressure = &v
	}
	if p.OperationMode != nil {
		mode := ic.OperationMode(strings.ToLower(strings.TrimSpace(*p.OperationMode)))
		if !mode.Valid() {
			return ic.SystemStatus{}, ErrInvalidMode
		}
		patch.OperationMode = &mode
	}

	st := s.store.Dispatch(store.UpdateSystemStatusAction{Patch: patch})
	s.log.Debugw("status_updated",
		"pressure", st.SystemStatus.WaterPressure,
		"mode", st.SystemStatus.OperationMode,
		"band", store.BandFor(st.SystemStatus.WaterPressure))
	return st.SystemStatus, nil
}

// Overview returns the dashboard summary.
func (s *MonitoringService) Overview(ctx context.Context) (Overview, error) {
	st := s.store.Snapshot()
	ov := Overview{
		Status:               st.SystemStatus,
		PressureBand:         store.BandFor(st.SystemStatus.WaterPressure),
		Zones:                len(st.Zones),
		ActiveZones:          len(st.ActiveZones),
		PendingNotifications: len(st.Notifications),
	}
	for _, z := range st.Zones {
		for _, sc := range z.Schedule {
			if sc.Active {
				ov.ActiveSchedules++
			}
		}
	}
	for _, sess := range st.Sessions {
		ov.TotalWaterUsage += sess.WaterUsage
	}
	return ov, nil
}

// Snapshot returns the whole committed state.
func (s *MonitoringService) Snapshot(ctx context.Context) (store.State, error) {
	return s.store.Snapshot(), nil
}

// Watch streams committed snapshots until the returned cancel func is called.
func (s *MonitoringService) Watch() (<-chan store.State, func()) {
	return s.store.Subscribe()
}
