package store

import (
	"time"

	ic "irrigation_controller"
)

// State is everything the irrigation store owns. It is also the persisted shape.
type State struct {
	Zones                []ic.Zone               `json:"zones"`
	Sessions             []ic.WateringSession    `json:"sessions"`
	ActiveZones          []string                `json:"activeZones"`
	Notifications        []ic.Notification       `json:"notifications"`
	NotificationSettings ic.NotificationSettings `json:"notificationSettings"`
	SystemStatus         ic.SystemStatus         `json:"systemStatus"`
}

// InitialState is the state of a fresh installation.
func InitialState(now time.Time) State {
	return State{
		Zones:                []ic.Zone{ic.DefaultZone()},
		Sessions:             initialSessions(),
		ActiveZones:          []string{},
		Notifications:        []ic.Notification{},
		NotificationSettings: ic.DefaultNotificationSettings(),
		SystemStatus: ic.SystemStatus{
			WaterPressure: 0,
			Timestamp:     formatTimestamp(now),
			OperationMode: ic.ModeAutomatic,
		},
	}
}

// Zone looks a zone up by id.
func (s State) Zone(id string) (ic.Zone, bool) {
	for _, z := range s.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return ic.Zone{}, false
}

// IsActive reports membership in the active-zone set.
func (s State) IsActive(zoneID string) bool {
	for _, id := range s.ActiveZones {
		if id == zoneID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, safe to hand to consumers.
func (s State) Clone() State {
	out := s
	out.Zones = cloneZones(s.Zones)
	out.Sessions = append([]ic.WateringSession(nil), s.Sessions...)
	out.ActiveZones = append([]string(nil), s.ActiveZones...)
	out.Notifications = append([]ic.Notification(nil), s.Notifications...)
	return out
}

func cloneZones(zones []ic.Zone) []ic.Zone {
	if zones == nil {
		return nil
	}
	out := make([]ic.Zone, len(zones))
	for i, z := range zones {
		out[i] = cloneZone(z)
	}
	return out
}

func cloneZone(z ic.Zone) ic.Zone {
	sched := make([]ic.Schedule, len(z.Schedule))
	for i, s := range z.Schedule {
		s.Days = append([]int(nil), s.Days...)
		sched[i] = s
	}
	z.Schedule = sched
	return z
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// initialSessions seeds the history view of a fresh installation.
func initialSessions() []ic.WateringSession {
	return []ic.WateringSession{
		{
			ID:         "1",
			ZoneID:     "Нешков пластеник",
			StartTime:  time.Date(2025, 3, 17, 6, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2025, 3, 17, 6, 30, 0, 0, time.UTC),
			WaterUsage: 1250,
			Automatic:  true,
		},
		{
			ID:         "2",
			ZoneID:     "Башта",
			StartTime:  time.Date(2024, 3, 20, 7, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2024, 3, 20, 7, 45, 0, 0, time.UTC),
			WaterUsage: 200,
			Automatic:  false,
		},
		{
			ID:         "3",
			ZoneID:     "Травњак",
			StartTime:  time.Date(2024, 3, 21, 5, 30, 0, 0, time.UTC),
			EndTime:    time.Date(2024, 3, 21, 6, 0, 0, 0, time.UTC),
			WaterUsage: 180,
			Automatic:  true,
		},
	}
}
