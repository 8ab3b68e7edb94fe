package store

import (
	"time"

	ic "irrigation_controller"
)

// Env carries the non-deterministic inputs of a transition.
type Env struct {
	Now   time.Time
	NewID func() string
}

// Reduce computes the next state. It never mutates s and never fails;
// actions that do not apply (duplicate zone, unknown zone, unknown id) return s unchanged.
func Reduce(s State, a Action, env Env) State {
	switch a := a.(type) {
	case AddZoneAction:
		return addZone(s, a.Zone)
	case ToggleZoneAction:
		return toggleZone(s, a.ZoneID)
	case AddScheduleAction:
		return addSchedule(s, a.Schedule)
	case RemoveScheduleAction:
		return removeSchedule(s, a.ZoneID, a.ScheduleID)
	case AddSessionAction:
		s.Sessions = appendCopy(s.Sessions, a.Session)
		return s
	case UpdateSystemStatusAction:
		s.SystemStatus = mergeStatus(s.SystemStatus, a.Patch, env.Now)
		return s
	case AddNotificationAction:
		s.Notifications = appendCopy(s.Notifications, ic.Notification{
			ID:        env.NewID(),
			Type:      a.Draft.Type,
			Title:     a.Draft.Title,
			Message:   a.Draft.Message,
			Timestamp: env.Now,
		})
		return s
	case RemoveNotificationAction:
		return removeNotification(s, a.ID)
	case UpdateNotificationSettingsAction:
		s.NotificationSettings = mergeSettings(s.NotificationSettings, a.Patch)
		return s
	case RestoreBackupAction:
		s.Zones = ensureDefaultZone(cloneZones(a.Zones))
		s.Sessions = append([]ic.WateringSession{}, a.Sessions...)
		return s
	default:
		return s
	}
}

// addZone re-pins the default zone to the front on every insertion.
func addZone(s State, zone ic.Zone) State {
	if _, exists := s.Zone(zone.ID); exists {
		return s
	}
	zones := make([]ic.Zone, 0, len(s.Zones)+2)
	zones = append(zones, defaultZoneFrom(s.Zones))
	for _, z := range s.Zones {
		if z.ID != ic.DefaultZoneID {
			zones = append(zones, z)
		}
	}
	if zone.Schedule == nil {
		zone.Schedule = []ic.Schedule{}
	}
	s.Zones = append(zones, cloneZone(zone))
	return s
}

// defaultZoneFrom keeps the stored default zone (and its schedules) when present.
func defaultZoneFrom(zones []ic.Zone) ic.Zone {
	for _, z := range zones {
		if z.ID == ic.DefaultZoneID {
			return z
		}
	}
	return ic.DefaultZone()
}

func toggleZone(s State, zoneID string) State {
	next := make([]string, 0, len(s.ActiveZones)+1)
	found := false
	for _, id := range s.ActiveZones {
		if id == zoneID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, zoneID)
	}
	s.ActiveZones = next
	return s
}

func addSchedule(s State, sched ic.Schedule) State {
	return mapZone(s, sched.ZoneID, func(z ic.Zone) ic.Zone {
		z.Schedule = appendCopy(z.Schedule, sched)
		return z
	})
}

func removeSchedule(s State, zoneID, scheduleID string) State {
	return mapZone(s, zoneID, func(z ic.Zone) ic.Zone {
		kept := make([]ic.Schedule, 0, len(z.Schedule))
		for _, sc := range z.Schedule {
			if sc.ID != scheduleID {
				kept = append(kept, sc)
			}
		}
		z.Schedule = kept
		return z
	})
}

func mapZone(s State, zoneID string, fn func(ic.Zone) ic.Zone) State {
	if _, ok := s.Zone(zoneID); !ok {
		return s
	}
	zones := make([]ic.Zone, len(s.Zones))
	for i, z := range s.Zones {
		if z.ID == zoneID {
			z = fn(z)
		}
		zones[i] = z
	}
	s.Zones = zones
	return s
}

func mergeStatus(cur ic.SystemStatus, p StatusPatch, now time.Time) ic.SystemStatus {
	if p.WaterPressure != nil {
		cur.WaterPressure = *p.WaterPressure
	}
	if p.OperationMode != nil {
		cur.OperationMode = *p.OperationMode
	}
	cur.Timestamp = formatTimestamp(now)
	return cur
}

func removeNotification(s State, id string) State {
	kept := make([]ic.Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.Notifications = kept
	return s
}

func mergeSettings(cur ic.NotificationSettings, p SettingsPatch) ic.NotificationSettings {
	if p.SystemAlerts != nil {
		cur.SystemAlerts = *p.SystemAlerts
	}
	if p.WateringEvents != nil {
		cur.WateringEvents = *p.WateringEvents
	}
	if p.PressureWarnings != nil {
		cur.PressureWarnings = *p.PressureWarnings
	}
	if p.DailyReport != nil {
		cur.DailyReport = *p.DailyReport
	}
	return cur
}

// ensureDefaultZone prepends the default zone when it is missing.
func ensureDefaultZone(zones []ic.Zone) []ic.Zone {
	for _, z := range zones {
		if z.ID == ic.DefaultZoneID {
			return zones
		}
	}
	return append([]ic.Zone{ic.DefaultZone()}, zones...)
}

// appendCopy appends without writing into a backing array another state may share.
func appendCopy[T any](xs []T, v T) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, v)
}
