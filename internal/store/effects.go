package store

import (
	"fmt"

	ic "irrigation_controller"
)

// Pressure thresholds in bars.
const (
	CriticalPressure = 0.5
	LowPressure      = 2.0
	OptimalPressure  = 4.0
)

const (
	titleZoneActivated   = "Зона активирана"
	titleZoneDeactivated = "Зона деактивирана"
	titleCriticalLow     = "Критично низак притисак"
	titleLow             = "Низак притисак"

	msgCriticalLow = "Притисак воде је пао испод критичног нивоа. Проверите довод воде."
	msgLow         = "Притисак воде је низак. Могући проблеми са радом система."
)

// DeriveNotifications returns the notifications a transition produces.
// Gating uses the settings in force before the transition.
func DeriveNotifications(prev, next State, a Action) []NotificationDraft {
	switch a := a.(type) {
	case ToggleZoneAction:
		if d, ok := zoneToggleNotification(prev, a.ZoneID); ok {
			return []NotificationDraft{d}
		}
	case UpdateSystemStatusAction:
		if d, ok := pressureNotification(prev, next); ok {
			return []NotificationDraft{d}
		}
	}
	return nil
}

func zoneToggleNotification(prev State, zoneID string) (NotificationDraft, bool) {
	if !prev.NotificationSettings.WateringEvents {
		return NotificationDraft{}, false
	}
	zone, ok := prev.Zone(zoneID)
	if !ok {
		return NotificationDraft{}, false
	}
	if !prev.IsActive(zoneID) {
		return NotificationDraft{
			Type:    ic.NotificationInfo,
			Title:   titleZoneActivated,
			Message: fmt.Sprintf("Зона \"%s\" је укључена", zone.Name),
		}, true
	}
	return NotificationDraft{
		Type:    ic.NotificationInfo,
		Title:   titleZoneDeactivated,
		Message: fmt.Sprintf("Зона \"%s\" је искључена", zone.Name),
	}, true
}

// pressureNotification fires on downward crossings only; critical wins over low.
func pressureNotification(prev, next State) (NotificationDraft, bool) {
	if !prev.NotificationSettings.PressureWarnings {
		return NotificationDraft{}, false
	}
	before := prev.SystemStatus.WaterPressure
	after := next.SystemStatus.WaterPressure
	switch {
	case crossedBelow(before, after, CriticalPressure):
		return NotificationDraft{Type: ic.NotificationError, Title: titleCriticalLow, Message: msgCriticalLow}, true
	case crossedBelow(before, after, LowPressure):
		return NotificationDraft{Type: ic.NotificationWarning, Title: titleLow, Message: msgLow}, true
	}
	return NotificationDraft{}, false
}

func crossedBelow(before, after, threshold float64) bool {
	return before >= threshold && after < threshold
}
