package store

import (
	ic "irrigation_controller"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	actionName() string
}

type AddZoneAction struct {
	Zone ic.Zone
}

type ToggleZoneAction struct {
	ZoneID string
}

type AddScheduleAction struct {
	Schedule ic.Schedule
}

type RemoveScheduleAction struct {
	ZoneID     string
	ScheduleID string
}

type AddSessionAction struct {
	Session ic.WateringSession
}

type UpdateSystemStatusAction struct {
	Patch StatusPatch
}

type AddNotificationAction struct {
	Draft NotificationDraft
}

type RemoveNotificationAction struct {
	ID string
}

type UpdateNotificationSettingsAction struct {
	Patch SettingsPatch
}

// RestoreBackupAction replaces zones and sessions in one transition.
type RestoreBackupAction struct {
	Zones    []ic.Zone
	Sessions []ic.WateringSession
}

func (AddZoneAction) actionName() string                    { return "add_zone" }
func (ToggleZoneAction) actionName() string                 { return "toggle_zone" }
func (AddScheduleAction) actionName() string                { return "add_schedule" }
func (RemoveScheduleAction) actionName() string             { return "remove_schedule" }
func (AddSessionAction) actionName() string                 { return "add_session" }
func (UpdateSystemStatusAction) actionName() string         { return "update_system_status" }
func (AddNotificationAction) actionName() string            { return "add_notification" }
func (RemoveNotificationAction) actionName() string         { return "remove_notification" }
func (UpdateNotificationSettingsAction) actionName() string { return "update_notification_settings" }
func (RestoreBackupAction) actionName() string              { return "restore_backup" }

// ActionName returns the snake_case name used in logs and metrics.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// StatusPatch is a partial SystemStatus; nil fields are left untouched.
type StatusPatch struct {
	WaterPressure *float64          `json:"waterPressure,omitempty"`
	OperationMode *ic.OperationMode `json:"operationMode,omitempty"`
}

// SettingsPatch is a partial NotificationSettings; nil fields are left untouched.
type SettingsPatch struct {
	SystemAlerts     *bool `json:"systemAlerts,omitempty"`
	WateringEvents   *bool `json:"wateringEvents,omitempty"`
	PressureWarnings *bool `json:"pressureWarnings,omitempty"`
	DailyReport      *bool `json:"dailyReport,omitempty"`
}

// SitePatch is a partial SiteSettings.
type SitePatch struct {
	OGImage *string `json:"ogImage,omitempty"`
}

// NotificationDraft is a notification before the store assigns id and timestamp.
type NotificationDraft struct {
	Type    ic.NotificationType `json:"type"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
}
