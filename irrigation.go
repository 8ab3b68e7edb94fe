package irrigation_controller

import "time"

// Default zone: always present, always first, never removable.
const (
	DefaultZoneID   = "neskov-plastenik"
	DefaultZoneName = "Нешков пластеник"
)

// DefaultOGImage is the social-preview image used until the user picks another one.
const DefaultOGImage = "/images/og-default.jpg"

// OperationMode is how the controller currently runs.
type OperationMode string

const (
	ModeAutomatic OperationMode = "automatic"
	ModeOnline    OperationMode = "online"
)

// Valid reports whether m is a known operation mode.
func (m OperationMode) Valid() bool {
	return m == ModeAutomatic || m == ModeOnline
}

// NotificationType drives how the dashboard renders a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Zone is an addressable irrigation area.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Active is a display flag only; the store's active-zone set is authoritative.
	Active   bool       `json:"active"`
	Schedule []Schedule `json:"schedule"`
}

// Schedule is a recurring watering rule owned by one zone.
type Schedule struct {
	ID        string `json:"id"`
	ZoneID    string `json:"zoneId"`
	StartTime string `json:"startTime"` // HH:MM
	Duration  int    `json:"duration"`  // minutes
	Days      []int  `json:"days"`      // 0=Sunday .. 6=Saturday
	Active    bool   `json:"active"`
}

// WateringSession is an immutable record of one completed watering.
type WateringSession struct {
	ID         string    `json:"id"`
	ZoneID     string    `json:"zoneId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	WaterUsage float64   `json:"waterUsage"` // liters
	Automatic  bool      `json:"automatic"`
}

// Duration is the wall time the session ran for.
func (s WateringSession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// SystemStatus is the latest live reading from the controller.
type SystemStatus struct {
	WaterPressure float64       `json:"waterPressure"` // bars, nominally 0-5
	Timestamp     string        `json:"timestamp"`     // RFC 3339
	OperationMode OperationMode `json:"operationMode"`
}

// Notification is a transient, user-dismissable message.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationSettings gates which transitions may produce notifications.
type NotificationSettings struct {
	SystemAlerts     bool `json:"systemAlerts"`
	WateringEvents   bool `json:"wateringEvents"`
	PressureWarnings bool `json:"pressureWarnings"`
	DailyReport      bool `json:"dailyReport"` // reserved, never triggered
}

// SiteSettings holds cosmetic site metadata.
type SiteSettings struct {
	OGImage string `json:"ogImage"`
}

// DefaultZone returns a fresh copy of the default zone.
func DefaultZone() Zone {
	return Zone{
		ID:       DefaultZoneID,
		Name:     DefaultZoneName,
		Active:   false,
		Schedule: []Schedule{},
	}
}

// DefaultNotificationSettings returns the settings a new installation starts with.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		SystemAlerts:     true,
		WateringEvents:   true,
		PressureWarnings: true,
		DailyReport:      false,
	}
}

// DefaultSiteSettings returns the settings a new installation starts with.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{OGImage: DefaultOGImage}
}
