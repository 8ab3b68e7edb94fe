package service

import (
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"
)

// ScheduleParams is a new schedule as entered by the user.
type ScheduleParams struct {
	StartTime string // "HH:MM"
	Duration  int    // minutes, 1..180
	Days      []int  // 0=Sunday .. 6=Saturday
	Active    *bool  // nil means true
}

// StatusParams is a partial status update; nil fields are left unchanged.
type StatusParams struct {
	WaterPressure *float64
	OperationMode *string
}

// SessionParams records a finished watering.
type SessionParams struct {
	ZoneID     string
	StartTime  time.Time
	EndTime    time.Time
	WaterUsage float64
	Automatic  bool
}

// HistoryFilter supports history filtering by time range and zone.
type HistoryFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	ZoneID string
}

type NotificationSettingsParams struct {
	SystemAlerts     *bool
	WateringEvents   *bool
	PressureWarnings *bool
	DailyReport      *bool
}

type SiteParams struct {
	OGImage *string
}

// ZoneView is a zone as the dashboard lists it.
type ZoneView struct {
	ic.Zone
	IsActive    bool                 `json:"isActive"`
	CanActivate bool                 `json:"canActivate"`
	NextRuns    map[string]time.Time `json:"nextRuns"` // schedule id -> next start
}

// Overview is the dashboard summary card data.
type Overview struct {
	Status               ic.SystemStatus    `json:"status"`
	PressureBand         store.PressureBand `json:"pressureBand"`
	Zones                int                `json:"zones"`
	ActiveZones          int                `json:"activeZones"`
	ActiveSchedules      int                `json:"activeSchedules"`
	TotalWaterUsage      float64            `json:"totalWaterUsage"`
	PendingNotifications int                `json:"pendingNotifications"`
}

// HistorySummary aggregates the sessions matched by a HistoryFilter.
type HistorySummary struct {
	Sessions        int                `json:"sessions"`
	TotalWaterUsage float64            `json:"totalWaterUsage"`
	TotalMinutes    float64            `json:"totalMinutes"`
	Automatic       int                `json:"automatic"`
	Manual          int                `json:"manual"`
	UsageByZone     map[string]float64 `json:"usageByZone"`
}
