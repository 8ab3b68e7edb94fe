package service

import (
	"context"
	"io"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/backup"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"

	"github.com/google/uuid"
)

// StateStore is the part of store.IrrigationStore the services use.
type StateStore interface {
	Snapshot() store.State
	Dispatch(a store.Action) store.State
	Apply(decide func(store.State) (store.Action, error)) (store.State, error)
	Subscribe() (<-chan store.State, func())
}

// SiteStore is the part of store.SiteSettingsStore the services use.
type SiteStore interface {
	Settings() ic.SiteSettings
	UpdateSettings(p store.SitePatch) ic.SiteSettings
}

// Zones manages zones and their schedules. Activation goes through the pressure gate.
type Zones interface {
	List(ctx context.Context) ([]ZoneView, error)
	Create(ctx context.Context, name string) (ic.Zone, error)
	Toggle(ctx context.Context, zoneID string) (ZoneView, error)
	AddSchedule(ctx context.Context, zoneID string, p ScheduleParams) (ic.Schedule, error)
	RemoveSchedule(ctx context.Context, zoneID, scheduleID string) error
}

// Monitoring exposes the live system status.
type Monitoring interface {
	Status(ctx context.Context) (ic.SystemStatus, error)
	UpdateStatus(ctx context.Context, p StatusParams) (ic.SystemStatus, error)
	Overview(ctx context.Context) (Overview, error)
	Snapshot(ctx context.Context) (store.State, error)
	Watch() (<-chan store.State, func())
}

// History exposes the append-only watering session log.
type History interface {
	List(ctx context.Context, f HistoryFilter) ([]ic.WateringSession, error)
	Record(ctx context.Context, p SessionParams) (ic.WateringSession, error)
	Summary(ctx context.Context, f HistoryFilter) (HistorySummary, error)
}

// Notifications exposes pending notifications and their settings.
type Notifications interface {
	List(ctx context.Context) ([]ic.Notification, error)
	Dismiss(ctx context.Context, id string) error
	Settings(ctx context.Context) (ic.NotificationSettings, error)
	UpdateSettings(ctx context.Context, p NotificationSettingsParams) (ic.NotificationSettings, error)
}

// Backup exports and imports the backup file.
type Backup interface {
	Export(ctx context.Context) (backup.Document, string, error)
	Import(ctx context.Context, r io.Reader) (store.State, error)
}

// Site exposes cosmetic site settings.
type Site interface {
	Get(ctx context.Context) (ic.SiteSettings, error)
	Update(ctx context.Context, p SiteParams) (ic.SiteSettings, error)
}

type Service struct {
	Zones
	Monitoring
	History
	Notifications
	Backup
	Site
}

// Deps carries everything the services share.
type Deps struct {
	Store          StateStore
	SiteStore      SiteStore
	Gate           *store.Gate
	BackupInterval string
	Log            *logger.Logger
	Now            func() time.Time
	NewID          func() string
}

func (d Deps) withDefaults() Deps {
	if d.Gate == nil {
		d.Gate = store.NewGate(nil)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

func NewService(d Deps) *Service {
	d = d.withDefaults()
	return &Service{
		Zones:         NewZoneService(d),
		Monitoring:    NewMonitoringService(d),
		History:       NewHistoryService(d),
		Notifications: NewNotificationService(d),
		Backup:        NewBackupService(d),
		Site:          NewSiteService(d),
	}
}
