package handlers

import (
	"context"
	"io"

	ic "irrigation_controller"
	"irrigation_controller/internal/backup"
	"irrigation_controller/internal/service"
	"irrigation_controller/internal/store"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockZones struct {
	list        []service.ZoneView
	created     ic.Zone
	createErr   error
	toggleView  service.ZoneView
	toggleErr   error
	schedule    ic.Schedule
	scheduleErr error
	removeErr   error

	lastName     string
	lastZoneID   string
	lastSchedule service.ScheduleParams
	lastRemoved  string
}

func (m *mockZones) List(ctx context.Context) ([]service.ZoneView, error) {
	return m.list, nil
}
func (m *mockZones) Create(ctx context.Context, name string) (ic.Zone, error) {
	m.lastName = name
	return m.created, m.createErr
}
func (m *mockZones) Toggle(ctx context.Context, zoneID string) (service.ZoneView, error) {
	m.lastZoneID = zoneID
	return m.toggleView, m.toggleErr
}
func (m *mockZones) AddSchedule(ctx context.Context, zoneID string, p service.ScheduleParams) (ic.Schedule, error) {
	m.lastZoneID = zoneID
	m.lastSchedule = p
	return m.schedule, m.scheduleErr
}
func (m *mockZones) RemoveSchedule(ctx context.Context, zoneID, scheduleID string) error {
	m.lastZoneID = zoneID
	m.lastRemoved = scheduleID
	return m.removeErr
}

type mockMonitoring struct {
	status     ic.SystemStatus
	updateErr  error
	lastUpdate service.StatusParams
	overview   service.Overview
	snapshot   store.State
	updates    chan store.State
	cancelled  bool
}

func (m *mockMonitoring) Status(ctx context.Context) (ic.SystemStatus, error) {
	return m.status, nil
}
func (m *mockMonitoring) UpdateStatus(ctx context.Context, p service.StatusParams) (ic.SystemStatus, error) {
	m.lastUpdate = p
	return m.status, m.updateErr
}
func (m *mockMonitoring) Overview(ctx context.Context) (service.Overview, error) {
	return m.overview, nil
}
func (m *mockMonitoring) Snapshot(ctx context.Context) (store.State, error) {
	return m.snapshot, nil
}
func (m *mockMonitoring) Watch() (<-chan store.State, func()) {
	if m.updates == nil {
		m.updates = make(chan store.State, 1)
	}
	return m.updates, func() { m.cancelled = true }
}

type mockHistory struct {
	sessions   []ic.WateringSession
	err        error
	summary    service.HistorySummary
	recorded   ic.WateringSession
	lastFilter service.HistoryFilter
	lastRecord service.SessionParams
}

func (m *mockHistory) List(ctx context.Context, f service.HistoryFilter) ([]ic.WateringSession, error) {
	m.lastFilter = f
	return m.sessions, m.err
}
func (m *mockHistory) Record(ctx context.Context, p service.SessionParams) (ic.WateringSession, error) {
	m.lastRecord = p
	return m.recorded, m.err
}
func (m *mockHistory) Summary(ctx context.Context, f service.HistoryFilter) (service.HistorySummary, error) {
	m.lastFilter = f
	return m.summary, m.err
}

type mockNotifications struct {
	list         []ic.Notification
	settings     ic.NotificationSettings
	dismissed    []string
	lastSettings service.NotificationSettingsParams
}

func (m *mockNotifications) List(ctx context.Context) ([]ic.Notification, error) {
	return m.list, nil
}
func (m *mockNotifications) Dismiss(ctx context.Context, id string) error {
	m.dismissed = append(m.dismissed, id)
	return nil
}
func (m *mockNotifications) Settings(ctx context.Context) (ic.NotificationSettings, error) {
	return m.settings, nil
}
func (m *mockNotifications) UpdateSettings(ctx context.Context, p service.NotificationSettingsParams) (ic.NotificationSettings, error) {
	m.lastSettings = p
	return m.settings, nil
}

type mockBackup struct {
	doc       backup.Document
	name      string
	state     store.State
	importErr error
	imported  []byte
}

func (m *mockBackup) Export(ctx context.Context) (backup.Document, string, error) {
	return m.doc, m.name, nil
}
func (m *mockBackup) Import(ctx context.Context, r io.Reader) (store.State, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return store.State{}, err
	}
	m.imported = b
	return m.state, m.importErr
}

type mockSite struct {
	settings   ic.SiteSettings
	err        error
	lastParams service.SiteParams
}

func (m *mockSite) Get(ctx context.Context) (ic.SiteSettings, error) {
	return m.settings, nil
}
func (m *mockSite) Update(ctx context.Context, p service.SiteParams) (ic.SiteSettings, error) {
	m.lastParams = p
	return m.settings, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
