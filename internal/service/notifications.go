package service

import (
	"context"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"
)

type NotificationService struct {
	store StateStore
	log   *logger.Logger
}

func NewNotificationService(d Deps) *NotificationService {
	d = d.withDefaults()
	return &NotificationService{store: d.Store, log: d.Log.Named("notifications")}
}

// List returns pending notifications in display order.
func (s *NotificationService) List(ctx context.Context) ([]ic.Notification, error) {
	out := s.store.Snapshot().Notifications
	if out == nil {
		out = []ic.Notification{}
	}
	return out, nil
}

// Dismiss removes a notification. Unknown ids are ignored.
func (s *NotificationService) Dismiss(ctx context.Context, id string) error {
	s.store.Dispatch(store.RemoveNotificationAction{ID: id})
	s.log.Debugw("notification_dismissed", "notification_id", id)
	return nil
}

func (s *NotificationService) Settings(ctx context.Context) (ic.NotificationSettings, error) {
	return s.store.Snapshot().NotificationSettings, nil
}

// UpdateSettings merges the set fields of p.
func (s *NotificationService) UpdateSettings(ctx context.Context, p NotificationSettingsParams) (ic.NotificationSettings, error) {
	st := s.store.Dispatch(store.UpdateNotificationSettingsAction{Patch: store.SettingsPatch{
		SystemAlerts:     p.SystemAlerts,
		WateringEvents:   p.WateringEvents,
		PressureWarnings: p.PressureWarnings,
		DailyReport:      p.DailyReport,
	}})
	s.log.Infow("notification_settings_updated",
		"system_alerts", st.NotificationSettings.SystemAlerts,
		"watering_events", st.NotificationSettings.WateringEvents,
		"pressure_warnings", st.NotificationSettings.PressureWarnings)
	return st.NotificationSettings, nil
}
