package service

import (
	"context"
	"slices"
	"strings"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"
)

type HistoryService struct {
	store StateStore
	log   *logger.Logger
	newID func() string
}

func NewHistoryService(d Deps) *HistoryService {
	d = d.withDefaults()
	return &HistoryService{store: d.Store, log: d.Log.Named("history"), newID: d.NewID}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeFilter(f HistoryFilter) (HistoryFilter, error) {
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)
	f.ZoneID = strings.TrimSpace(f.ZoneID)
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return HistoryFilter{}, ErrInvalidTimeRange
	}
	return f, nil
}

func (f HistoryFilter) match(s ic.WateringSession) bool {
	if !f.From.IsZero() && s.StartTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.StartTime.After(f.To) {
		return false
	}
	return f.ZoneID == "" || s.ZoneID == f.ZoneID
}

// List returns the sessions that started inside the filter window, oldest first.
func (s *HistoryService) List(ctx context.Context, f HistoryFilter) ([]ic.WateringSession, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	out := []ic.WateringSession{}
	for _, sess := range s.store.Snapshot().Sessions {
		if f.match(sess) {
			out = append(out, sess)
		}
	}
	slices.SortStableFunc(out, func(a, b ic.WateringSession) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out, nil
}

// Record appends a finished session to the log.
func (s *HistoryService) Record(ctx context.Context, p SessionParams) (ic.WateringSession, error) {
	if p.EndTime.Before(p.StartTime) || p.WaterUsage < 0 || p.StartTime.IsZero() {
		return ic.WateringSession{}, ErrInvalidSession
	}
	sess := ic.WateringSession{
		ID:         s.newID(),
		ZoneID:     strings.TrimSpace(p.ZoneID),
		StartTime:  p.StartTime.UTC(),
		EndTime:    p.EndTime.UTC(),
		WaterUsage: p.WaterUsage,
		Automatic:  p.Automatic,
	}
	s.store.Dispatch(store.AddSessionAction{Session: sess})
	s.log.Infow("session_recorded", "session_id", sess.ID, "zone_id", sess.ZoneID,
		"liters", sess.WaterUsage, "automatic", sess.Automatic)
	return sess, nil
}

// Summary aggregates the sessions List would return for f.
func (s *HistoryService) Summary(ctx context.Context, f HistoryFilter) (HistorySummary, error) {
	sessions, err := s.List(ctx, f)
	if err != nil {
		return HistorySummary{}, err
	}
	sum := HistorySummary{UsageByZone: map[string]float64{}}
	for _, sess := range sessions {
		sum.Sessions++
		sum.TotalWaterUsage += sess.WaterUsage
		sum.TotalMinutes += sess.Duration().Minutes()
		sum.UsageByZone[sess.ZoneID] += sess.WaterUsage
		if sess.Automatic {
			sum.Automatic++
		} else {
			sum.Manual++
		}
	}
	return sum, nil
}
