package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"

	"github.com/robfig/cron/v3"
)

const (
	minScheduleMinutes = 1
	maxScheduleMinutes = 180
)

type ZoneService struct {
	store StateStore
	gate  *store.Gate
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewZoneService(d Deps) *ZoneService {
	d = d.withDefaults()
	return &ZoneService{
		store: d.Store,
		gate:  d.Gate,
		log:   d.Log.Named("zones"),
		now:   d.Now,
		newID: d.NewID,
	}
}

// List returns every zone, default zone first, with its live flags and next runs.
func (s *ZoneService) List(ctx context.Context) ([]ZoneView, error) {
	st := s.store.Snapshot()
	now := s.now()
	out := make([]ZoneView, 0, len(st.Zones))
	for _, z := range st.Zones {
		out = append(out, s.view(st, z, now))
	}
	return out, nil
}

// Create adds a zone with a fresh id. Names are trimmed and must not be empty.
func (s *ZoneService) Create(ctx context.Context, name string) (ic.Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ic.Zone{}, ErrInvalidZoneName
	}
	zone := ic.Zone{ID: s.newID(), Name: name, Schedule: []ic.Schedule{}}
	s.store.Dispatch(store.AddZoneAction{Zone: zone})
	s.log.Infow("zone_created", "zone_id", zone.ID, "name", zone.Name)
	return zone, nil
}

// Toggle flips a zone on or off. Turning a zone on is refused with
// ErrZoneLocked when the pressure gate does not allow it; turning off always works.
func (s *ZoneService) Toggle(ctx context.Context, zoneID string) (ZoneView, error) {
	st, err := s.store.Apply(func(cur store.State) (store.Action, error) {
		zone, ok := cur.Zone(zoneID)
		if !ok {
			return nil, ErrZoneNotFound
		}
		if !cur.IsActive(zoneID) && !s.gate.Allows(zone, cur.SystemStatus) {
			return nil, fmt.Errorf("%w: %.2f bar", ErrZoneLocked, cur.SystemStatus.WaterPressure)
		}
		return store.ToggleZoneAction{ZoneID: zoneID}, nil
	})
	if err != nil {
		s.log.Warnw("zone_toggle_refused", "zone_id", zoneID, "err", err)
		return ZoneView{}, err
	}
	zone, _ := st.Zone(zoneID)
	view := s.view(st, zone, s.now())
	s.log.Infow("zone_toggled", "zone_id", zoneID, "active", view.IsActive)
	return view, nil
}

// AddSchedule validates p and appends a schedule to the zone.
func (s *ZoneService) AddSchedule(ctx context.Context, zoneID string, p ScheduleParams) (ic.Schedule, error) {
	sched, err := s.buildSchedule(zoneID, p)
	if err != nil {
		return ic.Schedule{}, err
	}
	_, err = s.store.Apply(func(cur store.State) (store.Action, error) {
		if _, ok := cur.Zone(zoneID); !ok {
			return nil, ErrZoneNotFound
		}
		return store.AddScheduleAction{Schedule: sched}, nil
	})
	if err != nil {
		return ic.Schedule{}, err
	}
	s.log.Infow("schedule_added", "zone_id", zoneID, "schedule_id", sched.ID,
		"start", sched.StartTime, "duration", sched.Duration, "days", sched.Days)
	return sched, nil
}

// RemoveSchedule deletes a schedule from its zone.
func (s *ZoneService) RemoveSchedule(ctx context.Context, zoneID, scheduleID string) error {
	_, err := s.store.Apply(func(cur store.State) (store.Action, error) {
		zone, ok := cur.Zone(zoneID)
		if !ok {
			return nil, ErrZoneNotFound
		}
		if !slices.ContainsFunc(zone.Schedule, func(sc ic.Schedule) bool { return sc.ID == scheduleID }) {
			return nil, ErrScheduleNotFound
		}
		return store.RemoveScheduleAction{ZoneID: zoneID, ScheduleID: scheduleID}, nil
	})
	if err != nil {
		return err
	}
	s.log.Infow("schedule_removed", "zone_id", zoneID, "schedule_id", scheduleID)
	return nil
}

func (s *ZoneService) buildSchedule(zoneID string, p ScheduleParams) (ic.Schedule, error) {
	hour, minute, err := parseClock(p.StartTime)
	if err != nil {
		return ic.Schedule{}, err
	}
	if p.Duration < minScheduleMinutes || p.Duration > maxScheduleMinutes {
		return ic.Schedule{}, ErrInvalidDuration
	}
	days, err := normalizeDays(p.Days)
	if err != nil {
		return ic.Schedule{}, err
	}
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return ic.Schedule{
		ID:        s.newID(),
		ZoneID:    zoneID,
		StartTime: fmt.Sprintf("%02d:%02d", hour, minute),
		Duration:  p.Duration,
		Days:      days,
		Active:    active,
	}, nil
}

func (s *ZoneService) view(st store.State, z ic.Zone, now time.Time) ZoneView {
	runs := make(map[string]time.Time, len(z.Schedule))
	for _, sc := range z.Schedule {
		if next, ok := NextRun(sc, now); ok {
			runs[sc.ID] = next
		}
	}
	return ZoneView{
		Zone:        z,
		IsActive:    st.IsActive(z.ID),
		CanActivate: s.gate.Allows(z, st.SystemStatus),
		NextRuns:    runs,
	}
}

// parseClock accepts "H:MM" and "HH:MM" in 24-hour time.
func parseClock(v string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, 0, ErrInvalidStartTime
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidStartTime
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidStartTime
	}
	return hour, minute, nil
}

// normalizeDays sorts and de-duplicates days.
func normalizeDays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, ErrInvalidDays
	}
	out := slices.Clone(days)
	for _, d := range out {
		if d < 0 || d > 6 {
			return nil, ErrInvalidDays
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRun returns the next start of an active schedule after now, in now's location.
func NextRun(sc ic.Schedule, now time.Time) (time.Time, bool) {
	if !sc.Active {
		return time.Time{}, false
	}
	spec, ok := cronSpec(sc)
	if !ok {
		return time.Time{}, false
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return time.Time{}, false
	}
	next := sched.Next(now)
	return next, !next.IsZero()
}

func cronSpec(sc ic.Schedule) (string, bool) {
	hour, minute, err := parseClock(sc.StartTime)
	if err != nil {
		return "", false
	}
	days, err := normalizeDays(sc.Days)
	if err != nil {
		return "", false
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, strings.Join(parts, ",")), true
}
