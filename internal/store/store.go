package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"

	"github.com/google/uuid"
)

// Slot names in durable storage.
const (
	IrrigationSlot   = "irrigation-storage"
	SiteSettingsSlot = "site-settings"
)

// subscriberBuffer is how many snapshots a slow subscriber may lag before it starts missing some.
const subscriberBuffer = 8

// Slots is the durable storage the stores write to.
type Slots interface {
	Save(ctx context.Context, name string, doc []byte) error
	Load(ctx context.Context, name string) ([]byte, bool, error)
}

// Observer is told about every commit. Implementations must not call back into the store.
type Observer interface {
	StateCommitted(action string, s State)
	NotificationEmitted(n ic.Notification)
	PersistFailed(slot string, err error)
}

// Option customizes a store.
type Option func(*options)

type options struct {
	now      func() time.Time
	newID    func() string
	observer Observer
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithObserver registers a commit observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IrrigationStore is the authoritative irrigation state. Every dispatch runs to
// completion (reduce, derive notifications, commit, persist, publish) before
// the next one starts.
type IrrigationStore struct {
	mu    sync.Mutex
	state State
	slots Slots
	log   *logger.Logger
	opts  options

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// NewIrrigationStore loads and repairs the persisted state, or starts from
// InitialState when nothing was persisted yet.
func NewIrrigationStore(ctx context.Context, slots Slots, log *logger.Logger, opts ...Option) (*IrrigationStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	o := buildOptions(opts)
	s := &IrrigationStore{
		slots: slots,
		log:   log,
		opts:  o,
		subs:  make(map[int]chan State),
	}

	raw, found, err := slots.Load(ctx, IrrigationSlot)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", IrrigationSlot, err)
	}
	if !found {
		s.state = InitialState(o.now())
		log.Infow("store_initialized", "slot", IrrigationSlot, "zones", len(s.state.Zones))
		return s, nil
	}

	st, err := ParseDocument(raw, o.now())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", IrrigationSlot, err)
	}
	s.state = st
	log.Infow("store_loaded", "slot", IrrigationSlot,
		"zones", len(st.Zones), "sessions", len(st.Sessions), "notifications", len(st.Notifications))
	return s, nil
}

// Snapshot returns a deep copy of the last committed state.
func (s *IrrigationStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a and returns the committed state.
func (s *IrrigationStore) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(a)
}

// Apply lets decide inspect the current state and pick an action atomically.
// If decide returns an error nothing is dispatched; a nil action is a no-op.
func (s *IrrigationStore) Apply(decide func(State) (Action, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := decide(s.state.Clone())
	if err != nil {
		return s.state.Clone(), err
	}
	if a == nil {
		return s.state.Clone(), nil
	}
	return s.commitLocked(a), nil
}

func (s *IrrigationStore) commitLocked(a Action) State {
	env := Env{Now: s.opts.now(), NewID: s.opts.newID}
	prev := s.state
	next := Reduce(prev, a, env)

	drafts := DeriveNotifications(prev, next, a)
	for _, d := range drafts {
		next = Reduce(next, AddNotificationAction{Draft: d}, env)
	}

	s.state = next
	s.persistLocked()

	if obs := s.opts.observer; obs != nil {
		emitted := next.Notifications[len(next.Notifications)-len(drafts):]
		for _, n := range emitted {
			obs.NotificationEmitted(n)
		}
		obs.StateCommitted(ActionName(a), next)
	}
	for _, d := range drafts {
		s.log.Infow("notification_emitted", "action", ActionName(a), "type", d.Type, "title", d.Title)
	}

	snap := next.Clone()
	s.publish(snap)
	return snap
}

// persistLocked is fire-and-forget: failures are logged and reported, never returned.
func (s *IrrigationStore) persistLocked() {
	doc, err := EncodeDocument(s.state)
	if err == nil {
		err = s.slots.Save(context.Background(), IrrigationSlot, doc)
	}
	if err != nil {
		s.log.Errorw("store_persist_failed", "slot", IrrigationSlot, "err", err)
		if s.opts.observer != nil {
			s.opts.observer.PersistFailed(IrrigationSlot, err)
		}
	}
}

// Subscribe returns a channel of committed snapshots and a cancel func.
// A subscriber that falls behind misses snapshots; it never blocks the store.
func (s *IrrigationStore) Subscribe() (<-chan State, func()) {
	ch := make(chan State, subscriberBuffer)
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *IrrigationStore) publish(snap State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.log.Debugw("subscriber_lagging", "subscriber", id)
		}
	}
}

// Operations. All are total; inapplicable calls leave the state unchanged.

func (s *IrrigationStore) AddZone(zone ic.Zone) {
	s.Dispatch(AddZoneAction{Zone: zone})
}

func (s *IrrigationStore) ToggleZone(zoneID string) {
	s.Dispatch(ToggleZoneAction{ZoneID: zoneID})
}

func (s *IrrigationStore) AddSchedule(schedule ic.Schedule) {
	s.Dispatch(AddScheduleAction{Schedule: schedule})
}

func (s *IrrigationStore) RemoveSchedule(zoneID, scheduleID string) {
	s.Dispatch(RemoveScheduleAction{ZoneID: zoneID, ScheduleID: scheduleID})
}

func (s *IrrigationStore) AddSession(session ic.WateringSession) {
	s.Dispatch(AddSessionAction{Session: session})
}

func (s *IrrigationStore) UpdateSystemStatus(patch StatusPatch) {
	s.Dispatch(UpdateSystemStatusAction{Patch: patch})
}

func (s *IrrigationStore) AddNotification(draft NotificationDraft) {
	s.Dispatch(AddNotificationAction{Draft: draft})
}

func (s *IrrigationStore) RemoveNotification(id string) {
	s.Dispatch(RemoveNotificationAction{ID: id})
}

func (s *IrrigationStore) UpdateNotificationSettings(patch SettingsPatch) {
	s.Dispatch(UpdateNotificationSettingsAction{Patch: patch})
}

func (s *IrrigationStore) RestoreBackup(zones []ic.Zone, sessions []ic.WateringSession) {
	s.Dispatch(RestoreBackupAction{Zones: zones, Sessions: sessions})
}
