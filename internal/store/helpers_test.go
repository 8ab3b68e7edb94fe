package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ic "irrigation_controller"
)

type memSlots struct {
	mu      sync.Mutex
	docs    map[string][]byte
	saveErr error
	saves   int
}

func newMemSlots() *memSlots {
	return &memSlots{docs: make(map[string][]byte)}
}

func (m *memSlots) Save(_ context.Context, name string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[name] = append([]byte(nil), doc...)
	return nil
}

func (m *memSlots) Load(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[name]
	return doc, ok, nil
}

type failingLoadSlots struct{}

func (failingLoadSlots) Save(context.Context, string, []byte) error { return nil }
func (failingLoadSlots) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}

type recordingObserver struct {
	commits       []string
	notifications []ic.Notification
	persistFails  []string
}

func (r *recordingObserver) StateCommitted(action string, _ State) {
	r.commits = append(r.commits, action)
}
func (r *recordingObserver) NotificationEmitted(n ic.Notification) {
	r.notifications = append(r.notifications, n)
}
func (r *recordingObserver) PersistFailed(slot string, _ error) {
	r.persistFails = append(r.persistFails, slot)
}

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testEnv() Env {
	return Env{Now: testNow, NewID: sequentialIDs()}
}

func ptr[T any](v T) *T { return &v }

func zone(id, name string) ic.Zone {
	return ic.Zone{ID: id, Name: name, Schedule: []ic.Schedule{}}
}

func stateWithPressure(p float64) State {
	st := InitialState(testNow)
	st.SystemStatus.WaterPressure = p
	return st
}
