package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"irrigation_controller/internal/store"
)

type memSlots struct{ docs map[string][]byte }

func (m *memSlots) Save(_ context.Context, name string, doc []byte) error {
	m.docs[name] = append([]byte(nil), doc...)
	return nil
}

func (m *memSlots) Load(_ context.Context, name string) ([]byte, bool, error) {
	doc, ok := m.docs[name]
	return doc, ok, nil
}

// Monday 2025-06-02 05:00 UTC.
var testNow = time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)

func testIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	store *store.IrrigationStore
	site  *store.SiteSettingsStore
	deps  Deps
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	slots := &memSlots{docs: map[string][]byte{}}
	clock := func() time.Time { return testNow }
	st, err := store.NewIrrigationStore(context.Background(), slots, nil, store.WithClock(clock))
	if err != nil {
		t.Fatalf("NewIrrigationStore: %v", err)
	}
	site, err := store.NewSiteSettingsStore(context.Background(), slots, nil)
	if err != nil {
		t.Fatalf("NewSiteSettingsStore: %v", err)
	}
	return fixture{
		store: st,
		site:  site,
		deps: Deps{
			Store:     st,
			SiteStore: site,
			Gate:      store.NewGate(nil),
			Now:       clock,
			NewID:     testIDs(),
		},
	}
}

func ptr[T any](v T) *T { return &v }
