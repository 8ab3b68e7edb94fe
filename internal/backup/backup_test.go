package backup

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

var now = time.Date(2025, 3, 17, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) *store.IrrigationStore {
	t.Helper()
	s, err := store.NewIrrigationStore(context.Background(), &memSlots{docs: map[string][]byte{}}, nil,
		store.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return s
}

func TestCreate_UsesLiveSettings(t *testing.T) {
	s := newStore(t)
	off := false
	s.UpdateNotificationSettings(store.SettingsPatch{WateringEvents: &off})

	doc := Create(s.Snapshot(), "", now)

	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, "2025-03-17T09:30:00Z", doc.Timestamp)
	require.NotNil(t, doc.Data)
	assert.False(t, doc.Data.Settings.Notifications.WateringEvents)
	assert.Equal(t, DefaultInterval, doc.Data.Settings.BackupInterval)
	assert.Len(t, doc.Data.Sessions, 3)
}

func TestRoundTrip_RestoreReproducesZonesAndSessions(t *testing.T) {
	src := newStore(t)
	src.AddZone(ic.Zone{ID: "z1", Name: "Башта", Schedule: []ic.Schedule{
		{ID: "s1", ZoneID: "z1", StartTime: "06:30", Duration: 20, Days: []int{1, 3, 5}, Active: true},
	}})
	src.AddSession(ic.WateringSession{
		ID: "x", ZoneID: "z1",
		StartTime:  time.Date(2025, 3, 16, 6, 30, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 3, 16, 6, 50, 0, 0, time.UTC),
		WaterUsage: 80, Automatic: true,
	})
	before := src.Snapshot()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Create(before, "daily", now)))

	doc, err := Parse(&buf)
	require.NoError(t, err)

	dst := newStore(t)
	dst.AddZone(ic.Zone{ID: "other", Name: "Друга"})
	after, err := Restore(dst, doc)
	require.NoError(t, err)

	assert.Equal(t, before.Zones, after.Zones)
	require.Len(t, after.Sessions, len(before.Sessions))
	for i := range before.Sessions {
		assert.True(t, before.Sessions[i].StartTime.Equal(after.Sessions[i].StartTime))
		assert.True(t, before.Sessions[i].EndTime.Equal(after.Sessions[i].EndTime))
		assert.Equal(t, before.Sessions[i].ID, after.Sessions[i].ID)
	}
	assert.Equal(t, "daily", doc.Data.Settings.BackupInterval)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing version":   `{"timestamp":"2025-03-17T09:30:00Z","data":{"zones":[],"sessions":[]}}`,
		"empty version":     `{"version":"","timestamp":"2025-03-17T09:30:00Z","data":{}}`,
		"missing timestamp": `{"version":"1.0","data":{}}`,
		"null data":         `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":null}`,
		"not json":          `version: 1.0`,
		"bad session":       `{"version":"1.0","timestamp":"t","data":{"zones":[],"sessions":[{"id":"1","startTime":"later","endTime":"later"}]}}`,
		"empty data":        `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{}}`,
		"no sessions":       `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{"zones":[]}}`,
		"no zones":          `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{"sessions":[]}}`,
		"null zones":        `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{"zones":null,"sessions":[]}}`,
		"zones not array":   `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{"zones":{},"sessions":[]}}`,
		"trailing garbage":  `{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{"zones":[],"sessions":[]}} garbage`,
		"two documents":     `{"version":"1.0","timestamp":"t","data":{"zones":[],"sessions":[]}}{"version":"1.0"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(raw))
			require.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestImportMissingVersion_LeavesStateUnchanged(t *testing.T) {
	s := newStore(t)
	before := s.Snapshot()

	doc, err := Parse(strings.NewReader(`{"timestamp":"2025-03-17T09:30:00Z","data":{"zones":[],"sessions":[]}}`))
	require.ErrorIs(t, err, ErrInvalidFormat)
	_, err = Restore(s, doc)
	require.ErrorIs(t, err, ErrInvalidFormat)

	after := s.Snapshot()
	assert.Equal(t, before.Zones, after.Zones)
	assert.Equal(t, before.Sessions, after.Sessions)
}

func TestImportEmptyData_LeavesStateUnchanged(t *testing.T) {
	s := newStore(t)
	before := s.Snapshot()
	require.NotEmpty(t, before.Sessions)

	doc, err := Parse(strings.NewReader(`{"version":"1.0","timestamp":"2025-03-17T09:30:00Z","data":{}}`))
	require.ErrorIs(t, err, ErrInvalidFormat)
	_, err = Restore(s, doc)
	require.ErrorIs(t, err, ErrInvalidFormat)

	after := s.Snapshot()
	assert.Equal(t, before.Zones, after.Zones)
	assert.Equal(t, before.Sessions, after.Sessions)
}

func TestParse_TrailingWhitespaceAccepted(t *testing.T) {
	_, err := Parse(strings.NewReader("{\"version\":\"1.0\",\"timestamp\":\"t\",\"data\":{\"zones\":[],\"sessions\":[]}}\n\n"))
	require.NoError(t, err)
}

func TestRestore_KeepsDefaultZone(t *testing.T) {
	s := newStore(t)
	doc, err := Parse(strings.NewReader(`{"version":"1.0","timestamp":"x","data":{"zones":[{"id":"a","name":"A","schedule":[]}],"sessions":[]}}`))
	require.NoError(t, err)

	st, err := Restore(s, doc)
	require.NoError(t, err)
	require.Len(t, st.Zones, 2)
	assert.Equal(t, ic.DefaultZoneID, st.Zones[0].ID)
	assert.Empty(t, st.Sessions)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "irrigation-backup-2025-03-17.json", FileName(now))
}
