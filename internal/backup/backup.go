// Package backup reads and writes the user-facing backup file.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"
)

// Version is written into every exported document.
const Version = "1.0"

// DefaultInterval is the backupInterval written when none is configured.
const DefaultInterval = "weekly"

var ErrInvalidFormat = errors.New("invalid backup format")

type Document struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Data      *Data  `json:"data"`
}

type Data struct {
	Zones    []ic.Zone            `json:"zones"`
	Sessions []ic.WateringSession `json:"sessions"`
	Settings Settings             `json:"settings"`
}

type Settings struct {
	Notifications  ic.NotificationSettings `json:"notifications"`
	BackupInterval string                  `json:"backupInterval"`
}

// wire shapes used while parsing; sessions keep raw timestamps until rehydrated.
type rawDocument struct {
	Version   string   `json:"version"`
	Timestamp string   `json:"timestamp"`
	Data      *rawData `json:"data"`
}

// Zones and Sessions are pointers so an absent or null array is told apart from an empty one.
type rawData struct {
	Zones    *[]ic.Zone    `json:"zones"`
	Sessions *[]rawSession `json:"sessions"`
	Settings Settings      `json:"settings"`
}

type rawSession struct {
	ID         string          `json:"id"`
	ZoneID     string          `json:"zoneId"`
	StartTime  json.RawMessage `json:"startTime"`
	EndTime    json.RawMessage `json:"endTime"`
	WaterUsage float64         `json:"waterUsage"`
	Automatic  bool            `json:"automatic"`
}

// Create snapshots zones and sessions with the live notification settings.
func Create(s store.State, interval string, now time.Time) Document {
	if strings.TrimSpace(interval) == "" {
		interval = DefaultInterval
	}
	clone := s.Clone()
	zones := clone.Zones
	if zones == nil {
		zones = []ic.Zone{}
	}
	sessions := clone.Sessions
	if sessions == nil {
		sessions = []ic.WateringSession{}
	}
	return Document{
		Version:   Version,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Data: &Data{
			Zones:    zones,
			Sessions: sessions,
			Settings: Settings{
				Notifications:  clone.NotificationSettings,
				BackupInterval: interval,
			},
		},
	}
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Parse decodes and validates a backup document. Every failure wraps ErrInvalidFormat.
// The reader must hold exactly one JSON value.
func Parse(r io.Reader) (Document, error) {
	var raw rawDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return Document{}, fmt.Errorf("%w: trailing data after document", ErrInvalidFormat)
	}
	switch {
	case strings.TrimSpace(raw.Version) == "":
		return Document{}, fmt.Errorf("%w: missing version", ErrInvalidFormat)
	case strings.TrimSpace(raw.Timestamp) == "":
		return Document{}, fmt.Errorf("%w: missing timestamp", ErrInvalidFormat)
	case raw.Data == nil:
		return Document{}, fmt.Errorf("%w: missing data", ErrInvalidFormat)
	case raw.Data.Zones == nil:
		return Document{}, fmt.Errorf("%w: missing data.zones", ErrInvalidFormat)
	case raw.Data.Sessions == nil:
		return Document{}, fmt.Errorf("%w: missing data.sessions", ErrInvalidFormat)
	}

	rawSessions := *raw.Data.Sessions
	sessions := make([]ic.WateringSession, 0, len(rawSessions))
	for _, rs := range rawSessions {
		start, err := store.ParseTimestamp(rs.StartTime)
		if err != nil {
			return Document{}, fmt.Errorf("%w: session %s startTime: %v", ErrInvalidFormat, rs.ID, err)
		}
		end, err := store.ParseTimestamp(rs.EndTime)
		if err != nil {
			return Document{}, fmt.Errorf("%w: session %s endTime: %v", ErrInvalidFormat, rs.ID, err)
		}
		sessions = append(sessions, ic.WateringSession{
			ID:         rs.ID,
			ZoneID:     rs.ZoneID,
			StartTime:  start,
			EndTime:    end,
			WaterUsage: rs.WaterUsage,
			Automatic:  rs.Automatic,
		})
	}

	return Document{
		Version:   raw.Version,
		Timestamp: raw.Timestamp,
		Data: &Data{
			Zones:    *raw.Data.Zones,
			Sessions: sessions,
			Settings: raw.Data.Settings,
		},
	}, nil
}

// Dispatcher is the part of the store Restore needs.
type Dispatcher interface {
	Dispatch(a store.Action) store.State
}

// Restore replaces zones and sessions in one action. Notification settings
// embedded in the document are not restored.
func Restore(d Dispatcher, doc Document) (store.State, error) {
	if doc.Data == nil {
		return store.State{}, fmt.Errorf("%w: missing data", ErrInvalidFormat)
	}
	return d.Dispatch(store.RestoreBackupAction{
		Zones:    doc.Data.Zones,
		Sessions: doc.Data.Sessions,
	}), nil
}

// FileName is the download name for a backup taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("irrigation-backup-%s.json", now.Format("2006-01-02"))
}
