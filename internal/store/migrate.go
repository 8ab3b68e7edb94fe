package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ic "irrigation_controller"
)

// DocumentVersion is written into every persisted irrigation document.
const DocumentVersion = 1

var (
	ErrCorruptDocument  = errors.New("corrupt persisted document")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

type persistedState struct {
	Zones                *[]ic.Zone               `json:"zones"`
	Sessions             *[]persistedSession      `json:"sessions"`
	ActiveZones          *[]string                `json:"activeZones"`
	Notifications        *[]persistedNotification `json:"notifications"`
	NotificationSettings *ic.NotificationSettings `json:"notificationSettings"`
	SystemStatus         *ic.SystemStatus         `json:"systemStatus"`
}

type persistedSession struct {
	ID         string          `json:"id"`
	ZoneID     string          `json:"zoneId"`
	StartTime  json.RawMessage `json:"startTime"`
	EndTime    json.RawMessage `json:"endTime"`
	WaterUsage float64         `json:"waterUsage"`
	Automatic  bool            `json:"automatic"`
}

type persistedNotification struct {
	ID        string              `json:"id"`
	Type      ic.NotificationType `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Timestamp json.RawMessage     `json:"timestamp"`
}

// EncodeDocument serializes s in the versioned persisted layout.
func EncodeDocument(s State) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return json.Marshal(envelope{Version: DocumentVersion, State: body})
}

// ParseDocument is the only place persisted irrigation state is rehydrated.
// It accepts the versioned envelope and the bare legacy state object, fills
// absent fields from InitialState(now), prepends the default zone when it is
// missing and turns every timestamp into a time.Time.
func ParseDocument(raw []byte, now time.Time) (State, error) {
	body, err := unwrapEnvelope(raw)
	if err != nil {
		return State{}, err
	}

	var ps persistedState
	if err := json.Unmarshal(body, &ps); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	st := InitialState(now)
	if ps.Zones != nil {
		st.Zones = *ps.Zones
	}
	st.Zones = ensureDefaultZone(normalizeZones(st.Zones))

	if ps.Sessions != nil {
		sessions, err := rehydrateSessions(*ps.Sessions)
		if err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		st.Sessions = sessions
	}
	if ps.ActiveZones != nil {
		st.ActiveZones = *ps.ActiveZones
	}
	if ps.Notifications != nil {
		st.Notifications = rehydrateNotifications(*ps.Notifications, now)
	}
	if ps.NotificationSettings != nil {
		st.NotificationSettings = *ps.NotificationSettings
	}
	if ps.SystemStatus != nil {
		st.SystemStatus = *ps.SystemStatus
		if !st.SystemStatus.OperationMode.Valid() {
			st.SystemStatus.OperationMode = ic.ModeAutomatic
		}
	}
	return st, nil
}

func unwrapEnvelope(raw []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if len(env.State) == 0 || bytes.Equal(env.State, []byte("null")) {
		return raw, nil
	}
	if env.Version > DocumentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptDocument, env.Version)
	}
	return env.State, nil
}

func normalizeZones(zones []ic.Zone) []ic.Zone {
	for i := range zones {
		if zones[i].Schedule == nil {
			zones[i].Schedule = []ic.Schedule{}
		}
	}
	return zones
}

func rehydrateSessions(in []persistedSession) ([]ic.WateringSession, error) {
	out := make([]ic.WateringSession, 0, len(in))
	for _, ps := range in {
		start, err := ParseTimestamp(ps.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %s startTime: %w", ps.ID, err)
		}
		end, err := ParseTimestamp(ps.EndTime)
		if err != nil {
			return nil, fmt.Errorf("session %s endTime: %w", ps.ID, err)
		}
		out = append(out, ic.WateringSession{
			ID:         ps.ID,
			ZoneID:     ps.ZoneID,
			StartTime:  start,
			EndTime:    end,
			WaterUsage: ps.WaterUsage,
			Automatic:  ps.Automatic,
		})
	}
	return out, nil
}

// rehydrateNotifications never drops a notification; an unreadable timestamp becomes the load time.
func rehydrateNotifications(in []persistedNotification, now time.Time) []ic.Notification {
	out := make([]ic.Notification, 0, len(in))
	for _, pn := range in {
		ts, err := ParseTimestamp(pn.Timestamp)
		if err != nil {
			ts = now
		}
		out = append(out, ic.Notification{
			ID:        pn.ID,
			Type:      pn.Type,
			Title:     pn.Title,
			Message:   pn.Message,
			Timestamp: ts,
		})
	}
	return out
}

// ParseTimestamp reads a JSON timestamp: an ISO-8601 string or epoch milliseconds.
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, fmt.Errorf("%w: missing", ErrInvalidTimestamp)
	}
	if raw[0] != '"' {
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTimestamp, raw)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return ParseTimeString(s)
}

// ParseTimeString parses the string forms accepted by ParseTimestamp.
// Strings without a zone are read as UTC.
func ParseTimeString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
