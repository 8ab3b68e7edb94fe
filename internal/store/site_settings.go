package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
)

type siteDocument struct {
	Settings ic.SiteSettings `json:"settings"`
}

// SiteSettingsStore owns cosmetic site metadata.
type SiteSettingsStore struct {
	mu       sync.Mutex
	settings ic.SiteSettings
	slots    Slots
	log      *logger.Logger
	observer Observer
}

func NewSiteSettingsStore(ctx context.Context, slots Slots, log *logger.Logger, opts ...Option) (*SiteSettingsStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	o := buildOptions(opts)
	s := &SiteSettingsStore{
		settings: ic.DefaultSiteSettings(),
		slots:    slots,
		log:      log,
		observer: o.observer,
	}

	raw, found, err := slots.Load(ctx, SiteSettingsSlot)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", SiteSettingsSlot, err)
	}
	if !found {
		return s, nil
	}
	var doc siteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", SiteSettingsSlot, ErrCorruptDocument, err)
	}
	if doc.Settings.OGImage != "" {
		s.settings = doc.Settings
	}
	return s, nil
}

// Settings returns the current settings.
func (s *SiteSettingsStore) Settings() ic.SiteSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings merges p over the current settings and persists the result.
func (s *SiteSettingsStore) UpdateSettings(p SitePatch) ic.SiteSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.OGImage != nil {
		s.settings.OGImage = *p.OGImage
	}
	s.persistLocked()
	return s.settings
}

func (s *SiteSettingsStore) persistLocked() {
	doc, err := json.Marshal(siteDocument{Settings: s.settings})
	if err == nil {
		err = s.slots.Save(context.Background(), SiteSettingsSlot, doc)
	}
	if err != nil {
		s.log.Errorw("store_persist_failed", "slot", SiteSettingsSlot, "err", err)
		if s.observer != nil {
			s.observer.PersistFailed(SiteSettingsSlot, err)
		}
	}
}
