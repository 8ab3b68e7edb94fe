package service

import (
	"context"
	"strings"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"
)

type SiteService struct {
	store SiteStore
	log   *logger.Logger
}

func NewSiteService(d Deps) *SiteService {
	d = d.withDefaults()
	return &SiteService{store: d.SiteStore, log: d.Log.Named("site")}
}

func (s *SiteService) Get(ctx context.Context) (ic.SiteSettings, error) {
	return s.store.Settings(), nil
}

func (s *SiteService) Update(ctx context.Context, p SiteParams) (ic.SiteSettings, error) {
	var patch store.SitePatch
	if p.OGImage != nil {
		img := strings.TrimSpace(*p.OGImage)
		if img == "" {
			return ic.SiteSettings{}, ErrInvalidOGImage
		}
		patch.OGImage = &img
	}
	out := s.store.UpdateSettings(patch)
	s.log.Infow("site_settings_updated", "og_image", out.OGImage)
	return out, nil
}
