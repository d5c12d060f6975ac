package service

import (
	"context"
	"errors"
	"time"

	"sitecms/internal/cache"
	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

const (
	settingsCacheTTL = 10 * time.Minute
	siteInfoCacheKey = "settings:info"
	siteMetaCacheKey = "settings:meta"
)

// SettingsService reads and edits the site-wide singleton settings.
type SettingsService interface {
	GetInfo(ctx context.Context) (*model.SiteInfo, error)
	// UpdateInfo replaces every editable field. A positive version makes the
	// write fail with ErrVersionConflict when the row changed since it was read.
	UpdateInfo(ctx context.Context, info *model.SiteInfo, version int) (*model.SiteInfo, error)
	GetMeta(ctx context.Context) (*model.SiteMeta, error)
	UpdateMeta(ctx context.Context, meta *model.SiteMeta, version int) (*model.SiteMeta, error)
}

type settingsService struct {
	repo  repository.SettingsRepository
	cache *cache.Client
}

// NewSettingsService builds a SettingsService. cache may be nil.
func NewSettingsService(repo repository.SettingsRepository, cache *cache.Client) SettingsService {
	return &settingsService{repo: repo, cache: cache}
}

func (s *settingsService) GetInfo(ctx context.Context) (*model.SiteInfo, error) {
	var cached model.SiteInfo
	if s.cache.GetJSON(ctx, siteInfoCacheKey, &cached) {
		return &cached, nil
	}
	info, err := s.repo.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, siteInfoCacheKey, info, settingsCacheTTL)
	return info, nil
}

func (s *settingsService) UpdateInfo(ctx context.Context, info *model.SiteInfo, version int) (*model.SiteInfo, error) {
	updated, err := s.repo.UpdateInfo(ctx, info, version)
	if err != nil {
		return nil, versionConflict(err)
	}
	_ = s.cache.Delete(ctx, siteInfoCacheKey)
	return updated, nil
}

func (s *settingsService) GetMeta(ctx context.Context) (*model.SiteMeta, error) {
	var cached model.SiteMeta
	if s.cache.GetJSON(ctx, siteMetaCacheKey, &cached) {
		return &cached, nil
	}
	meta, err := s.repo.GetMeta(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, siteMetaCacheKey, meta, settingsCacheTTL)
	return meta, nil
}

func (s *settingsService) UpdateMeta(ctx context.Context, meta *model.SiteMeta, version int) (*model.SiteMeta, error) {
	updated, err := s.repo.UpdateMeta(ctx, meta, version)
	if err != nil {
		return nil, versionConflict(err)
	}
	_ = s.cache.Delete(ctx, siteMetaCacheKey)
	return updated, nil
}

func versionConflict(err error) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return apperrors.ErrVersionConflict
	}
	return err
}
