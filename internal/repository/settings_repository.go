package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitecms/internal/model"
)

// ErrStaleVersion is returned when a versioned update matched no row.
var ErrStaleVersion = errors.New("stale version")

// SettingsRepository manages the SiteInfo and SiteMeta singleton rows.
type SettingsRepository interface {
	GetInfo(ctx context.Context) (*model.SiteInfo, error)
	UpdateInfo(ctx context.Context, info *model.SiteInfo, expectedVersion int) (*model.SiteInfo, error)
	GetMeta(ctx context.Context) (*model.SiteMeta, error)
	UpdateMeta(ctx context.Context, meta *model.SiteMeta, expectedVersion int) (*model.SiteMeta, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetInfo returns the SiteInfo row, creating it on first read.
func (r *settingsRepository) GetInfo(ctx context.Context) (*model.SiteInfo, error) {
	var info model.SiteInfo
	if err := firstOrCreate(r.db.WithContext(ctx), &info, &model.SiteInfo{ID: model.SingletonID, MapZoom: 15, Version: 1}); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateInfo overwrites every editable column. A positive expectedVersion
// makes the write conditional on the stored version.
func (r *settingsRepository) UpdateInfo(ctx context.Context, info *model.SiteInfo, expectedVersion int) (*model.SiteInfo, error) {
	if _, err := r.GetInfo(ctx); err != nil {
		return nil, err
	}
	if err := updateSingleton(r.db.WithContext(ctx), &model.SiteInfo{}, info, expectedVersion); err != nil {
		return nil, err
	}
	return r.GetInfo(ctx)
}

// GetMeta returns the SiteMeta row, creating it on first read.
func (r *settingsRepository) GetMeta(ctx context.Context) (*model.SiteMeta, error) {
	var meta model.SiteMeta
	if err := firstOrCreate(r.db.WithContext(ctx), &meta, &model.SiteMeta{ID: model.SingletonID, Version: 1}); err != nil {
		return nil, err
	}
	return &meta, nil
}

// UpdateMeta overwrites every editable column, optionally version-checked.
func (r *settingsRepository) UpdateMeta(ctx context.Context, meta *model.SiteMeta, expectedVersion int) (*model.SiteMeta, error) {
	if _, err := r.GetMeta(ctx); err != nil {
		return nil, err
	}
	if err := updateSingleton(r.db.WithContext(ctx), &model.SiteMeta{}, meta, expectedVersion); err != nil {
		return nil, err
	}
	return r.GetMeta(ctx)
}

// firstOrCreate loads the singleton row, inserting defaults when missing.
// Concurrent first reads both attempt the insert; the conflict is ignored
// and both read back the same row.
func firstOrCreate(db *gorm.DB, dst, defaults interface{}) error {
	err := db.First(dst, model.SingletonID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(defaults).Error; err != nil {
		return err
	}
	return db.First(dst, model.SingletonID).Error
}

func updateSingleton(db *gorm.DB, table, values interface{}, expectedVersion int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(table).Where("id = ?", model.SingletonID)
		if expectedVersion > 0 {
			q = q.Where("version = ?", expectedVersion)
		}
		res := q.Select("*").Omit("id", "created_at", "version").Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if expectedVersion > 0 && res.RowsAffected == 0 {
			return ErrStaleVersion
		}
		return tx.Model(table).Where("id = ?", model.SingletonID).
			UpdateColumn("version", gorm.Expr("version + ?", 1)).Error
	})
}
