package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sitecms/internal/db"
	"sitecms/internal/model"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite", filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestRepositories_SQLite(t *testing.T) {
	runRepositorySuite(t, openSQLite)
}

// runRepositorySuite runs the driver-independent repository checks against
// a fresh, migrated database for each subtest.
func runRepositorySuite(t *testing.T, open func(t *testing.T) *gorm.DB) {
	t.Run("list paginates and filters", func(t *testing.T) {
		gdb := open(t)
		repo := New[model.Case](gdb)
		ctx := context.Background()

		for i := 1; i <= 7; i++ {
			industry := "chemical"
			if i%2 == 0 {
				industry = "water"
			}
			require.NoError(t, repo.Create(ctx, &model.Case{
				Title:        fmt.Sprintf("Plant retrofit %d", i),
				Industry:     industry,
				Featured:     i <= 2,
				DisplayOrder: 10 - i,
			}))
		}

		items, total, err := repo.List(ctx, ListOptions{Page: 2, PageSize: 3, Order: "display_order ASC, id ASC"})
		require.NoError(t, err)
		assert.EqualValues(t, 7, total)
		require.Len(t, items, 3)
		assert.Equal(t, "Plant retrofit 4", items[0].Title)

		items, total, err = repo.List(ctx, ListOptions{PageSize: 10, Filters: map[string]interface{}{"industry": "water"}})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, items, 3)

		items, total, err = repo.List(ctx, ListOptions{
			PageSize:       10,
			Filters:        map[string]interface{}{"featured": true},
			Keyword:        "retrofit 2",
			KeywordColumns: []string{"title", "summary"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Plant retrofit 2", items[0].Title)

		items, total, err = repo.List(ctx, ListOptions{PageSize: 10, Keyword: "nothing like this", KeywordColumns: []string{"title"}})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("delete reports missing rows", func(t *testing.T) {
		gdb := open(t)
		repo := New[model.News](gdb)
		ctx := context.Background()

		n := &model.News{Title: "Expo"}
		require.NoError(t, repo.Create(ctx, n))
		require.NoError(t, repo.Delete(ctx, n.ID))
		assert.ErrorIs(t, repo.Delete(ctx, n.ID), gorm.ErrRecordNotFound)

		_, err := repo.FindByID(ctx, n.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("product price round trip", func(t *testing.T) {
		gdb := open(t)
		categories := NewCategoryRepository(gdb)
		products := New[model.Product](gdb)
		ctx := context.Background()

		cat := &model.ProductCategory{Name: "Pumps"}
		require.NoError(t, categories.Create(ctx, cat))
		p := &model.Product{
			CategoryID: cat.ID,
			Name:       "NW-CP50",
			Price:      decimal.NullDecimal{Decimal: decimal.RequireFromString("12800.55"), Valid: true},
		}
		require.NoError(t, products.Create(ctx, p))

		got, err := products.FindByID(ctx, p.ID, "Category")
		require.NoError(t, err)
		assert.True(t, got.Price.Valid)
		assert.Equal(t, "12800.55", got.Price.Decimal.StringFixed(2))
		assert.False(t, got.OriginalPrice.Valid)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Pumps", got.Category.Name)
	})

	t.Run("category delete cascades", func(t *testing.T) {
		gdb := open(t)
		categories := NewCategoryRepository(gdb)
		products := New[model.Product](gdb)
		ctx := context.Background()

		keep := &model.ProductCategory{Name: "Valves"}
		drop := &model.ProductCategory{Name: "Pumps"}
		require.NoError(t, categories.Create(ctx, keep))
		require.NoError(t, categories.Create(ctx, drop))
		require.NoError(t, products.Create(ctx, &model.Product{CategoryID: drop.ID, Name: "a"}))
		require.NoError(t, products.Create(ctx, &model.Product{CategoryID: drop.ID, Name: "b"}))
		require.NoError(t, products.Create(ctx, &model.Product{CategoryID: keep.ID, Name: "c"}))

		removed, err := categories.DeleteCascade(ctx, drop.ID)
		require.NoError(t, err)
		assert.Len(t, removed, 2)

		exists, err := categories.Exists(ctx, drop.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, total, err := products.List(ctx, ListOptions{PageSize: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)

		_, err = categories.DeleteCascade(ctx, drop.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("settings singleton", func(t *testing.T) {
		gdb := open(t)
		settings := NewSettingsRepository(gdb)
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = settings.GetInfo(ctx)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}

		var rows int64
		require.NoError(t, gdb.Model(&model.SiteInfo{}).Count(&rows).Error)
		assert.EqualValues(t, 1, rows)

		info, err := settings.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Northwind", MapZoom: 12}, 1)
		require.NoError(t, err)
		assert.Equal(t, "Northwind", info.CompanyName)
		assert.Equal(t, 2, info.Version)

		_, err = settings.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Stale"}, 1)
		assert.ErrorIs(t, err, ErrStaleVersion)

		info, err = settings.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Forced"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "Forced", info.CompanyName)
		assert.Zero(t, info.MapZoom)
		assert.Equal(t, 3, info.Version)

		meta, err := settings.UpdateMeta(ctx, &model.SiteMeta{Title: "Home"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "Home", meta.Title)
		assert.Equal(t, 2, meta.Version)
	})
}
