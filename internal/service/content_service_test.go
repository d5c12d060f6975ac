package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/internal/db"
	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite", filepath.Join(t.TempDir(), "cms.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// MockFileRemover records removed upload URLs.
type MockFileRemover struct {
	mock.Mock
}

func (m *MockFileRemover) RemoveURL(category, url string) error {
	args := m.Called(category, url)
	return args.Error(0)
}

// memoryCache is an in-process Cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	return ok && json.Unmarshal(raw, dst) == nil
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func TestCRUDService_ListPagination(t *testing.T) {
	ctx := context.Background()
	svc := NewCaseService(repository.New[model.Case](newTestDB(t)))

	empty, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, DefaultPageSize, empty.PageSize)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.TotalPages)

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, &model.Case{Title: "case", Client: "acme", DisplayOrder: i})
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, &model.Case{Title: "bridge retrofit", Client: "city"})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.EqualValues(t, 13, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	found, err := svc.List(ctx, ListParams{Keyword: "bridge"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "city", found.Items[0].Client)

	clamped, err := svc.List(ctx, ListParams{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, clamped.PageSize)
}

func TestCRUDService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewNewsService(repository.New[model.News](newTestDB(t)))

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Update(ctx, 42, func(n *model.News) { n.Title = "x" })
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 42), apperrors.ErrNotFound)
}

func TestProductService_CategoryChecks(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	categories := repository.NewCategoryRepository(gdb)
	svc := NewProductService(repository.New[model.Product](gdb), categories, nil)

	_, err := svc.Create(ctx, &model.Product{Name: "orphan", CategoryID: 99})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	_, err = svc.Create(ctx, &model.Product{Name: "no category"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	category := &model.ProductCategory{Name: "Pumps"}
	require.NoError(t, categories.Create(ctx, category))

	price := decimal.NullDecimal{Decimal: decimal.RequireFromString("1999.90"), Valid: true}
	created, err := svc.Create(ctx, &model.Product{Name: "P-100", CategoryID: category.ID, Price: price})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Pumps", created.Category.Name)
	assert.True(t, created.Price.Decimal.Equal(price.Decimal))
	assert.False(t, created.OriginalPrice.Valid)

	_, err = svc.Update(ctx, created.ID, func(p *model.Product) { p.CategoryID = 1234 })
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	updated, err := svc.Update(ctx, created.ID, func(p *model.Product) {
		p.Name = "P-200"
		p.Featured = true
	})
	require.NoError(t, err)
	assert.Equal(t, "P-200", updated.Name)
	assert.Equal(t, category.ID, updated.CategoryID)

	featured, err := svc.Featured(ctx, 3)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, created.ID, featured[0].ID)
}

func TestProductService_PriceScale(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	categories := repository.NewCategoryRepository(gdb)
	svc := NewProductService(repository.New[model.Product](gdb), categories, nil)

	category := &model.ProductCategory{Name: "Pumps"}
	require.NoError(t, categories.Create(ctx, category))

	price := func(s string) decimal.NullDecimal {
		return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
	}

	_, err := svc.Create(ctx, &model.Product{Name: "a", CategoryID: category.ID, Price: price("19.999")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Create(ctx, &model.Product{Name: "a", CategoryID: category.ID, Price: price("10000000000")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	created, err := svc.Create(ctx, &model.Product{Name: "a", CategoryID: category.ID, Price: price("19.990"), OriginalPrice: price("24")})
	require.NoError(t, err)
	assert.Equal(t, "19.99", created.Price.Decimal.StringFixed(2))

	_, err = svc.Update(ctx, created.ID, func(p *model.Product) { p.OriginalPrice = price("0.001") })
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.00", got.OriginalPrice.Decimal.StringFixed(2))
}

func TestCategoryService_UpdateRefreshesCachedProducts(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	store := newMemoryCache()
	categoryRepo := repository.NewCategoryRepository(gdb)
	categories := NewCategoryService(categoryRepo, store, zap.NewNop())
	products := NewProductService(repository.New[model.Product](gdb), categoryRepo, store)

	category, err := categories.Create(ctx, &model.ProductCategory{Name: "Pumps"})
	require.NoError(t, err)
	other, err := categories.Create(ctx, &model.ProductCategory{Name: "Valves"})
	require.NoError(t, err)
	product, err := products.Create(ctx, &model.Product{Name: "P-100", CategoryID: category.ID})
	require.NoError(t, err)
	valve, err := products.Create(ctx, &model.Product{Name: "V-1", CategoryID: other.ID})
	require.NoError(t, err)

	got, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pumps", got.Category.Name)
	_, err = products.Get(ctx, valve.ID)
	require.NoError(t, err)
	require.True(t, store.has(productCacheKey(product.ID)))

	_, err = categories.Update(ctx, category.ID, func(c *model.ProductCategory) { c.Name = "Centrifugal pumps" })
	require.NoError(t, err)
	assert.False(t, store.has(productCacheKey(product.ID)))
	assert.True(t, store.has(productCacheKey(valve.ID)))

	got, err = products.Get(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Centrifugal pumps", got.Category.Name)
}

func TestCategoryService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	categoryRepo := repository.NewCategoryRepository(gdb)
	categories := NewCategoryService(categoryRepo, nil, zap.NewNop())
	products := NewProductService(repository.New[model.Product](gdb), categoryRepo, nil)

	doomed, err := categories.Create(ctx, &model.ProductCategory{Name: "Old line"})
	require.NoError(t, err)
	kept, err := categories.Create(ctx, &model.ProductCategory{Name: "Current line"})
	require.NoError(t, err)

	for _, c := range []uint{doomed.ID, doomed.ID, kept.ID} {
		_, err := products.Create(ctx, &model.Product{Name: "item", CategoryID: c})
		require.NoError(t, err)
	}

	require.NoError(t, categories.Delete(ctx, doomed.ID))

	remaining, err := products.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, remaining.Items, 1)
	assert.Equal(t, kept.ID, remaining.Items[0].CategoryID)

	_, err = categories.Get(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, categories.Delete(ctx, doomed.ID), apperrors.ErrNotFound)
}

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	svc := NewMessageService(repository.New[model.Message](newTestDB(t)))

	_, err := svc.Submit(ctx, &model.Message{Name: "  ", Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	msg, err := svc.Submit(ctx, &model.Message{
		Name:    "Li Lei",
		Email:   "li@example.com",
		Content: "Please send a quote",
		Status:  model.MessageStatusReplied,
		Reply:   "spoofed",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusUnread, msg.Status)
	assert.Empty(t, msg.Reply)

	_, err = svc.UpdateStatus(ctx, msg.ID, "archived", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	reply := "Quote sent"
	updated, err := svc.UpdateStatus(ctx, msg.ID, model.MessageStatusReplied, &reply)
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusReplied, updated.Status)
	assert.Equal(t, reply, updated.Reply)

	_, err = svc.List(ctx, ListParams{Filters: map[string]interface{}{"status": "bogus"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	page, err := svc.List(ctx, ListParams{Filters: map[string]interface{}{"status": "replied"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	_, err = svc.Get(ctx, msg.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGalleryService_RemovesFiles(t *testing.T) {
	ctx := context.Background()
	files := new(MockFileRemover)
	svc := NewGalleryService(repository.New[model.Gallery](newTestDB(t)), files, zap.NewNop())

	item, err := svc.Create(ctx, &model.Gallery{Title: "Plant", Image: "/uploads/gallery/a.png"})
	require.NoError(t, err)

	// Updating other fields leaves the file alone.
	_, err = svc.Update(ctx, item.ID, func(g *model.Gallery) { g.Title = "Plant 2" })
	require.NoError(t, err)
	files.AssertNotCalled(t, "RemoveURL", mock.Anything, mock.Anything)

	files.On("RemoveURL", "gallery", "/uploads/gallery/a.png").Return(nil).Once()
	_, err = svc.Update(ctx, item.ID, func(g *model.Gallery) { g.Image = "/uploads/gallery/b.png" })
	require.NoError(t, err)

	files.On("RemoveURL", "gallery", "/uploads/gallery/b.png").Return(apperrors.ErrPathOutsideCategory).Once()
	require.NoError(t, svc.Delete(ctx, item.ID))

	files.AssertExpectations(t)
}

func TestHeroSlideService_Active(t *testing.T) {
	ctx := context.Background()
	svc := NewHeroSlideService(repository.New[model.HeroSlide](newTestDB(t)), new(MockFileRemover), zap.NewNop())

	_, err := svc.Create(ctx, &model.HeroSlide{Title: "second", Image: "/uploads/hero/2.png", DisplayOrder: 2, Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.HeroSlide{Title: "hidden", Image: "/uploads/hero/3.png", DisplayOrder: 0, Active: false})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.HeroSlide{Title: "first", Image: "/uploads/hero/1.png", DisplayOrder: 1, Active: true})
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Title)
	assert.Equal(t, "second", active[1].Title)

	home := NewHomeService(nil, nil, nil, svc)
	all, err := home.HeroSlides(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHomeService_Featured(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	categoryRepo := repository.NewCategoryRepository(gdb)
	products := NewProductService(repository.New[model.Product](gdb), categoryRepo, nil)
	cases := NewCaseService(repository.New[model.Case](gdb))
	news := NewNewsService(repository.New[model.News](gdb))
	home := NewHomeService(products, cases, news, nil)

	category := &model.ProductCategory{Name: "Valves"}
	require.NoError(t, categoryRepo.Create(ctx, category))
	_, err := products.Create(ctx, &model.Product{Name: "V-1", CategoryID: category.ID, Featured: true})
	require.NoError(t, err)
	_, err = products.Create(ctx, &model.Product{Name: "V-2", CategoryID: category.ID})
	require.NoError(t, err)
	_, err = cases.Create(ctx, &model.Case{Title: "Refinery", Featured: true})
	require.NoError(t, err)

	featured, err := home.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured.Products, 1)
	assert.Equal(t, "V-1", featured.Products[0].Name)
	assert.Len(t, featured.Cases, 1)
	assert.NotNil(t, featured.News)
	assert.Empty(t, featured.News)
}

func TestSettingsService_Singleton(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(gdb), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.GetInfo(ctx)
		}()
	}
	wg.Wait()

	info, err := svc.GetInfo(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, model.SingletonID, info.ID)
	assert.Equal(t, 1, info.Version)

	var count int64
	require.NoError(t, gdb.Model(&model.SiteInfo{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	updated, err := svc.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Acme Pumps", Phone: "0571-1234"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Acme Pumps", updated.CompanyName)
	assert.Equal(t, 2, updated.Version)

	_, err = svc.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Stale"}, 1)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

	updated, err = svc.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Acme"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version)
	assert.Empty(t, updated.Phone, "every editable field is replaced")

	meta, err := svc.UpdateMeta(ctx, &model.SiteMeta{Title: "Acme", Keywords: "pumps,valves"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "pumps,valves", meta.Keywords)
}

func TestMapService(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsService(repository.NewSettingsRepository(newTestDB(t)), nil)
	svc := NewMapService(settings, "env-ak")

	cfg, err := svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, "env-ak", cfg.AK)
	assert.Equal(t, 15, cfg.Zoom)

	locations, err := svc.Locations(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)

	_, err = settings.UpdateInfo(ctx, &model.SiteInfo{CompanyName: "Acme", Address: "1 Main St", MapAK: "db-ak", MapLat: 30.2, MapLng: 120.1, MapZoom: 12}, 0)
	require.NoError(t, err)

	cfg, err = svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db-ak", cfg.AK)
	assert.Equal(t, 12, cfg.Zoom)

	locations, err = svc.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Acme", locations[0].Name)
}
