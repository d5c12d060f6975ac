package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sitecms/internal/auth"
	"sitecms/internal/db"
	"sitecms/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func count[T any](t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(new(T)).Count(&n).Error)
	return n
}

func TestDemoParses(t *testing.T) {
	c, err := Demo()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Site.CompanyName)
	assert.NotEmpty(t, c.Meta.Title)
	require.NotEmpty(t, c.Categories)
	assert.NotEmpty(t, c.Categories[0].Products)
	assert.NotEmpty(t, c.Cases)
	assert.NotEmpty(t, c.News)
	assert.NotEmpty(t, c.HeroSlides)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("categories: [name: x"))
	assert.Error(t, err)
}

func TestAdmin(t *testing.T) {
	gdb := newTestDB(t)
	s := New(gdb, nil)
	ctx := context.Background()

	created, err := s.Admin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	var user model.User
	require.NoError(t, gdb.Where("username = ?", "admin").First(&user).Error)
	assert.True(t, auth.CheckPassword(user.Password, "admin123"))

	created, err = s.Admin(ctx, "admin", "s3cret!")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, gdb.Where("username = ?", "admin").First(&user).Error)
	assert.True(t, auth.CheckPassword(user.Password, "s3cret!"))
	assert.False(t, auth.CheckPassword(user.Password, "admin123"))
	assert.EqualValues(t, 1, count[model.User](t, gdb))

	_, err = s.Admin(ctx, "", "x")
	assert.Error(t, err)
}

func TestContentIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	s := New(gdb, nil)
	ctx := context.Background()

	c, err := Demo()
	require.NoError(t, err)

	var products int
	for _, cat := range c.Categories {
		products += len(cat.Products)
	}
	total := len(c.Categories) + products + len(c.Cases) + len(c.News) + len(c.HeroSlides)

	first, err := s.Content(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: total}, first)

	second, err := s.Content(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: total}, second)

	assert.EqualValues(t, len(c.Categories), count[model.ProductCategory](t, gdb))
	assert.EqualValues(t, products, count[model.Product](t, gdb))
	assert.EqualValues(t, len(c.Cases), count[model.Case](t, gdb))
	assert.EqualValues(t, len(c.News), count[model.News](t, gdb))
	assert.EqualValues(t, len(c.HeroSlides), count[model.HeroSlide](t, gdb))

	var info model.SiteInfo
	require.NoError(t, gdb.First(&info, model.SingletonID).Error)
	assert.Equal(t, c.Site.CompanyName, info.CompanyName)
	assert.EqualValues(t, 1, count[model.SiteInfo](t, gdb))

	var product model.Product
	require.NoError(t, gdb.Where("name = ?", c.Categories[0].Products[0].Name).First(&product).Error)
	assert.True(t, product.Price.Valid)
	assert.Equal(t, c.Categories[0].Products[0].Price, product.Price.Decimal.StringFixed(2))
}

func TestContentRollsBackOnError(t *testing.T) {
	gdb := newTestDB(t)
	s := New(gdb, nil)

	c := &Content{
		Categories: []Category{{
			Name:     "Pumps",
			Products: []Product{{Name: "bad", Price: "twelve"}},
		}},
	}
	_, err := s.Content(context.Background(), c)
	require.Error(t, err)
	assert.Zero(t, count[model.ProductCategory](t, gdb))
}
