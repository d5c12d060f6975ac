// Package seed bootstraps the admin user and loads demonstration content.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"sitecms/internal/auth"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

//go:embed demo.yaml
var demoYAML []byte

// Content is the seed file layout.
type Content struct {
	Site       SiteInfo    `yaml:"site"`
	Meta       SiteMeta    `yaml:"meta"`
	Categories []Category  `yaml:"categories"`
	Cases      []Case      `yaml:"cases"`
	News       []News      `yaml:"news"`
	HeroSlides []HeroSlide `yaml:"heroSlides"`
}

type SiteInfo struct {
	CompanyName  string  `yaml:"companyName"`
	Slogan       string  `yaml:"slogan"`
	Address      string  `yaml:"address"`
	Phone        string  `yaml:"phone"`
	Mobile       string  `yaml:"mobile"`
	Email        string  `yaml:"email"`
	WorkingHours string  `yaml:"workingHours"`
	Wechat       string  `yaml:"wechat"`
	MapLat       float64 `yaml:"mapLat"`
	MapLng       float64 `yaml:"mapLng"`
	MapZoom      int     `yaml:"mapZoom"`
	ICP          string  `yaml:"icp"`
}

type SiteMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
}

type Category struct {
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	DisplayOrder int       `yaml:"displayOrder"`
	Products     []Product `yaml:"products"`
}

type Product struct {
	Name          string `yaml:"name"`
	Summary       string `yaml:"summary"`
	Content       string `yaml:"content"`
	Specs         string `yaml:"specs"`
	Price         string `yaml:"price"`
	OriginalPrice string `yaml:"originalPrice"`
	Image         string `yaml:"image"`
	Featured      bool   `yaml:"featured"`
	DisplayOrder  int    `yaml:"displayOrder"`
}

type Case struct {
	Title        string `yaml:"title"`
	Client       string `yaml:"client"`
	Industry     string `yaml:"industry"`
	Summary      string `yaml:"summary"`
	Content      string `yaml:"content"`
	Image        string `yaml:"image"`
	Featured     bool   `yaml:"featured"`
	DisplayOrder int    `yaml:"displayOrder"`
}

type News struct {
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Content     string `yaml:"content"`
	Author      string `yaml:"author"`
	Image       string `yaml:"image"`
	PublishedAt string `yaml:"publishedAt"`
	Featured    bool   `yaml:"featured"`
}

type HeroSlide struct {
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	Image        string `yaml:"image"`
	Link         string `yaml:"link"`
	DisplayOrder int    `yaml:"displayOrder"`
}

// Demo returns the built-in demonstration content.
func Demo() (*Content, error) {
	return Parse(demoYAML)
}

// Parse decodes seed content from YAML.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed content: %w", err)
	}
	return &c, nil
}

// Result counts what a seed run changed.
type Result struct {
	Created int
	Updated int
}

// Seeder writes seed data.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a seeder over db.
func New(db *gorm.DB, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, logger: logger}
}

// Admin creates the admin user, or resets its password when it exists.
// It reports whether the user was created.
func (s *Seeder) Admin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("username and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	users := repository.NewUserRepository(s.db)
	existing, err := users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if err := users.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return false, fmt.Errorf("reset password for %s: %w", username, err)
		}
		s.logger.Info("admin password reset", zap.String("username", username))
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := users.Create(ctx, &model.User{Username: username, Password: hash}); err != nil {
			return false, fmt.Errorf("create %s: %w", username, err)
		}
		s.logger.Info("admin user created", zap.String("username", username))
		return true, nil
	default:
		return false, fmt.Errorf("look up %s: %w", username, err)
	}
}

// Content creates or updates every record in c inside one transaction.
// Records are matched by name or title, so running it twice is harmless.
func (s *Seeder) Content(ctx context.Context, c *Content) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cat := range c.Categories {
			if err := s.seedCategory(tx, cat, &res); err != nil {
				return err
			}
		}
		for _, item := range c.Cases {
			row := model.Case{
				Title: item.Title, Client: item.Client, Industry: item.Industry,
				Summary: item.Summary, Content: item.Content, Image: item.Image,
				Featured: item.Featured, DisplayOrder: item.DisplayOrder,
			}
			if err := upsert(tx, &row, &res, "title = ?", item.Title); err != nil {
				return fmt.Errorf("case %q: %w", item.Title, err)
			}
		}
		for _, item := range c.News {
			row := model.News{
				Title: item.Title, Summary: item.Summary, Content: item.Content,
				Author: item.Author, Image: item.Image, Featured: item.Featured,
			}
			if item.PublishedAt != "" {
				t, err := time.Parse("2006-01-02", item.PublishedAt)
				if err != nil {
					return fmt.Errorf("news %q: invalid publishedAt: %w", item.Title, err)
				}
				row.PublishedAt = &t
			}
			if err := upsert(tx, &row, &res, "title = ?", item.Title); err != nil {
				return fmt.Errorf("news %q: %w", item.Title, err)
			}
		}
		for _, item := range c.HeroSlides {
			row := model.HeroSlide{
				Title: item.Title, Subtitle: item.Subtitle, Image: item.Image,
				Link: item.Link, DisplayOrder: item.DisplayOrder, Active: true,
			}
			if err := upsert(tx, &row, &res, "title = ?", item.Title); err != nil {
				return fmt.Errorf("hero slide %q: %w", item.Title, err)
			}
		}
		return s.seedSettings(ctx, tx, c)
	})
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("seed content applied", zap.Int("created", res.Created), zap.Int("updated", res.Updated))
	return res, nil
}

func (s *Seeder) seedCategory(tx *gorm.DB, cat Category, res *Result) error {
	row := model.ProductCategory{Name: cat.Name, Description: cat.Description, DisplayOrder: cat.DisplayOrder}
	if err := upsert(tx, &row, res, "name = ?", cat.Name); err != nil {
		return fmt.Errorf("category %q: %w", cat.Name, err)
	}
	for _, p := range cat.Products {
		price, err := nullDecimal(p.Price)
		if err != nil {
			return fmt.Errorf("product %q: invalid price: %w", p.Name, err)
		}
		original, err := nullDecimal(p.OriginalPrice)
		if err != nil {
			return fmt.Errorf("product %q: invalid originalPrice: %w", p.Name, err)
		}
		product := model.Product{
			CategoryID: row.ID, Name: p.Name, Summary: p.Summary, Content: p.Content,
			Specs: p.Specs, Price: price, OriginalPrice: original, Image: p.Image,
			Featured: p.Featured, DisplayOrder: p.DisplayOrder,
		}
		if err := upsert(tx, &product, res, "category_id = ? AND name = ?", row.ID, p.Name); err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context, tx *gorm.DB, c *Content) error {
	settings := repository.NewSettingsRepository(tx)
	if c.Site.CompanyName != "" {
		info := model.SiteInfo{
			CompanyName: c.Site.CompanyName, Slogan: c.Site.Slogan, Address: c.Site.Address,
			Phone: c.Site.Phone, Mobile: c.Site.Mobile, Email: c.Site.Email,
			WorkingHours: c.Site.WorkingHours, Wechat: c.Site.Wechat,
			MapLat: c.Site.MapLat, MapLng: c.Site.MapLng, MapZoom: c.Site.MapZoom, ICP: c.Site.ICP,
		}
		if _, err := settings.UpdateInfo(ctx, &info, 0); err != nil {
			return fmt.Errorf("site info: %w", err)
		}
	}
	if c.Meta.Title != "" {
		meta := model.SiteMeta{Title: c.Meta.Title, Description: c.Meta.Description, Keywords: c.Meta.Keywords}
		if _, err := settings.UpdateMeta(ctx, &meta, 0); err != nil {
			return fmt.Errorf("site meta: %w", err)
		}
	}
	return nil
}

// upsert inserts row, or overwrites the first record matching where
// while keeping its id and creation time.
func upsert[T any](tx *gorm.DB, row *T, res *Result, where string, args ...interface{}) error {
	var existing T
	err := tx.Where(where, args...).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		res.Created++
		return nil
	case err != nil:
		return err
	}

	if err := tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(row).Error; err != nil {
		return err
	}
	res.Updated++
	return tx.Where(where, args...).First(row).Error
}

func nullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
