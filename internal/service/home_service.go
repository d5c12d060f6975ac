package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"sitecms/internal/model"
)

// DefaultFeaturedLimit is how many items of each kind the homepage shows.
const DefaultFeaturedLimit = 6

// Featured is the homepage showcase.
type Featured struct {
	Products []model.Product `json:"products"`
	Cases    []model.Case    `json:"cases"`
	News     []model.News    `json:"news"`
}

// HomeService assembles homepage content.
type HomeService interface {
	Featured(ctx context.Context, limit int) (*Featured, error)
	HeroSlides(ctx context.Context, includeInactive bool) ([]model.HeroSlide, error)
}

type homeService struct {
	products ProductService
	cases    CaseService
	news     NewsService
	slides   HeroSlideService
}

// NewHomeService builds a HomeService from the content services.
func NewHomeService(products ProductService, cases CaseService, news NewsService, slides HeroSlideService) HomeService {
	return &homeService{products: products, cases: cases, news: news, slides: slides}
}

// Featured loads featured products, cases and news concurrently.
func (s *homeService) Featured(ctx context.Context, limit int) (*Featured, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	featured := map[string]interface{}{"featured": true}
	out := &Featured{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.products.Featured(ctx, limit)
		out.Products = items
		return err
	})
	g.Go(func() error {
		page, err := s.cases.List(ctx, ListParams{PageSize: limit, Filters: featured})
		if err == nil {
			out.Cases = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := s.news.List(ctx, ListParams{PageSize: limit, Filters: featured})
		if err == nil {
			out.News = page.Items
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *homeService) HeroSlides(ctx context.Context, includeInactive bool) ([]model.HeroSlide, error) {
	if !includeInactive {
		return s.slides.Active(ctx)
	}
	page, err := s.slides.List(ctx, ListParams{PageSize: MaxPageSize})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// MapConfig is what the frontend needs to render the map widget.
type MapConfig struct {
	AK      string  `json:"ak"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Zoom    int     `json:"zoom"`
	Address string  `json:"address"`
}

// Location is a marker on the map.
type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// MapService derives map settings from SiteInfo.
type MapService interface {
	Config(ctx context.Context) (*MapConfig, error)
	Locations(ctx context.Context) ([]Location, error)
}

type mapService struct {
	settings  SettingsService
	defaultAK string
}

// NewMapService builds a MapService. defaultAK is used when SiteInfo has no map key.
func NewMapService(settings SettingsService, defaultAK string) MapService {
	return &mapService{settings: settings, defaultAK: defaultAK}
}

func (s *mapService) Config(ctx context.Context) (*MapConfig, error) {
	info, err := s.settings.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	ak := strings.TrimSpace(info.MapAK)
	if ak == "" {
		ak = s.defaultAK
	}
	zoom := info.MapZoom
	if zoom <= 0 {
		zoom = 15
	}
	return &MapConfig{AK: ak, Lat: info.MapLat, Lng: info.MapLng, Zoom: zoom, Address: info.Address}, nil
}

// Locations returns the company office, or nothing when neither an address
// nor coordinates are configured.
func (s *mapService) Locations(ctx context.Context) ([]Location, error) {
	info, err := s.settings.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	locations := make([]Location, 0, 1)
	if info.Address == "" && info.MapLat == 0 && info.MapLng == 0 {
		return locations, nil
	}
	return append(locations, Location{
		Name:    info.CompanyName,
		Address: info.Address,
		Phone:   info.Phone,
		Lat:     info.MapLat,
		Lng:     info.MapLng,
	}), nil
}
