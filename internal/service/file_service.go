package service

import (
	"context"

	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/upload"
)

// FileRemover deletes stored uploads by their public URL. Files of a
// category other than the one given are left in place.
type FileRemover interface {
	RemoveURL(category, url string) error
}

var _ FileRemover = (*upload.Manager)(nil)

// fileService removes the stored upload of an entity when the entity is
// deleted or its file is replaced.
type fileService[T any] struct {
	CRUDService[T]
	category string
	files    FileRemover
	fileOf   func(*T) string
	logger   *zap.Logger
}

func newFileService[T any](repo repository.Repository[T], opts CRUDOptions, category string, files FileRemover, fileOf func(*T) string, logger *zap.Logger) *fileService[T] {
	return &fileService[T]{
		CRUDService: NewCRUDService(repo, opts),
		category:    category,
		files:       files,
		fileOf:      fileOf,
		logger:      logger,
	}
}

func (s *fileService[T]) Update(ctx context.Context, id uint, mutate func(*T)) (*T, error) {
	var previous string
	updated, err := s.CRUDService.Update(ctx, id, func(entity *T) {
		previous = s.fileOf(entity)
		mutate(entity)
	})
	if err != nil {
		return nil, err
	}
	if current := s.fileOf(updated); previous != "" && previous != current {
		s.remove(previous)
	}
	return updated, nil
}

func (s *fileService[T]) Delete(ctx context.Context, id uint) error {
	entity, err := s.CRUDService.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.CRUDService.Delete(ctx, id); err != nil {
		return err
	}
	if url := s.fileOf(entity); url != "" {
		s.remove(url)
	}
	return nil
}

// remove never fails the request; the row change has already committed.
func (s *fileService[T]) remove(url string) {
	if err := s.files.RemoveURL(s.category, url); err != nil {
		s.logger.Warn("remove stored file", zap.String("category", s.category), zap.String("url", url), zap.Error(err))
	}
}

// GalleryService manages gallery images.
type GalleryService interface {
	CRUDService[model.Gallery]
}

// NewGalleryService builds a GalleryService that cleans up image files.
func NewGalleryService(repo repository.Repository[model.Gallery], files FileRemover, logger *zap.Logger) GalleryService {
	return newFileService(repo, CRUDOptions{
		KeywordColumns: []string{"title", "description"},
		Order:          "display_order ASC, id DESC",
	}, "gallery", files, func(g *model.Gallery) string { return g.Image }, logger)
}

// DocumentService manages downloadable documents.
type DocumentService interface {
	CRUDService[model.Document]
}

// NewDocumentService builds a DocumentService that cleans up stored files.
func NewDocumentService(repo repository.Repository[model.Document], files FileRemover, logger *zap.Logger) DocumentService {
	return newFileService(repo, CRUDOptions{
		KeywordColumns: []string{"title", "description", "file_name"},
	}, "documents", files, func(d *model.Document) string { return d.FileURL }, logger)
}

// HeroSlideService manages homepage carousel slides.
type HeroSlideService interface {
	CRUDService[model.HeroSlide]
	Active(ctx context.Context) ([]model.HeroSlide, error)
}

type heroSlideService struct {
	*fileService[model.HeroSlide]
}

// NewHeroSlideService builds a HeroSlideService that cleans up slide images.
func NewHeroSlideService(repo repository.Repository[model.HeroSlide], files FileRemover, logger *zap.Logger) HeroSlideService {
	return &heroSlideService{
		fileService: newFileService(repo, CRUDOptions{
			Order: "display_order ASC, id ASC",
		}, "hero", files, func(h *model.HeroSlide) string { return h.Image }, logger),
	}
}

// Active returns the slides shown on the public homepage.
func (s *heroSlideService) Active(ctx context.Context) ([]model.HeroSlide, error) {
	page, err := s.List(ctx, ListParams{PageSize: MaxPageSize, Filters: map[string]interface{}{"active": true}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
