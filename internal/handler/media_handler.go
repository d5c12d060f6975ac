package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sitecms/internal/model"
	"sitecms/internal/service"
	"sitecms/internal/upload"
)

// MediaHandler handles the entities that own an uploaded file: gallery
// images, documents and hero slides.
type MediaHandler struct {
	gallery   service.GalleryService
	documents service.DocumentService
	slides    service.HeroSlideService
	uploads   *upload.Manager
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(gallery service.GalleryService, documents service.DocumentService, slides service.HeroSlideService, uploads *upload.Manager) *MediaHandler {
	return &MediaHandler{gallery: gallery, documents: documents, slides: slides, uploads: uploads}
}

// GalleryRequest is the editable part of a gallery item. It is sent as
// multipart form fields next to the "image" file, or as JSON on update.
// The image itself only changes through an uploaded file.
type GalleryRequest struct {
	Title        string `json:"title" form:"title" validate:"max=255"`
	Description  string `json:"description" form:"description"`
	Category     string `json:"category" form:"category" validate:"max=128"`
	DisplayOrder int    `json:"displayOrder" form:"displayOrder"`
}

func galleryRequestFrom(g *model.Gallery) GalleryRequest {
	return GalleryRequest{
		Title:        g.Title,
		Description:  g.Description,
		Category:     g.Category,
		DisplayOrder: g.DisplayOrder,
	}
}

func (r GalleryRequest) apply(g *model.Gallery) {
	g.Title = r.Title
	g.Description = r.Description
	g.Category = r.Category
	g.DisplayOrder = r.DisplayOrder
}

// DocumentRequest is the editable part of a document, sent as multipart
// form fields next to the "file" part.
type DocumentRequest struct {
	Title       string `json:"title" form:"title" validate:"max=255"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category" validate:"max=128"`
}

func documentRequestFrom(d *model.Document) DocumentRequest {
	return DocumentRequest{Title: d.Title, Description: d.Description, Category: d.Category}
}

func (r DocumentRequest) apply(d *model.Document) {
	d.Title = r.Title
	d.Description = r.Description
	d.Category = r.Category
}

// HeroSlideRequest is the editable part of a hero slide. The image only
// changes through an uploaded file.
type HeroSlideRequest struct {
	Title        string `json:"title" form:"title" validate:"max=255"`
	Subtitle     string `json:"subtitle" form:"subtitle" validate:"max=512"`
	Link         string `json:"link" form:"link" validate:"max=512"`
	DisplayOrder int    `json:"displayOrder" form:"displayOrder"`
	Active       bool   `json:"active" form:"active"`
}

func heroSlideRequestFrom(h *model.HeroSlide) HeroSlideRequest {
	return HeroSlideRequest{
		Title:        h.Title,
		Subtitle:     h.Subtitle,
		Link:         h.Link,
		DisplayOrder: h.DisplayOrder,
		Active:       h.Active,
	}
}

func (r HeroSlideRequest) apply(h *model.HeroSlide) {
	h.Title = r.Title
	h.Subtitle = r.Subtitle
	h.Link = r.Link
	h.DisplayOrder = r.DisplayOrder
	h.Active = r.Active
}

func attachImage(g *model.Gallery, f *upload.File) { g.Image = f.URL }

func attachSlideImage(h *model.HeroSlide, f *upload.File) { h.Image = f.URL }

func attachDocument(d *model.Document, f *upload.File) {
	d.FileURL = f.URL
	d.FileName = f.OriginalName
	d.FileSize = f.Size
	d.FileType = f.MimeType
}

// createWithFile binds req, attaches the file stored by the upload
// middleware and creates the row. The stored file is discarded on failure.
func createWithFile[T any, R any](c echo.Context, uploads *upload.Manager, svc service.CRUDService[T], req R, apply func(R, *T), attach func(*T, *upload.File)) error {
	file, ok := upload.FromContext(c)
	if !ok {
		return badRequest("file is required")
	}
	if err := bind(c, &req); err != nil {
		uploads.Discard(file)
		return err
	}

	var entity T
	apply(req, &entity)
	attach(&entity, file)
	created, err := svc.Create(c.Request().Context(), &entity)
	if err != nil {
		uploads.Discard(file)
		return fail(err)
	}
	return respond(c, http.StatusCreated, "created", created)
}

// updateWithFile is update plus an optional replacement file. The service
// removes the file it replaces.
func updateWithFile[T any, R any](c echo.Context, uploads *upload.Manager, svc service.CRUDService[T], from func(*T) R, apply func(R, *T), attach func(*T, *upload.File)) error {
	file, hasFile := upload.FromContext(c)
	discard := func() {
		if hasFile {
			uploads.Discard(file)
		}
	}

	id, err := parseID(c)
	if err != nil {
		discard()
		return err
	}
	ctx := c.Request().Context()
	current, err := svc.Get(ctx, id)
	if err != nil {
		discard()
		return fail(err)
	}
	req := from(current)
	if err := bind(c, &req); err != nil {
		discard()
		return err
	}

	updated, err := svc.Update(ctx, id, func(entity *T) {
		apply(req, entity)
		if hasFile {
			attach(entity, file)
		}
	})
	if err != nil {
		discard()
		return fail(err)
	}
	return respond(c, http.StatusOK, "updated", updated)
}

// ListGallery godoc
// @Summary List gallery images
// @Tags gallery
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param category query string false "Filter by category"
// @Param keyword query string false "Search title and description"
// @Success 200 {object} Response{data=[]model.Gallery,pagination=Pagination}
// @Router /gallery [get]
func (h *MediaHandler) ListGallery(c echo.Context) error {
	params := listParams(c)
	filterString(c, params, "category", "category")
	return list[model.Gallery](c, h.gallery, params)
}

// GetGallery godoc
// @Summary Get a gallery image
// @Tags gallery
// @Produce json
// @Param id path int true "Gallery ID"
// @Success 200 {object} Response{data=model.Gallery}
// @Failure 404 {object} errors.ErrorResponse
// @Router /gallery/{id} [get]
func (h *MediaHandler) GetGallery(c echo.Context) error {
	return get[model.Gallery](c, h.gallery)
}

// CreateGallery godoc
// @Summary Upload a gallery image
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (JPEG, PNG, GIF, WebP; max 10 MB)"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Param displayOrder formData int false "Display order"
// @Success 201 {object} Response{data=model.Gallery}
// @Failure 400 {object} errors.ErrorResponse
// @Router /gallery [post]
func (h *MediaHandler) CreateGallery(c echo.Context) error {
	return createWithFile[model.Gallery, GalleryRequest](c, h.uploads, h.gallery, GalleryRequest{}, GalleryRequest.apply, attachImage)
}

// UpdateGallery godoc
// @Summary Update a gallery image
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gallery ID"
// @Param image formData file false "Replacement image"
// @Param title formData string false "Title"
// @Success 200 {object} Response{data=model.Gallery}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /gallery/{id} [put]
func (h *MediaHandler) UpdateGallery(c echo.Context) error {
	return updateWithFile[model.Gallery, GalleryRequest](c, h.uploads, h.gallery, galleryRequestFrom, GalleryRequest.apply, attachImage)
}

// DeleteGallery godoc
// @Summary Delete a gallery image and its file
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gallery ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /gallery/{id} [delete]
func (h *MediaHandler) DeleteGallery(c echo.Context) error {
	return remove[model.Gallery](c, h.gallery)
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param category query string false "Filter by category"
// @Param keyword query string false "Search title, description and file name"
// @Success 200 {object} Response{data=[]model.Document,pagination=Pagination}
// @Router /documents [get]
func (h *MediaHandler) ListDocuments(c echo.Context) error {
	params := listParams(c)
	filterString(c, params, "category", "category")
	return list[model.Document](c, h.documents, params)
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} Response{data=model.Document}
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [get]
func (h *MediaHandler) GetDocument(c echo.Context) error {
	return get[model.Document](c, h.documents)
}

// CreateDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF, Office, archive, TXT or CSV file; max 50 MB"
// @Param title formData string false "Title, defaults to the file name"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Success 201 {object} Response{data=model.Document}
// @Failure 400 {object} errors.ErrorResponse
// @Router /documents [post]
func (h *MediaHandler) CreateDocument(c echo.Context) error {
	return createWithFile[model.Document, DocumentRequest](c, h.uploads, h.documents, DocumentRequest{}, DocumentRequest.apply,
		func(d *model.Document, f *upload.File) {
			attachDocument(d, f)
			if d.Title == "" {
				d.Title = f.OriginalName
			}
		})
}

// UpdateDocument godoc
// @Summary Update a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param file formData file false "Replacement file"
// @Param title formData string false "Title"
// @Success 200 {object} Response{data=model.Document}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [put]
func (h *MediaHandler) UpdateDocument(c echo.Context) error {
	return updateWithFile[model.Document, DocumentRequest](c, h.uploads, h.documents, documentRequestFrom, DocumentRequest.apply, attachDocument)
}

// DeleteDocument godoc
// @Summary Delete a document and its file
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [delete]
func (h *MediaHandler) DeleteDocument(c echo.Context) error {
	return remove[model.Document](c, h.documents)
}

// CreateHeroSlide godoc
// @Summary Create a hero slide
// @Tags home
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Slide image (max 10 MB)"
// @Param title formData string false "Title"
// @Param subtitle formData string false "Subtitle"
// @Param link formData string false "Link target"
// @Param displayOrder formData int false "Display order"
// @Param active formData bool false "Shown on the homepage" default(true)
// @Success 201 {object} Response{data=model.HeroSlide}
// @Failure 400 {object} errors.ErrorResponse
// @Router /home/hero-slides [post]
func (h *MediaHandler) CreateHeroSlide(c echo.Context) error {
	return createWithFile[model.HeroSlide, HeroSlideRequest](c, h.uploads, h.slides, HeroSlideRequest{Active: true}, HeroSlideRequest.apply, attachSlideImage)
}

// UpdateHeroSlide godoc
// @Summary Update a hero slide
// @Tags home
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slide ID"
// @Param image formData file false "Replacement image"
// @Param active formData bool false "Shown on the homepage"
// @Success 200 {object} Response{data=model.HeroSlide}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /home/hero-slides/{id} [put]
func (h *MediaHandler) UpdateHeroSlide(c echo.Context) error {
	return updateWithFile[model.HeroSlide, HeroSlideRequest](c, h.uploads, h.slides, heroSlideRequestFrom, HeroSlideRequest.apply, attachSlideImage)
}

// DeleteHeroSlide godoc
// @Summary Delete a hero slide and its image
// @Tags home
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slide ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /home/hero-slides/{id} [delete]
func (h *MediaHandler) DeleteHeroSlide(c echo.Context) error {
	return remove[model.HeroSlide](c, h.slides)
}
