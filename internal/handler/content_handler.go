package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"sitecms/internal/model"
	"sitecms/internal/service"
)

// ContentHandler handles case and news endpoints.
type ContentHandler struct {
	cases service.CaseService
	news  service.NewsService
}

// NewContentHandler creates a new content handler.
func NewContentHandler(cases service.CaseService, news service.NewsService) *ContentHandler {
	return &ContentHandler{cases: cases, news: news}
}

// CaseRequest is the editable part of a case.
type CaseRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Client       string `json:"client" validate:"max=255"`
	Industry     string `json:"industry" validate:"max=128"`
	Summary      string `json:"summary"`
	Content      string `json:"content"`
	Image        string `json:"image" validate:"max=512"`
	Featured     bool   `json:"featured"`
	DisplayOrder int    `json:"displayOrder"`
}

func caseRequestFrom(m *model.Case) CaseRequest {
	return CaseRequest{
		Title:        m.Title,
		Client:       m.Client,
		Industry:     m.Industry,
		Summary:      m.Summary,
		Content:      m.Content,
		Image:        m.Image,
		Featured:     m.Featured,
		DisplayOrder: m.DisplayOrder,
	}
}

func (r CaseRequest) apply(m *model.Case) {
	m.Title = r.Title
	m.Client = r.Client
	m.Industry = r.Industry
	m.Summary = r.Summary
	m.Content = r.Content
	m.Image = r.Image
	m.Featured = r.Featured
	m.DisplayOrder = r.DisplayOrder
}

// NewsRequest is the editable part of a news article.
type NewsRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Summary      string     `json:"summary"`
	Content      string     `json:"content"`
	Image        string     `json:"image" validate:"max=512"`
	Author       string     `json:"author" validate:"max=128"`
	PublishedAt  *time.Time `json:"publishedAt"`
	Featured     bool       `json:"featured"`
	DisplayOrder int        `json:"displayOrder"`
}

func newsRequestFrom(m *model.News) NewsRequest {
	return NewsRequest{
		Title:        m.Title,
		Summary:      m.Summary,
		Content:      m.Content,
		Image:        m.Image,
		Author:       m.Author,
		PublishedAt:  m.PublishedAt,
		Featured:     m.Featured,
		DisplayOrder: m.DisplayOrder,
	}
}

func (r NewsRequest) apply(m *model.News) {
	m.Title = r.Title
	m.Summary = r.Summary
	m.Content = r.Content
	m.Image = r.Image
	m.Author = r.Author
	m.PublishedAt = r.PublishedAt
	m.Featured = r.Featured
	m.DisplayOrder = r.DisplayOrder
}

// ListCases godoc
// @Summary List cases
// @Tags cases
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param featured query bool false "Only featured cases"
// @Param industry query string false "Filter by industry"
// @Param keyword query string false "Search title, client and summary"
// @Success 200 {object} Response{data=[]model.Case,pagination=Pagination}
// @Failure 400 {object} errors.ErrorResponse
// @Router /cases [get]
func (h *ContentHandler) ListCases(c echo.Context) error {
	params := listParams(c)
	if err := filterBool(c, params, "featured", "featured"); err != nil {
		return err
	}
	filterString(c, params, "industry", "industry")
	return list[model.Case](c, h.cases, params)
}

// GetCase godoc
// @Summary Get a case
// @Tags cases
// @Produce json
// @Param id path int true "Case ID"
// @Success 200 {object} Response{data=model.Case}
// @Failure 404 {object} errors.ErrorResponse
// @Router /cases/{id} [get]
func (h *ContentHandler) GetCase(c echo.Context) error {
	return get[model.Case](c, h.cases)
}

// CreateCase godoc
// @Summary Create a case
// @Tags cases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CaseRequest true "Case"
// @Success 201 {object} Response{data=model.Case}
// @Failure 400 {object} errors.ErrorResponse
// @Router /cases [post]
func (h *ContentHandler) CreateCase(c echo.Context) error {
	var req CaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var entity model.Case
	req.apply(&entity)
	return create[model.Case](c, h.cases, &entity)
}

// UpdateCase godoc
// @Summary Update a case
// @Tags cases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Param request body CaseRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Case}
// @Failure 404 {object} errors.ErrorResponse
// @Router /cases/{id} [put]
func (h *ContentHandler) UpdateCase(c echo.Context) error {
	return update[model.Case, CaseRequest](c, h.cases, caseRequestFrom, CaseRequest.apply)
}

// DeleteCase godoc
// @Summary Delete a case
// @Tags cases
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /cases/{id} [delete]
func (h *ContentHandler) DeleteCase(c echo.Context) error {
	return remove[model.Case](c, h.cases)
}

// ListNews godoc
// @Summary List news
// @Tags news
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param featured query bool false "Only featured articles"
// @Param keyword query string false "Search title and summary"
// @Success 200 {object} Response{data=[]model.News,pagination=Pagination}
// @Failure 400 {object} errors.ErrorResponse
// @Router /news [get]
func (h *ContentHandler) ListNews(c echo.Context) error {
	params := listParams(c)
	if err := filterBool(c, params, "featured", "featured"); err != nil {
		return err
	}
	return list[model.News](c, h.news, params)
}

// GetNews godoc
// @Summary Get a news article
// @Tags news
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} Response{data=model.News}
// @Failure 404 {object} errors.ErrorResponse
// @Router /news/{id} [get]
func (h *ContentHandler) GetNews(c echo.Context) error {
	return get[model.News](c, h.news)
}

// CreateNews godoc
// @Summary Create a news article
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NewsRequest true "Article"
// @Success 201 {object} Response{data=model.News}
// @Failure 400 {object} errors.ErrorResponse
// @Router /news [post]
func (h *ContentHandler) CreateNews(c echo.Context) error {
	var req NewsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.PublishedAt == nil {
		now := time.Now()
		req.PublishedAt = &now
	}
	var entity model.News
	req.apply(&entity)
	return create[model.News](c, h.news, &entity)
}

// UpdateNews godoc
// @Summary Update a news article
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Param request body NewsRequest true "Fields to change"
// @Success 200 {object} Response{data=model.News}
// @Failure 404 {object} errors.ErrorResponse
// @Router /news/{id} [put]
func (h *ContentHandler) UpdateNews(c echo.Context) error {
	return update[model.News, NewsRequest](c, h.news, newsRequestFrom, NewsRequest.apply)
}

// DeleteNews godoc
// @Summary Delete a news article
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /news/{id} [delete]
func (h *ContentHandler) DeleteNews(c echo.Context) error {
	return remove[model.News](c, h.news)
}
