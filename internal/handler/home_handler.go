package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"sitecms/internal/service"
)

// HomeHandler serves homepage content.
type HomeHandler struct {
	home service.HomeService
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(home service.HomeService) *HomeHandler {
	return &HomeHandler{home: home}
}

// HeroSlides godoc
// @Summary Active hero slides
// @Tags home
// @Produce json
// @Success 200 {object} Response{data=[]model.HeroSlide}
// @Router /home/hero-slides [get]
func (h *HomeHandler) HeroSlides(c echo.Context) error {
	slides, err := h.home.HeroSlides(c.Request().Context(), false)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", slides)
}

// AllHeroSlides godoc
// @Summary All hero slides, including inactive ones
// @Tags home
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.HeroSlide}
// @Failure 401 {object} errors.ErrorResponse
// @Router /home/hero-slides/all [get]
func (h *HomeHandler) AllHeroSlides(c echo.Context) error {
	slides, err := h.home.HeroSlides(c.Request().Context(), true)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", slides)
}

// Featured godoc
// @Summary Featured products, cases and news
// @Tags home
// @Produce json
// @Param limit query int false "Items per kind" default(6)
// @Success 200 {object} Response{data=service.Featured}
// @Router /home/featured [get]
func (h *HomeHandler) Featured(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}
	featured, err := h.home.Featured(c.Request().Context(), limit)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", featured)
}
