package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sitecms/internal/model"
	"sitecms/internal/service"
)

// SettingsHandler handles site settings and map endpoints.
type SettingsHandler struct {
	settings service.SettingsService
	maps     service.MapService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings service.SettingsService, maps service.MapService) *SettingsHandler {
	return &SettingsHandler{settings: settings, maps: maps}
}

// SiteInfoRequest replaces the site information. Version is optional; when
// set, the update fails with 409 if someone else saved in between.
type SiteInfoRequest struct {
	CompanyName  string  `json:"companyName" validate:"max=255"`
	Slogan       string  `json:"slogan" validate:"max=255"`
	Address      string  `json:"address" validate:"max=512"`
	Phone        string  `json:"phone" validate:"max=64"`
	Mobile       string  `json:"mobile" validate:"max=64"`
	Email        string  `json:"email" validate:"omitempty,email,max=255"`
	Fax          string  `json:"fax" validate:"max=64"`
	WorkingHours string  `json:"workingHours" validate:"max=255"`
	Wechat       string  `json:"wechat" validate:"max=255"`
	Weibo        string  `json:"weibo" validate:"max=255"`
	Douyin       string  `json:"douyin" validate:"max=255"`
	Linkedin     string  `json:"linkedin" validate:"max=255"`
	MapAK        string  `json:"mapAk" validate:"max=128"`
	MapLat       float64 `json:"mapLat" validate:"min=-90,max=90"`
	MapLng       float64 `json:"mapLng" validate:"min=-180,max=180"`
	MapZoom      int     `json:"mapZoom" validate:"min=0,max=19"`
	ICP          string  `json:"icp" validate:"max=128"`
	PoliceRecord string  `json:"policeRecord" validate:"max=128"`
	Version      int     `json:"version" validate:"min=0"`
}

// SiteMetaRequest replaces the SEO settings.
type SiteMetaRequest struct {
	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description"`
	Keywords    string `json:"keywords" validate:"max=512"`
	Favicon     string `json:"favicon" validate:"max=512"`
	OGImage     string `json:"ogImage" validate:"max=512"`
	Version     int    `json:"version" validate:"min=0"`
}

// GetInfo godoc
// @Summary Site information
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=model.SiteInfo}
// @Failure 500 {object} errors.ErrorResponse
// @Router /settings/info [get]
func (h *SettingsHandler) GetInfo(c echo.Context) error {
	info, err := h.settings.GetInfo(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", info)
}

// UpdateInfo godoc
// @Summary Replace site information
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SiteInfoRequest true "Site information"
// @Success 200 {object} Response{data=model.SiteInfo}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /settings/admin/info [put]
func (h *SettingsHandler) UpdateInfo(c echo.Context) error {
	var req SiteInfoRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	info, err := h.settings.UpdateInfo(c.Request().Context(), &model.SiteInfo{
		CompanyName:  req.CompanyName,
		Slogan:       req.Slogan,
		Address:      req.Address,
		Phone:        req.Phone,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Fax:          req.Fax,
		WorkingHours: req.WorkingHours,
		Wechat:       req.Wechat,
		Weibo:        req.Weibo,
		Douyin:       req.Douyin,
		Linkedin:     req.Linkedin,
		MapAK:        req.MapAK,
		MapLat:       req.MapLat,
		MapLng:       req.MapLng,
		MapZoom:      req.MapZoom,
		ICP:          req.ICP,
		PoliceRecord: req.PoliceRecord,
	}, req.Version)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "updated", info)
}

// GetMeta godoc
// @Summary SEO settings
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=model.SiteMeta}
// @Router /settings/meta [get]
func (h *SettingsHandler) GetMeta(c echo.Context) error {
	meta, err := h.settings.GetMeta(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", meta)
}

// UpdateMeta godoc
// @Summary Replace SEO settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SiteMetaRequest true "SEO settings"
// @Success 200 {object} Response{data=model.SiteMeta}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /settings/admin/meta [put]
func (h *SettingsHandler) UpdateMeta(c echo.Context) error {
	var req SiteMetaRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	meta, err := h.settings.UpdateMeta(c.Request().Context(), &model.SiteMeta{
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
		Favicon:     req.Favicon,
		OGImage:     req.OGImage,
	}, req.Version)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "updated", meta)
}

// MapConfig godoc
// @Summary Map widget configuration
// @Tags map
// @Produce json
// @Success 200 {object} Response{data=service.MapConfig}
// @Router /map/config [get]
func (h *SettingsHandler) MapConfig(c echo.Context) error {
	cfg, err := h.maps.Config(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", cfg)
}

// MapLocations godoc
// @Summary Map markers
// @Tags map
// @Produce json
// @Success 200 {object} Response{data=[]service.Location}
// @Router /map/locations [get]
func (h *SettingsHandler) MapLocations(c echo.Context) error {
	locations, err := h.maps.Locations(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", locations)
}
