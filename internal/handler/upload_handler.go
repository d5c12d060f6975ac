package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sitecms/internal/upload"
)

// UploadHandler exposes the upload manager for ad-hoc uploads, such as
// images embedded in product descriptions.
type UploadHandler struct {
	uploads *upload.Manager
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploads *upload.Manager) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload godoc
// @Summary Upload a file into a category
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param category path string true "products, cases, news, documents, gallery or hero"
// @Param file formData file true "File"
// @Success 201 {object} Response{data=upload.File}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /upload/{category} [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	file, err := h.uploads.Receive(c, c.Param("category"), "file")
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "uploaded", file)
}

// Delete godoc
// @Summary Delete an uploaded file
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param category path string true "Upload category"
// @Param filename path string true "Stored file name"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /upload/{category}/{filename} [delete]
func (h *UploadHandler) Delete(c echo.Context) error {
	if err := h.uploads.Remove(c.Param("category"), c.Param("filename")); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "deleted", nil)
}
