package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"sitecms/internal/errors"
	"sitecms/internal/service"
)

// Response is the success form of the API envelope.
type Response struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func respondPage[T any](c echo.Context, page *service.Page[T]) error {
	return c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    page.Items,
		Pagination: &Pagination{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// fail converts a service error into the error envelope.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
		Error:   "INVALID_INPUT",
	})
}

// bind decodes the request into req and runs its validation tags.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id")
	}
	return uint(id), nil
}

// listParams reads page, pageSize and keyword. Malformed numbers fall back
// to the defaults.
func listParams(c echo.Context) service.ListParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	return service.ListParams{
		Page:     page,
		PageSize: pageSize,
		Filters:  map[string]interface{}{},
		Keyword:  strings.TrimSpace(c.QueryParam("keyword")),
	}
}

func filterUint(c echo.Context, params service.ListParams, query, column string) error {
	raw := c.QueryParam(query)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return badRequest(fmt.Sprintf("invalid %s", query))
	}
	params.Filters[column] = uint(v)
	return nil
}

func filterBool(c echo.Context, params service.ListParams, query, column string) error {
	raw := c.QueryParam(query)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return badRequest(fmt.Sprintf("invalid %s", query))
	}
	params.Filters[column] = v
	return nil
}

func filterString(c echo.Context, params service.ListParams, query, column string) {
	if raw := strings.TrimSpace(c.QueryParam(query)); raw != "" {
		params.Filters[column] = raw
	}
}
