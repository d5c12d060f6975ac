package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sitecms/internal/service"
)

// The helpers below implement the shared list/get/create/update/delete
// endpoint bodies. Callers pass every type argument explicitly.

func list[T any](c echo.Context, svc service.CRUDService[T], params service.ListParams) error {
	page, err := svc.List(c.Request().Context(), params)
	if err != nil {
		return fail(err)
	}
	return respondPage(c, page)
}

func get[T any](c echo.Context, svc service.CRUDService[T]) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entity, err := svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", entity)
}

func create[T any](c echo.Context, svc service.CRUDService[T], entity *T) error {
	created, err := svc.Create(c.Request().Context(), entity)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "created", created)
}

// update loads the row, seeds the request from it so omitted fields keep
// their values, binds the body over it and saves the result.
func update[T any, R any](c echo.Context, svc service.CRUDService[T], from func(*T) R, apply func(R, *T)) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	current, err := svc.Get(ctx, id)
	if err != nil {
		return fail(err)
	}

	req := from(current)
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := svc.Update(ctx, id, func(entity *T) { apply(req, entity) })
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "updated", updated)
}

func remove[T any](c echo.Context, svc service.CRUDService[T]) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "deleted", nil)
}
