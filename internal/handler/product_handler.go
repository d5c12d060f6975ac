package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"sitecms/internal/model"
	"sitecms/internal/service"
)

// ProductHandler handles product and product category endpoints.
type ProductHandler struct {
	products   service.ProductService
	categories service.CategoryService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService, categories service.CategoryService) *ProductHandler {
	return &ProductHandler{products: products, categories: categories}
}

// ProductRequest is the editable part of a product. On update, omitted
// fields keep their stored values.
type ProductRequest struct {
	CategoryID    uint                `json:"categoryId" validate:"required"`
	Name          string              `json:"name" validate:"required,max=255"`
	Summary       string              `json:"summary"`
	Content       string              `json:"content"`
	Specs         string              `json:"specs"`
	Price         decimal.NullDecimal `json:"price" swaggertype:"number"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice" swaggertype:"number"`
	Image         string              `json:"image" validate:"max=512"`
	Featured      bool                `json:"featured"`
	DisplayOrder  int                 `json:"displayOrder"`
}

func productRequestFrom(p *model.Product) ProductRequest {
	return ProductRequest{
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Summary:       p.Summary,
		Content:       p.Content,
		Specs:         p.Specs,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Featured:      p.Featured,
		DisplayOrder:  p.DisplayOrder,
	}
}

func (r ProductRequest) apply(p *model.Product) {
	p.CategoryID = r.CategoryID
	p.Name = r.Name
	p.Summary = r.Summary
	p.Content = r.Content
	p.Specs = r.Specs
	p.Price = r.Price
	p.OriginalPrice = r.OriginalPrice
	p.Image = r.Image
	p.Featured = r.Featured
	p.DisplayOrder = r.DisplayOrder
}

// CategoryRequest is the editable part of a product category.
type CategoryRequest struct {
	Name         string `json:"name" validate:"required,max=128"`
	Description  string `json:"description"`
	Image        string `json:"image" validate:"max=512"`
	DisplayOrder int    `json:"displayOrder"`
}

func categoryRequestFrom(c *model.ProductCategory) CategoryRequest {
	return CategoryRequest{
		Name:         c.Name,
		Description:  c.Description,
		Image:        c.Image,
		DisplayOrder: c.DisplayOrder,
	}
}

func (r CategoryRequest) apply(c *model.ProductCategory) {
	c.Name = r.Name
	c.Description = r.Description
	c.Image = r.Image
	c.DisplayOrder = r.DisplayOrder
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param categoryId query int false "Filter by category"
// @Param featured query bool false "Only featured products"
// @Param keyword query string false "Search name and summary"
// @Success 200 {object} Response{data=[]model.Product,pagination=Pagination}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	params := listParams(c)
	if err := filterUint(c, params, "categoryId", "category_id"); err != nil {
		return err
	}
	if err := filterBool(c, params, "featured", "featured"); err != nil {
		return err
	}
	return list[model.Product](c, h.products, params)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} Response{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	return get[model.Product](c, h.products)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} Response{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var product model.Product
	req.apply(&product)
	return create[model.Product](c, h.products, &product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	return update[model.Product, ProductRequest](c, h.products, productRequestFrom, ProductRequest.apply)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	return remove[model.Product](c, h.products)
}

// ListCategories godoc
// @Summary List product categories
// @Tags product-categories
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param keyword query string false "Search name and description"
// @Success 200 {object} Response{data=[]model.ProductCategory,pagination=Pagination}
// @Router /product-categories [get]
func (h *ProductHandler) ListCategories(c echo.Context) error {
	return list[model.ProductCategory](c, h.categories, listParams(c))
}

// GetCategory godoc
// @Summary Get a product category
// @Tags product-categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} Response{data=model.ProductCategory}
// @Failure 404 {object} errors.ErrorResponse
// @Router /product-categories/{id} [get]
func (h *ProductHandler) GetCategory(c echo.Context) error {
	return get[model.ProductCategory](c, h.categories)
}

// CreateCategory godoc
// @Summary Create a product category
// @Tags product-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} Response{data=model.ProductCategory}
// @Failure 400 {object} errors.ErrorResponse
// @Router /product-categories [post]
func (h *ProductHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var category model.ProductCategory
	req.apply(&category)
	return create[model.ProductCategory](c, h.categories, &category)
}

// UpdateCategory godoc
// @Summary Update a product category
// @Tags product-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Fields to change"
// @Success 200 {object} Response{data=model.ProductCategory}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /product-categories/{id} [put]
func (h *ProductHandler) UpdateCategory(c echo.Context) error {
	return update[model.ProductCategory, CategoryRequest](c, h.categories, categoryRequestFrom, CategoryRequest.apply)
}

// DeleteCategory godoc
// @Summary Delete a product category and all of its products
// @Tags product-categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /product-categories/{id} [delete]
func (h *ProductHandler) DeleteCategory(c echo.Context) error {
	return remove[model.ProductCategory](c, h.categories)
}
