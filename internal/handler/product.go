package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/repository"
)

// ProductHandler serves the product catalog: public paged listings and
// staff-side CRUD.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: p}
}

type productReq struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	CostPrice       *float64 `json:"costPrice"`
	SellPrice       float64  `json:"sellPrice"`
	DiscountPrice   *float64 `json:"discountPrice"`
	StockQuantity   uint32   `json:"stockQuantity"`
	CategoryID      *uint64  `json:"categoryId"`
	BrandID         *uint64  `json:"brandId"`
	ManufactureYear *int     `json:"manufactureYear"`
	IsActive        *bool    `json:"isActive"`
}

func (r productReq) toModel() model.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Product{
		Name:            strings.TrimSpace(r.Name),
		Description:     r.Description,
		CostPrice:       r.CostPrice,
		SellPrice:       r.SellPrice,
		DiscountPrice:   r.DiscountPrice,
		StockQuantity:   r.StockQuantity,
		CategoryID:      r.CategoryID,
		BrandID:         r.BrandID,
		ManufactureYear: r.ManufactureYear,
		IsActive:        active,
	}
}

// List returns a page of products, optionally filtered by categoryId
// and sorted by name, price or createdAt.
func (h *ProductHandler) List(c echo.Context) error {
	var categoryID *uint64
	if s := c.QueryParam("categoryId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid categoryId"})
		}
		categoryID = &id
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Products.List(ctx, categoryID,
		c.QueryParam("sortBy"), c.QueryParam("sortOrder"),
		queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list products failed"})
	}
	return c.JSON(http.StatusOK, page)
}

// Search returns a page of products whose name contains the term.
func (h *ProductHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("name"))
	if term == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name query required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Products.Search(ctx, term,
		c.QueryParam("sortBy"), c.QueryParam("sortOrder"),
		queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search products failed"})
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create inserts a product (staff).
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p := req.toModel()
	if p.Name == "" || p.SellPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive sellPrice are required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Products.Create(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update overwrites a product's mutable fields (staff).
func (h *ProductHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p := req.toModel()
	if p.Name == "" || p.SellPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive sellPrice are required"})
	}
	p.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product updated"})
}

// Delete removes a product (staff).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
