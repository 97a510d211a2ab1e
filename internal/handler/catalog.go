package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/repository"
)

// CatalogHandler serves categories, brands and banners. Reads are
// public; mutations are staff-only and wired behind the role gate in
// the router.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(r *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{Catalog: r}
}

// ----- categories -----

type categoryReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *uint64 `json:"parentId"`
	IsActive    *bool   `json:"isActive"`
}

func (r categoryReq) toModel() model.Category {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Category{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		ParentID:    r.ParentID,
		IsActive:    active,
	}
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []model.Category
		err   error
	)
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		items, err = h.Catalog.SearchCategories(ctx, name)
	} else {
		items, err = h.Catalog.ListCategories(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list categories failed"})
	}
	if items == nil {
		items = []model.Category{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Catalog.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat := req.toModel()
	if cat.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Catalog.CreateCategory(ctx, cat)
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat := req.toModel()
	if cat.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	cat.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.UpdateCategory(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category updated"})
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- brands -----

type brandReq struct {
	Name     string  `json:"name"`
	Image    *string `json:"image"`
	IsActive *bool   `json:"isActive"`
}

func (r brandReq) toModel() model.Brand {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Brand{Name: strings.TrimSpace(r.Name), Image: r.Image, IsActive: active}
}

func (h *CatalogHandler) ListBrands(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []model.Brand
		err   error
	)
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		items, err = h.Catalog.SearchBrands(ctx, name)
	} else {
		items, err = h.Catalog.ListBrands(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list brands failed"})
	}
	if items == nil {
		items = []model.Brand{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetBrand(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Catalog.GetBrand(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load brand failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) CreateBrand(c echo.Context) error {
	var req brandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b := req.toModel()
	if b.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Catalog.CreateBrand(ctx, b)
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CatalogHandler) UpdateBrand(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req brandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b := req.toModel()
	if b.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	b.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.UpdateBrand(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update brand failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "brand updated"})
}

func (h *CatalogHandler) DeleteBrand(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.DeleteBrand(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete brand failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- banners -----

type bannerReq struct {
	Name      *string `json:"name"`
	ImageURL  *string `json:"imageUrl"`
	LinkURL   *string `json:"linkUrl"`
	SortOrder int     `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

func (r bannerReq) toModel() model.Banner {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Banner{Name: r.Name, ImageURL: r.ImageURL, LinkURL: r.LinkURL, SortOrder: r.SortOrder, IsActive: active}
}

// ListBanners serves the storefront list: active banners only, in
// display order.
func (h *CatalogHandler) ListBanners(c echo.Context) error {
	return h.listBanners(c, true)
}

// ListAllBanners serves the staff list including hidden banners.
func (h *CatalogHandler) ListAllBanners(c echo.Context) error {
	return h.listBanners(c, false)
}

func (h *CatalogHandler) listBanners(c echo.Context, activeOnly bool) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Catalog.ListBanners(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list banners failed"})
	}
	if items == nil {
		items = []model.Banner{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetBanner(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Catalog.GetBanner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load banner failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) CreateBanner(c echo.Context) error {
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Catalog.CreateBanner(ctx, req.toModel())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create banner failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CatalogHandler) UpdateBanner(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b := req.toModel()
	b.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.UpdateBanner(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update banner failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "banner updated"})
}

func (h *CatalogHandler) DeleteBanner(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.DeleteBanner(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete banner failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
