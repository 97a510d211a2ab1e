package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haichau/electrostore/internal/model"
)

// CatalogRepo persists the small lookup entities of the storefront:
// categories, brands and banners. These tables are read-heavy and
// mutated only by staff.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// ----- categories -----

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,parent_id,is_active FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,parent_id,is_active FROM categories WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CatalogRepo) SearchCategories(ctx context.Context, name string) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,parent_id,is_active FROM categories WHERE name LIKE ? ORDER BY name",
		"%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c model.Category) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, description, parent_id, is_active) VALUES (?,?,?,?)",
		c.Name, c.Description, c.ParentID, c.IsActive)
	if err != nil {
		return 0, translateDuplicate(err)
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (r *CatalogRepo) UpdateCategory(ctx context.Context, c model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, description=?, parent_id=?, is_active=? WHERE id=?",
		c.Name, c.Description, c.ParentID, c.IsActive, c.ID)
	if err != nil {
		return translateDuplicate(err)
	}
	return requireRow(res)
}

func (r *CatalogRepo) DeleteCategory(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ----- brands -----

func (r *CatalogRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,image,is_active FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Image, &b.IsActive); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetBrand(ctx context.Context, id uint64) (model.Brand, error) {
	var b model.Brand
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,image,is_active FROM brands WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.Name, &b.Image, &b.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

func (r *CatalogRepo) SearchBrands(ctx context.Context, name string) ([]model.Brand, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,image,is_active FROM brands WHERE name LIKE ? ORDER BY name",
		"%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Image, &b.IsActive); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateBrand(ctx context.Context, b model.Brand) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO brands (name, image, is_active) VALUES (?,?,?)",
		b.Name, b.Image, b.IsActive)
	if err != nil {
		return 0, translateDuplicate(err)
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (r *CatalogRepo) UpdateBrand(ctx context.Context, b model.Brand) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE brands SET name=?, image=?, is_active=? WHERE id=?",
		b.Name, b.Image, b.IsActive, b.ID)
	if err != nil {
		return translateDuplicate(err)
	}
	return requireRow(res)
}

func (r *CatalogRepo) DeleteBrand(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM brands WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ----- banners -----

// ListBanners returns banners in display order. When activeOnly is
// set, hidden banners are filtered out (the storefront view).
func (r *CatalogRepo) ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	query := "SELECT id,name,image_url,link_url,sort_order,is_active FROM banners"
	if activeOnly {
		query += " WHERE is_active=1"
	}
	query += " ORDER BY sort_order, id"
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Banner
	for rows.Next() {
		var b model.Banner
		if err := rows.Scan(&b.ID, &b.Name, &b.ImageURL, &b.LinkURL, &b.SortOrder, &b.IsActive); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetBanner(ctx context.Context, id uint64) (model.Banner, error) {
	var b model.Banner
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,image_url,link_url,sort_order,is_active FROM banners WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.Name, &b.ImageURL, &b.LinkURL, &b.SortOrder, &b.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

func (r *CatalogRepo) CreateBanner(ctx context.Context, b model.Banner) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO banners (name, image_url, link_url, sort_order, is_active) VALUES (?,?,?,?,?)",
		b.Name, b.ImageURL, b.LinkURL, b.SortOrder, b.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (r *CatalogRepo) UpdateBanner(ctx context.Context, b model.Banner) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE banners SET name=?, image_url=?, link_url=?, sort_order=?, is_active=? WHERE id=?",
		b.Name, b.ImageURL, b.LinkURL, b.SortOrder, b.IsActive, b.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *CatalogRepo) DeleteBanner(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM banners WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
