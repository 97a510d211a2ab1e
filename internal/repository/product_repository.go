package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/haichau/electrostore/internal/model"
)

// ProductRepo persists products and serves the paged catalog queries.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,cost_price,sell_price,discount_price,stock_quantity,category_id,brand_id,manufacture_year,is_active,created_at,updated_at"

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	TotalItems int             `json:"totalItems"`
	PageNumber int             `json:"pageNumber"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	Items      []model.Product `json:"items"`
}

// sortColumns whitelists the sortable columns; anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "sell_price",
	"createdat": "created_at",
}

func orderClause(sortBy, sortOrder string) string {
	col, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir
}

// List returns a page of products, optionally filtered by category.
func (r *ProductRepo) List(ctx context.Context, categoryID *uint64, sortBy, sortOrder string, page, pageSize int) (ProductPage, error) {
	where := ""
	args := []interface{}{}
	if categoryID != nil {
		where = " WHERE category_id = ?"
		args = append(args, *categoryID)
	}
	return r.pageQuery(ctx, where, args, sortBy, sortOrder, page, pageSize)
}

// Search returns a page of products whose name contains the term.
func (r *ProductRepo) Search(ctx context.Context, term, sortBy, sortOrder string, page, pageSize int) (ProductPage, error) {
	where := " WHERE name LIKE ?"
	args := []interface{}{"%" + term + "%"}
	return r.pageQuery(ctx, where, args, sortBy, sortOrder, page, pageSize)
}

func (r *ProductRepo) pageQuery(ctx context.Context, where string, args []interface{}, sortBy, sortOrder string, page, pageSize int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	out := ProductPage{PageNumber: page, PageSize: pageSize, Items: []model.Product{}}

	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products"+where, args...).Scan(&out.TotalItems); err != nil {
		return out, err
	}
	out.TotalPages = (out.TotalItems + pageSize - 1) / pageSize

	query := "SELECT " + productColumns + " FROM products" + where +
		orderClause(sortBy, sortOrder) + " LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, query, append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProductRows(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, p)
	}
	return out, rows.Err()
}

func scanProductRows(rows *sql.Rows) (model.Product, error) {
	var p model.Product
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CostPrice, &p.SellPrice,
		&p.DiscountPrice, &p.StockQuantity, &p.CategoryID, &p.BrandID,
		&p.ManufactureYear, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CostPrice, &p.SellPrice,
			&p.DiscountPrice, &p.StockQuantity, &p.CategoryID, &p.BrandID,
			&p.ManufactureYear, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts a product and returns its id.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO products (name, description, cost_price, sell_price, discount_price,
		 stock_quantity, category_id, brand_id, manufacture_year, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.CostPrice, p.SellPrice, p.DiscountPrice,
		p.StockQuantity, p.CategoryID, p.BrandID, p.ManufactureYear, p.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the mutable fields of a product.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE products SET name=?, description=?, cost_price=?, sell_price=?, discount_price=?,
		 stock_quantity=?, category_id=?, brand_id=?, manufacture_year=?, is_active=?
		 WHERE id=?`,
		p.Name, p.Description, p.CostPrice, p.SellPrice, p.DiscountPrice,
		p.StockQuantity, p.CategoryID, p.BrandID, p.ManufactureYear, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a product. Cart lines referencing it are removed by
// the schema's cascade.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
