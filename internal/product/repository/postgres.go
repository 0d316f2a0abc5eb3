package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, category_id, name, description, low_stock_threshold,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :category_id, :name, :description, :low_stock_threshold,
            :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// whitelist sortable fields
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &products, args)
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            name = :name,
            description = :description,
            low_stock_threshold = :low_stock_threshold,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	// variants and images cascade at the store level
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *PGRepository) CreateVariant(ctx context.Context, v *model.ProductVariant) error {
	query := `
        INSERT INTO product_variants (
            id, product_id, size_label, quantity, price, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :product_id, :size_label, :quantity, :price, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGRepository) FindVariantByID(ctx context.Context, id string) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM product_variants WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListVariants(ctx context.Context, productID string) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.DB.SelectContext(ctx, &variants,
		`SELECT * FROM product_variants WHERE product_id = $1 ORDER BY size_label`, productID)
	return variants, err
}

func (r *PGRepository) UpdateVariant(ctx context.Context, v *model.ProductVariant) error {
	// quantity is deliberately absent: all quantity writes go through the
	// stock repository's conditional update.
	query := `
        UPDATE product_variants
        SET size_label = :size_label,
            price = :price,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGRepository) DeleteVariant(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsSizeUnique(ctx context.Context, productID, sizeLabel, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM product_variants WHERE product_id = $1 AND size_label = $2`
	args := []interface{}{productID, sizeLabel}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) AddImage(ctx context.Context, img *model.ProductImage) error {
	query := `
        INSERT INTO product_images (id, product_id, url, object_name, sort_order, created_at)
        VALUES (:id, :product_id, :url, :object_name, :sort_order, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, img)
	return err
}

func (r *PGRepository) FindImageByID(ctx context.Context, id string) (*model.ProductImage, error) {
	var img model.ProductImage
	err := r.DB.GetContext(ctx, &img, `SELECT * FROM product_images WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *PGRepository) ListImages(ctx context.Context, productID string) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.DB.SelectContext(ctx, &images,
		`SELECT * FROM product_images WHERE product_id = $1 ORDER BY sort_order, created_at`, productID)
	return images, err
}

func (r *PGRepository) DeleteImage(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockRow, int, error) {
	var rows []dto.LowStockRow
	var count int

	baseQuery := `
        FROM product_variants v
        JOIN products p ON p.id = v.product_id
        WHERE v.is_active AND p.low_stock_threshold > 0
          AND v.quantity <= p.low_stock_threshold
    `

	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) "+baseQuery); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT v.id AS variant_id, v.product_id, p.name AS product_name,
               v.size_label, v.quantity, p.low_stock_threshold, v.price
    ` + baseQuery + ` ORDER BY v.quantity ASC`
	if pageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	}

	err := r.DB.SelectContext(ctx, &rows, query)
	return rows, count, err
}
