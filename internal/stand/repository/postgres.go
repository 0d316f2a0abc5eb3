package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Stand) error {
	query := `
        INSERT INTO stands (
            id, name, location, contact_name, contact_phone, qr_code,
            image_url, created_at, updated_at
        )
        VALUES (
            :id, :name, :location, :contact_name, :contact_phone, :qr_code,
            :image_url, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Stand, error) {
	var s model.Stand
	err := r.DB.GetContext(ctx, &s, `SELECT * FROM stands WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StandFilters) ([]model.Stand, int, error) {
	var stands []model.Stand
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR location ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stands" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stands" + whereClause + " ORDER BY name"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &stands, args)
	return stands, count, err
}

func (r *PGRepository) Update(ctx context.Context, s *model.Stand) error {
	query := `
        UPDATE stands
        SET name = :name,
            location = :location,
            contact_name = :contact_name,
            contact_phone = :contact_phone,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM stands WHERE id = $1`, id)
	return err
}

func (r *PGRepository) GetStock(ctx context.Context, standID string) ([]dto.StandStockRow, error) {
	var rows []dto.StandStockRow
	query := `
        SELECT ss.id, ss.stand_id, ss.variant_id, ss.quantity, ss.updated_at,
               v.size_label, v.price, v.product_id,
               p.name AS product_name
        FROM stand_stock ss
        JOIN product_variants v ON v.id = ss.variant_id
        JOIN products p ON p.id = v.product_id
        WHERE ss.stand_id = $1
        ORDER BY p.name, v.size_label
    `
	err := r.DB.SelectContext(ctx, &rows, query, standID)
	return rows, err
}

func (r *PGRepository) ReplaceStock(ctx context.Context, standID string, rows []model.StandStock) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stand_stock WHERE stand_id = $1`, standID); err != nil {
		return fmt.Errorf("failed to clear stand stock: %w", err)
	}
	if len(rows) > 0 {
		query := `
            INSERT INTO stand_stock (id, stand_id, variant_id, quantity, updated_at)
            VALUES (:id, :stand_id, :variant_id, :quantity, :updated_at)
        `
		if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("failed to insert stand stock: %w", err)
		}
	}

	return tx.Commit()
}
