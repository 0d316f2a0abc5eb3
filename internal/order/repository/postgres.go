package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertOrderQuery = `
    INSERT INTO orders (
        id, customer_email, user_id, status, payment_method, payment_validated,
        total_amount, sale_type, stand_id, delivered_by_stand_id, delivered_at,
        qr_code, return_requested, return_reason, returned_at, refund_amount,
        created_at, updated_at
    )
    VALUES (
        :id, :customer_email, :user_id, :status, :payment_method, :payment_validated,
        :total_amount, :sale_type, :stand_id, :delivered_by_stand_id, :delivered_at,
        :qr_code, :return_requested, :return_reason, :returned_at, :refund_amount,
        :created_at, :updated_at
    )
`

const insertItemsQuery = `
    INSERT INTO order_items (id, order_id, variant_id, quantity, unit_price, created_at)
    VALUES (:id, :order_id, :variant_id, :quantity, :unit_price, :created_at)
`

func (r *PGRepository) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertOrderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if len(items) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertItemsQuery, items); err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindByQRCode(ctx context.Context, qrCode string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE qr_code = $1 LIMIT 1`, qrCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.SaleType != "" {
		conditions = append(conditions, "sale_type = :sale_type")
		args["sale_type"] = f.SaleType
	}
	if f.StandID != "" {
		conditions = append(conditions, "(stand_id = :stand_id OR delivered_by_stand_id = :stand_id)")
		args["stand_id"] = f.StandID
	}
	if f.CustomerEmail != "" {
		conditions = append(conditions, "customer_email ILIKE :customer_email")
		args["customer_email"] = "%" + f.CustomerEmail + "%"
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_email = :customer_email,
            user_id = :user_id,
            status = :status,
            payment_method = :payment_method,
            payment_validated = :payment_validated,
            total_amount = :total_amount,
            stand_id = :stand_id,
            delivered_by_stand_id = :delivered_by_stand_id,
            delivered_at = :delivered_at,
            return_requested = :return_requested,
            return_reason = :return_reason,
            returned_at = :returned_at,
            refund_amount = :refund_amount,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	return items, err
}

func (r *PGRepository) ReplaceItems(ctx context.Context, orderID string, items []model.OrderItem, total decimal.Decimal) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if len(items) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertItemsQuery, items); err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total_amount = $1, updated_at = $2 WHERE id = $3`,
		total, time.Now(), orderID,
	); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return tx.Commit()
}
