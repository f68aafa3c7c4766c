package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, workspace_id, name, amount, type, category_id, frequency,
	start_date, end_date, business_days_only, last_business_day_of_month,
	is_active, created_at, updated_at, deleted_at`

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a new payment
func (r *PaymentRepository) Create(p *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	params, err := paymentParams(p)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (workspace_id, name, amount, type, category_id, frequency,
			start_date, end_date, business_days_only, last_business_day_of_month, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+paymentColumns,
		p.WorkspaceID, p.Name, params.amount, string(p.Type), params.categoryID, p.Frequency,
		params.startDate, params.endDate, p.BusinessDaysOnly, p.LastBusinessDayOfMonth, p.IsActive,
	)
	return scanPayment(row)
}

// GetByID retrieves a payment within a workspace
func (r *PaymentRepository) GetByID(workspaceID int32, id int32) (*domain.Payment, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByWorkspace lists the payments of a workspace ordered by creation, optionally
// filtered by the active flag
func (r *PaymentRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.Payment, error) {
	ctx := context.Background()

	var active pgtype.Bool
	if activeOnly != nil {
		active = pgtype.Bool{Bool: *activeOnly, Valid: true}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE workspace_id = $1
		  AND deleted_at IS NULL
		  AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY created_at, id`,
		workspaceID, active,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// Update overwrites the editable fields of a payment
func (r *PaymentRepository) Update(p *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	params, err := paymentParams(p)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE payments
		SET name = $3, amount = $4, type = $5, category_id = $6, frequency = $7,
			start_date = $8, end_date = $9, business_days_only = $10,
			last_business_day_of_month = $11, is_active = $12, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+paymentColumns,
		p.WorkspaceID, p.ID, p.Name, params.amount, string(p.Type), params.categoryID, p.Frequency,
		params.startDate, params.endDate, p.BusinessDaysOnly, p.LastBusinessDayOfMonth, p.IsActive,
	)
	updated, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes a payment
func (r *PaymentRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE payments SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

type paymentSQLParams struct {
	amount     pgtype.Numeric
	categoryID pgtype.Int4
	startDate  pgtype.Date
	endDate    pgtype.Date
}

func paymentParams(p *domain.Payment) (paymentSQLParams, error) {
	amount, err := decimalToPgNumeric(p.Amount)
	if err != nil {
		return paymentSQLParams{}, fmt.Errorf("invalid amount: %w", err)
	}

	params := paymentSQLParams{
		amount:    amount,
		startDate: pgtype.Date{Time: p.StartDate, Valid: true},
	}
	if p.CategoryID != nil {
		params.categoryID = pgtype.Int4{Int32: *p.CategoryID, Valid: true}
	}
	if p.EndDate != nil {
		params.endDate = pgtype.Date{Time: *p.EndDate, Valid: true}
	}
	return params, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p          domain.Payment
		amount     pgtype.Numeric
		paymentType string
		categoryID pgtype.Int4
		startDate  pgtype.Date
		endDate    pgtype.Date
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
		deletedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.Name, &amount, &paymentType, &categoryID, &p.Frequency,
		&startDate, &endDate, &p.BusinessDaysOnly, &p.LastBusinessDayOfMonth,
		&p.IsActive, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = pgNumericToDecimal(amount)
	p.Type = domain.PaymentType(paymentType)
	p.StartDate = startDate.Time
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int32
	}
	if endDate.Valid {
		p.EndDate = &endDate.Time
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}
	return &p, nil
}
