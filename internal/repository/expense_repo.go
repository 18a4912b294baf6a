package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-api/internal/model"
)

type ExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, title, amount, date, category, created_at, updated_at`

func scanExpense(row pgx.Row) (model.Expense, error) {
	var e model.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Date, &e.Category, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *ExpenseRepository) Create(ctx context.Context, e model.Expense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (id, user_id, title, amount, date, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.Title, e.Amount, e.Date, e.Category, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]model.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]model.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindForUser only matches expenses owned by userID.
func (r *ExpenseRepository) FindForUser(ctx context.Context, id string, userID string) (model.Expense, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Expense{}, model.ErrNotFound
	}
	if err != nil {
		return model.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) DeleteForUser(ctx context.Context, id string, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
