package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-api/internal/model"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

// List returns every review, or only those of productID when it is non-empty.
func (r *ReviewRepository) List(ctx context.Context, productID string) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	args := []any{}
	if productID != "" {
		query += ` WHERE product_id = $1`
		args = append(args, productID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, model.ErrNotFound
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("find review by id: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv model.Review) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, id string, upd model.ReviewUpdate) (model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx,
		`UPDATE reviews SET rating = COALESCE($2, rating), comment = COALESCE($3, comment), updated_at = $4
		 WHERE id = $1
		 RETURNING `+reviewColumns,
		id, upd.Rating, upd.Comment, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, model.ErrNotFound
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("update review: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RecomputeRating refreshes the product's average (one decimal) and count from its reviews.
func (r *ReviewRepository) RecomputeRating(ctx context.Context, productID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products p SET
		     rating_average = COALESCE(s.avg, 0),
		     ratings_quantity = s.cnt
		 FROM (SELECT ROUND(AVG(rating)::numeric, 1) AS avg, COUNT(*) AS cnt
		       FROM reviews WHERE product_id = $1) s
		 WHERE p.id = $1`, productID)
	if err != nil {
		return fmt.Errorf("recompute product rating: %w", err)
	}
	return nil
}
