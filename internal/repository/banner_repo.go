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

type BannerRepository struct {
	pool *pgxpool.Pool
}

func NewBannerRepository(pool *pgxpool.Pool) *BannerRepository {
	return &BannerRepository{pool: pool}
}

const bannerColumns = `id, title, image_url, target_url, start_date, end_date, is_active, created_at, updated_at`

func scanBanner(row pgx.Row) (model.Banner, error) {
	var b model.Banner
	err := row.Scan(&b.ID, &b.Title, &b.ImageURL, &b.TargetURL, &b.StartDate, &b.EndDate, &b.IsActive,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *BannerRepository) List(ctx context.Context) ([]model.Banner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bannerColumns+` FROM banners ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	banners := make([]model.Banner, 0)
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *BannerRepository) FindByID(ctx context.Context, id string) (model.Banner, error) {
	b, err := scanBanner(r.pool.QueryRow(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Banner{}, model.ErrNotFound
	}
	if err != nil {
		return model.Banner{}, fmt.Errorf("find banner by id: %w", err)
	}
	return b, nil
}

func (r *BannerRepository) Create(ctx context.Context, b model.Banner) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO banners (id, title, image_url, target_url, start_date, end_date, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Title, b.ImageURL, b.TargetURL, b.StartDate, b.EndDate, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

func (r *BannerRepository) Update(ctx context.Context, id string, upd model.BannerUpdate) (model.Banner, error) {
	b, err := scanBanner(r.pool.QueryRow(ctx,
		`UPDATE banners SET
		     title = COALESCE($2, title),
		     image_url = COALESCE($3, image_url),
		     target_url = COALESCE($4, target_url),
		     start_date = COALESCE($5, start_date),
		     end_date = COALESCE($6, end_date),
		     is_active = COALESCE($7, is_active),
		     updated_at = $8
		 WHERE id = $1
		 RETURNING `+bannerColumns,
		id, upd.Title, upd.ImageURL, upd.TargetURL, upd.StartDate, upd.EndDate, upd.IsActive, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Banner{}, model.ErrNotFound
	}
	if err != nil {
		return model.Banner{}, fmt.Errorf("update banner: %w", err)
	}
	return b, nil
}

func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *BannerRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE banners SET is_active = false, updated_at = $1
		 WHERE is_active AND end_date IS NOT NULL AND end_date <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired banners: %w", err)
	}
	return tag.RowsAffected(), nil
}
