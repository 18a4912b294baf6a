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

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

const movieColumns = `id, title, description, image, duration_min, published_year, type, trending, created_at, updated_at`

func scanMovie(row pgx.Row) (model.Movie, error) {
	var m model.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Image, &m.DurationMin, &m.PublishedYear, &m.Type,
		&m.Trending, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *MovieRepository) List(ctx context.Context, trendingOnly bool) ([]model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	if trendingOnly {
		query += ` WHERE trending`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (model.Movie, error) {
	m, err := scanMovie(r.pool.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Movie{}, model.ErrNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("find movie by id: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Create(ctx context.Context, m model.Movie) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO movies (id, title, description, image, duration_min, published_year, type, trending,
		                     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Title, m.Description, m.Image, m.DurationMin, m.PublishedYear, m.Type, m.Trending,
		m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) Update(ctx context.Context, id string, upd model.MovieUpdate) (model.Movie, error) {
	m, err := scanMovie(r.pool.QueryRow(ctx,
		`UPDATE movies SET
		     title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     image = COALESCE($4, image),
		     duration_min = COALESCE($5, duration_min),
		     published_year = COALESCE($6, published_year),
		     type = COALESCE($7, type),
		     trending = COALESCE($8, trending),
		     updated_at = $9
		 WHERE id = $1
		 RETURNING `+movieColumns,
		id, upd.Title, upd.Description, upd.Image, upd.DurationMin, upd.PublishedYear, upd.Type,
		upd.Trending, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Movie{}, model.ErrNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("update movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

const favoriteSelect = `
	SELECT f.id, f.user_id, f.movie_id, f.created_at,
	       m.id, m.title, m.description, m.image, m.duration_min, m.published_year, m.type, m.trending,
	       m.created_at, m.updated_at
	FROM favorite_movies f
	JOIN movies m ON m.id = f.movie_id`

func scanFavorite(row pgx.Row) (model.FavoriteMovie, error) {
	var (
		f model.FavoriteMovie
		m model.Movie
	)
	err := row.Scan(&f.ID, &f.UserID, &f.MovieID, &f.CreatedAt,
		&m.ID, &m.Title, &m.Description, &m.Image, &m.DurationMin, &m.PublishedYear, &m.Type, &m.Trending,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.FavoriteMovie{}, err
	}
	f.Movie = &m
	return f, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, f model.FavoriteMovie) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO favorite_movies (id, user_id, movie_id, created_at) VALUES ($1, $2, $3, $4)`,
		f.ID, f.UserID, f.MovieID, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create favorite movie: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	rows, err := r.pool.Query(ctx, favoriteSelect+` WHERE f.user_id = $1 ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite movies: %w", err)
	}
	defer rows.Close()

	favorites := make([]model.FavoriteMovie, 0)
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite movie: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *FavoriteRepository) FindByID(ctx context.Context, id string) (model.FavoriteMovie, error) {
	f, err := scanFavorite(r.pool.QueryRow(ctx, favoriteSelect+` WHERE f.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.FavoriteMovie{}, model.ErrNotFound
	}
	if err != nil {
		return model.FavoriteMovie{}, fmt.Errorf("find favorite movie: %w", err)
	}
	return f, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorite_movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete favorite movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
