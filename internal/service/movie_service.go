package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/database"
	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type movieStore interface {
	List(ctx context.Context, trendingOnly bool) ([]model.Movie, error)
	FindByID(ctx context.Context, id string) (model.Movie, error)
	Create(ctx context.Context, m model.Movie) error
	Update(ctx context.Context, id string, upd model.MovieUpdate) (model.Movie, error)
	Delete(ctx context.Context, id string) error
}

type favoriteStore interface {
	Create(ctx context.Context, f model.FavoriteMovie) error
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteMovie, error)
	FindByID(ctx context.Context, id string) (model.FavoriteMovie, error)
	Delete(ctx context.Context, id string) error
}

type MovieService struct {
	movies movieStore
	now    func() time.Time
}

func NewMovieService(movies movieStore) *MovieService {
	return &MovieService{movies: movies, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MovieService) List(ctx context.Context, trendingOnly bool) ([]model.Movie, error) {
	return s.movies.List(ctx, trendingOnly)
}

func (s *MovieService) Get(ctx context.Context, id string) (model.Movie, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return model.Movie{}, notFoundAs(err, "Movie not found")
	}
	return m, nil
}

func (s *MovieService) Create(ctx context.Context, req model.MovieRequest) (model.Movie, error) {
	now := s.now()
	m := model.Movie{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		DurationMin:   req.DurationMin,
		PublishedYear: req.PublishedYear,
		Type:          req.Type,
		Trending:      req.Trending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.movies.Create(ctx, m); err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

func (s *MovieService) Update(ctx context.Context, id string, req model.MoviePatch) (model.Movie, error) {
	m, err := s.movies.Update(ctx, id, model.MovieUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		DurationMin:   req.DurationMin,
		PublishedYear: req.PublishedYear,
		Type:          req.Type,
		Trending:      req.Trending,
	})
	if err != nil {
		return model.Movie{}, notFoundAs(err, "Movie not found")
	}
	return m, nil
}

func (s *MovieService) Delete(ctx context.Context, id string) error {
	return notFoundAs(s.movies.Delete(ctx, id), "Movie not found")
}

type FavoriteService struct {
	favorites favoriteStore
	movies    movieStore
	now       func() time.Time
}

func NewFavoriteService(favorites favoriteStore, movies movieStore) *FavoriteService {
	return &FavoriteService{favorites: favorites, movies: movies, now: func() time.Time { return time.Now().UTC() }}
}

func (s *FavoriteService) Add(ctx context.Context, userID string, movieID string) (model.FavoriteMovie, error) {
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return model.FavoriteMovie{}, notFoundAs(err, "Movie not found")
	}

	f := model.FavoriteMovie{
		ID:        uuid.NewString(),
		UserID:    userID,
		MovieID:   movie.ID,
		Movie:     &movie,
		CreatedAt: s.now(),
	}
	if err := s.favorites.Create(ctx, f); err != nil {
		if database.IsUniqueViolation(err) {
			return model.FavoriteMovie{}, apierror.Duplicate("movie", err)
		}
		return model.FavoriteMovie{}, err
	}
	return f, nil
}

func (s *FavoriteService) ListMine(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// Get hides other users' favorites behind the same 404 as a missing one.
func (s *FavoriteService) Get(ctx context.Context, userID string, id string) (model.FavoriteMovie, error) {
	f, err := s.favorites.FindByID(ctx, id)
	if err != nil {
		return model.FavoriteMovie{}, notFoundAs(err, "Favorite movie not found")
	}
	if f.UserID != userID {
		return model.FavoriteMovie{}, apierror.NotFound("Favorite movie not found")
	}
	return f, nil
}

// Delete checks ownership before removing anything.
func (s *FavoriteService) Delete(ctx context.Context, userID string, id string) error {
	f, err := s.favorites.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Favorite movie not found")
	}
	if f.UserID != userID {
		return apierror.Forbidden("You are not authorized to delete this favorite movie")
	}
	return notFoundAs(s.favorites.Delete(ctx, id), "Favorite movie not found")
}
