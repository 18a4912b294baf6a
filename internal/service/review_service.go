package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type reviewStore interface {
	List(ctx context.Context, productID string) ([]model.Review, error)
	FindByID(ctx context.Context, id string) (model.Review, error)
	Create(ctx context.Context, rv model.Review) error
	Update(ctx context.Context, id string, upd model.ReviewUpdate) (model.Review, error)
	Delete(ctx context.Context, id string) error
	RecomputeRating(ctx context.Context, productID string) error
}

type ReviewService struct {
	reviews  reviewStore
	products existenceChecker
	now      func() time.Time
}

func NewReviewService(reviews reviewStore, products existenceChecker) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, now: func() time.Time { return time.Now().UTC() }}
}

// List returns every review, or only those of productID when it is set.
func (s *ReviewService) List(ctx context.Context, productID string) ([]model.Review, error) {
	return s.reviews.List(ctx, productID)
}

// Get scopes the lookup to productID when it is set.
func (s *ReviewService) Get(ctx context.Context, productID string, id string) (model.Review, error) {
	rv, err := s.reviews.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) || (err == nil && productID != "" && rv.ProductID != productID) {
		return model.Review{}, apierror.NotFound("Review not found")
	}
	return rv, err
}

func (s *ReviewService) Create(ctx context.Context, productID string, user model.User, req model.ReviewRequest) (model.Review, error) {
	if productID == "" {
		return model.Review{}, apierror.Validation("product", "Product is required")
	}
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return model.Review{}, err
	}
	if !ok {
		return model.Review{}, apierror.NotFound("Product not found")
	}

	now := s.now()
	userID := user.ID
	rv := model.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    &userID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return model.Review{}, err
	}
	if err := s.reviews.RecomputeRating(ctx, productID); err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (s *ReviewService) Update(ctx context.Context, productID string, id string, user model.User, req model.ReviewPatch) (model.Review, error) {
	current, err := s.Get(ctx, productID, id)
	if err != nil {
		return model.Review{}, err
	}
	if err := canModifyReview(current, user); err != nil {
		return model.Review{}, err
	}

	rv, err := s.reviews.Update(ctx, id, model.ReviewUpdate{Rating: req.Rating, Comment: req.Comment})
	if errors.Is(err, model.ErrNotFound) {
		return model.Review{}, apierror.NotFound("Review not found")
	}
	if err != nil {
		return model.Review{}, err
	}
	if err := s.reviews.RecomputeRating(ctx, rv.ProductID); err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, productID string, id string, user model.User) error {
	current, err := s.Get(ctx, productID, id)
	if err != nil {
		return err
	}
	if err := canModifyReview(current, user); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NotFound("Review not found")
		}
		return err
	}
	return s.reviews.RecomputeRating(ctx, current.ProductID)
}

// Authors and admins may change a review; reviews whose author was deleted are admin-only.
func canModifyReview(rv model.Review, user model.User) error {
	if user.IsAdmin() || (rv.UserID != nil && *rv.UserID == user.ID) {
		return nil
	}
	return apierror.Forbidden("You are not authorized to modify this review")
}
