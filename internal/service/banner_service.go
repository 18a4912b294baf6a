package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
)

type bannerStore interface {
	List(ctx context.Context) ([]model.Banner, error)
	FindByID(ctx context.Context, id string) (model.Banner, error)
	Create(ctx context.Context, b model.Banner) error
	Update(ctx context.Context, id string, upd model.BannerUpdate) (model.Banner, error)
	Delete(ctx context.Context, id string) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type BannerService struct {
	banners bannerStore
	files   fileDiscarder
	now     func() time.Time
}

func NewBannerService(banners bannerStore, files fileDiscarder) *BannerService {
	return &BannerService{banners: banners, files: files, now: func() time.Time { return time.Now().UTC() }}
}

func (s *BannerService) List(ctx context.Context) ([]model.Banner, error) {
	return s.banners.List(ctx)
}

func (s *BannerService) Get(ctx context.Context, id string) (model.Banner, error) {
	b, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return model.Banner{}, notFoundAs(err, "Banner not found")
	}
	return b, nil
}

func (s *BannerService) Create(ctx context.Context, form model.BannerForm, imageURL string) (model.Banner, error) {
	now := s.now()
	start := form.StartDate
	if start.IsZero() {
		start = now
	}

	b := model.Banner{
		ID:        uuid.NewString(),
		Title:     form.Title,
		ImageURL:  imageURL,
		TargetURL: form.TargetURL,
		StartDate: start,
		EndDate:   form.EndDate,
		IsActive:  form.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.banners.Create(ctx, b); err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

// Update discards the previous image when upd carries a new one.
func (s *BannerService) Update(ctx context.Context, id string, upd model.BannerUpdate) (model.Banner, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Banner{}, err
	}

	b, err := s.banners.Update(ctx, id, upd)
	if err != nil {
		return model.Banner{}, notFoundAs(err, "Banner not found")
	}
	if upd.ImageURL != nil && *upd.ImageURL != current.ImageURL {
		s.files.Discard(current.ImageURL)
	}
	return b, nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.banners.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Banner not found")
	}
	s.files.Discard(current.ImageURL)
	return nil
}

// ExpireBanners switches off banners whose end date has passed.
func (s *BannerService) ExpireBanners(ctx context.Context) (int64, error) {
	return s.banners.DeactivateExpired(ctx, s.now())
}
