package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/database"
	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type taxonomyStore interface {
	List(ctx context.Context) ([]model.Taxonomy, error)
	FindByID(ctx context.Context, id string) (model.Taxonomy, error)
	Create(ctx context.Context, t model.Taxonomy) error
	Update(ctx context.Context, id string, upd model.TaxonomyUpdate) (model.Taxonomy, error)
	Delete(ctx context.Context, id string) error
	ProductSummaries(ctx context.Context, id string) ([]model.ProductSummary, error)
}

// TaxonomyService manages one of categories, brands or companies; kind is the singular display name.
type TaxonomyService struct {
	store taxonomyStore
	kind  string
	now   func() time.Time
}

func NewTaxonomyService(store taxonomyStore, kind string) *TaxonomyService {
	return &TaxonomyService{store: store, kind: kind, now: func() time.Time { return time.Now().UTC() }}
}

func (s *TaxonomyService) Kind() string {
	return s.kind
}

func (s *TaxonomyService) List(ctx context.Context) ([]model.Taxonomy, error) {
	return s.store.List(ctx)
}

// ListWithProducts attaches each entry's product summaries.
func (s *TaxonomyService) ListWithProducts(ctx context.Context) ([]model.CompanyWithProducts, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.CompanyWithProducts, 0, len(items))
	for _, item := range items {
		products, err := s.store.ProductSummaries(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CompanyWithProducts{Taxonomy: item, Products: products})
	}
	return out, nil
}

func (s *TaxonomyService) Get(ctx context.Context, id string) (model.Taxonomy, error) {
	item, err := s.store.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Taxonomy{}, s.notFound()
	}
	return item, err
}

func (s *TaxonomyService) Products(ctx context.Context, id string) ([]model.ProductSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ProductSummaries(ctx, id)
}

func (s *TaxonomyService) Create(ctx context.Context, req model.TaxonomyRequest) (model.Taxonomy, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Taxonomy{}, apierror.Validation("name", s.kind+" name is required")
	}

	now := s.now()
	item := model.Taxonomy{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return model.Taxonomy{}, s.mapWriteError(err)
	}
	return item, nil
}

func (s *TaxonomyService) Update(ctx context.Context, id string, req model.TaxonomyPatch) (model.Taxonomy, error) {
	upd := model.TaxonomyUpdate{Description: req.Description, Image: req.Image}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.Taxonomy{}, apierror.Validation("name", s.kind+" name is required")
		}
		upd.Name = &name
	}

	item, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return model.Taxonomy{}, s.mapWriteError(err)
	}
	return item, nil
}

func (s *TaxonomyService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return s.notFound()
	}
	return err
}

func (s *TaxonomyService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return s.notFound()
	case database.IsUniqueViolation(err):
		return apierror.BadRequest(s.kind + " already exists")
	default:
		return err
	}
}

func (s *TaxonomyService) notFound() error {
	return apierror.NotFound(s.kind + " not found")
}
