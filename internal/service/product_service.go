package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type productStore interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, id string, p model.NewProduct, now time.Time) error
	Update(ctx context.Context, id string, upd model.ProductUpdate) error
	Delete(ctx context.Context, id string) error
}

type existenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type reviewLister interface {
	List(ctx context.Context, productID string) ([]model.Review, error)
}

// fileDiscarder removes stored uploads by public URL.
type fileDiscarder interface {
	Discard(url string)
}

type ProductService struct {
	products   productStore
	categories existenceChecker
	brands     existenceChecker
	companies  existenceChecker
	reviews    reviewLister
	files      fileDiscarder
	now        func() time.Time
}

type ProductDeps struct {
	Products   productStore
	Categories existenceChecker
	Brands     existenceChecker
	Companies  existenceChecker
	Reviews    reviewLister
	Files      fileDiscarder
}

func NewProductService(deps ProductDeps) *ProductService {
	return &ProductService{
		products:   deps.Products,
		categories: deps.Categories,
		brands:     deps.Brands,
		companies:  deps.Companies,
		reviews:    deps.Reviews,
		files:      deps.Files,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierror.NotFound("Product not found")
	}
	return p, err
}

func (s *ProductService) GetWithReviews(ctx context.Context, id string) (model.ProductWithReviews, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return model.ProductWithReviews{}, err
	}
	reviews, err := s.reviews.List(ctx, id)
	if err != nil {
		return model.ProductWithReviews{}, err
	}
	return model.ProductWithReviews{Product: p, Reviews: reviews}, nil
}

func (s *ProductService) Create(ctx context.Context, creatorID string, req model.CreateProductRequest) (model.Product, error) {
	if err := s.checkReferences(ctx, &req.Category, req.Brand, req.Company); err != nil {
		return model.Product{}, err
	}

	id := uuid.NewString()
	np := model.NewProduct{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Image:       req.Image,
		Quantity:    req.Quantity,
		CategoryID:  req.Category,
		BrandID:     nonEmpty(req.Brand),
		CompanyID:   nonEmpty(req.Company),
		CreatedBy:   creatorID,
	}
	if err := s.products.Create(ctx, id, np, s.now()); err != nil {
		return model.Product{}, err
	}
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id string, req model.UpdateProductRequest) (model.Product, error) {
	if err := s.checkReferences(ctx, req.Category, req.Brand, req.Company); err != nil {
		return model.Product{}, err
	}

	upd := model.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Quantity:    req.Quantity,
		CategoryID:  req.Category,
		BrandID:     nonEmpty(req.Brand),
		CompanyID:   nonEmpty(req.Company),
	}
	return s.update(ctx, id, upd)
}

// Delete removes the product and then every image it referenced.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NotFound("Product not found")
		}
		return err
	}

	s.files.Discard(p.Image)
	for _, img := range p.Images {
		s.files.Discard(img)
	}
	return nil
}

// SetImage replaces the main image and discards the previous one.
func (s *ProductService) SetImage(ctx context.Context, id string, url string) (model.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	updated, err := s.update(ctx, id, model.ProductUpdate{Image: &url})
	if err != nil {
		return model.Product{}, err
	}
	if current.Image != "" && current.Image != url {
		s.files.Discard(current.Image)
	}
	return updated, nil
}

// AddImages appends to the gallery, or replaces it (discarding old files) when replace is set.
func (s *ProductService) AddImages(ctx context.Context, id string, urls []string, replace bool) (model.Product, string, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Product{}, "", err
	}

	images := make([]string, 0, len(current.Images)+len(urls))
	if !replace {
		images = append(images, current.Images...)
	}
	images = append(images, urls...)

	updated, err := s.update(ctx, id, model.ProductUpdate{Images: &images})
	if err != nil {
		return model.Product{}, "", err
	}
	if replace {
		for _, old := range current.Images {
			s.files.Discard(old)
		}
	}
	return updated, fmt.Sprintf("Successfully uploaded %d image(s)", len(urls)), nil
}

func (s *ProductService) update(ctx context.Context, id string, upd model.ProductUpdate) (model.Product, error) {
	err := s.products.Update(ctx, id, upd)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierror.NotFound("Product not found")
	}
	if err != nil {
		return model.Product{}, err
	}
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) checkReferences(ctx context.Context, category, brand, company *string) error {
	checks := []struct {
		id    *string
		store existenceChecker
		label string
	}{
		{category, s.categories, "Category"},
		{brand, s.brands, "Brand"},
		{company, s.companies, "Company"},
	}
	for _, c := range checks {
		if c.id == nil || *c.id == "" {
			continue
		}
		ok, err := c.store.Exists(ctx, *c.id)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.BadRequest(c.label + " not found")
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
