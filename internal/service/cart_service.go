package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type cartStore interface {
	GetOrCreate(ctx context.Context, userID string) (model.Cart, error)
	AddItem(ctx context.Context, cartID string, productID string, qty int) error
	SetItemQuantity(ctx context.Context, cartID string, productID string, qty int) error
	RemoveItem(ctx context.Context, cartID string, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type productFinder interface {
	FindByID(ctx context.Context, id string) (model.Product, error)
}

type CartService struct {
	carts    cartStore
	products productFinder
}

func NewCartService(carts cartStore, products productFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID string) (model.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// AddItem increments the line for productID; the store rejects increments past stock atomically.
func (s *CartService) AddItem(ctx context.Context, userID string, req model.AddToCartRequest) (model.Cart, error) {
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return model.Cart{}, err
	}
	if qty > product.Quantity {
		return model.Cart{}, notEnoughStock(product.Quantity)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	if err := s.carts.AddItem(ctx, cart.ID, product.ID, qty); err != nil {
		if errors.Is(err, model.ErrInsufficientStock) {
			return model.Cart{}, notEnoughStock(product.Quantity)
		}
		return model.Cart{}, err
	}
	return s.carts.GetOrCreate(ctx, userID)
}

// UpdateItem sets an absolute quantity; zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID string, productID string, qty int) (model.Cart, error) {
	if qty == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	err = s.carts.SetItemQuantity(ctx, cart.ID, productID, qty)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.Cart{}, apierror.NotFound("Product not in cart")
	case errors.Is(err, model.ErrInsufficientStock):
		product, perr := s.product(ctx, productID)
		if perr != nil {
			return model.Cart{}, perr
		}
		return model.Cart{}, notEnoughStock(product.Quantity)
	case err != nil:
		return model.Cart{}, err
	}
	return s.carts.GetOrCreate(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID string) (model.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Cart{}, apierror.NotFound("Product not in cart")
		}
		return model.Cart{}, err
	}
	return s.carts.GetOrCreate(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) (model.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return model.Cart{}, err
	}
	cart.Items = []model.CartItem{}
	return cart, nil
}

func (s *CartService) product(ctx context.Context, id string) (model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierror.NotFound("Product not found")
	}
	return p, err
}

func notEnoughStock(available int) error {
	return apierror.BadRequest(fmt.Sprintf("Not enough stock. Available: %d", available))
}
