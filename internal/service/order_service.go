package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type orderStore interface {
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	FindByID(ctx context.Context, id string) (model.Order, error)
	Create(ctx context.Context, o model.Order) error
	MarkPaid(ctx context.Context, id string, result model.PaymentResult, at time.Time) error
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type OrderService struct {
	orders orderStore
	now    func() time.Time
}

func NewOrderService(orders orderStore) *OrderService {
	return &OrderService{orders: orders, now: func() time.Time { return time.Now().UTC() }}
}

func (s *OrderService) Create(ctx context.Context, user model.User, req model.CreateOrderRequest) (model.Order, error) {
	if len(req.OrderItems) == 0 {
		return model.Order{}, apierror.BadRequest("No order items")
	}

	now := s.now()
	order := model.Order{
		ID:              uuid.NewString(),
		User:            model.Ref{ID: user.ID, Name: user.Name},
		UserEmail:       user.Email,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get is limited to the order's owner and admins.
func (s *OrderService) Get(ctx context.Context, user model.User, id string) (model.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if order.User.ID != user.ID && !user.IsAdmin() {
		return model.Order{}, apierror.Forbidden("You are not authorized to view this order")
	}
	return order, nil
}

func (s *OrderService) Pay(ctx context.Context, user model.User, id string, req model.PayOrderRequest) (model.Order, error) {
	if _, err := s.Get(ctx, user, id); err != nil {
		return model.Order{}, err
	}

	result := model.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	}
	if err := s.orders.MarkPaid(ctx, id, result, s.now()); err != nil {
		return model.Order{}, notFoundAs(err, "Order not found")
	}
	return s.find(ctx, id)
}

func (s *OrderService) Deliver(ctx context.Context, id string) (model.Order, error) {
	if err := s.orders.MarkDelivered(ctx, id, s.now()); err != nil {
		return model.Order{}, notFoundAs(err, "Order not found")
	}
	return s.find(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return notFoundAs(s.orders.Delete(ctx, id), "Order not found")
}

func (s *OrderService) find(ctx context.Context, id string) (model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return model.Order{}, notFoundAs(err, "Order not found")
	}
	return order, nil
}

// notFoundAs maps model.ErrNotFound to a 404 carrying message and passes other errors through.
func notFoundAs(err error, message string) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NotFound(message)
	}
	return err
}
