package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/internal/model"
)

type fakeOrders struct {
	items map[string]model.Order
}

func (f *fakeOrders) List(context.Context) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.items {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.items {
		if o.User.ID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (model.Order, error) {
	o, ok := f.items[id]
	if !ok {
		return model.Order{}, model.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) Create(_ context.Context, o model.Order) error {
	f.items[o.ID] = o
	return nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id string, result model.PaymentResult, at time.Time) error {
	o, ok := f.items[id]
	if !ok {
		return model.ErrNotFound
	}
	o.IsPaid, o.PaidAt, o.PaymentResult = true, &at, &result
	f.items[id] = o
	return nil
}

func (f *fakeOrders) MarkDelivered(_ context.Context, id string, at time.Time) error {
	o, ok := f.items[id]
	if !ok {
		return model.ErrNotFound
	}
	o.IsDelivered, o.DeliveredAt = true, &at
	f.items[id] = o
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestOrderLifecycle(t *testing.T) {
	svc := NewOrderService(&fakeOrders{items: map[string]model.Order{}})
	ctx := context.Background()
	owner := model.User{ID: "u1", Name: "Alice", Email: "a@b.com", Role: model.RoleUser}
	other := model.User{ID: "u2", Role: model.RoleUser}
	admin := model.User{ID: "root", Role: model.RoleAdmin}

	_, err := svc.Create(ctx, owner, model.CreateOrderRequest{PaymentMethod: "card"})
	requireAPIError(t, err, 400, "No order items")

	order, err := svc.Create(ctx, owner, model.CreateOrderRequest{
		OrderItems:    []model.OrderItem{{Product: "p1", Name: "Lamp", Quantity: 1, Price: 10}},
		PaymentMethod: "card",
		TotalPrice:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", order.User.Name)

	_, err = svc.Get(ctx, other, order.ID)
	requireAPIError(t, err, 403, "You are not authorized to view this order")

	_, err = svc.Get(ctx, admin, order.ID)
	require.NoError(t, err)

	paid, err := svc.Pay(ctx, owner, order.ID, model.PayOrderRequest{ID: "pay-1", Status: "COMPLETED"})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "pay-1", paid.PaymentResult.ID)

	delivered, err := svc.Deliver(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)

	mine, err := svc.ListMine(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.Deliver(ctx, order.ID)
	requireAPIError(t, err, 404, "Order not found")
}
