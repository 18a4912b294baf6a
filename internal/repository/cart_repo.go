package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-api/internal/model"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (model.Cart, error) {
	var c model.Cart
	err := r.pool.QueryRow(ctx,
		`INSERT INTO carts (id, user_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, user_id, created_at, updated_at`,
		uuid.NewString(), userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Cart{}, fmt.Errorf("get or create cart: %w", err)
	}

	items, err := r.items(ctx, c.ID)
	if err != nil {
		return model.Cart{}, err
	}
	c.Items = items
	return c, nil
}

func (r *CartRepository) items(ctx context.Context, cartID string) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.product_id, p.name, p.price, p.image, p.quantity, ci.quantity, ci.added_at
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.added_at`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Image, &it.Stock, &it.Quantity, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem increments the line by qty in a single statement guarded by product stock.
// It returns model.ErrInsufficientStock when the resulting quantity would exceed stock.
func (r *CartRepository) AddItem(ctx context.Context, cartID string, productID string, qty int) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity)
		 SELECT $1, p.id, $3 FROM products p WHERE p.id = $2 AND p.quantity >= $3
		 ON CONFLICT (cart_id, product_id) DO UPDATE
		     SET quantity = cart_items.quantity + EXCLUDED.quantity
		     WHERE cart_items.quantity + EXCLUDED.quantity <=
		           (SELECT quantity FROM products WHERE id = EXCLUDED.product_id)`,
		cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}
	return r.touch(ctx, cartID)
}

// SetItemQuantity overwrites an existing line. Missing lines yield model.ErrNotFound.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID string, productID string, qty int) error {
	var withinStock bool
	err := r.pool.QueryRow(ctx,
		`SELECT $3 <= p.quantity FROM cart_items ci JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1 AND ci.product_id = $2`,
		cartID, productID, qty).Scan(&withinStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check cart item: %w", err)
	}
	if !withinStock {
		return model.ErrInsufficientStock
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3
		 WHERE cart_id = $1 AND product_id = $2
		   AND $3 <= (SELECT quantity FROM products WHERE id = $2)`,
		cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID string, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
