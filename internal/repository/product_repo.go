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

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.image, p.images, p.quantity,
	       c.id, c.name,
	       b.id, b.name,
	       co.id, co.name,
	       u.id, u.name,
	       p.rating_average, p.ratings_quantity, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id
	LEFT JOIN companies co ON co.id = p.company_id
	JOIN users u ON u.id = p.created_by`

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p                      model.Product
		brandID, brandName     *string
		companyID, companyName *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Images, &p.Quantity,
		&p.Category.ID, &p.Category.Name,
		&brandID, &brandName,
		&companyID, &companyName,
		&p.CreatedBy.ID, &p.CreatedBy.Name,
		&p.RatingAverage, &p.RatingsQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, err
	}
	if brandID != nil {
		p.Brand = &model.Ref{ID: *brandID, Name: deref(brandName)}
	}
	if companyID != nil {
		p.Company = &model.Ref{ID: *companyID, Name: deref(companyName)}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) Create(ctx context.Context, id string, p model.NewProduct, now time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, price, image, quantity, category_id, brand_id,
		                       company_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		id, p.Name, p.Description, p.Price, p.Image, p.Quantity, p.CategoryID, p.BrandID,
		p.CompanyID, p.CreatedBy, now)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, upd model.ProductUpdate) error {
	var images []string
	if upd.Images != nil {
		images = *upd.Images
		if images == nil {
			images = []string{}
		}
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET
		     name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     price = COALESCE($4, price),
		     image = COALESCE($5, image),
		     images = CASE WHEN $6 THEN $7::text[] ELSE images END,
		     quantity = COALESCE($8, quantity),
		     category_id = COALESCE($9, category_id),
		     brand_id = COALESCE($10, brand_id),
		     company_id = COALESCE($11, company_id),
		     updated_at = $12
		 WHERE id = $1`,
		id, upd.Name, upd.Description, upd.Price, upd.Image, upd.Images != nil, images, upd.Quantity,
		upd.CategoryID, upd.BrandID, upd.CompanyID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
