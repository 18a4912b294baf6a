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

type TaxonomyTable string

const (
	TableCategories TaxonomyTable = "categories"
	TableBrands     TaxonomyTable = "brands"
	TableCompanies  TaxonomyTable = "companies"
)

// TaxonomyRepository serves categories, brands and companies, which share one row shape.
type TaxonomyRepository struct {
	pool  *pgxpool.Pool
	table TaxonomyTable
}

func NewTaxonomyRepository(pool *pgxpool.Pool, table TaxonomyTable) *TaxonomyRepository {
	switch table {
	case TableCategories, TableBrands, TableCompanies:
	default:
		panic(fmt.Sprintf("repository: unknown taxonomy table %q", table))
	}
	return &TaxonomyRepository{pool: pool, table: table}
}

const taxonomyColumns = `id, name, description, image, created_at, updated_at`

func scanTaxonomy(row pgx.Row) (model.Taxonomy, error) {
	var t model.Taxonomy
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Image, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TaxonomyRepository) List(ctx context.Context) ([]model.Taxonomy, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY name`, taxonomyColumns, r.table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]model.Taxonomy, 0)
	for rows.Next() {
		t, err := scanTaxonomy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) FindByID(ctx context.Context, id string) (model.Taxonomy, error) {
	t, err := scanTaxonomy(r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, taxonomyColumns, r.table), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Taxonomy{}, model.ErrNotFound
	}
	if err != nil {
		return model.Taxonomy{}, fmt.Errorf("find %s by id: %w", r.table, err)
	}
	return t, nil
}

func (r *TaxonomyRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, r.table), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s exists: %w", r.table, err)
	}
	return exists, nil
}

func (r *TaxonomyRepository) Create(ctx context.Context, t model.Taxonomy) error {
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, name, description, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`, r.table),
		t.ID, t.Name, t.Description, t.Image, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create %s: %w", r.table, err)
	}
	return nil
}

func (r *TaxonomyRepository) Update(ctx context.Context, id string, upd model.TaxonomyUpdate) (model.Taxonomy, error) {
	t, err := scanTaxonomy(r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET
		     name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     image = COALESCE($4, image),
		     updated_at = $5
		 WHERE id = $1
		 RETURNING %s`, r.table, taxonomyColumns),
		id, upd.Name, upd.Description, upd.Image, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Taxonomy{}, model.ErrNotFound
	}
	if err != nil {
		return model.Taxonomy{}, fmt.Errorf("update %s: %w", r.table, err)
	}
	return t, nil
}

func (r *TaxonomyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ProductSummaries lists the products referencing the given row through its foreign key column.
func (r *TaxonomyRepository) ProductSummaries(ctx context.Context, id string) ([]model.ProductSummary, error) {
	column := map[TaxonomyTable]string{
		TableCategories: "category_id",
		TableBrands:     "brand_id",
		TableCompanies:  "company_id",
	}[r.table]

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, name, price, image FROM products WHERE %s = $1 ORDER BY created_at DESC`, column), id)
	if err != nil {
		return nil, fmt.Errorf("list %s products: %w", r.table, err)
	}
	defer rows.Close()

	out := make([]model.ProductSummary, 0)
	for rows.Next() {
		var p model.ProductSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
