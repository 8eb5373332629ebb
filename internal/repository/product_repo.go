package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vendra/licensing-api/internal/models"
)

const productColumns = `id, name, description, category, base_price, is_active,
	is_bundle, bundle_products, original_price, discount_percentage, created_at, updated_at`

// ProductRepository provides data access methods for the products table.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product and fills in the generated id and timestamps.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
		INSERT INTO products (
			name, description, category, base_price, is_active,
			is_bundle, bundle_products, original_price, discount_percentage
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.Name, p.Description, p.Category, p.BasePrice, p.IsActive,
		p.IsBundle, p.BundleProducts, p.OriginalPrice, p.DiscountPercentage,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a product by id, or sql.ErrNoRows when absent.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products with the given ids, in the order requested.
// Missing ids are skipped. Used to resolve bundle constituents.
func (r *ProductRepository) GetByIDs(ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	var rows []models.Product
	if err := r.db.Select(&rows, q, pq.Int64Array(ids)); err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Product, len(rows))
	for _, p := range rows {
		byID[int64(p.ID)] = p
	}
	ordered := make([]models.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// List returns products ordered by name.
func (r *ProductRepository) List(limit, offset int) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
		ORDER BY LOWER(name), id
		LIMIT $1 OFFSET $2`
	var list []models.Product
	if err := r.db.Select(&list, q, limit, offset); err != nil {
		return nil, err
	}
	return list, nil
}

// Update writes all mutable product fields and stamps updated_at.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `UPDATE products SET
			name = $2, description = $3, category = $4, base_price = $5, is_active = $6,
			is_bundle = $7, bundle_products = $8, original_price = $9,
			discount_percentage = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowx(q,
		p.ID,
		p.Name, p.Description, p.Category, p.BasePrice, p.IsActive,
		p.IsBundle, p.BundleProducts, p.OriginalPrice, p.DiscountPercentage,
	).Scan(&p.UpdatedAt)
}

// Delete hard-deletes a product and reports whether a row was removed.
func (r *ProductRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Count returns the total number of products.
func (r *ProductRepository) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}
