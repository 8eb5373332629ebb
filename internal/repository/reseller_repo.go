package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/vendra/licensing-api/internal/models"
)

const resellerColumns = `id, name, contact_name, email, phone, margin_percentage,
	street, city, postal_code, country, is_active, created_at, updated_at`

// ResellerRepository provides data access methods for the resellers table.
type ResellerRepository struct {
	db *sqlx.DB
}

// NewResellerRepository creates a new ResellerRepository.
func NewResellerRepository(db *sqlx.DB) *ResellerRepository {
	return &ResellerRepository{db: db}
}

// Create inserts a reseller and fills in the generated id and timestamps.
func (r *ResellerRepository) Create(rs *models.Reseller) error {
	const q = `
		INSERT INTO resellers (
			name, contact_name, email, phone, margin_percentage,
			street, city, postal_code, country, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		rs.Name, rs.ContactName, rs.Email, rs.Phone, rs.MarginPercentage,
		rs.Street, rs.City, rs.PostalCode, rs.Country, rs.IsActive,
	).Scan(&rs.ID, &rs.CreatedAt, &rs.UpdatedAt)
}

// GetByID returns a reseller by id, or sql.ErrNoRows when absent.
func (r *ResellerRepository) GetByID(id int) (*models.Reseller, error) {
	const q = `SELECT ` + resellerColumns + ` FROM resellers WHERE id = $1 LIMIT 1`
	var rs models.Reseller
	if err := r.db.Get(&rs, q, id); err != nil {
		return nil, err
	}
	return &rs, nil
}

// List returns resellers ordered by name.
func (r *ResellerRepository) List(limit, offset int) ([]models.Reseller, error) {
	const q = `SELECT ` + resellerColumns + ` FROM resellers
		ORDER BY LOWER(name), id
		LIMIT $1 OFFSET $2`
	var list []models.Reseller
	if err := r.db.Select(&list, q, limit, offset); err != nil {
		return nil, err
	}
	return list, nil
}

// Update writes all mutable reseller fields and stamps updated_at.
func (r *ResellerRepository) Update(rs *models.Reseller) error {
	const q = `UPDATE resellers SET
			name = $2, contact_name = $3, email = $4, phone = $5, margin_percentage = $6,
			street = $7, city = $8, postal_code = $9, country = $10, is_active = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowx(q,
		rs.ID,
		rs.Name, rs.ContactName, rs.Email, rs.Phone, rs.MarginPercentage,
		rs.Street, rs.City, rs.PostalCode, rs.Country, rs.IsActive,
	).Scan(&rs.UpdatedAt)
}

// Delete hard-deletes a reseller and reports whether a row was removed.
// Contracts referencing it keep their row; the FK is ON DELETE SET NULL so
// joined reads degrade to a nil reseller.
func (r *ResellerRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM resellers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Count returns the total number of resellers.
func (r *ResellerRepository) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM resellers`)
	return n, err
}
