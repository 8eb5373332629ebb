package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/vendra/licensing-api/internal/models"
)

// customerColumns is the canonical select list for the customers table.
const customerColumns = `id, first_name, last_name, company, email, phone, customer_type,
	street, city, postal_code, country, user_id, can_login, status,
	assigned_to_id, approved_at, approved_by_id, notes, created_at, updated_at`

// CustomerRepository provides data access methods for the customers table.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer and fills in the generated id and timestamps.
func (r *CustomerRepository) Create(c *models.Customer) error {
	const q = `
		INSERT INTO customers (
			first_name, last_name, company, email, phone, customer_type,
			street, city, postal_code, country, user_id, can_login, status,
			assigned_to_id, notes
		) VALUES (
			$1,$2,$3,$4,$5,$6,
			$7,$8,$9,$10,$11,$12,$13,
			$14,$15
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		c.FirstName, c.LastName, c.Company, c.Email, c.Phone, c.CustomerType,
		c.Street, c.City, c.PostalCode, c.Country, c.UserID, c.CanLogin, c.Status,
		c.AssignedToID, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a customer by id, or sql.ErrNoRows when absent.
func (r *CustomerRepository) GetByID(id int) (*models.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 LIMIT 1`
	var c models.Customer
	if err := r.db.Get(&c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByEmail returns a customer by email, or sql.ErrNoRows when absent.
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE email = $1 LIMIT 1`
	var c models.Customer
	if err := r.db.Get(&c, q, email); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns customers ordered by company, then contact name.
func (r *CustomerRepository) List(limit, offset int) ([]models.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers
		ORDER BY LOWER(COALESCE(company, '')), LOWER(first_name), LOWER(last_name), id
		LIMIT $1 OFFSET $2`
	var list []models.Customer
	if err := r.db.Select(&list, q, limit, offset); err != nil {
		return nil, err
	}
	return list, nil
}

// Search performs a case-insensitive substring match across name, company,
// email and phone.
func (r *CustomerRepository) Search(query string) ([]models.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers
		WHERE first_name ILIKE $1
		   OR last_name ILIKE $1
		   OR COALESCE(company, '') ILIKE $1
		   OR email ILIKE $1
		   OR COALESCE(phone, '') ILIKE $1
		ORDER BY LOWER(COALESCE(company, '')), LOWER(first_name), LOWER(last_name), id`
	var list []models.Customer
	if err := r.db.Select(&list, q, "%"+query+"%"); err != nil {
		return nil, err
	}
	return list, nil
}

// Update writes all mutable customer fields and stamps updated_at.
func (r *CustomerRepository) Update(c *models.Customer) error {
	const q = `UPDATE customers SET
			first_name = $2, last_name = $3, company = $4, email = $5, phone = $6,
			customer_type = $7, street = $8, city = $9, postal_code = $10, country = $11,
			user_id = $12, can_login = $13, status = $14, assigned_to_id = $15,
			approved_at = $16, approved_by_id = $17, notes = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowx(q,
		c.ID,
		c.FirstName, c.LastName, c.Company, c.Email, c.Phone,
		c.CustomerType, c.Street, c.City, c.PostalCode, c.Country,
		c.UserID, c.CanLogin, c.Status, c.AssignedToID,
		c.ApprovedAt, c.ApprovedByID, c.Notes,
	).Scan(&c.UpdatedAt)
	return err
}

// Delete hard-deletes a customer and reports whether a row was removed.
// Deleting a customer referenced by contracts fails with a foreign-key
// violation from the database.
func (r *CustomerRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Count returns the total number of customers.
func (r *CustomerRepository) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM customers`)
	return n, err
}

// CountByStatus returns the number of customers in the given workflow state.
func (r *CustomerRepository) CountByStatus(status models.CustomerStatus) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM customers WHERE status = $1`, status)
	return n, err
}
