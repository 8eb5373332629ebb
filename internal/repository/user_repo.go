package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/vendra/licensing-api/internal/models"
)

// UserRepository provides data access methods for login accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and fills in the generated id and timestamps.
func (r *UserRepository) Create(u *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, name, role, is_active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns a user by id, or sql.ErrNoRows when absent.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns a user by email, or sql.ErrNoRows when absent.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM users WHERE email = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users, newest first.
func (r *UserRepository) List(limit, offset int) ([]models.User, error) {
	const q = `SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	var list []models.User
	if err := r.db.Select(&list, q, limit, offset); err != nil {
		return nil, err
	}
	return list, nil
}
