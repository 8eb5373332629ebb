package service

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/utils"
)

// AuthService handles staff authentication.
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies credentials and returns a signed JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		log.Warn().Str("email", email).Msg("login attempt for unknown email")
		return "", utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("login attempt on inactive account")
		return "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Str("email", email).Msg("login successful")
	return utils.GenerateJWT(user.ID, user.Email, string(user.Role))
}

// CreateUser creates a login account with a bcrypt-hashed password.
func (s *AuthService) CreateUser(email, password, name string, role models.UserRole) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}
