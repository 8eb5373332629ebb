package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/utils"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "email and password are required")
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrAccountInactive) {
			utils.Error(c, 403, "ACCOUNT_INACTIVE", "Account is not active")
			return
		}
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}

// CreateUser handles POST /v1/admin/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	role := models.UserRole(req.Role)
	if !models.ValidUserRole(role) {
		utils.Error(c, 400, "INVALID_ROLE", "role must be staff or customer")
		return
	}

	user, err := h.authService.CreateUser(req.Email, req.Password, req.Name, role)
	if err != nil {
		serviceError(c, err, "Failed to create user")
		return
	}

	utils.Success(c, 201, "User created successfully", user)
}
