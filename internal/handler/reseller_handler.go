package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/utils"
)

// ResellerHandler handles reseller management HTTP endpoints.
type ResellerHandler struct {
	resellerService *service.ResellerService
}

// NewResellerHandler constructs a ResellerHandler.
func NewResellerHandler(resellerService *service.ResellerService) *ResellerHandler {
	return &ResellerHandler{resellerService: resellerService}
}

// CreateReseller handles POST /v1/admin/resellers
func (h *ResellerHandler) CreateReseller(c *gin.Context) {
	var req service.CreateResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	reseller, err := h.resellerService.Create(&req)
	if err != nil {
		serviceError(c, err, "Failed to create reseller")
		return
	}

	utils.Success(c, 201, "Reseller created successfully", reseller)
}

// GetReseller handles GET /v1/admin/resellers/:id
func (h *ResellerHandler) GetReseller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reseller, err := h.resellerService.Get(id)
	if err != nil {
		serviceError(c, err, "Failed to retrieve reseller")
		return
	}

	utils.Success(c, 200, "Reseller retrieved", reseller)
}

// ListResellers handles GET /v1/admin/resellers
func (h *ResellerHandler) ListResellers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	resellers, err := h.resellerService.List(limit, (page-1)*limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve resellers")
		return
	}
	total, err := h.resellerService.Count()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve resellers")
		return
	}

	utils.SuccessWithPagination(c, 200, "Resellers retrieved", gin.H{
		"resellers": resellers,
	}, page, limit, total)
}

// UpdateReseller handles PATCH /v1/admin/resellers/:id
func (h *ResellerHandler) UpdateReseller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch service.ResellerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	reseller, err := h.resellerService.Update(id, &patch)
	if err != nil {
		serviceError(c, err, "Failed to update reseller")
		return
	}

	utils.Success(c, 200, "Reseller updated successfully", reseller)
}

// DeleteReseller handles DELETE /v1/admin/resellers/:id
// Contracts referencing the reseller keep their historical net amounts and
// degrade to a null reseller.
func (h *ResellerHandler) DeleteReseller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.resellerService.Delete(id)
	if err != nil {
		serviceError(c, err, "Failed to delete reseller")
		return
	}
	if !deleted {
		utils.Error(c, 404, "NOT_FOUND", "Reseller not found")
		return
	}

	utils.Success(c, 200, "Reseller deleted", nil)
}
