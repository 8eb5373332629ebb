package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/sse"
	"github.com/vendra/licensing-api/internal/utils"
)

// ContractHandler handles licensing contract HTTP endpoints. Contract
// mutations invalidate the dashboard metrics snapshot and notify connected
// SSE clients.
type ContractHandler struct {
	contractService  *service.ContractService
	dashboardService *service.DashboardService
	notifier         sse.ContractNotifier
}

// NewContractHandler constructs a ContractHandler.
func NewContractHandler(contractService *service.ContractService, dashboardService *service.DashboardService, notifier sse.ContractNotifier) *ContractHandler {
	return &ContractHandler{contractService: contractService, dashboardService: dashboardService, notifier: notifier}
}

// CreateContract handles POST /v1/admin/contracts
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	contract, err := h.contractService.Create(&req)
	if err != nil {
		serviceError(c, err, "Failed to create contract")
		return
	}
	h.dashboardService.Invalidate(c.Request.Context())
	h.notifier.NotifyContractCreated(contract)

	utils.Success(c, 201, "Contract created successfully", contract)
}

// GetContract handles GET /v1/admin/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.Get(id)
	if err != nil {
		serviceError(c, err, "Failed to retrieve contract")
		return
	}

	utils.Success(c, 200, "Contract retrieved", contract)
}

// ListContracts handles GET /v1/admin/contracts with optional ?status= and
// ?customerId= filters.
func (h *ContractHandler) ListContracts(c *gin.Context) {
	if raw := c.Query("customerId"); raw != "" {
		customerID, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_ID", "Invalid customerId")
			return
		}
		contracts, err := h.contractService.ListByCustomer(customerID)
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve contracts")
			return
		}
		utils.Success(c, 200, "Contracts retrieved", gin.H{
			"contracts": contracts,
			"total":     len(contracts),
		})
		return
	}

	if status := c.Query("status"); status != "" {
		contracts, err := h.contractService.ListByStatus(models.BillingStatus(status))
		if err != nil {
			serviceError(c, err, "Failed to retrieve contracts")
			return
		}
		utils.Success(c, 200, "Contracts retrieved", gin.H{
			"contracts": contracts,
			"total":     len(contracts),
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	contracts, err := h.contractService.List(limit, (page-1)*limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve contracts")
		return
	}
	total, err := h.contractService.Count()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve contracts")
		return
	}

	utils.SuccessWithPagination(c, 200, "Contracts retrieved", gin.H{
		"contracts": contracts,
	}, page, limit, total)
}

// UpdateContract handles PATCH /v1/admin/contracts/:id
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch service.ContractPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	contract, err := h.contractService.Update(id, &patch)
	if err != nil {
		serviceError(c, err, "Failed to update contract")
		return
	}
	h.dashboardService.Invalidate(c.Request.Context())

	utils.Success(c, 200, "Contract updated successfully", contract)
}

// ChangeStatus handles POST /v1/admin/contracts/:id/status
func (h *ContractHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Force  bool   `json:"force"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "status is required")
		return
	}

	status := models.BillingStatus(req.Status)
	if !models.ValidBillingStatus(status) {
		utils.Error(c, 400, "INVALID_STATUS", "Unknown billing status")
		return
	}

	contract, err := h.contractService.ChangeStatus(id, status, req.Force)
	if err != nil {
		serviceError(c, err, "Failed to change billing status")
		return
	}
	h.dashboardService.Invalidate(c.Request.Context())
	h.notifier.NotifyContractStatusChanged(contract)

	utils.Success(c, 200, "Billing status updated", contract)
}

// DeleteContract handles DELETE /v1/admin/contracts/:id
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.contractService.Delete(id)
	if err != nil {
		serviceError(c, err, "Failed to delete contract")
		return
	}
	if !deleted {
		utils.Error(c, 404, "NOT_FOUND", "Contract not found")
		return
	}
	h.dashboardService.Invalidate(c.Request.Context())

	utils.Success(c, 200, "Contract deleted", nil)
}
