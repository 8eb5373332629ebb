package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/utils"
)

// CustomerHandler handles customer management HTTP endpoints.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer handles POST /v1/admin/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	customer, err := h.customerService.Create(&req)
	if err != nil {
		serviceError(c, err, "Failed to create customer")
		return
	}

	utils.Success(c, 201, "Customer created successfully", customer)
}

// GetCustomer handles GET /v1/admin/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Get(id)
	if err != nil {
		serviceError(c, err, "Failed to retrieve customer")
		return
	}

	utils.Success(c, 200, "Customer retrieved", customer)
}

// ListCustomers handles GET /v1/admin/customers with optional ?q= search.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		customers, err := h.customerService.Search(q)
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to search customers")
			return
		}
		utils.Success(c, 200, "Customers retrieved", gin.H{
			"customers": customers,
			"total":     len(customers),
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

	customers, err := h.customerService.List(limit, (page-1)*limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customers")
		return
	}
	total, err := h.customerService.Count()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customers")
		return
	}

	utils.SuccessWithPagination(c, 200, "Customers retrieved", gin.H{
		"customers": customers,
	}, page, limit, total)
}

// UpdateCustomer handles PATCH /v1/admin/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch service.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	customer, err := h.customerService.Update(id, &patch)
	if err != nil {
		serviceError(c, err, "Failed to update customer")
		return
	}

	utils.Success(c, 200, "Customer updated successfully", customer)
}

// ApproveCustomer handles POST /v1/admin/customers/:id/approve
func (h *CustomerHandler) ApproveCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Approve(id, c.GetInt("user_id"))
	if err != nil {
		serviceError(c, err, "Failed to approve customer")
		return
	}

	utils.Success(c, 200, "Customer approved", customer)
}

// DeleteCustomer handles DELETE /v1/admin/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.customerService.Delete(id)
	if err != nil {
		serviceError(c, err, "Failed to delete customer")
		return
	}
	if !deleted {
		utils.Error(c, 404, "NOT_FOUND", "Customer not found")
		return
	}

	utils.Success(c, 200, "Customer deleted", nil)
}
