package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/utils"
)

// maxDocumentSize caps purchase-order uploads at 10 MiB.
const maxDocumentSize = 10 << 20

// PurchaseOrderHandler handles purchase-order document endpoints.
type PurchaseOrderHandler struct {
	poService *service.PurchaseOrderService
}

// NewPurchaseOrderHandler constructs a PurchaseOrderHandler.
func NewPurchaseOrderHandler(poService *service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

// UploadPurchaseOrder handles POST /v1/admin/purchase-orders (multipart).
func (h *PurchaseOrderHandler) UploadPurchaseOrder(c *gin.Context) {
	contractID, err := strconv.Atoi(c.PostForm("contractId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "contractId is required")
		return
	}
	poNumber := c.PostForm("poNumber")
	if poNumber == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "poNumber is required")
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read document")
		return
	}
	if len(data) > maxDocumentSize {
		utils.Error(c, 400, "FILE_TOO_LARGE", "Document exceeds the 10 MiB limit")
		return
	}

	po, err := h.poService.Upload(c.Request.Context(), &service.UploadRequest{
		ContractID:  contractID,
		PONumber:    poNumber,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		serviceError(c, err, "Failed to upload purchase order")
		return
	}

	utils.Success(c, 201, "Purchase order uploaded", po)
}

// GetPurchaseOrder handles GET /v1/admin/purchase-orders/:id
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	po, err := h.poService.Get(id)
	if err != nil {
		serviceError(c, err, "Failed to retrieve purchase order")
		return
	}

	utils.Success(c, 200, "Purchase order retrieved", po)
}

// ListPurchaseOrders handles GET /v1/admin/purchase-orders filtered by
// ?contractId=, ?customerId=, or ?status=.
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	if raw := c.Query("contractId"); raw != "" {
		contractID, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_ID", "Invalid contractId")
			return
		}
		orders, err := h.poService.ListByContract(contractID)
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve purchase orders")
			return
		}
		utils.Success(c, 200, "Purchase orders retrieved", gin.H{
			"purchaseOrders": orders,
			"total":          len(orders),
		})
		return
	}

	if raw := c.Query("customerId"); raw != "" {
		customerID, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_ID", "Invalid customerId")
			return
		}
		orders, err := h.poService.ListByCustomer(customerID)
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve purchase orders")
			return
		}
		utils.Success(c, 200, "Purchase orders retrieved", gin.H{
			"purchaseOrders": orders,
			"total":          len(orders),
		})
		return
	}

	status := models.PurchaseOrderStatus(c.DefaultQuery("status", string(models.PurchaseOrderStatusPending)))
	orders, err := h.poService.ListByStatus(status)
	if err != nil {
		serviceError(c, err, "Failed to retrieve purchase orders")
		return
	}

	utils.Success(c, 200, "Purchase orders retrieved", gin.H{
		"purchaseOrders": orders,
		"total":          len(orders),
	})
}

// ReviewPurchaseOrder handles POST /v1/admin/purchase-orders/:id/review
func (h *PurchaseOrderHandler) ReviewPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string  `json:"status" binding:"required"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "status is required")
		return
	}

	po, err := h.poService.Review(id, models.PurchaseOrderStatus(req.Status), req.Notes, c.GetInt("user_id"))
	if err != nil {
		serviceError(c, err, "Failed to review purchase order")
		return
	}

	utils.Success(c, 200, "Purchase order reviewed", po)
}

// DeletePurchaseOrder handles DELETE /v1/admin/purchase-orders/:id
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.poService.Delete(id)
	if err != nil {
		serviceError(c, err, "Failed to delete purchase order")
		return
	}
	if !deleted {
		utils.Error(c, 404, "NOT_FOUND", "Purchase order not found")
		return
	}

	utils.Success(c, 200, "Purchase order deleted", nil)
}
