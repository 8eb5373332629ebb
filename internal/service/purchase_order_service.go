package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/utils"
)

// DocumentUploader stores a document and returns its storage path.
type DocumentUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// PurchaseOrderService handles purchase-order uploads and staff review.
type PurchaseOrderService struct {
	orders    *repository.PurchaseOrderRepository
	contracts ContractStore
	storage   DocumentUploader
}

// NewPurchaseOrderService constructs a PurchaseOrderService. storage may be
// nil, in which case uploads record metadata without storing file content.
func NewPurchaseOrderService(orders *repository.PurchaseOrderRepository, contracts ContractStore, storage DocumentUploader) *PurchaseOrderService {
	return &PurchaseOrderService{orders: orders, contracts: contracts, storage: storage}
}

// UploadRequest carries an uploaded purchase-order document.
type UploadRequest struct {
	ContractID  int
	PONumber    string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload stores the document and creates the pending metadata row. The
// customer on the PO is taken from the contract, never from the caller.
func (s *PurchaseOrderService) Upload(ctx context.Context, req *UploadRequest) (*models.PurchaseOrder, error) {
	if req.PONumber == "" || req.FileName == "" || len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: po number, file name and content are required", utils.ErrValidation)
	}

	ct, err := s.contracts.GetByID(req.ContractID)
	if err != nil {
		return nil, wrapLookupErr(err, "contract")
	}

	storagePath := fmt.Sprintf("purchase-orders/%d/%s%s", ct.ID, uuid.New().String(), path.Ext(req.FileName))
	if s.storage != nil {
		if storagePath, err = s.storage.Upload(ctx, storagePath, req.Data, req.ContentType); err != nil {
			return nil, err
		}
	}

	po := &models.PurchaseOrder{
		ContractID:  ct.ID,
		CustomerID:  ct.CustomerID,
		PONumber:    req.PONumber,
		FileName:    req.FileName,
		FileSize:    int64(len(req.Data)),
		StoragePath: storagePath,
		Status:      models.PurchaseOrderStatusPending,
	}
	if err := s.orders.Create(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Get returns a purchase order, or ErrNotFound when absent.
func (s *PurchaseOrderService) Get(id int) (*models.PurchaseOrder, error) {
	po, err := s.orders.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "purchase order")
	}
	return po, nil
}

// ListByContract returns a contract's purchase orders, newest first.
func (s *PurchaseOrderService) ListByContract(contractID int) ([]models.PurchaseOrder, error) {
	return s.orders.ListByContract(contractID)
}

// ListByCustomer returns a customer's purchase orders, newest first.
func (s *PurchaseOrderService) ListByCustomer(customerID int) ([]models.PurchaseOrder, error) {
	return s.orders.ListByCustomer(customerID)
}

// ListByStatus returns purchase orders in a review state, newest first.
func (s *PurchaseOrderService) ListByStatus(status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	if !models.ValidPurchaseOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown purchase order status %q", utils.ErrValidation, status)
	}
	return s.orders.ListByStatus(status)
}

// Review records a staff review outcome. Only pending orders can be
// reviewed; the stored file is immutable either way.
func (s *PurchaseOrderService) Review(id int, status models.PurchaseOrderStatus, notes *string, reviewerID int) (*models.PurchaseOrder, error) {
	if status != models.PurchaseOrderStatusApproved && status != models.PurchaseOrderStatusRejected {
		return nil, fmt.Errorf("%w: review outcome must be approved or rejected", utils.ErrValidation)
	}

	po, err := s.orders.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "purchase order")
	}
	if po.Status != models.PurchaseOrderStatusPending {
		return nil, fmt.Errorf("%w: purchase order already reviewed as %s", utils.ErrValidation, po.Status)
	}

	po.Status = status
	po.Notes = notes
	po.ReviewedBy = &reviewerID
	if err := s.orders.UpdateReview(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Delete removes the purchase order metadata row. The stored document is
// left in place for audit.
func (s *PurchaseOrderService) Delete(id int) (bool, error) {
	return s.orders.Delete(id)
}
