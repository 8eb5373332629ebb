package sse

import (
	"time"

	"github.com/vendra/licensing-api/internal/models"
)

// ContractNotifier is the interface handlers use to emit contract events.
type ContractNotifier interface {
	NotifyContractCreated(ct *models.Contract)
	NotifyContractStatusChanged(ct *models.Contract)
}

// HubNotifier implements ContractNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyContractCreated(ct *models.Contract) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(contractToEvent(EventContractCreated, ct))
}

func (n *HubNotifier) NotifyContractStatusChanged(ct *models.Contract) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(contractToEvent(EventContractStatusChanged, ct))
}

func contractToEvent(eventType EventType, ct *models.Contract) *ContractEvent {
	return &ContractEvent{
		Event:         eventType,
		ContractID:    ct.ID,
		CustomerID:    ct.CustomerID,
		ProductID:     ct.ProductID,
		BillingStatus: string(ct.BillingStatus),
		Amount:        ct.Amount.String(),
		NetAmount:     ct.NetAmount.String(),
		Timestamp:     time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyContractCreated(ct *models.Contract)       {}
func (n *NopNotifier) NotifyContractStatusChanged(ct *models.Contract) {}
