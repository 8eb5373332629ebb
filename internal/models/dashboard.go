package models

import "github.com/shopspring/decimal"

// DashboardStats is the aggregate metrics snapshot over all contracts.
// Revenue figures sum net amounts; TotalRevenue covers PAID contracts,
// ActiveRevenue covers BILLED, RECEIVED and PAID, OverdueAmount covers LATE.
type DashboardStats struct {
	TotalContracts int `db:"total_contracts" json:"totalContracts"`

	PendingCount  int `db:"pending_count" json:"pendingCount"`
	BilledCount   int `db:"billed_count" json:"billedCount"`
	ReceivedCount int `db:"received_count" json:"receivedCount"`
	PaidCount     int `db:"paid_count" json:"paidCount"`
	LateCount     int `db:"late_count" json:"lateCount"`
	CanceledCount int `db:"canceled_count" json:"canceledCount"`

	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"totalRevenue"`
	ActiveRevenue decimal.Decimal `db:"active_revenue" json:"activeRevenue"`
	OverdueCount  int             `db:"overdue_count" json:"overdueCount"`
	OverdueAmount decimal.Decimal `db:"overdue_amount" json:"overdueAmount"`
}
