package entity

import "time"

// Order statuses walk forward only; Cancelled is terminal from any state.
const (
	OrderStatusDraft     = "draft"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderDraft is a customer-confirmed purchase intent captured by the agent.
type OrderDraft struct {
	Id           int64
	UserId       string
	ProductName  string
	Quantity     int
	TotalPrice   float64
	CustomerName string
	Address      string
	Phone        string
	Status       string
	TrackingNo   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
