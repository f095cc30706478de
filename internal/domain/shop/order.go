package shop

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusWaiting    OrderStatus = "waiting"
	OrderStatusExpiring   OrderStatus = "expiring"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists every valid status in display order
var OrderStatuses = []OrderStatus{
	OrderStatusWaiting,
	OrderStatusExpiring,
	OrderStatusCancelled,
	OrderStatusShipped,
	OrderStatusProcessing,
	OrderStatusDelivered,
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// String returns the status value
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal reports whether the order can no longer change
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ParseOrderStatus converts a string to an OrderStatus, rejecting unknown values
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_ORDER_STATUS",
			"\""+s+"\" is not a valid order status.")
	}
	return status, nil
}

// Order is a placed order as seen by the account side
type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Status        OrderStatus
	ReceiverName  string
	PostalAddress string
	Created       time.Time
}
