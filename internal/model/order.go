package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID            int64           `json:"id"`
	PublicID      string          `json:"publicId"`
	CustomerName  string          `json:"customerName,omitempty"`
	TableNo       *int            `json:"tableNo"`
	OrderType     string          `json:"orderType,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Paid          bool            `json:"paid"`
	Status        string          `json:"status"`
	OrderItems    []OrderItem     `json:"order_items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderItem struct {
	Quantity int  `json:"quantity"`
	Item     Item `json:"item"`
}

type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

var statusRank = map[string]int{
	OrderStatusPending:   0,
	OrderStatusAccepted:  1,
	OrderStatusPreparing: 2,
	OrderStatusReady:     3,
	OrderStatusCompleted: 4,
}

func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

func TerminalStatus(s string) bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether a locally initiated status change is allowed:
// forward-only progression, cancellation from any non-terminal state.
// Server-pushed state is applied without this check.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) || TerminalStatus(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}
