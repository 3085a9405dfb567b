package model

import "github.com/shopspring/decimal"

// Stat is a single dashboard figure with its change against the
// previous period, as the backend reports it.
type Stat struct {
	Value  decimal.Decimal `json:"value"`
	Change float64         `json:"change"`
}

type DashboardStats struct {
	Revenue       Stat `json:"revenue"`
	Orders        Stat `json:"orders"`
	AvgOrderValue Stat `json:"avgOrderValue"`
	NewCustomers  Stat `json:"newCustomers"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type HourlyRevenue struct {
	Hour    string          `json:"hour"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SoldItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardSummary is the aggregate payload behind the stat cards and
// charts, refetched wholesale instead of maintained incrementally.
type DashboardSummary struct {
	Stats             DashboardStats  `json:"stats"`
	OrderStatusData   []StatusCount   `json:"orderStatusData"`
	HourlyRevenueData []HourlyRevenue `json:"hourlyRevenueData"`
	MostSoldItems     []SoldItem      `json:"mostSoldItems"`
}

type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalOrders int `json:"totalOrders"`
	TotalPages  int `json:"totalPages"`
}

// OrdersPage is the paginated listing envelope returned by the admin
// orders endpoint.
type OrdersPage struct {
	Message  string   `json:"message,omitempty"`
	Filter   string   `json:"filter,omitempty"`
	PageInfo PageInfo `json:"pageInfo"`
	Orders   []Order  `json:"orders"`
}
