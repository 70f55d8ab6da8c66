package models

// RevenueBucket is one day of aggregated order revenue for the trend report
type RevenueBucket struct {
	Day     string  `json:"day" db:"day"` // YYYY-MM-DD
	Orders  int64   `json:"orders" db:"orders"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

// DashboardMetrics is the aggregate snapshot served to the back-office home
// screen.
type DashboardMetrics struct {
	TotalOrders    int64                 `json:"total_orders"`
	TotalRevenue   float64               `json:"total_revenue"`
	TotalCustomers int64                 `json:"total_customers"`
	TotalProducts  int64                 `json:"total_products"`
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
	LowStockCount  int64                 `json:"low_stock_count"`
	RevenueToday   float64               `json:"revenue_today"`
	RevenueMonth   float64               `json:"revenue_month"`
}
