package repo

type TopCompany struct {
	Name          string `json:"name"`
	CustomerCount int    `json:"customer_count"`
}

type CustomerMetrics struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	TotalRevenue float64        `json:"total_revenue"`
	TopCompany   TopCompany     `json:"top_company"`
}

type ProductMetrics struct {
	Total      int `json:"total"`
	OutOfStock int `json:"out_of_stock"`
}

type OrderMetrics struct {
	Total   int     `json:"total"`
	Revenue float64 `json:"revenue"`
}

type Metrics struct {
	Customers CustomerMetrics `json:"customers"`
	Products  ProductMetrics  `json:"products"`
	Orders    OrderMetrics    `json:"orders"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
