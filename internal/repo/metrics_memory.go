package repo

import (
	"math"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type InMemoryMetricsRepository struct {
	customerRepo CustomerRepository
	productRepo  ProductRepository
	orderRepo    OrderRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	orderRepo OrderRepository,
) {
	i.customerRepo = customerRepo
	i.productRepo = productRepo
	i.orderRepo = orderRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{Customers: CustomerMetrics{ByStatus: emptyStatusCounts()}}

	customers, err := i.customerRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.Customers.Total = len(customers)
	companyCounts := map[string]int{}
	var companies []string
	for _, c := range customers {
		m.Customers.ByStatus[string(c.Status)]++
		m.Customers.TotalRevenue += c.Revenue
		if c.Company == "" {
			continue
		}
		if companyCounts[c.Company] == 0 {
			companies = append(companies, c.Company)
		}
		companyCounts[c.Company]++
	}
	// first-seen company wins ties
	for _, name := range companies {
		if companyCounts[name] > m.Customers.TopCompany.CustomerCount {
			m.Customers.TopCompany = TopCompany{Name: name, CustomerCount: companyCounts[name]}
		}
	}
	m.Customers.TotalRevenue = round2(m.Customers.TotalRevenue)

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.Products.Total = len(products)
	for _, p := range products {
		if !p.InStock() {
			m.Products.OutOfStock++
		}
	}

	orders, total, err := i.orderRepo.List(OrderFilter{})
	if err != nil {
		return m, err
	}
	m.Orders.Total = total
	for _, o := range orders {
		m.Orders.Revenue += o.Total
	}
	m.Orders.Revenue = round2(m.Orders.Revenue)

	return m, nil
}

func emptyStatusCounts() map[string]int {
	return map[string]int{
		string(models.StatusActive):   0,
		string(models.StatusInactive): 0,
		string(models.StatusPending):  0,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
