package models

import "time"

type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

type OrderItem struct {
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	VariantName  string  `json:"variant_name,omitempty"`
	VariantValue string  `json:"variant_value,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// Order is the record kept after a successful checkout.
type Order struct {
	OrderID           string       `json:"order_id"`
	TrackingNumber    string       `json:"tracking_number"`
	EstimatedDelivery time.Time    `json:"estimated_delivery"`
	Items             []OrderItem  `json:"items"`
	Shipping          ShippingInfo `json:"shipping"`
	PromoCode         string       `json:"promo_code,omitempty"`
	Subtotal          float64      `json:"subtotal"`
	Discount          float64      `json:"discount"`
	ShippingCost      float64      `json:"shipping_cost"`
	Tax               float64      `json:"tax"`
	Total             float64      `json:"total"`
	CreatedAt         time.Time    `json:"created_at"`
}
