package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

var ErrCartEmpty = errors.New("cart is empty")

const orderIDAttempts = 5

type Request struct {
	Shipping models.ShippingInfo `json:"shipping"`
	Payment  PaymentInfo         `json:"payment"`
}

// OrderNotifier is told about every placed order.
type OrderNotifier interface {
	OrderConfirmed(ctx context.Context, o models.Order) error
}

type Service struct {
	products repo.ProductRepository
	orders   repo.OrderRepository
	sessions repo.SessionStore
	notifier OrderNotifier
	now      func() time.Time
	intN     func(n int) int
}

func NewService(products repo.ProductRepository, orders repo.OrderRepository, sessions repo.SessionStore, notifier OrderNotifier) *Service {
	return &Service{
		products: products,
		orders:   orders,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
		intN:     rand.IntN,
	}
}

// PlaceOrder turns the session's cart into an order. The cart is claimed
// (emptied) before any stock is taken, so a second submit of the same cart
// sees it empty. Stock is taken for every line or for none; on failure the
// claimed lines are put back into the session cart.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, req Request) (models.Order, error) {
	errs := append(ValidateShipping(req.Shipping), ValidatePayment(req.Payment)...)
	if len(errs) > 0 {
		return models.Order{}, errs
	}

	c, err := s.claimCart(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}

	taken, err := s.takeStock(c)
	if err != nil {
		s.restoreCart(ctx, sessionID, c)
		return models.Order{}, err
	}

	order, err := s.saveOrder(c, req.Shipping)
	if err != nil {
		s.releaseStock(taken)
		s.restoreCart(ctx, sessionID, c)
		return models.Order{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderConfirmed(ctx, order); err != nil {
			logx.Warn().Err(err).Str("order_id", order.OrderID).Msg("order notification failed")
		}
	}
	logx.Info().Str("order_id", order.OrderID).Float64("total", order.Total).Msg("order placed")
	return order, nil
}

func (s *Service) claimCart(ctx context.Context, sessionID string) (cart.Cart, error) {
	var claimed cart.Cart
	_, err := s.sessions.UpdateCart(ctx, sessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return ErrCartEmpty
		}
		claimed = *c
		*c = cart.Cart{Items: []cart.Item{}}
		return nil
	})
	if errors.Is(err, ErrCartEmpty) {
		return cart.Cart{}, ErrCartEmpty
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("failed to claim cart: %w", err)
	}
	return claimed, nil
}

// restoreCart merges the claimed lines back, keeping anything added since.
func (s *Service) restoreCart(ctx context.Context, sessionID string, claimed cart.Cart) {
	_, err := s.sessions.UpdateCart(ctx, sessionID, func(c *cart.Cart) error {
		c.Merge(claimed)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to restore cart after checkout failure")
	}
}

// takeStock decrements stock per product, summing variants of the same
// product, and undoes what it took when any product falls short.
func (s *Service) takeStock(c cart.Cart) (map[int]int, error) {
	need := map[int]int{}
	var order []int
	for _, it := range c.Items {
		if _, ok := need[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		need[it.ProductID] += it.Quantity
	}

	taken := map[int]int{}
	for _, id := range order {
		if _, err := s.products.AdjustStock(id, -need[id]); err != nil {
			s.releaseStock(taken)
			return nil, fmt.Errorf("product %d: %w", id, err)
		}
		taken[id] = need[id]
	}
	return taken, nil
}

func (s *Service) releaseStock(taken map[int]int) {
	for id, qty := range taken {
		if _, err := s.products.AdjustStock(id, qty); err != nil {
			logx.Error().Err(err).Int("product_id", id).Int("quantity", qty).Msg("failed to restore stock")
		}
	}
}

func (s *Service) saveOrder(c cart.Cart, shipping models.ShippingInfo) (models.Order, error) {
	now := s.now().UTC()
	summary := c.Summary()
	order := models.Order{
		EstimatedDelivery: now.AddDate(0, 0, 3+s.intN(5)),
		Items:             orderItems(c),
		Shipping:          shipping,
		PromoCode:         summary.PromoCode,
		Subtotal:          summary.Subtotal,
		Discount:          summary.Discount,
		ShippingCost:      summary.Shipping,
		Tax:               summary.Tax,
		Total:             summary.Total,
		CreatedAt:         now,
	}

	var err error
	for range orderIDAttempts {
		order.OrderID = fmt.Sprintf("ORD-%d-%06d", now.Year(), 100000+s.intN(900000))
		order.TrackingNumber = fmt.Sprintf("TRK%09d", 100000000+s.intN(900000000))
		var saved models.Order
		saved, err = s.orders.Create(order)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, repo.ErrDuplicatedValueUnique) {
			break
		}
	}
	return models.Order{}, fmt.Errorf("failed to save order: %w", err)
}

func orderItems(c cart.Cart) []models.OrderItem {
	items := make([]models.OrderItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		if it.Variant != nil {
			items[i].VariantName = it.Variant.Name
			items[i].VariantValue = it.Variant.Value
		}
	}
	return items
}
