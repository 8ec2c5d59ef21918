package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

type Notifier struct {
	mailer  *Mailer
	sales   SalesLog
	salesTo string
	now     func() time.Time
}

func NewNotifier(mailer *Mailer, sales SalesLog, salesTo string) *Notifier {
	return &Notifier{mailer: mailer, sales: sales, salesTo: salesTo, now: time.Now}
}

// OrderConfirmed records the sale and mails the confirmation in the
// background. Mail failures are logged, never returned.
func (n *Notifier) OrderConfirmed(ctx context.Context, o models.Order) error {
	items := 0
	for _, it := range o.Items {
		items += it.Quantity
	}
	entry := SaleEntry{OrderID: o.OrderID, Email: o.Shipping.Email, Items: items, Total: o.Total, Time: n.now()}
	if err := n.sales.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to log sale %s: %w", o.OrderID, err)
	}

	if !n.mailer.Enabled() || o.Shipping.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Order %s confirmed", o.OrderID)
	body := orderConfirmationBody(o)
	go func() {
		if err := n.mailer.Send([]string{o.Shipping.Email}, subject, "text/plain", body); err != nil {
			logx.Error().Err(err).Str("order_id", o.OrderID).Msg("failed to send order confirmation")
		}
	}()
	return nil
}

func orderConfirmationBody(o models.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\nThanks for your order %s.\n\n", o.Shipping.FirstName, o.OrderID)
	for _, it := range o.Items {
		line := it.Name
		if it.VariantName != "" {
			line += fmt.Sprintf(" (%s: %s)", it.VariantName, it.VariantValue)
		}
		fmt.Fprintf(&sb, "%d x %s  $%.2f\n", it.Quantity, line, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&sb, "\nSubtotal: $%.2f\n", o.Subtotal)
	if o.Discount > 0 {
		fmt.Fprintf(&sb, "Discount (%s): -$%.2f\n", o.PromoCode, o.Discount)
	}
	fmt.Fprintf(&sb, "Shipping: $%.2f\nTax: $%.2f\nTotal: $%.2f\n", o.ShippingCost, o.Tax, o.Total)
	fmt.Fprintf(&sb, "\nTracking number: %s\nEstimated delivery: %s\n",
		o.TrackingNumber, o.EstimatedDelivery.Format("Monday, January 2, 2006"))
	return sb.String()
}

// StartDailySalesSummary mails the summary once a day at 23:59 local time
// until ctx is done.
func (n *Notifier) StartDailySalesSummary(ctx context.Context) {
	for {
		now := n.now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.AddDate(0, 0, 1)
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if _, err := n.SendDailySalesSummary(ctx); err != nil {
			logx.Error().Err(err).Msg("failed to send daily sales summary")
		}
	}
}

// SendDailySalesSummary drains the sales log and mails an HTML report. It
// returns the number of sales reported.
func (n *Notifier) SendDailySalesSummary(ctx context.Context) (int, error) {
	entries, err := n.sales.Drain(ctx)
	if err != nil || len(entries) == 0 {
		return 0, err
	}

	var revenue float64
	for _, e := range entries {
		revenue += e.Total
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily Sales Summary</h2>")
	fmt.Fprintf(&sb, "<p>Orders: <strong>%d</strong></p>", len(entries))
	fmt.Fprintf(&sb, "<p>Revenue: <strong>$%.2f</strong></p>", revenue)
	sb.WriteString("<ul>")
	for _, e := range entries {
		fmt.Fprintf(&sb, "<li><b>%s</b> %s, %d items, $%.2f at %s</li>",
			e.OrderID, e.Email, e.Items, e.Total, e.Time.Format(time.RFC822))
	}
	sb.WriteString("</ul>")

	if n.salesTo == "" {
		logx.Info().Int("orders", len(entries)).Float64("revenue", revenue).Msg("daily sales summary")
		return len(entries), nil
	}
	if err := n.mailer.Send([]string{n.salesTo}, "Daily Sales Report", "text/html", sb.String()); err != nil {
		return 0, err
	}
	logx.Info().Int("orders", len(entries)).Msg("daily sales summary sent via SMTP")
	return len(entries), nil
}
