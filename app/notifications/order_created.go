// Package notifications composes and dispatches the SMS messages sent when
// an order is placed. Delivery is best effort: a failed send is logged and
// counted but never fails the order.
package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/sms"
)

// FormatFCFA renders an integer FCFA amount with space-separated thousands,
// e.g. 2500 → "2 500 FCFA".
func FormatFCFA(amount int64) string {
	digits := fmt.Sprintf("%d", amount)

	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return out + " FCFA"
}

// ItemsSummary renders order lines as "2x Kebab Royal, 1x Coca-Cola".
func ItemsSummary(items models.OrderItems) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%dx %s", item.Quantity, item.Name)
	}
	return strings.Join(parts, ", ")
}

// CustomerMessage is the confirmation SMS sent to the customer.
// Plain ASCII, no accents — keeps the message in a single GSM-7 segment set.
func CustomerMessage(order *models.Order) string {
	return fmt.Sprintf(
		"Commande #%d confirmee ! Total: %s. Livraison: %s. Merci pour votre commande !",
		order.ID, FormatFCFA(order.Total), order.Address,
	)
}

// ManagerMessage is the new-order alert sent to the manager, with full
// customer and item details.
func ManagerMessage(order *models.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nouvelle commande #%d recue !\n", order.ID)
	fmt.Fprintf(&sb, "Client: %s (%s)\n", order.CustomerName, order.Mobile)
	fmt.Fprintf(&sb, "Adresse: %s\n", order.Address)
	fmt.Fprintf(&sb, "Articles: %s\n", ItemsSummary(order.Items))
	if order.Details != "" {
		fmt.Fprintf(&sb, "Details: %s\n", order.Details)
	}
	fmt.Fprintf(&sb, "Total: %s", FormatFCFA(order.Total))
	return sb.String()
}

// OrderNotifier fans out both SMS messages for a new order.
type OrderNotifier struct {
	sender        sms.Sender
	managerMobile string
}

func NewOrderNotifier(sender sms.Sender, managerMobile string) *OrderNotifier {
	return &OrderNotifier{sender: sender, managerMobile: managerMobile}
}

// OrderCreated sends the manager alert and the customer confirmation.
// Errors are logged and counted, never returned.
func (n *OrderNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	log := logger.WithCtx(ctx)

	if err := n.sender.Send(ctx, n.managerMobile, ManagerMessage(order)); err != nil {
		metrics.SMSFailed.WithLabelValues("manager").Inc()
		log.Error("manager sms failed", "order_id", order.ID, "error", err)
	} else {
		metrics.SMSSent.WithLabelValues("manager").Inc()
	}

	if err := n.sender.Send(ctx, order.Mobile, CustomerMessage(order)); err != nil {
		metrics.SMSFailed.WithLabelValues("customer").Inc()
		log.Error("customer sms failed", "order_id", order.ID, "error", err)
	} else {
		metrics.SMSSent.WithLabelValues("customer").Inc()
	}
}
