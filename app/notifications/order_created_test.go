package notifications_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/notifications"
	"github.com/stretchr/testify/assert"
)

func TestFormatFCFA(t *testing.T) {
	cases := map[int64]string{
		0:       "0 FCFA",
		500:     "500 FCFA",
		2500:    "2 500 FCFA",
		10000:   "10 000 FCFA",
		1234567: "1 234 567 FCFA",
	}
	for amount, want := range cases {
		assert.Equal(t, want, notifications.FormatFCFA(amount))
	}
}

func testOrder() *models.Order {
	return &models.Order{
		ID:           42,
		CustomerName: "Awa Diop",
		Mobile:       "+221771234567",
		Address:      "Ouakam, Dakar",
		Details:      "sans oignons",
		Items: models.OrderItems{
			{ProductID: 1, Name: "Kebab Royal", UnitPrice: 2500, Quantity: 2, Subtotal: 5000},
			{ProductID: 3, Name: "Coca-Cola", UnitPrice: 500, Quantity: 1, Subtotal: 500},
		},
		Total:  5500,
		Status: models.StatusReceived,
	}
}

func TestCustomerMessage(t *testing.T) {
	msg := notifications.CustomerMessage(testOrder())
	assert.Contains(t, msg, "Commande #42 confirmee !")
	assert.Contains(t, msg, "Total: 5 500 FCFA")
	assert.Contains(t, msg, "Livraison: Ouakam, Dakar")
}

func TestManagerMessage(t *testing.T) {
	msg := notifications.ManagerMessage(testOrder())
	assert.Contains(t, msg, "Nouvelle commande #42 recue !")
	assert.Contains(t, msg, "Client: Awa Diop (+221771234567)")
	assert.Contains(t, msg, "Articles: 2x Kebab Royal, 1x Coca-Cola")
	assert.Contains(t, msg, "Details: sans oignons")
	assert.Contains(t, msg, "Total: 5 500 FCFA")
}

func TestManagerMessageOmitsEmptyDetails(t *testing.T) {
	order := testOrder()
	order.Details = ""
	msg := notifications.ManagerMessage(order)
	assert.NotContains(t, msg, "Details:")
}

type recordingSender struct {
	sent map[string]string // recipient → message
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, message string) error {
	if r.err != nil {
		return r.err
	}
	if r.sent == nil {
		r.sent = map[string]string{}
	}
	r.sent[to] = message
	return nil
}

func TestOrderCreatedSendsBoth(t *testing.T) {
	sender := &recordingSender{}
	n := notifications.NewOrderNotifier(sender, "+221777293282")

	n.OrderCreated(context.Background(), testOrder())

	assert.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent["+221777293282"], "Nouvelle commande #42")
	assert.Contains(t, sender.sent["+221771234567"], "Commande #42 confirmee")
}

func TestOrderCreatedSwallowsErrors(t *testing.T) {
	sender := &recordingSender{err: context.DeadlineExceeded}
	n := notifications.NewOrderNotifier(sender, "+221777293282")

	// Must not panic or propagate the error.
	n.OrderCreated(context.Background(), testOrder())
}
