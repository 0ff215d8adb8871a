package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartloop/go-push-service/pkg/notification"
)

func TestFormatShipmentNotification(t *testing.T) {
	ev := notification.ShipmentEvent{
		OrderID:        "123",
		TrackingNumber: "ABC123",
		Carrier:        "FedEx",
	}

	p := notification.FormatShipmentNotification(ev)

	assert.Contains(t, p.Body, "123")
	assert.Contains(t, p.Body, "ABC123")
	assert.Contains(t, p.Body, "FedEx")
	assert.Equal(t, notification.PriorityHigh, p.Priority)
	assert.Equal(t, "/orders/123", p.ClickAction)
	assert.Equal(t, "ABC123", p.Data["tracking_number"])

	// Deterministic: same event, identical payload.
	assert.Equal(t, p, notification.FormatShipmentNotification(ev))
}

func TestFormatShipmentNotification_EstimatedDelivery(t *testing.T) {
	ev := notification.ShipmentEvent{
		OrderID:           "77",
		TrackingNumber:    "ZZ9",
		Carrier:           "UPS",
		EstimatedDelivery: "Tuesday",
	}

	p := notification.FormatShipmentNotification(ev)
	assert.Contains(t, p.Body, "Tuesday")
}

func TestFormatOrderNotification(t *testing.T) {
	t.Run("placed without order number falls back to id", func(t *testing.T) {
		p := notification.FormatOrderNotification(notification.OrderEvent{
			Type:    "order.placed",
			OrderID: "123",
		})

		assert.Contains(t, p.Body, "#123")
		assert.Equal(t, notification.PriorityHigh, p.Priority)
		assert.Equal(t, "/orders/123", p.ClickAction)
	})

	t.Run("placed with order number uses it verbatim", func(t *testing.T) {
		p := notification.FormatOrderNotification(notification.OrderEvent{
			Type:        "order.placed",
			OrderID:     "123",
			OrderNumber: "ORD-2024-001",
		})

		assert.Contains(t, p.Body, "ORD-2024-001")
		assert.NotContains(t, p.Body, "#123")
	})

	t.Run("canceled is normal priority", func(t *testing.T) {
		p := notification.FormatOrderNotification(notification.OrderEvent{
			Type:    "order.canceled",
			OrderID: "123",
		})

		assert.Equal(t, notification.PriorityNormal, p.Priority)
		assert.Contains(t, p.Body, "canceled")
	})

	t.Run("unknown type yields a generic update", func(t *testing.T) {
		p := notification.FormatOrderNotification(notification.OrderEvent{
			Type:    "order.packed",
			OrderID: "123",
		})

		require.NotEmpty(t, p.Title)
		assert.Equal(t, notification.PriorityNormal, p.Priority)
		assert.Equal(t, "order.packed", p.Data["type"])
	})
}

func TestFormatReturnNotification(t *testing.T) {
	t.Run("refund is high priority", func(t *testing.T) {
		p := notification.FormatReturnNotification(notification.ReturnEvent{
			Type:     "return.refunded",
			OrderID:  "456",
			ReturnID: "RMA-9",
		})

		assert.Equal(t, notification.PriorityHigh, p.Priority)
		assert.Contains(t, p.Body, "456")
		assert.Equal(t, "RMA-9", p.Data["return_id"])
		assert.Equal(t, "/orders/456", p.ClickAction)
	})

	t.Run("approved is normal priority and omits missing return id", func(t *testing.T) {
		p := notification.FormatReturnNotification(notification.ReturnEvent{
			Type:    "return.approved",
			OrderID: "456",
		})

		assert.Equal(t, notification.PriorityNormal, p.Priority)
		assert.NotContains(t, p.Data, "return_id")
	})
}
