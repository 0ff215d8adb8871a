package notification

import "fmt"

// ShipmentEvent describes a shipment leaving the warehouse.
type ShipmentEvent struct {
	OrderID           string `json:"order_id"`
	TrackingNumber    string `json:"tracking_number"`
	Carrier           string `json:"carrier"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}

// OrderEvent describes an order lifecycle change.
type OrderEvent struct {
	// Type is the domain event name, e.g. "order.placed" or "order.canceled".
	Type        string `json:"type"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
}

// ReturnEvent describes a return/refund lifecycle change.
type ReturnEvent struct {
	// Type is the domain event name, e.g. "return.approved".
	Type     string `json:"type"`
	OrderID  string `json:"order_id"`
	ReturnID string `json:"return_id,omitempty"`
}

// FormatShipmentNotification maps a shipment event to notification copy.
// Deterministic: the same event always yields the identical payload.
func FormatShipmentNotification(ev ShipmentEvent) Payload {
	body := fmt.Sprintf("Order #%s is on its way via %s. Track it with %s.",
		ev.OrderID, ev.Carrier, ev.TrackingNumber)
	if ev.EstimatedDelivery != "" {
		body += fmt.Sprintf(" Estimated delivery: %s.", ev.EstimatedDelivery)
	}

	return Payload{
		Title: "📦 Your order has shipped!",
		Body:  body,
		Data: map[string]string{
			"type":            "shipment",
			"order_id":        ev.OrderID,
			"tracking_number": ev.TrackingNumber,
		},
		ClickAction: "/orders/" + ev.OrderID,
		Priority:    PriorityHigh,
	}
}

// FormatOrderNotification maps an order event to notification copy.
// Orders are referenced by OrderNumber when present, falling back to
// "#<id>" otherwise.
func FormatOrderNotification(ev OrderEvent) Payload {
	ref := ev.OrderNumber
	if ref == "" {
		ref = "#" + ev.OrderID
	}

	var title, body string
	priority := PriorityNormal

	switch ev.Type {
	case "order.placed":
		title = "🎉 Order confirmed!"
		body = fmt.Sprintf("Thanks! Your order %s has been placed.", ref)
		priority = PriorityHigh
	case "order.canceled":
		title = "Order canceled"
		body = fmt.Sprintf("Your order %s has been canceled.", ref)
	case "order.delivered":
		title = "✅ Delivered"
		body = fmt.Sprintf("Your order %s has been delivered. Enjoy!", ref)
		priority = PriorityHigh
	default:
		title = "Order update"
		body = fmt.Sprintf("There is an update on your order %s.", ref)
	}

	return Payload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":     ev.Type,
			"order_id": ev.OrderID,
		},
		ClickAction: "/orders/" + ev.OrderID,
		Priority:    priority,
	}
}

// FormatReturnNotification maps a return event to notification copy.
func FormatReturnNotification(ev ReturnEvent) Payload {
	var title, body string
	priority := PriorityNormal

	switch ev.Type {
	case "return.approved":
		title = "↩️ Return approved"
		body = fmt.Sprintf("Your return for order #%s was approved. We'll email you a shipping label.", ev.OrderID)
	case "return.received":
		title = "↩️ Return received"
		body = fmt.Sprintf("We received your return for order #%s. Your refund is being processed.", ev.OrderID)
	case "return.refunded":
		title = "💸 Refund issued"
		body = fmt.Sprintf("Your refund for order #%s is on its way back to your payment method.", ev.OrderID)
		priority = PriorityHigh
	default:
		title = "Return update"
		body = fmt.Sprintf("There is an update on your return for order #%s.", ev.OrderID)
	}

	data := map[string]string{
		"type":     ev.Type,
		"order_id": ev.OrderID,
	}
	if ev.ReturnID != "" {
		data["return_id"] = ev.ReturnID
	}

	return Payload{
		Title:       title,
		Body:        body,
		Data:        data,
		ClickAction: "/orders/" + ev.OrderID,
		Priority:    priority,
	}
}
