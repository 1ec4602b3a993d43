package order

import (
	"time"
)

// Domain event names
const (
	EventOrderCreated      = "order.created"
	EventStatusChanged     = "order.status_changed"
	EventShipmentCreated   = "order.shipment_created"
	EventShipmentShipped   = "order.shipment_shipped"
	EventShipmentDelivered = "order.shipment_delivered"
)

type OrderCreatedEvent struct {
	orderID      string
	orderNumber  OrderNumber
	customerKind CustomerKind
	itemCount    int
	currency     string
	source       Source
	total        string
	occurredOn   time.Time
}

func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		orderID:      o.id,
		orderNumber:  o.number,
		customerKind: o.customer.Kind(),
		itemCount:    len(o.items),
		currency:     o.currency.Code(),
		source:       o.source,
		total:        o.totals.Total().StringFixed(2),
		occurredOn:   o.createdAt,
	}
}

func (e *OrderCreatedEvent) EventName() string      { return EventOrderCreated }
func (e *OrderCreatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderCreatedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderCreatedEvent) OrderNumber() string    { return e.orderNumber.String() }
func (e *OrderCreatedEvent) ItemCount() int         { return e.itemCount }

func (e *OrderCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"order_number":  e.orderNumber.String(),
		"customer_kind": string(e.customerKind),
		"item_count":    e.itemCount,
		"currency":      e.currency,
		"source":        string(e.source),
		"total":         e.total,
	}
}

type OrderStatusChangedEvent struct {
	orderID    string
	from       Status
	to         Status
	reason     string
	occurredOn time.Time
}

func NewOrderStatusChangedEvent(orderID string, from, to Status, reason string, at time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		orderID:    orderID,
		from:       from,
		to:         to,
		reason:     reason,
		occurredOn: at,
	}
}

func (e *OrderStatusChangedEvent) EventName() string      { return EventStatusChanged }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) From() Status           { return e.from }
func (e *OrderStatusChangedEvent) To() Status             { return e.to }
func (e *OrderStatusChangedEvent) Reason() string         { return e.reason }

func (e *OrderStatusChangedEvent) Payload() map[string]any {
	payload := map[string]any{
		"from": string(e.from),
		"to":   string(e.to),
	}
	if e.reason != "" {
		payload["reason"] = e.reason
	}
	return payload
}

// ShipmentEvent covers the created, shipped and delivered steps of a shipment.
type ShipmentEvent struct {
	name           string
	orderID        string
	shipmentID     string
	carrier        string
	trackingNumber string
	occurredOn     time.Time
}

func NewShipmentEvent(name string, s Shipment, at time.Time) *ShipmentEvent {
	return &ShipmentEvent{
		name:           name,
		orderID:        s.orderID,
		shipmentID:     s.id,
		carrier:        s.carrier,
		trackingNumber: s.trackingNumber,
		occurredOn:     at,
	}
}

func (e *ShipmentEvent) EventName() string      { return e.name }
func (e *ShipmentEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ShipmentEvent) GetAggregateID() string { return e.orderID }
func (e *ShipmentEvent) ShipmentID() string     { return e.shipmentID }

func (e *ShipmentEvent) Payload() map[string]any {
	return map[string]any{
		"shipment_id":     e.shipmentID,
		"carrier":         e.carrier,
		"tracking_number": e.trackingNumber,
	}
}
