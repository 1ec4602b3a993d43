/*
Package order Application Layer - order management orchestration

Responsibilities:
1. Resolve caller input (catalog lookups, locations, stock checks)
2. Drive the Order aggregate and persist it through a per-operation UnitOfWork
3. Append status history and audit log entries in the same transaction
4. Run best-effort inventory calls after the order is committed

Inventory calls never roll back an order. Their failures are collected per item,
logged, written to the audit log and returned next to the order so callers can tell
a rejected request from one that succeeded with an inventory anomaly.
*/
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commerce/domain/catalog"
	"commerce/domain/inventory"
	"commerce/domain/order"
	"commerce/domain/shared"
	"commerce/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Deps collaborators of the ManagementService
type Deps struct {
	Orders    order.Repository
	Items     order.ItemRepository
	Addresses order.AddressRepository
	Shipments order.ShipmentRepository
	History   order.StatusHistoryRepository
	EventLog  order.EventLogRepository
	Catalog   catalog.Reader
	Inventory inventory.Service
	Locations LocationResolver
	UoW       shared.UnitOfWorkFactory

	// Logger defaults to the process logger
	Logger *zap.Logger
	// Clock defaults to time.Now in UTC
	Clock func() time.Time
}

// ManagementService Order application service - coordinates the order lifecycle
type ManagementService struct {
	orders    order.Repository
	items     order.ItemRepository
	addresses order.AddressRepository
	shipments order.ShipmentRepository
	history   order.StatusHistoryRepository
	eventLog  order.EventLogRepository
	inventory inventory.Service
	locations LocationResolver
	uow       shared.UnitOfWorkFactory
	domain    *order.DomainService
	log       *zap.Logger
	now       func() time.Time
}

// NewManagementService Create order management service
func NewManagementService(deps Deps) *ManagementService {
	log := deps.Logger
	if log == nil {
		log = logger.With(zap.String("component", "order_management"))
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	return &ManagementService{
		orders:    deps.Orders,
		items:     deps.Items,
		addresses: deps.Addresses,
		shipments: deps.Shipments,
		history:   deps.History,
		eventLog:  deps.EventLog,
		inventory: deps.Inventory,
		locations: deps.Locations,
		uow:       deps.UoW,
		domain:    order.NewDomainService(deps.Catalog),
		log:       log,
		now:       clock,
	}
}

// ============================================================================
// Creation
// ============================================================================

// CreateOrder resolves catalog data, checks stock, persists the order with its
// initial history row and audit event, then deducts stock per item.
func (s *ManagementService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	customer, err := order.NewCustomer(req.UserID, req.GuestToken)
	if err != nil {
		return nil, err
	}
	currency, err := order.NewCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	source, err := order.ParseSource(req.Source)
	if err != nil {
		return nil, err
	}

	lines, err := s.domain.ResolveLines(ctx, toLineRequests(req.Items), currency)
	if err != nil {
		return nil, err
	}

	locationID, err := s.locations.Resolve(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStock(ctx, lines, locationID); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(order.NewOrderParams{
		Customer: customer,
		Currency: currency,
		Source:   source,
		Items:    lines,
	})
	if err != nil {
		return nil, err
	}

	changedBy, _ := customer.UserID()
	uow := s.uow.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, o.ID(), "", order.StatusCreated, changedBy); err != nil {
			return err
		}
		if err := s.appendAudit(ctx, o.ID(), order.AuditOrderCreated, map[string]any{
			"order_number":  o.Number().String(),
			"customer_kind": string(customer.Kind()),
			"item_count":    o.ItemCount(),
			"currency":      currency.Code(),
			"source":        source.String(),
			"location_id":   locationID,
			"total":         o.Totals().Total().StringFixed(2),
		}); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", o.ID()),
		zap.String("order_number", o.Number().String()),
		zap.String("customer_kind", string(customer.Kind())),
		zap.Int("item_count", o.ItemCount()),
		zap.String("total", o.Totals().Total().StringFixed(2)),
	)

	report := s.forEachItem(ctx, o, OpDeduct, locationID, nil, func(item order.Item) error {
		return s.inventory.AdjustStock(ctx, item.VariantID(), locationID, -item.Quantity(),
			inventory.ReasonOrderCreated, o.ID())
	})
	s.recordAnomalies(ctx, o, "create", report)

	return s.result(o, report), nil
}

// checkStock rejects the order when any variant is short at the location.
// Quantities of repeated variants are summed.
func (s *ManagementService) checkStock(ctx context.Context, lines []order.NewItemParams, locationID string) error {
	requested := make(map[string]int, len(lines))
	variants := make([]string, 0, len(lines))
	for _, l := range lines {
		id := l.Snapshot.VariantID()
		if _, seen := requested[id]; !seen {
			variants = append(variants, id)
		}
		requested[id] += l.Quantity
	}

	for _, variantID := range variants {
		stock, err := s.inventory.GetStock(ctx, variantID, locationID)
		if err != nil {
			return fmt.Errorf("failed to check stock for variant %s: %w", variantID, err)
		}
		available := 0
		if stock != nil {
			available = stock.Available
		}
		if available < requested[variantID] {
			return order.NewInsufficientStockError(variantID, locationID, requested[variantID], available)
		}
	}
	return nil
}

// ============================================================================
// Status lifecycle
// ============================================================================

// MarkOrderAsPaid created -> paid, then reserves stock per item at the default location.
func (s *ManagementService) MarkOrderAsPaid(ctx context.Context, orderID string, req StatusChangeRequest) (*OrderResult, error) {
	o, _, err := s.transition(ctx, orderID, req, func(o *order.Order) error {
		return o.MarkAsPaid()
	})
	if err != nil {
		return nil, err
	}

	locationID, locErr := s.locations.Resolve(ctx, "")
	report := s.forEachItem(ctx, o, OpReserve, locationID, locErr, func(item order.Item) error {
		return s.inventory.ReserveStock(ctx, item.VariantID(), locationID, item.Quantity())
	})
	s.recordAnomalies(ctx, o, "pay", report)

	return s.result(o, report), nil
}

// MarkOrderAsFulfilled paid -> fulfilled, then deducts stock per item at the first
// shipment's pickup location or the default location.
func (s *ManagementService) MarkOrderAsFulfilled(ctx context.Context, orderID string, req StatusChangeRequest) (*OrderResult, error) {
	o, _, err := s.transition(ctx, orderID, req, func(o *order.Order) error {
		return o.MarkAsFulfilled()
	})
	if err != nil {
		return nil, err
	}

	pickup := ""
	if shipments := o.Shipments(); len(shipments) > 0 {
		pickup = shipments[0].PickupLocationID()
	}
	var (
		locationID = pickup
		locErr     error
	)
	if locationID == "" {
		locationID, locErr = s.locations.Resolve(ctx, "")
	}

	report := s.forEachItem(ctx, o, OpDeduct, locationID, locErr, func(item order.Item) error {
		return s.inventory.AdjustStock(ctx, item.VariantID(), locationID, -item.Quantity(),
			inventory.ReasonOrderFulfilled, o.ID())
	})
	s.recordAnomalies(ctx, o, "fulfill", report)

	return s.result(o, report), nil
}

// CancelOrder created|paid -> cancelled. Stock of a paid order is released item by item.
func (s *ManagementService) CancelOrder(ctx context.Context, orderID string, req StatusChangeRequest) (*OrderResult, error) {
	o, from, err := s.transition(ctx, orderID, req, func(o *order.Order) error {
		return o.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	if from != order.StatusPaid {
		return s.result(o, nil), nil
	}

	locationID, locErr := s.locations.Resolve(ctx, "")
	report := s.forEachItem(ctx, o, OpRelease, locationID, locErr, func(item order.Item) error {
		return s.inventory.AdjustStock(ctx, item.VariantID(), locationID, item.Quantity(),
			inventory.ReasonOrderCancelled, o.ID())
	})
	s.recordAnomalies(ctx, o, "cancel", report)

	return s.result(o, report), nil
}

// RefundOrder paid|fulfilled|partially_returned -> refunded; no inventory effect.
func (s *ManagementService) RefundOrder(ctx context.Context, orderID string, req StatusChangeRequest) (*OrderResult, error) {
	o, _, err := s.transition(ctx, orderID, req, func(o *order.Order) error {
		return o.Refund(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	return s.result(o, nil), nil
}

// MarkOrderAsPartiallyReturned fulfilled -> partially_returned; no inventory effect.
func (s *ManagementService) MarkOrderAsPartiallyReturned(ctx context.Context, orderID string, req StatusChangeRequest) (*OrderResult, error) {
	o, _, err := s.transition(ctx, orderID, req, func(o *order.Order) error {
		return o.MarkAsPartiallyReturned()
	})
	if err != nil {
		return nil, err
	}
	return s.result(o, nil), nil
}

// UpdateOrderStatus generic status change. Dispatches to the specific lifecycle
// operation so its guard and inventory effects apply. Returns the order unchanged,
// without a history row, when it already has the requested status.
func (s *ManagementService) UpdateOrderStatus(ctx context.Context, req UpdateOrderStatusRequest) (*OrderResult, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	current, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if current.Status() == target {
		return s.result(current, nil), nil
	}

	change := StatusChangeRequest{Reason: req.Reason, ChangedBy: req.ChangedBy}
	switch target {
	case order.StatusPaid:
		return s.MarkOrderAsPaid(ctx, req.OrderID, change)
	case order.StatusFulfilled:
		return s.MarkOrderAsFulfilled(ctx, req.OrderID, change)
	case order.StatusCancelled:
		return s.CancelOrder(ctx, req.OrderID, change)
	case order.StatusRefunded:
		return s.RefundOrder(ctx, req.OrderID, change)
	case order.StatusPartiallyReturned:
		return s.MarkOrderAsPartiallyReturned(ctx, req.OrderID, change)
	default:
		o, _, err := s.transition(ctx, req.OrderID, change, func(o *order.Order) error {
			return o.UpdateStatus(target, req.Reason)
		})
		if err != nil {
			return nil, err
		}
		return s.result(o, nil), nil
	}
}

// transition loads the order, applies change and persists it with a history row
// and an audit entry. Returns the updated order and the status it left.
func (s *ManagementService) transition(
	ctx context.Context,
	orderID string,
	req StatusChangeRequest,
	change func(o *order.Order) error,
) (*order.Order, order.Status, error) {
	var (
		o    *order.Order
		from order.Status
	)

	uow := s.uow.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		from = o.Status()

		if err := change(o); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, o.ID(), from, o.Status(), req.ChangedBy); err != nil {
			return err
		}
		payload := map[string]any{"from": from.String(), "to": o.Status().String()}
		if req.Reason != "" {
			payload["reason"] = req.Reason
		}
		if req.ChangedBy != "" {
			payload["changed_by"] = req.ChangedBy
		}
		if err := s.appendAudit(ctx, o.ID(), order.AuditStatusChanged, payload); err != nil {
			return err
		}

		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info("order status changed",
		zap.String("order_id", o.ID()),
		zap.String("from", from.String()),
		zap.String("to", o.Status().String()),
		zap.String("changed_by", req.ChangedBy),
	)
	return o, from, nil
}

// ============================================================================
// Items, address, totals
// ============================================================================

// AddItem resolves the line against the catalog and adds it to a created order.
func (s *ManagementService) AddItem(ctx context.Context, orderID string, line OrderLineRequest) (*OrderResponse, error) {
	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		params, err := s.domain.ResolveLine(ctx, toLineRequests([]OrderLineRequest{line})[0], o.Currency())
		if err != nil {
			return err
		}
		item, err := o.AddItem(params)
		if err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditOrderItemsModified, map[string]any{
			"action": "added", "item_id": item.ID(), "variant_id": item.VariantID(), "quantity": item.Quantity(),
		})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// RemoveItem removes an item; the last item of an order cannot be removed.
func (s *ManagementService) RemoveItem(ctx context.Context, orderID, itemID string) (*OrderResponse, error) {
	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		if err := o.RemoveItem(itemID); err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditOrderItemsModified, map[string]any{
			"action": "removed", "item_id": itemID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// UpdateItemQuantity changes the quantity of one item.
func (s *ManagementService) UpdateItemQuantity(ctx context.Context, orderID, itemID string, req UpdateItemQuantityRequest) (*OrderResponse, error) {
	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		if _, err := o.UpdateItemQuantity(itemID, req.Quantity); err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditOrderItemsModified, map[string]any{
			"action": "quantity_changed", "item_id": itemID, "quantity": req.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// UpdateItemGift changes gift flag and message of one item.
func (s *ManagementService) UpdateItemGift(ctx context.Context, orderID, itemID string, req UpdateItemGiftRequest) (*OrderResponse, error) {
	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		_, err := o.UpdateItemGift(itemID, req.IsGift, req.GiftMessage)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// SetAddress sets billing and shipping address. Shipping defaults to billing.
func (s *ManagementService) SetAddress(ctx context.Context, orderID string, req SetAddressRequest) (*OrderResponse, error) {
	billing, err := order.NewAddressSnapshot(toAddressParams(req.Billing))
	if err != nil {
		return nil, err
	}
	shipping := billing
	if req.Shipping != nil {
		shipping, err = order.NewAddressSnapshot(toAddressParams(*req.Shipping))
		if err != nil {
			return nil, err
		}
	}

	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		_, err := o.SetAddress(billing, shipping)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// UpdateTotals replaces tax, shipping and discount; empty values mean zero.
func (s *ManagementService) UpdateTotals(ctx context.Context, orderID string, req UpdateTotalsRequest) (*OrderResponse, error) {
	tax, err := parseAmount("tax", req.Tax)
	if err != nil {
		return nil, err
	}
	shipping, err := parseAmount("shipping", req.Shipping)
	if err != nil {
		return nil, err
	}
	discount, err := parseAmount("discount", req.Discount)
	if err != nil {
		return nil, err
	}

	o, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		return o.UpdateTotals(tax, shipping, discount)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, order.NewValidationError(field, field+" must be a decimal number")
	}
	return d, nil
}

// ============================================================================
// Shipments
// ============================================================================

// CreateShipment adds a shipment to a paid or fulfilled order.
func (s *ManagementService) CreateShipment(ctx context.Context, orderID string, req CreateShipmentRequest) (*ShipmentResponse, error) {
	var shipment order.Shipment
	_, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		var err error
		shipment, err = o.CreateShipment(order.ShipmentParams{
			Carrier:          req.Carrier,
			Service:          req.Service,
			TrackingNumber:   req.TrackingNumber,
			GiftReceipt:      req.GiftReceipt,
			PickupLocationID: req.PickupLocationID,
			ShippedAt:        req.ShippedAt,
			DeliveredAt:      req.DeliveredAt,
		})
		if err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditShipmentCreated, map[string]any{
			"shipment_id": shipment.ID(), "pickup_location_id": shipment.PickupLocationID(),
		})
	})
	if err != nil {
		return nil, err
	}
	resp := toShipmentResponse(shipment)
	return &resp, nil
}

// MarkShipmentShipped records carrier details; ShippedAt defaults to now.
func (s *ManagementService) MarkShipmentShipped(ctx context.Context, orderID, shipmentID string, req ShipShipmentRequest) (*ShipmentResponse, error) {
	at := s.now()
	if req.ShippedAt != nil {
		at = req.ShippedAt.UTC()
	}

	var shipment order.Shipment
	_, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		var err error
		shipment, err = o.MarkShipmentShipped(shipmentID, req.Carrier, req.Service, req.TrackingNumber, at)
		if err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditShipmentShipped, map[string]any{
			"shipment_id": shipment.ID(), "carrier": shipment.Carrier(), "tracking_number": shipment.TrackingNumber(),
		})
	})
	if err != nil {
		return nil, err
	}
	resp := toShipmentResponse(shipment)
	return &resp, nil
}

// MarkShipmentDelivered records delivery; DeliveredAt defaults to now.
func (s *ManagementService) MarkShipmentDelivered(ctx context.Context, orderID, shipmentID string, req DeliverShipmentRequest) (*ShipmentResponse, error) {
	at := s.now()
	if req.DeliveredAt != nil {
		at = req.DeliveredAt.UTC()
	}

	var shipment order.Shipment
	_, err := s.modify(ctx, orderID, func(ctx context.Context, o *order.Order) error {
		var err error
		shipment, err = o.MarkShipmentDelivered(shipmentID, at)
		if err != nil {
			return err
		}
		return s.appendAudit(ctx, o.ID(), order.AuditShipmentDelivered, map[string]any{
			"shipment_id": shipment.ID(),
		})
	})
	if err != nil {
		return nil, err
	}
	resp := toShipmentResponse(shipment)
	return &resp, nil
}

// modify loads the order, applies fn and persists the result in one transaction.
func (s *ManagementService) modify(ctx context.Context, orderID string, fn func(ctx context.Context, o *order.Order) error) (*order.Order, error) {
	var o *order.Order
	uow := s.uow.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(ctx, o); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ============================================================================
// Deletion
// ============================================================================

// DeleteOrder removes the order with its items, address and shipments.
// Status history and the audit log are kept.
func (s *ManagementService) DeleteOrder(ctx context.Context, orderID string) error {
	uow := s.uow.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.orders.Delete(ctx, o.ID()); err != nil {
			return err
		}
		if err := s.appendAudit(ctx, o.ID(), order.AuditOrderDeleted, map[string]any{
			"order_number": o.Number().String(),
			"status":       o.Status().String(),
		}); err != nil {
			return err
		}
		uow.RegisterRemoved(o)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("order deleted", zap.String("order_id", orderID))
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// GetOrder Get order by id
func (s *ManagementService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetOrderByNumber Get order by its human-facing number
func (s *ManagementService) GetOrderByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	n, err := order.ParseOrderNumber(number)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByOrderNumber(ctx, n)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrders returns a page of orders, newest first, with the total match count.
func (s *ManagementService) ListOrders(ctx context.Context, q ListOrdersQuery) (*OrderListResponse, error) {
	spec, err := buildListSpec(q)
	if err != nil {
		return nil, err
	}

	page := max(q.Page, 1)
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	total, err := s.orders.Count(ctx, spec)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, order.ListQuery{
		Spec:   spec,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	resp := &OrderListResponse{
		Orders:   make([]*OrderResponse, len(orders)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	return resp, nil
}

func buildListSpec(q ListOrdersQuery) (shared.Specification[*order.Order], error) {
	var specs []shared.Specification[*order.Order]
	if q.UserID != "" {
		specs = append(specs, order.NewByUserIDSpecification(q.UserID))
	}
	if q.GuestToken != "" {
		specs = append(specs, order.NewByGuestTokenSpecification(q.GuestToken))
	}
	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		specs = append(specs, order.NewByStatusSpecification(status))
	}
	if q.Source != "" {
		source, err := order.ParseSource(q.Source)
		if err != nil {
			return nil, err
		}
		specs = append(specs, order.NewBySourceSpecification(source))
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
			return nil, order.NewValidationError("to", "to must not be before from")
		}
		specs = append(specs, order.NewByDateRangeSpecification(q.From, q.To))
	}
	return shared.And(specs...), nil
}

// GetStatusHistory status changes of an order, oldest first
func (s *ManagementService) GetStatusHistory(ctx context.Context, orderID string) ([]StatusHistoryResponse, error) {
	entries, err := s.history.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := make([]StatusHistoryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toStatusHistoryResponse(e)
	}
	return resp, nil
}

// GetOrderEvents audit log of an order, oldest first
func (s *ManagementService) GetOrderEvents(ctx context.Context, orderID string) ([]OrderEventResponse, error) {
	events, err := s.eventLog.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := make([]OrderEventResponse, len(events))
	for i, e := range events {
		resp[i] = toOrderEventResponse(e)
	}
	return resp, nil
}

// GetItem Get one item by id
func (s *ManagementService) GetItem(ctx context.Context, itemID string) (*ItemResponse, error) {
	item, err := s.items.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// ListItemsByVariant items across all orders that reference a variant
func (s *ManagementService) ListItemsByVariant(ctx context.Context, variantID string) ([]ItemResponse, error) {
	items, err := s.items.FindItemsByVariantID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}
	return resp, nil
}

// GetAddress address of an order
func (s *ManagementService) GetAddress(ctx context.Context, orderID string) (*AddressResponse, error) {
	a, err := s.addresses.FindAddressByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := toAddressResponse(a)
	return &resp, nil
}

// GetShipment Get one shipment by id
func (s *ManagementService) GetShipment(ctx context.Context, shipmentID string) (*ShipmentResponse, error) {
	sh, err := s.shipments.FindShipmentByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	resp := toShipmentResponse(sh)
	return &resp, nil
}

// FindShipmentByTracking Get a shipment by carrier tracking number
func (s *ManagementService) FindShipmentByTracking(ctx context.Context, trackingNumber string) (*ShipmentResponse, error) {
	if trackingNumber == "" {
		return nil, order.NewValidationError("tracking_number", "tracking number is required")
	}
	sh, err := s.shipments.FindShipmentByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	resp := toShipmentResponse(sh)
	return &resp, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *ManagementService) appendHistory(ctx context.Context, orderID string, from, to order.Status, changedBy string) error {
	entry, err := order.NewStatusHistory(orderID, from, to, changedBy, s.now())
	if err != nil {
		return err
	}
	return s.history.Append(ctx, entry)
}

func (s *ManagementService) appendAudit(ctx context.Context, orderID, eventType string, payload map[string]any) error {
	event, err := order.NewAuditEvent(orderID, eventType, payload, s.now())
	if err != nil {
		return err
	}
	_, err = s.eventLog.Append(ctx, event)
	return err
}

// forEachItem runs call for every item and collects failures. locErr, when set,
// is recorded for every item without calling inventory.
func (s *ManagementService) forEachItem(
	ctx context.Context,
	o *order.Order,
	op InventoryOperation,
	locationID string,
	locErr error,
	call func(item order.Item) error,
) *InventoryReport {
	report := &InventoryReport{}
	for _, item := range o.Items() {
		err := locErr
		if err == nil {
			err = call(item)
		}
		if err == nil {
			continue
		}

		report.add(InventoryIssue{
			ItemID:     item.ID(),
			VariantID:  item.VariantID(),
			LocationID: locationID,
			Operation:  op,
			Quantity:   item.Quantity(),
			Err:        err,
		})
		s.log.Warn("inventory operation failed",
			zap.String("order_id", o.ID()),
			zap.String("item_id", item.ID()),
			zap.String("variant_id", item.VariantID()),
			zap.String("location_id", locationID),
			zap.String("operation", string(op)),
			zap.Int("quantity", item.Quantity()),
			zap.Error(err),
		)
	}
	return report
}

// recordAnomalies writes collected inventory failures to the audit log.
// The order is already committed, so a failure here is only logged.
func (s *ManagementService) recordAnomalies(ctx context.Context, o *order.Order, step string, report *InventoryReport) {
	if !report.HasIssues() {
		return
	}

	issues := make([]map[string]any, 0, len(report.Issues()))
	for _, issue := range report.Issues() {
		issues = append(issues, map[string]any{
			"item_id":     issue.ItemID,
			"variant_id":  issue.VariantID,
			"location_id": issue.LocationID,
			"operation":   string(issue.Operation),
			"quantity":    issue.Quantity,
			"error":       issue.Err.Error(),
		})
	}

	err := s.appendAudit(ctx, o.ID(), order.AuditInventoryAnomaly, map[string]any{
		"step":   step,
		"issues": issues,
	})
	if err != nil {
		s.log.Error("failed to record inventory anomaly",
			zap.String("order_id", o.ID()),
			zap.String("step", step),
			zap.Error(errors.Join(err, report.Err())),
		)
	}
}

func (s *ManagementService) result(o *order.Order, report *InventoryReport) *OrderResult {
	return &OrderResult{
		Order:           toOrderResponse(o),
		InventoryIssues: toIssueResponses(report),
	}
}
