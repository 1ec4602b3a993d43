package order

import (
	"encoding/json"

	"commerce/domain/order"

	"github.com/shopspring/decimal"
)

func toOrderResponse(o *order.Order) *OrderResponse {
	items := o.Items()
	itemResponses := make([]ItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = toItemResponse(item)
	}

	shipments := o.Shipments()
	shipmentResponses := make([]ShipmentResponse, len(shipments))
	for i, s := range shipments {
		shipmentResponses[i] = toShipmentResponse(s)
	}

	resp := &OrderResponse{
		ID:           o.ID(),
		OrderNumber:  o.Number().String(),
		CustomerType: string(o.Customer().Kind()),
		Items:        itemResponses,
		Shipments:    shipmentResponses,
		Totals:       toTotalsResponse(o.Totals()),
		Status:       o.Status().String(),
		Source:       o.Source().String(),
		Currency:     o.Currency().Code(),
		Version:      o.Version(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
	if id, ok := o.Customer().UserID(); ok {
		resp.UserID = id
	}
	if token, ok := o.Customer().GuestToken(); ok {
		resp.GuestToken = token
	}
	if a, ok := o.Address(); ok {
		address := toAddressResponse(a)
		resp.Address = &address
	}
	return resp
}

func toItemResponse(item order.Item) ItemResponse {
	s := item.Snapshot()
	return ItemResponse{
		ID:        item.ID(),
		OrderID:   item.OrderID(),
		VariantID: item.VariantID(),
		Quantity:  item.Quantity(),
		Product: ProductSnapshot{
			ProductID: s.ProductID(),
			VariantID: s.VariantID(),
			SKU:       s.SKU(),
			Name:      s.Name(),
			Brand:     s.Brand(),
			Size:      s.Size(),
			Color:     s.Color(),
			UnitPrice: s.UnitPrice().Amount().StringFixed(2),
			Weight:    optionalDecimal(s.Weight()),
			Length:    optionalDecimal(s.Dimensions().Length),
			Width:     optionalDecimal(s.Dimensions().Width),
			Height:    optionalDecimal(s.Dimensions().Height),
		},
		LineTotal:   item.LineTotal().Amount().StringFixed(2),
		IsGift:      item.IsGift(),
		GiftMessage: item.GiftMessage(),
		CreatedAt:   item.CreatedAt(),
		UpdatedAt:   item.UpdatedAt(),
	}
}

func optionalDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func toTotalsResponse(t order.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal: t.Subtotal().StringFixed(2),
		Tax:      t.Tax().StringFixed(2),
		Shipping: t.Shipping().StringFixed(2),
		Discount: t.Discount().StringFixed(2),
		Total:    t.Total().StringFixed(2),
	}
}

func toAddressResponse(a order.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID(),
		Billing:   toAddressDTO(a.Billing()),
		Shipping:  toAddressDTO(a.Shipping()),
		UpdatedAt: a.UpdatedAt(),
	}
}

func toAddressDTO(s order.AddressSnapshot) AddressRequest {
	return AddressRequest(s.Params())
}

func toAddressParams(r AddressRequest) order.AddressParams {
	return order.AddressParams(r)
}

func toShipmentResponse(s order.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:               s.ID(),
		OrderID:          s.OrderID(),
		Carrier:          s.Carrier(),
		Service:          s.Service(),
		TrackingNumber:   s.TrackingNumber(),
		GiftReceipt:      s.GiftReceipt(),
		PickupLocationID: s.PickupLocationID(),
		ShippedAt:        s.ShippedAt(),
		DeliveredAt:      s.DeliveredAt(),
		CreatedAt:        s.CreatedAt(),
	}
}

func toLineRequests(lines []OrderLineRequest) []order.LineRequest {
	requests := make([]order.LineRequest, len(lines))
	for i, l := range lines {
		requests[i] = order.LineRequest{
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			IsGift:      l.IsGift,
			GiftMessage: l.GiftMessage,
		}
	}
	return requests
}

func toStatusHistoryResponse(h order.StatusHistory) StatusHistoryResponse {
	resp := StatusHistoryResponse{
		ID:        h.ID(),
		OrderID:   h.OrderID(),
		ToStatus:  h.To().String(),
		ChangedAt: h.ChangedAt(),
		ChangedBy: h.ChangedBy(),
	}
	if from, ok := h.From(); ok {
		resp.FromStatus = from.String()
	}
	return resp
}

func toOrderEventResponse(e order.AuditEvent) OrderEventResponse {
	payload := map[string]any{}
	if len(e.Payload()) > 0 {
		// stored payloads are always objects; a corrupt row yields an empty payload
		_ = json.Unmarshal(e.Payload(), &payload)
	}
	return OrderEventResponse{
		ID:        e.ID(),
		OrderID:   e.OrderID(),
		EventType: e.EventType(),
		Payload:   payload,
		CreatedAt: e.CreatedAt(),
	}
}

func toIssueResponses(report *InventoryReport) []InventoryIssueResponse {
	if report == nil || !report.HasIssues() {
		return nil
	}
	issues := report.Issues()
	out := make([]InventoryIssueResponse, len(issues))
	for i, issue := range issues {
		out[i] = InventoryIssueResponse{
			ItemID:     issue.ItemID,
			VariantID:  issue.VariantID,
			LocationID: issue.LocationID,
			Operation:  string(issue.Operation),
			Quantity:   issue.Quantity,
			Error:      issue.Err.Error(),
		}
	}
	return out
}
