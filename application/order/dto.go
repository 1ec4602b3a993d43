package order

import "time"

// ============================================================================
// Requests
// ============================================================================

// CreateOrderRequest creation input; exactly one of UserID and GuestToken.
// Prices are never accepted from the caller.
type CreateOrderRequest struct {
	UserID     string             `json:"user_id"`
	GuestToken string             `json:"guest_token"`
	Items      []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	Currency   string             `json:"currency" binding:"required,len=3"`
	Source     string             `json:"source"`
	LocationID string             `json:"location_id"`
}

// OrderLineRequest one line of a create or add-item request
type OrderLineRequest struct {
	VariantID   string `json:"variant_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	IsGift      bool   `json:"is_gift"`
	GiftMessage string `json:"gift_message" binding:"max=500"`
}

// UpdateItemQuantityRequest new quantity for an item
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateItemGiftRequest gift options for an item
type UpdateItemGiftRequest struct {
	IsGift      bool   `json:"is_gift"`
	GiftMessage string `json:"gift_message" binding:"max=500"`
}

// AddressRequest postal address
type AddressRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Company    string `json:"company"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required,len=2"`
	Phone      string `json:"phone"`
}

// SetAddressRequest billing and shipping address; shipping defaults to billing
type SetAddressRequest struct {
	Billing  AddressRequest  `json:"billing" binding:"required"`
	Shipping *AddressRequest `json:"shipping"`
}

// UpdateTotalsRequest tax, shipping and discount as decimal strings
type UpdateTotalsRequest struct {
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
}

// CreateShipmentRequest new shipment for a paid or fulfilled order
type CreateShipmentRequest struct {
	Carrier          string     `json:"carrier"`
	Service          string     `json:"service"`
	TrackingNumber   string     `json:"tracking_number"`
	GiftReceipt      bool       `json:"gift_receipt"`
	PickupLocationID string     `json:"pickup_location_id"`
	ShippedAt        *time.Time `json:"shipped_at"`
	DeliveredAt      *time.Time `json:"delivered_at"`
}

// ShipShipmentRequest carrier details recorded when a shipment leaves
type ShipShipmentRequest struct {
	Carrier        string     `json:"carrier"`
	Service        string     `json:"service"`
	TrackingNumber string     `json:"tracking_number"`
	ShippedAt      *time.Time `json:"shipped_at"`
}

// DeliverShipmentRequest delivery confirmation
type DeliverShipmentRequest struct {
	DeliveredAt *time.Time `json:"delivered_at"`
}

// StatusChangeRequest body of the lifecycle endpoints
type StatusChangeRequest struct {
	Reason    string `json:"reason"`
	ChangedBy string `json:"changed_by"`
}

// UpdateOrderStatusRequest generic status change
type UpdateOrderStatusRequest struct {
	OrderID   string `json:"-"`
	Status    string `json:"status" binding:"required,oneof=created paid fulfilled partially_returned refunded cancelled"`
	Reason    string `json:"reason"`
	ChangedBy string `json:"changed_by"`
}

// ListOrdersQuery filters for order listing; empty fields are ignored
type ListOrdersQuery struct {
	UserID     string    `form:"user_id"`
	GuestToken string    `form:"guest_token"`
	Status     string    `form:"status"`
	Source     string    `form:"source"`
	From       time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int       `form:"page"`
	PageSize   int       `form:"page_size"`
}

// ============================================================================
// Responses
// ============================================================================

// OrderResponse Order response DTO
type OrderResponse struct {
	ID           string             `json:"id"`
	OrderNumber  string             `json:"order_number"`
	CustomerType string             `json:"customer_type"`
	UserID       string             `json:"user_id,omitempty"`
	GuestToken   string             `json:"guest_token,omitempty"`
	Items        []ItemResponse     `json:"items"`
	Address      *AddressResponse   `json:"address,omitempty"`
	Shipments    []ShipmentResponse `json:"shipments"`
	Totals       TotalsResponse     `json:"totals"`
	Status       string             `json:"status"`
	Source       string             `json:"source"`
	Currency     string             `json:"currency"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ItemResponse Order item response DTO
type ItemResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	VariantID   string          `json:"variant_id"`
	Quantity    int             `json:"quantity"`
	Product     ProductSnapshot `json:"product"`
	LineTotal   string          `json:"line_total"`
	IsGift      bool            `json:"is_gift"`
	GiftMessage string          `json:"gift_message,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductSnapshot frozen product data of an item
type ProductSnapshot struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	UnitPrice string `json:"unit_price"`
	Weight    string `json:"weight,omitempty"`
	Length    string `json:"length,omitempty"`
	Width     string `json:"width,omitempty"`
	Height    string `json:"height,omitempty"`
}

// AddressResponse order address
type AddressResponse struct {
	ID        string         `json:"id"`
	Billing   AddressRequest `json:"billing"`
	Shipping  AddressRequest `json:"shipping"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ShipmentResponse shipment of an order
type ShipmentResponse struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	Carrier          string     `json:"carrier,omitempty"`
	Service          string     `json:"service,omitempty"`
	TrackingNumber   string     `json:"tracking_number,omitempty"`
	GiftReceipt      bool       `json:"gift_receipt"`
	PickupLocationID string     `json:"pickup_location_id,omitempty"`
	ShippedAt        *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TotalsResponse monetary totals as fixed two-decimal strings
type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// OrderResult order plus any inventory anomalies hit after it was saved
type OrderResult struct {
	Order           *OrderResponse           `json:"order"`
	InventoryIssues []InventoryIssueResponse `json:"inventory_issues,omitempty"`
}

// InventoryIssueResponse one failed best-effort inventory call
type InventoryIssueResponse struct {
	ItemID     string `json:"item_id"`
	VariantID  string `json:"variant_id"`
	LocationID string `json:"location_id,omitempty"`
	Operation  string `json:"operation"`
	Quantity   int    `json:"quantity"`
	Error      string `json:"error"`
}

// OrderListResponse page of orders
type OrderListResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// StatusHistoryResponse one status change
type StatusHistoryResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by,omitempty"`
}

// OrderEventResponse one audit log entry
type OrderEventResponse struct {
	ID        int64          `json:"id"`
	OrderID   string         `json:"order_id"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}
