/*
Package order HTTP endpoints of the order management service.

Error handling:
1. Binding errors: response.HandleError, always 400
2. Application errors: response.HandleAppError, which classifies them with
   errors.FromDomainError and maps the code to a status
*/
package order

import (
	"net/http"

	"commerce/api/ctxutil"
	"commerce/api/response"
	orderapp "commerce/application/order"

	"github.com/gin-gonic/gin"
)

// Controller order endpoints
type Controller struct {
	orderService *orderapp.ManagementService
}

// NewController Create order controller
func NewController(orderService *orderapp.ManagementService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes Register order routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", c.CreateOrder)
		orders.GET("", c.ListOrders)
		orders.GET("/by-number/:number", c.GetOrderByNumber)
		orders.GET("/:id", c.GetOrder)
		orders.DELETE("/:id", c.DeleteOrder)

		orders.POST("/:id/pay", c.MarkOrderAsPaid)
		orders.POST("/:id/fulfill", c.MarkOrderAsFulfilled)
		orders.POST("/:id/cancel", c.CancelOrder)
		orders.POST("/:id/refund", c.RefundOrder)
		orders.POST("/:id/partial-return", c.MarkOrderAsPartiallyReturned)
		orders.PUT("/:id/status", c.UpdateOrderStatus)
		orders.GET("/:id/history", c.GetStatusHistory)
		orders.GET("/:id/events", c.GetOrderEvents)

		orders.POST("/:id/items", c.AddItem)
		orders.PATCH("/:id/items/:itemId", c.UpdateItemQuantity)
		orders.PUT("/:id/items/:itemId/gift", c.UpdateItemGift)
		orders.DELETE("/:id/items/:itemId", c.RemoveItem)

		orders.PUT("/:id/address", c.SetAddress)
		orders.GET("/:id/address", c.GetAddress)
		orders.PUT("/:id/totals", c.UpdateTotals)

		orders.POST("/:id/shipments", c.CreateShipment)
		orders.POST("/:id/shipments/:shipmentId/ship", c.MarkShipmentShipped)
		orders.POST("/:id/shipments/:shipmentId/deliver", c.MarkShipmentDelivered)
	}

	router.GET("/order-items/:itemId", c.GetItem)
	router.GET("/variants/:variantId/order-items", c.ListItemsByVariant)
	router.GET("/shipments/:shipmentId", c.GetShipment)
	router.GET("/shipments", c.FindShipmentByTracking)
}

// bind decodes an optional JSON body; an empty body leaves req untouched
func bind(ctx *gin.Context, req any) bool {
	if ctx.Request.ContentLength == 0 {
		return true
	}
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return false
	}
	return true
}

func bindRequired(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return false
	}
	return true
}

// CreateOrder POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !bindRequired(ctx, &req) {
		return
	}

	result, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, result, "order created")
}

// GetOrder GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "")
}

// GetOrderByNumber GET /api/v1/orders/by-number/:number
func (c *Controller) GetOrderByNumber(ctx *gin.Context) {
	order, err := c.orderService.GetOrderByNumber(ctxutil.WithRequestID(ctx), ctx.Param("number"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "")
}

// ListOrders GET /api/v1/orders?user_id=&status=&page=&page_size=
func (c *Controller) ListOrders(ctx *gin.Context) {
	var q orderapp.ListOrdersQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	list, err := c.orderService.ListOrders(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePaginated(ctx, list.Orders, response.NewPagination(list.Page, list.PageSize, list.Total), "")
}

// DeleteOrder DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	if err := c.orderService.DeleteOrder(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

func (c *Controller) lifecycle(ctx *gin.Context, run func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error), message string) {
	var req orderapp.StatusChangeRequest
	if !bind(ctx, &req) {
		return
	}
	result, err := run(req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, message)
}

// MarkOrderAsPaid POST /api/v1/orders/:id/pay
func (c *Controller) MarkOrderAsPaid(ctx *gin.Context) {
	c.lifecycle(ctx, func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error) {
		return c.orderService.MarkOrderAsPaid(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	}, "order paid")
}

// MarkOrderAsFulfilled POST /api/v1/orders/:id/fulfill
func (c *Controller) MarkOrderAsFulfilled(ctx *gin.Context) {
	c.lifecycle(ctx, func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error) {
		return c.orderService.MarkOrderAsFulfilled(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	}, "order fulfilled")
}

// CancelOrder POST /api/v1/orders/:id/cancel
func (c *Controller) CancelOrder(ctx *gin.Context) {
	c.lifecycle(ctx, func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error) {
		return c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	}, "order cancelled")
}

// RefundOrder POST /api/v1/orders/:id/refund
func (c *Controller) RefundOrder(ctx *gin.Context) {
	c.lifecycle(ctx, func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error) {
		return c.orderService.RefundOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	}, "order refunded")
}

// MarkOrderAsPartiallyReturned POST /api/v1/orders/:id/partial-return
func (c *Controller) MarkOrderAsPartiallyReturned(ctx *gin.Context) {
	c.lifecycle(ctx, func(req orderapp.StatusChangeRequest) (*orderapp.OrderResult, error) {
		return c.orderService.MarkOrderAsPartiallyReturned(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	}, "order partially returned")
}

// UpdateOrderStatus PUT /api/v1/orders/:id/status
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	var req orderapp.UpdateOrderStatusRequest
	if !bindRequired(ctx, &req) {
		return
	}
	req.OrderID = ctx.Param("id")

	result, err := c.orderService.UpdateOrderStatus(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "order status updated")
}

// GetStatusHistory GET /api/v1/orders/:id/history
func (c *Controller) GetStatusHistory(ctx *gin.Context) {
	history, err := c.orderService.GetStatusHistory(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, history, "")
}

// GetOrderEvents GET /api/v1/orders/:id/events
func (c *Controller) GetOrderEvents(ctx *gin.Context) {
	events, err := c.orderService.GetOrderEvents(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, events, "")
}

// AddItem POST /api/v1/orders/:id/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req orderapp.OrderLineRequest
	if !bindRequired(ctx, &req) {
		return
	}
	order, err := c.orderService.AddItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, order, "item added")
}

// UpdateItemQuantity PATCH /api/v1/orders/:id/items/:itemId
func (c *Controller) UpdateItemQuantity(ctx *gin.Context) {
	var req orderapp.UpdateItemQuantityRequest
	if !bindRequired(ctx, &req) {
		return
	}
	order, err := c.orderService.UpdateItemQuantity(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "item updated")
}

// UpdateItemGift PUT /api/v1/orders/:id/items/:itemId/gift
func (c *Controller) UpdateItemGift(ctx *gin.Context) {
	var req orderapp.UpdateItemGiftRequest
	if !bindRequired(ctx, &req) {
		return
	}
	order, err := c.orderService.UpdateItemGift(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "item updated")
}

// RemoveItem DELETE /api/v1/orders/:id/items/:itemId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	order, err := c.orderService.RemoveItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "item removed")
}

// GetItem GET /api/v1/order-items/:itemId
func (c *Controller) GetItem(ctx *gin.Context) {
	item, err := c.orderService.GetItem(ctxutil.WithRequestID(ctx), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "")
}

// ListItemsByVariant GET /api/v1/variants/:variantId/order-items
func (c *Controller) ListItemsByVariant(ctx *gin.Context) {
	items, err := c.orderService.ListItemsByVariant(ctxutil.WithRequestID(ctx), ctx.Param("variantId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "")
}

// SetAddress PUT /api/v1/orders/:id/address
func (c *Controller) SetAddress(ctx *gin.Context) {
	var req orderapp.SetAddressRequest
	if !bindRequired(ctx, &req) {
		return
	}
	order, err := c.orderService.SetAddress(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "address saved")
}

// GetAddress GET /api/v1/orders/:id/address
func (c *Controller) GetAddress(ctx *gin.Context) {
	addr, err := c.orderService.GetAddress(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, addr, "")
}

// UpdateTotals PUT /api/v1/orders/:id/totals
func (c *Controller) UpdateTotals(ctx *gin.Context) {
	var req orderapp.UpdateTotalsRequest
	if !bindRequired(ctx, &req) {
		return
	}
	order, err := c.orderService.UpdateTotals(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "totals updated")
}

// CreateShipment POST /api/v1/orders/:id/shipments
func (c *Controller) CreateShipment(ctx *gin.Context) {
	var req orderapp.CreateShipmentRequest
	if !bind(ctx, &req) {
		return
	}
	shipment, err := c.orderService.CreateShipment(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, shipment, "shipment created")
}

// MarkShipmentShipped POST /api/v1/orders/:id/shipments/:shipmentId/ship
func (c *Controller) MarkShipmentShipped(ctx *gin.Context) {
	var req orderapp.ShipShipmentRequest
	if !bind(ctx, &req) {
		return
	}
	shipment, err := c.orderService.MarkShipmentShipped(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("shipmentId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, shipment, "shipment shipped")
}

// MarkShipmentDelivered POST /api/v1/orders/:id/shipments/:shipmentId/deliver
func (c *Controller) MarkShipmentDelivered(ctx *gin.Context) {
	var req orderapp.DeliverShipmentRequest
	if !bind(ctx, &req) {
		return
	}
	shipment, err := c.orderService.MarkShipmentDelivered(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("shipmentId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, shipment, "shipment delivered")
}

// GetShipment GET /api/v1/shipments/:shipmentId
func (c *Controller) GetShipment(ctx *gin.Context) {
	shipment, err := c.orderService.GetShipment(ctxutil.WithRequestID(ctx), ctx.Param("shipmentId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, shipment, "")
}

// FindShipmentByTracking GET /api/v1/shipments?tracking_number=
func (c *Controller) FindShipmentByTracking(ctx *gin.Context) {
	shipment, err := c.orderService.FindShipmentByTracking(ctxutil.WithRequestID(ctx), ctx.Query("tracking_number"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, shipment, "")
}
