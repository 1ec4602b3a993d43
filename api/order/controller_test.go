package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"commerce/api/response"
	orderapp "commerce/application/order"
	"commerce/domain/catalog"
	"commerce/infrastructure/persistence/mocks"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	orders := mocks.NewMockOrderRepository()
	catalogRepo := mocks.NewMockCatalogRepository()
	inv := mocks.NewMockInventory()

	require.NoError(t, catalogRepo.SaveProduct(ctx, &catalog.Product{ID: "p-1", Name: "Trail Runner", Active: true}))
	require.NoError(t, catalogRepo.SaveVariant(ctx, &catalog.Variant{
		ID: "v-1", ProductID: "p-1", SKU: "TR-42", Price: decimal.RequireFromString("49.99"), Currency: "USD", Active: true,
	}))
	require.NoError(t, catalogRepo.SaveLocation(ctx, &catalog.Location{ID: "wh-1", Name: "Main", Type: catalog.LocationWarehouse, Active: true}))
	inv.SetStock("v-1", "wh-1", 3, 0)

	svc := orderapp.NewManagementService(orderapp.Deps{
		Orders:    orders,
		Items:     orders,
		Addresses: orders,
		Shipments: orders,
		History:   mocks.NewMockStatusHistoryRepository(),
		EventLog:  mocks.NewMockEventLogRepository(),
		Catalog:   catalogRepo,
		Inventory: inv,
		Locations: orderapp.NewDefaultLocationResolver(catalogRepo, ""),
		UoW:       mocks.NewMockUnitOfWorkFactory(),
		Logger:    zap.NewNop(),
	})

	engine := gin.New()
	NewController(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func createOrder(t *testing.T, engine *gin.Engine, quantity int) string {
	t.Helper()
	w, resp := do(t, engine, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id":  "user-1",
		"currency": "USD",
		"items":    []map[string]any{{"variant_id": "v-1", "quantity": quantity}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	o := data["order"].(map[string]any)
	return o["id"].(string)
}

func TestCreateAndGetOrder(t *testing.T) {
	engine := newTestEngine(t)
	id := createOrder(t, engine, 2)

	w, resp := do(t, engine, http.MethodGet, "/api/v1/orders/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	o := resp.Data.(map[string]any)
	assert.Equal(t, "created", o["status"])
	totals := o["totals"].(map[string]any)
	assert.Equal(t, "99.98", totals["total"])
}

func TestOrderErrorsMapToStatus(t *testing.T) {
	engine := newTestEngine(t)
	id := createOrder(t, engine, 1)

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown order", http.MethodGet, "/api/v1/orders/missing", nil, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"malformed body", http.MethodPost, "/api/v1/orders", map[string]any{"currency": "USD"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"stock shortfall", http.MethodPost, "/api/v1/orders", map[string]any{
			"user_id": "user-1", "currency": "USD",
			"items": []map[string]any{{"variant_id": "v-1", "quantity": 50}},
		}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"illegal transition", http.MethodPost, "/api/v1/orders/" + id + "/refund", nil, http.StatusConflict, "INVALID_TRANSITION"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := do(t, engine, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error)
		})
	}
}

func TestCancelWithEmptyBody(t *testing.T) {
	engine := newTestEngine(t)
	id := createOrder(t, engine, 1)

	w, resp := do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp.Data.(map[string]any)
	assert.Equal(t, "cancelled", data["order"].(map[string]any)["status"])

	w, resp = do(t, engine, http.MethodGet, "/api/v1/orders/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 2)
}

func TestShipAndDeliverAfterRefundWithEmptyBodies(t *testing.T) {
	engine := newTestEngine(t)
	id := createOrder(t, engine, 1)

	w, _ := do(t, engine, http.MethodPut, "/api/v1/orders/"+id+"/address", map[string]any{
		"billing": map[string]any{
			"first_name": "Ada", "last_name": "Lovelace", "line1": "1 Analytical St",
			"city": "London", "postal_code": "N1 9GU", "country": "GB",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/pay", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp := do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/shipments", map[string]any{"pickup_location_id": "wh-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	shipmentID := resp.Data.(map[string]any)["id"].(string)

	w, _ = do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/refund", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	shipmentPath := "/api/v1/orders/" + id + "/shipments/" + shipmentID
	w, resp = do(t, engine, http.MethodPost, shipmentPath+"/ship", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, resp.Data.(map[string]any)["shipped_at"])

	w, resp = do(t, engine, http.MethodPost, shipmentPath+"/deliver", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, resp.Data.(map[string]any)["delivered_at"])
}
