package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-vendsync/internal/apperr"
	"go-vendsync/internal/gateway"
	"go-vendsync/internal/model"
	"go-vendsync/internal/repository"
	"go-vendsync/internal/service"
	"go-vendsync/pkg/keylock"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGateway struct {
	slots    *gateway.SlotDetailsPayload
	slotsErr error
	sales    *gateway.SalesPayload
	salesErr error
}

func (f *fakeGateway) FetchSlotDetails(_ context.Context, _ int) (*gateway.SlotDetailsPayload, error) {
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots, nil
}

func (f *fakeGateway) FetchSales(_ context.Context, _ int) (*gateway.SalesPayload, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}

// newTestApp wires the real services over an in-memory store, with the
// gateway faked, mirroring the route table of cmd/api.
func newTestApp(t *testing.T, gw gateway.Client) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Slot{}, &model.Stock{}, &model.Transaction{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	productRepo := repository.NewProductRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	syncService := service.NewSyncService(gw, productRepo, slotRepo, txRepo, db, keylock.New(), nil, log)
	catalogService := service.NewCatalogService(productRepo, slotRepo, db)
	authService := service.NewAuthService("admin", "password")

	syncHandler := NewSyncHandler(syncService)
	catalogHandler := NewCatalogHandler(catalogService)
	authHandler := NewAuthHandler(authService)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/login", authHandler.Login)
	api.Get("/getSlotDetails", syncHandler.GetSlotDetails)
	api.Get("/getSalesData", syncHandler.GetSalesData)
	api.Get("/getProducts", catalogHandler.GetProducts)
	api.Post("/updateSlot", catalogHandler.UpdateSlot)

	return app, db
}

func flexPtr(s string) *gateway.FlexString {
	f := gateway.FlexString(s)
	return &f
}

func strPtr(s string) *string { return &s }

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/login?username=admin&password=password", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/login?username=admin&password=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	body = decodeBody(t, resp.Body)
	assert.Equal(t, "error", body["status"])
}

func TestGetSlotDetails_SyncAndEcho(t *testing.T) {
	app, db := newTestApp(t, &fakeGateway{slots: &gateway.SlotDetailsPayload{
		Data: []gateway.RawSlotEntry{{
			SlotID:      "1",
			SlotName:    "A1",
			ProductID:   flexPtr("P1"),
			ProductName: strPtr("Cola"),
			ProductCost: json.Number("150"),
			StockInfo:   []gateway.RawStockBatch{{Qty: 2}, {Qty: 3}},
		}},
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/getSlotDetails?machineId=219", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	products := data["products"].([]interface{})
	require.Len(t, products, 1)

	entry := products[0].(map[string]interface{})
	assert.Equal(t, float64(150), entry["Product Cost"])
	assert.Equal(t, "Cola", entry["Product Name"])
	stockInfo := entry["stockInfo"].([]interface{})
	require.Len(t, stockInfo, 1)
	assert.Equal(t, float64(5), stockInfo[0].(map[string]interface{})["qty"])

	var stock model.Stock
	require.NoError(t, db.First(&stock, "machine_id = ? AND slot_id = ?", 219, "1").Error)
	assert.Equal(t, 5, stock.Qty)
}

func TestGetSlotDetails_GatewayFailure(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{slotsErr: apperr.Gateway("getMachineSlotDetails", assert.AnError)})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/getSlotDetails", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "error", body["status"])
}

func TestGetSalesData_UpstreamRefusalEchoesBody(t *testing.T) {
	upstream := json.RawMessage(`{"code":"FAILED","msg":"machine offline"}`)
	app, _ := newTestApp(t, &fakeGateway{salesErr: apperr.GatewayUpstream("getSalesForMachine", upstream)})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/getSalesData?machineId=219", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "error", body["status"])
	echo := body["api_response"].(map[string]interface{})
	assert.Equal(t, "FAILED", echo["code"])
}

func TestGetSalesData_Success(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{sales: &gateway.SalesPayload{
		Code: gateway.CodeSuccess,
		Data: []gateway.RawTransactionEntry{{
			ID:             "T1",
			AmountReceived: json.Number("150"),
			CartData:       []gateway.RawCartItem{{ProductName: "Cola", ProductID: flexPtr("P1"), SlotName: strPtr("A1")}},
			AmountData:     []gateway.RawAmountItem{{PaymentType: "Card"}},
		}},
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/getSalesData", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	tx := data[0].(map[string]interface{})
	assert.Equal(t, "T1", tx["transaction_id"])
	assert.Equal(t, "Card", tx["payment_type"])
}

func TestGetProducts_WithStats(t *testing.T) {
	app, db := newTestApp(t, &fakeGateway{})
	require.NoError(t, db.Create(&model.Product{ProductID: "P1", Name: "Cola", Cost: 150}).Error)
	require.NoError(t, db.Create(&model.Stock{MachineID: 219, SlotID: "1", Qty: 1, MaxQty: 10}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/getProducts", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalProducts"])
	assert.Equal(t, 1.5, stats["avgPrice"])
	assert.Equal(t, float64(1), stats["lowStock"])
}

func TestUpdateSlot(t *testing.T) {
	app, db := newTestApp(t, &fakeGateway{})
	productID := "P1"
	require.NoError(t, db.Create(&model.Product{ProductID: "P1", Name: "Cola", Cost: 100}).Error)
	require.NoError(t, db.Create(&model.Slot{MachineID: 219, SlotID: "1", Status: "Normal", Enable: 1, ProductID: &productID}).Error)
	require.NoError(t, db.Create(&model.Stock{MachineID: 219, SlotID: "1", Qty: 5, MaxQty: 10}).Error)

	// slotId arrives as a JSON number, like the existing client sends it.
	req := httptest.NewRequest("POST", "/api/updateSlot", strings.NewReader(`{"slotId":1,"machineId":219,"price":1.50}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var product model.Product
	require.NoError(t, db.First(&product, "product_id = ?", "P1").Error)
	assert.Equal(t, int64(150), product.Cost)

	var stock model.Stock
	require.NoError(t, db.First(&stock, "machine_id = ? AND slot_id = ?", 219, "1").Error)
	assert.Equal(t, 5, stock.Qty, "stock untouched by a price-only update")
}

func TestUpdateSlot_NotFound(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{})

	req := httptest.NewRequest("POST", "/api/updateSlot", strings.NewReader(`{"slotId":"404"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUpdateSlot_InvalidBody(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{})

	req := httptest.NewRequest("POST", "/api/updateSlot", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode, "slotId is required")
}
