package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/miboks/miboks-server/internal/catalog/domain"
	catalogmocks "github.com/miboks/miboks-server/internal/catalog/repository/mocks"
	"github.com/miboks/miboks-server/internal/checkout/domain"
	checkoutmocks "github.com/miboks/miboks-server/internal/checkout/repository/mocks"
	"github.com/miboks/miboks-server/internal/checkout/service"
	"github.com/miboks/miboks-server/internal/platform/config"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(t *testing.T) (*gin.Engine, service.CheckoutService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	saleRepo := new(checkoutmocks.MockSaleRepository)
	catalogRepo := new(catalogmocks.MockCatalogRepository)
	catalogRepo.On("GetProductByID", mock.Anything, "", "p1").
		Return(&catalogdomain.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 10}, nil)

	svc := service.NewCheckoutService(saleRepo, catalogRepo, events.NewHub(), config.CheckoutConfig{
		VATRate:   0.15,
		SweepSpec: "0 0 * * * *",
	})
	t.Cleanup(svc.Stop)

	router := gin.New()
	NewCheckoutHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func putJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(res, req)
	return res
}

func TestUpdateItem_ZeroQuantityReachesEngine(t *testing.T) {
	router, svc := newTestRouter(t)
	_, err := svc.AddToCart(context.Background(), "", "p1")
	assert.NoError(t, err)

	res := putJSON(router, "/api/v1/cart/items/p1", `{"quantity": 0}`)
	assert.Equal(t, http.StatusOK, res.Code)

	// Zero binds and flows to the engine, where it is a documented no-op.
	var cart domain.Cart
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &cart))
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestUpdateItem_SetsQuantity(t *testing.T) {
	router, svc := newTestRouter(t)
	_, err := svc.AddToCart(context.Background(), "", "p1")
	assert.NoError(t, err)

	res := putJSON(router, "/api/v1/cart/items/p1", `{"quantity": 3}`)
	assert.Equal(t, http.StatusOK, res.Code)

	var cart domain.Cart
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &cart))
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestUpdateItem_MissingQuantityRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	res := putJSON(router, "/api/v1/cart/items/p1", `{}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
