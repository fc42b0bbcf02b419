package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagepro-backend/routes"
	"garagepro-backend/services"
	"garagepro-backend/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "routes-test-secret")

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.NewMemoryStore(store.StockClampAtZero)
	lifecycle := services.NewLifecycleService(st, log)

	r := routes.SetupRouter(routes.Deps{
		Store:     st,
		Lifecycle: lifecycle,
		Purchases: services.NewPurchaseService(st, log),
		Invoices:  services.NewInvoiceService(st, log),
		Reports:   services.NewReportService(st),
		Log:       log,
	})
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func register(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "changeme123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestEstimationToWorkOrderFlow(t *testing.T) {
	r, st := newTestRouter(t)
	token := register(t, r, "admin@shop.test", "admin")

	// intake: customer, vehicle, part
	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Dana Whitfield",
		"phone": "+15550100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	customerID := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/customers/"+customerID+"/vehicles", token, gin.H{
		"make":         "Toyota",
		"model":        "Corolla",
		"year":         2018,
		"licensePlate": "AB-1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vehicleID := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/parts", token, gin.H{
		"name":  "Brake Pads",
		"price": 45.0,
		"stock": 10,
		"sku":   "BP-100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	partID := decode(t, w)["id"].(string)

	// create the estimation, reserving 2 pads
	w = doJSON(t, r, http.MethodPost, "/api/services", token, gin.H{
		"customerId":  customerID,
		"vehicleId":   vehicleID,
		"description": "Brake check",
		"serviceTypes": []gin.H{
			{"name": "brake_service"},
		},
		"parts": []gin.H{
			{"partId": partID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	serviceID := created["id"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.Contains(t, created["estimationId"], "EST-")

	w = doJSON(t, r, http.MethodGet, "/api/parts/"+partID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), decode(t, w)["stock"])

	// convert, then try again
	w = doJSON(t, r, http.MethodPost, "/api/services/"+serviceID+"/convert-to-work-order", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["workOrderId"], "WO-")

	w = doJSON(t, r, http.MethodPost, "/api/services/"+serviceID+"/convert-to-work-order", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/services/"+serviceID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	converted := decode(t, w)
	assert.Equal(t, "in_progress", converted["status"])
	assert.Nil(t, converted["estimationId"])
	assert.Equal(t, "Dana Whitfield", converted["customerName"])

	// kind filter over the list endpoint
	w = doJSON(t, r, http.MethodGet, "/api/services?type=estimation", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	// store agrees with what the API reported
	svcs, err := st.ListServices(store.ServiceFilter{})
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.True(t, svcs[0].IsWorkOrder)
}

func TestRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/customers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchasesAdminOnly(t *testing.T) {
	r, _ := newTestRouter(t)
	officer := register(t, r, "officer@shop.test", "officer")
	admin := register(t, r, "admin2@shop.test", "admin")

	w := doJSON(t, r, http.MethodGet, "/api/purchases", officer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/purchases", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConvertUnknownServiceReturns404(t *testing.T) {
	r, _ := newTestRouter(t)
	token := register(t, r, "admin3@shop.test", "admin")

	w := doJSON(t, r, http.MethodPost, "/api/services/6d1f1b1e-0000-4000-8000-000000000000/convert-to-work-order", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
