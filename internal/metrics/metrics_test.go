package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	m := New()

	m.StockRejected()
	m.PaymentFailed()
	m.PaymentFailed()
	m.OrderCreated(300)
	m.OrderCreated(200)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockRejections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PaymentFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Orders))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.Revenue))
}

func TestMiddleware_LabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/products/1", "/products/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "storefront_api_http_requests_total"))
	assert.True(t, strings.Contains(body, "storefront_checkout_orders_created_total"))
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.StockRejected()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.StockRejections))
}
