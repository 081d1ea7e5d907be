package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_MiddlewareCountsByRouteTemplate(t *testing.T) {
	m := metrics.NewHTTPMetrics("inventory")

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/products/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "0" {
			return fiber.NewError(fiber.StatusNotFound, "missing")
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", m.Handler())

	for _, path := range []string{"/products/1", "/products/2", "/products/0"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "http_requests_total"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `http_requests_total{method="GET",path="/products/:id",service="inventory",status="200"} 2`)
	assert.Contains(t, text, `http_requests_total{method="GET",path="/products/:id",service="inventory",status="404"} 1`)
	assert.Contains(t, text, `http_status_category_total{category="4xx",service="inventory"} 1`)
}

func TestHTTPMetrics_ProductChanged(t *testing.T) {
	m := metrics.NewHTTPMetrics("inventory")
	m.ProductChanged("created")
	m.ProductChanged("created")
	m.ProductChanged("deleted")

	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "inventory_product_changes_total"))
}

func TestHTTPMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewHTTPMetrics("a")
		metrics.NewHTTPMetrics("b")
	})
}
