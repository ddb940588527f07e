package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"storefront/internal/config"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AppPort:     ":0",
		DBDriver:    driverMemory,
		JWTSecret:   "test_jwt_secret",
		CORSOrigins: "*",
	}
}

func TestHealthCheck(t *testing.T) {
	application, err := newApp(testConfig(), hclog.NewNullLogger())
	require.NoError(t, err)
	defer application.Close()

	resp, err := application.fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["events"])
}

func TestSeedDemoData(t *testing.T) {
	application, err := newApp(testConfig(), hclog.NewNullLogger())
	require.NoError(t, err)
	defer application.Close()

	seedDemoData(application.services, hclog.NewNullLogger())
	// A second run finds the vendor and does nothing.
	seedDemoData(application.services, hclog.NewNullLogger())

	resp, err := application.fiber.Test(httptest.NewRequest(http.MethodGet, "/api/products?category=electronics&sort=price-low", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success  bool `json:"success"`
		Total    int  `json:"total"`
		Products []struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Wireless Earbuds", body.Products[0].Name)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	application, err := newApp(testConfig(), hclog.NewNullLogger())
	require.NoError(t, err)
	defer application.Close()

	resp, err := application.fiber.Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestServeReturnsListenError(t *testing.T) {
	application, err := newApp(testConfig(), hclog.NewNullLogger())
	require.NoError(t, err)
	defer application.Close()

	quit := make(chan os.Signal, 1)
	err = application.serve("not-an-address", quit, hclog.NewNullLogger())
	assert.Error(t, err)
}
