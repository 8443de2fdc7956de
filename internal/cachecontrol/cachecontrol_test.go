package cachecontrol

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValues(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{SellersList, "public, s-maxage=300, stale-while-revalidate=600"},
		{SellerDetail, "public, s-maxage=600, stale-while-revalidate=1800"},
		{Products, "public, s-maxage=600, stale-while-revalidate=1800"},
		{Geolocation, "public, s-maxage=3600, stale-while-revalidate=7200"},
		{EmptyResults, "public, s-maxage=120, stale-while-revalidate=240"},
		{NotFound, "public, s-maxage=60, stale-while-revalidate=120"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.Value())
	}
}

func TestHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/public", func(c *fiber.Ctx) error {
		SellersList.Apply(c)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/nostore", func(c *fiber.Ctx) error {
		NoStore(c)
		return c.SendStatus(fiber.StatusBadRequest)
	})
	app.Get("/limited", func(c *fiber.Ctx) error {
		RateLimited(c, 60)
		return c.SendStatus(fiber.StatusTooManyRequests)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "public, s-maxage=300", resp.Header.Get("CDN-Cache-Control"))

	resp, err = app.Test(httptest.NewRequest("GET", "/nostore", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Empty(t, resp.Header.Get("CDN-Cache-Control"))

	resp, err = app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}
