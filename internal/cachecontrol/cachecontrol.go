package cachecontrol

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderCDNCacheControl = "CDN-Cache-Control"
	noStoreValue          = "no-store, no-cache, must-revalidate"
)

// Policy is one response class: s-maxage and stale-while-revalidate in seconds
type Policy struct {
	MaxAge               int
	StaleWhileRevalidate int
}

// 응답 종류별 캐시 시간
var (
	SellersList  = Policy{MaxAge: 300, StaleWhileRevalidate: 600}
	SellerDetail = Policy{MaxAge: 600, StaleWhileRevalidate: 1800}
	Products     = Policy{MaxAge: 600, StaleWhileRevalidate: 1800}
	Geolocation  = Policy{MaxAge: 3600, StaleWhileRevalidate: 7200}
	EmptyResults = Policy{MaxAge: 120, StaleWhileRevalidate: 240}
	NotFound     = Policy{MaxAge: 60, StaleWhileRevalidate: 120}
)

// Value is the Cache-Control header value
func (p Policy) Value() string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", p.MaxAge, p.StaleWhileRevalidate)
}

// Apply sets Cache-Control and CDN-Cache-Control on the response
func (p Policy) Apply(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, p.Value())
	c.Set(HeaderCDNCacheControl, fmt.Sprintf("public, s-maxage=%d", p.MaxAge))
}

// NoStore for mutations and errors
func NoStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, noStoreValue)
}

// RateLimited is NoStore plus Retry-After
func RateLimited(c *fiber.Ctx, retryAfterSeconds int) {
	NoStore(c)
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
}
