package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
)

const userAgent = "DukaaOn-Website/1.0"

// IPAPIProvider queries ip-api.com (primary, no API key)
type IPAPIProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ipAPIResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// NewIPAPIProvider creates the primary provider. perMinute bounds outbound calls
// to stay inside the free tier; 0 disables the guard.
func NewIPAPIProvider(baseURL string, timeout time.Duration, perMinute int) *IPAPIProvider {
	p := &IPAPIProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	if perMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return p
}

func (p *IPAPIProvider) Name() string { return "ip-api.com" }

func (p *IPAPIProvider) Locate(ctx context.Context, ip string) (*Location, error) {
	if p.limiter != nil && !p.limiter.Allow() {
		return nil, &UpstreamError{Provider: p.Name(), Reason: "request quota exhausted"}
	}

	endpoint := fmt.Sprintf("%s/json/%s?fields=status,message,country,regionName,city,lat,lon",
		p.baseURL, url.PathEscape(ip))

	var data ipAPIResponse
	if err := getJSON(ctx, p.httpClient, endpoint, &data); err != nil {
		return nil, &UpstreamError{Provider: p.Name(), Reason: "request failed", Err: err}
	}

	if data.Status == "fail" {
		msg := data.Message
		if msg == "" {
			msg = "Failed to get location from IP"
		}
		return nil, &UpstreamError{Provider: p.Name(), Reason: msg}
	}

	return &Location{
		Coordinates: geo.Coordinates{Latitude: data.Lat, Longitude: data.Lon},
		City:        data.City,
		State:       data.RegionName,
		Country:     data.Country,
	}, nil
}

// IPAPICoProvider queries ipapi.co (secondary, 1000 req/day free)
type IPAPICoProvider struct {
	baseURL    string
	httpClient *http.Client
}

type ipAPICoResponse struct {
	Error       bool    `json:"error"`
	Reason      string  `json:"reason"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
}

func NewIPAPICoProvider(baseURL string, timeout time.Duration) *IPAPICoProvider {
	return &IPAPICoProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *IPAPICoProvider) Name() string { return "ipapi.co" }

func (p *IPAPICoProvider) Locate(ctx context.Context, ip string) (*Location, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", p.baseURL, url.PathEscape(ip))

	var data ipAPICoResponse
	if err := getJSON(ctx, p.httpClient, endpoint, &data); err != nil {
		return nil, &UpstreamError{Provider: p.Name(), Reason: "request failed", Err: err}
	}

	if data.Error {
		msg := data.Reason
		if msg == "" {
			msg = "Failed to get location from IP"
		}
		return nil, &UpstreamError{Provider: p.Name(), Reason: msg}
	}

	return &Location{
		Coordinates: geo.Coordinates{Latitude: data.Latitude, Longitude: data.Longitude},
		City:        data.City,
		State:       data.Region,
		Country:     data.CountryName,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
