package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "DukaaOn-Go-Client/1.0"
)

// Client talks to the public /v1 API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL, e.g. https://api.dukaaon.in/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer
type APIError struct {
	StatusCode int
	Message    string
	Fields     []services.FieldError
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   string                `json:"error"`
	Errors  []services.FieldError `json:"errors"`
	Message string                `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) (*envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Error, Fields: env.Errors}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return &env, nil
}

// SellerQuery zero values are left to the server defaults
type SellerQuery struct {
	Latitude     float64
	Longitude    float64
	Radius       float64
	BusinessType string
	Category     string
	Page         int
	Limit        int
}

func (q SellerQuery) values() url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	if q.Radius > 0 {
		v.Set("radius", strconv.FormatFloat(q.Radius, 'f', -1, 64))
	}
	if q.BusinessType != "" {
		v.Set("businessType", q.BusinessType)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// FetchSellers GET /sellers
func (c *Client) FetchSellers(ctx context.Context, q SellerQuery) (*services.SellerListResponse, error) {
	var out services.SellerListResponse
	if _, err := c.do(ctx, http.MethodGet, "/sellers", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSeller GET /sellers/{id}
func (c *Client) GetSeller(ctx context.Context, id string) (*services.SellerView, error) {
	var out services.SellerView
	if _, err := c.do(ctx, http.MethodGet, "/sellers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Products GET /products?seller_id=
func (c *Client) Products(ctx context.Context, sellerID string) ([]services.ProductView, error) {
	var out []services.ProductView
	if _, err := c.do(ctx, http.MethodGet, "/products", url.Values{"seller_id": {sellerID}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeolocationResult is the caller's IP location; Message is set when it is the default
type GeolocationResult struct {
	Location geolocation.Location
	Message  string
}

// GetGeolocation GET /geolocation
func (c *Client) GetGeolocation(ctx context.Context) (*GeolocationResult, error) {
	var loc geolocation.Location
	env, err := c.do(ctx, http.MethodGet, "/geolocation", nil, nil, &loc)
	if err != nil {
		return nil, err
	}
	return &GeolocationResult{Location: loc, Message: env.Message}, nil
}

// SubmitEnquiry POST /enquiry and returns the new enquiry id
func (c *Client) SubmitEnquiry(ctx context.Context, req services.EnquiryRequest) (string, error) {
	var out struct {
		EnquiryID string `json:"enquiryId"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/enquiry", nil, req, &out); err != nil {
		return "", err
	}
	return out.EnquiryID, nil
}

// LocationProvider lets a Locator fall back to the server's IP lookup
type LocationProvider struct {
	client *Client
}

func NewLocationProvider(c *Client) *LocationProvider {
	return &LocationProvider{client: c}
}

func (p *LocationProvider) Name() string { return "ip" }

// Locate ignores ip; the server sees the caller's address itself
func (p *LocationProvider) Locate(ctx context.Context, _ string) (*geolocation.Location, error) {
	res, err := p.client.GetGeolocation(ctx)
	if err != nil {
		return nil, err
	}
	return &res.Location, nil
}
