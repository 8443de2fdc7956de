package services

import (
	"context"
	"math"
	"sort"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/database"
	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
	"github.com/nithinv16/DukaaOnWebsite/internal/telemetry"
)

const (
	DefaultRadiusKm = 100.0
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 500.0
	DefaultPage     = 1
	DefaultLimit    = 20
	MaxLimit        = 100

	unknownBusiness = "Unknown Business"
)

// SellerStore is the record store capability the seller service needs
type SellerStore interface {
	ListCandidates(ctx context.Context, filter database.SellerFilter) ([]models.SellerDetail, error)
	GetByUserID(ctx context.Context, userID string) (*models.SellerDetail, error)
}

// QueryParams for a proximity search. Normalize clamps everything but the coordinates.
type QueryParams struct {
	Latitude     float64
	Longitude    float64
	Radius       float64
	BusinessType string
	Category     string
	Page         int
	Limit        int
}

// SellerLocation is where a seller is
type SellerLocation struct {
	City        string          `json:"city"`
	State       string          `json:"state"`
	Coordinates geo.Coordinates `json:"coordinates"`
}

// SellerView is a seller as returned to callers
type SellerView struct {
	ID             string         `json:"id"`
	BusinessName   string         `json:"businessName"`
	BusinessType   string         `json:"businessType"`
	Location       SellerLocation `json:"location"`
	Categories     []string       `json:"categories"`
	ThumbnailImage *string        `json:"thumbnailImage"`
	Description    *string        `json:"description"`
	Distance       *float64       `json:"distance,omitempty"`
}

type SellerListResponse struct {
	Sellers    []SellerView `json:"sellers"`
	Count      int          `json:"count"`
	TotalCount int          `json:"totalCount"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

// ParseQueryParams builds QueryParams from raw query strings.
// Missing or non-numeric optional values take their defaults.
func ParseQueryParams(get func(key string) string) (QueryParams, error) {
	latRaw, lngRaw := get("latitude"), get("longitude")
	if latRaw == "" || lngRaw == "" {
		return QueryParams{}, &ValidationError{Message: "Missing required parameters: latitude and longitude"}
	}

	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lng, errLng := strconv.ParseFloat(lngRaw, 64)
	if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsNaN(lng) {
		return QueryParams{}, &ValidationError{Message: "Invalid latitude or longitude values"}
	}

	params := QueryParams{
		Latitude:     lat,
		Longitude:    lng,
		Radius:       DefaultRadiusKm,
		BusinessType: get("businessType"),
		Category:     get("category"),
		Page:         DefaultPage,
		Limit:        DefaultLimit,
	}
	// explicit values clamp, "0" included; Normalize treats zero as unset
	if r, err := strconv.ParseFloat(get("radius"), 64); err == nil && !math.IsNaN(r) {
		params.Radius = math.Max(r, MinRadiusKm)
	}
	if p, err := strconv.Atoi(get("page")); err == nil {
		params.Page = p
	}
	if l, err := strconv.Atoi(get("limit")); err == nil {
		params.Limit = max(l, 1)
	}

	if err := params.Normalize(); err != nil {
		return QueryParams{}, err
	}
	return params, nil
}

// Normalize validates the coordinates and clamps radius, page and limit
func (p *QueryParams) Normalize() error {
	if err := geo.ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
		return &ValidationError{Message: "Latitude must be between -90 and 90, longitude between -180 and 180"}
	}

	if p.Radius == 0 || math.IsNaN(p.Radius) {
		p.Radius = DefaultRadiusKm
	}
	p.Radius = math.Min(math.Max(p.Radius, MinRadiusKm), MaxRadiusKm)

	if p.Page < 1 {
		p.Page = DefaultPage
	}

	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return nil
}

type SellerService struct {
	store SellerStore
	log   *zap.SugaredLogger
}

func NewSellerService(store SellerStore, log *zap.SugaredLogger) *SellerService {
	return &SellerService{store: store, log: log}
}

// QuerySellers finds sellers within params.Radius km, nearest first, one page at a time
func (s *SellerService) QuerySellers(ctx context.Context, params QueryParams) (*SellerListResponse, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "sellers.Query")
	defer span.End()

	origin := geo.Coordinates{Latitude: params.Latitude, Longitude: params.Longitude}
	bounds := geo.BoundsAround(origin, params.Radius)

	candidates, err := s.store.ListCandidates(ctx, database.SellerFilter{
		SellerType: params.BusinessType,
		Bounds:     &bounds,
	})
	if err != nil {
		span.RecordError(err)
		return nil, &StoreError{Message: "Failed to fetch sellers", Err: err}
	}

	matches := make([]SellerView, 0, len(candidates))
	for i := range candidates {
		seller := &candidates[i]
		if !seller.HasCoordinates() {
			continue
		}
		if params.BusinessType != "" && seller.SellerType != params.BusinessType {
			continue
		}

		view := toSellerView(seller)
		if params.Category != "" && !contains(view.Categories, params.Category) {
			continue
		}

		distance := geo.CalculateDistance(origin, view.Location.Coordinates)
		if distance > params.Radius {
			continue
		}
		view.Distance = &distance
		matches = append(matches, view)
	}

	// stable: equal distances keep fetch order
	sort.SliceStable(matches, func(i, j int) bool {
		return *matches[i].Distance < *matches[j].Distance
	})

	resp := paginate(matches, params.Page, params.Limit)

	telemetry.RecordSellerQuery(ctx, resp.TotalCount)
	span.SetAttributes(
		attribute.Int("sellers.candidates", len(candidates)),
		attribute.Int("sellers.total", resp.TotalCount),
		attribute.Float64("sellers.radius_km", params.Radius),
	)
	return resp, nil
}

// GetByID returns a seller by user id, without distance
func (s *SellerService) GetByID(ctx context.Context, userID string) (*SellerView, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "Seller ID is required"}
	}

	seller, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &StoreError{Message: "Failed to fetch seller", Err: err}
	}
	if seller == nil {
		return nil, &NotFoundError{Resource: "Seller"}
	}

	view := toSellerView(seller)
	if view.BusinessName == "" {
		view.BusinessName = unknownBusiness
	}
	if view.BusinessType == "" {
		view.BusinessType = models.SellerTypeWholesaler
	}
	return &view, nil
}

func paginate(sorted []SellerView, page, limit int) *SellerListResponse {
	total := len(sorted)
	resp := &SellerListResponse{
		Sellers:    []SellerView{},
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		resp.Sellers = sorted[start:end]
	}
	resp.Count = len(resp.Sellers)
	return resp
}

func toSellerView(s *models.SellerDetail) SellerView {
	var coords geo.Coordinates
	if s.Latitude != nil {
		coords.Latitude = *s.Latitude
	}
	if s.Longitude != nil {
		coords.Longitude = *s.Longitude
	}

	locationAddress := ""
	if s.LocationAddress != nil {
		locationAddress = *s.LocationAddress
	}
	addr := ParseAddress(s.Address, locationAddress)

	return SellerView{
		ID:           s.UserID,
		BusinessName: s.BusinessName,
		BusinessType: s.SellerType,
		Location: SellerLocation{
			City:        addr.City,
			State:       addr.State,
			Coordinates: coords,
		},
		Categories:     ParseTags(s.Tags),
		ThumbnailImage: s.ImageURL,
		Description:    s.Description,
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
