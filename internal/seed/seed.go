package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// File is the seed document
type File struct {
	Sellers  []Seller  `json:"sellers"`
	Products []Product `json:"products"`
}

type Seller struct {
	UserID          string          `json:"user_id"`
	BusinessName    string          `json:"business_name"`
	SellerType      string          `json:"seller_type"`
	Description     *string         `json:"description"`
	LocationAddress *string         `json:"location_address"`
	Address         json.RawMessage `json:"address"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	Tags            json.RawMessage `json:"tags"`
	ImageURL        *string         `json:"image_url"`
}

type Product struct {
	ID          *uuid.UUID `json:"id"`
	SellerID    string     `json:"seller_id"`
	Name        string     `json:"name"`
	ImageURL    *string    `json:"image_url"`
	Category    *string    `json:"category"`
	Subcategory *string    `json:"subcategory"`
	Brand       *string    `json:"brand"`
	Description *string    `json:"description"`
}

// Parse decodes and checks a seed file
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate rejects rows the API could not serve
func (f *File) Validate() error {
	seen := make(map[string]bool, len(f.Sellers))
	for i, s := range f.Sellers {
		if s.UserID == "" {
			return fmt.Errorf("sellers[%d]: user_id is required", i)
		}
		if seen[s.UserID] {
			return fmt.Errorf("sellers[%d]: duplicate user_id %q", i, s.UserID)
		}
		seen[s.UserID] = true

		switch s.SellerType {
		case "", models.SellerTypeWholesaler, models.SellerTypeManufacturer:
		default:
			return fmt.Errorf("sellers[%d]: unknown seller_type %q", i, s.SellerType)
		}
		if (s.Latitude == nil) != (s.Longitude == nil) {
			return fmt.Errorf("sellers[%d]: latitude and longitude must be set together", i)
		}
		if s.Latitude != nil {
			if err := geo.ValidateCoordinates(*s.Latitude, *s.Longitude); err != nil {
				return fmt.Errorf("sellers[%d]: %w", i, err)
			}
		}
	}

	for i, p := range f.Products {
		if p.SellerID == "" || p.Name == "" {
			return fmt.Errorf("products[%d]: seller_id and name are required", i)
		}
	}
	return nil
}

// Connect opens a pgx pool for dsn
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Result counts rows written
type Result struct {
	Sellers  int64
	Products int64
}

const upsertSeller = `
	INSERT INTO seller_details (
		id, user_id, business_name, seller_type, description, location_address,
		address, latitude, longitude, tags, image_url, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	ON CONFLICT (user_id) DO UPDATE SET
		business_name = EXCLUDED.business_name,
		seller_type = EXCLUDED.seller_type,
		description = EXCLUDED.description,
		location_address = EXCLUDED.location_address,
		address = EXCLUDED.address,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		tags = EXCLUDED.tags,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
`

const insertProduct = `
	INSERT INTO products (
		id, seller_id, name, image_url, category, subcategory, brand, description, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	ON CONFLICT (id) DO NOTHING
`

// Load writes f in one transaction: sellers upserted by user_id, products inserted once by id
func Load(ctx context.Context, pool *pgxpool.Pool, f *File) (Result, error) {
	log := logger.GetLogger("seed")
	var res Result

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range f.Sellers {
		batch.Queue(upsertSeller,
			uuid.New(), s.UserID, s.BusinessName, s.SellerType, s.Description, s.LocationAddress,
			jsonOrNil(s.Address), s.Latitude, s.Longitude, jsonOrNil(s.Tags), s.ImageURL,
		)
	}
	for _, p := range f.Products {
		id := uuid.New()
		if p.ID != nil {
			id = *p.ID
		}
		batch.Queue(insertProduct,
			id, p.SellerID, p.Name, p.ImageURL, p.Category, p.Subcategory, p.Brand, p.Description,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return Result{}, fmt.Errorf("seed row %d: %w", i, err)
		}
		if i < len(f.Sellers) {
			res.Sellers += tag.RowsAffected()
		} else {
			res.Products += tag.RowsAffected()
		}
	}
	if err := br.Close(); err != nil {
		return Result{}, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("트랜잭션 커밋 실패: %w", err)
	}

	log.Infof("Seed 완료: sellers %d, products %d", res.Sellers, res.Products)
	return res, nil
}

// jsonOrNil keeps absent jsonb columns NULL
func jsonOrNil(raw json.RawMessage) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
