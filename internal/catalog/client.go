package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

type upstreamReview struct {
	Rating int `json:"rating"`
}

// upstreamProduct is the product shape of the public catalog API.
type upstreamProduct struct {
	ID                 int              `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Category           string           `json:"category"`
	Price              float64          `json:"price"`
	DiscountPercentage float64          `json:"discountPercentage"`
	Rating             float64          `json:"rating"`
	Stock              int              `json:"stock"`
	Brand              string           `json:"brand"`
	Thumbnail          string           `json:"thumbnail"`
	Images             []string         `json:"images"`
	Reviews            []upstreamReview `json:"reviews"`
}

type productPage struct {
	Products []upstreamProduct `json:"products"`
	Total    int               `json:"total"`
}

func (u upstreamProduct) toModel(now time.Time) models.Product {
	p := models.Product{
		ID:          u.ID,
		Name:        u.Title,
		Description: u.Description,
		Price:       u.Price,
		Category:    u.Category,
		Brand:       u.Brand,
		Rating:      u.Rating,
		ReviewCount: len(u.Reviews),
		Stock:       u.Stock,
		Image:       u.Thumbnail,
		Thumbnail:   u.Thumbnail,
		Variants:    []models.ProductVariant{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(u.Images) > 0 {
		p.Image = u.Images[0]
	}
	if u.DiscountPercentage > 0 && u.DiscountPercentage < 100 {
		original := math.Round(u.Price/(1-u.DiscountPercentage/100)*100) / 100
		p.OriginalPrice = &original
	}
	return p
}

// Cache stores raw upstream responses. Get returns ErrCacheMiss when the key
// is absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var ErrCacheMiss = errors.New("catalog cache miss")

type Client struct {
	baseURL  string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewClient returns a client for the catalog at baseURL. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache Cache, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// List fetches the first limit products.
func (c *Client) List(ctx context.Context, limit int) ([]models.Product, error) {
	return c.fetch(ctx, "/products?limit="+strconv.Itoa(limit))
}

// Search fetches the products matching q upstream.
func (c *Client) Search(ctx context.Context, q string) ([]models.Product, error) {
	return c.fetch(ctx, "/products/search?q="+url.QueryEscape(q))
}

func (c *Client) fetch(ctx context.Context, path string) ([]models.Product, error) {
	body, err := c.cached(ctx, path)
	if err != nil {
		return nil, err
	}

	var page productPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	now := c.now().UTC()
	products := make([]models.Product, len(page.Products))
	for i, u := range page.Products {
		products[i] = u.toModel(now)
	}
	return products, nil
}

func (c *Client) cached(ctx context.Context, path string) ([]byte, error) {
	key := "storefront:catalog:" + path
	if c.cache != nil {
		body, err := c.cache.Get(ctx, key)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logx.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			logx.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded %d for %s", resp.StatusCode, path)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
