package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bizcards/internal/cards"
)

// DefaultURL is the public Nominatim search endpoint.
const DefaultURL = "https://nominatim.openstreetmap.org/search"

const cacheTTL = 7 * 24 * time.Hour

// ErrNotFound means neither the full address nor the city resolved.
var ErrNotFound = errors.New("location not found")

// Position is a resolved map pin.
type Position struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Query string  `json:"query"`
}

// Cache stores resolved queries. *redis.Client satisfies it.
type Cache interface {
	CachedLocation(ctx context.Context, query string) (lat, lng float64, ok bool, err error)
	CacheLocation(ctx context.Context, query string, lat, lng float64, ttl time.Duration) error
}

// Client resolves addresses with a Nominatim-compatible search API.
type Client struct {
	base      string
	http      *http.Client
	userAgent string
	cache     Cache
}

// NewClient returns a geocoder. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache Cache) *Client {
	return &Client{
		base:      baseURL,
		http:      &http.Client{Timeout: timeout},
		userAgent: "bizcards/1.0",
		cache:     cache,
	}
}

// FullQuery is "<street> <houseNumber>, <city>, <country>".
func FullQuery(a cards.Address) string {
	return fmt.Sprintf("%s %d, %s, %s", a.Street, a.HouseNumber, a.City, a.Country)
}

// CityQuery is the fallback "<city>, <country>".
func CityQuery(a cards.Address) string {
	return a.City + ", " + a.Country
}

// Locate resolves the card address, falling back to city and country.
func (c *Client) Locate(ctx context.Context, a cards.Address) (*Position, error) {
	for _, q := range []string{FullQuery(a), CityQuery(a)} {
		p, err := c.Search(ctx, q)
		if err == nil {
			return p, nil
		}
		log.Printf("[geocode] %q: %v", q, err)
	}
	return nil, ErrNotFound
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search resolves one free-text query to its first match.
func (c *Client) Search(ctx context.Context, query string) (*Position, error) {
	if c.cache != nil {
		lat, lng, ok, err := c.cache.CachedLocation(ctx, query)
		if err != nil {
			log.Printf("[geocode] cache read: %v", err)
		} else if ok {
			return &Position{Lat: lat, Lng: lng, Query: query}, nil
		}
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrNotFound
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.CacheLocation(ctx, query, lat, lng, cacheTTL); err != nil {
			log.Printf("[geocode] cache write: %v", err)
		}
	}
	return &Position{Lat: lat, Lng: lng, Query: query}, nil
}
