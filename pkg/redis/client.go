package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("Connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("Waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	rdb.Close()
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

func tokenKey(sessionID string) string { return "session:" + sessionID + ":token" }

// SessionToken returns the stored token of a session, "" when absent.
func (c *Client) SessionToken(ctx context.Context, sessionID string) (string, error) {
	tok, err := c.rdb.Get(ctx, tokenKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return tok, err
}

// SetSessionToken stores a session's token; it expires after ttl.
func (c *Client) SetSessionToken(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, tokenKey(sessionID), token, ttl).Err()
}

// TouchSessionToken pushes a session token's expiry ttl into the future.
// A missing key is left missing.
func (c *Client) TouchSessionToken(ctx context.Context, sessionID string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, tokenKey(sessionID), ttl).Err()
}

// DeleteSessionToken removes a session's token (logout).
func (c *Client) DeleteSessionToken(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, tokenKey(sessionID)).Err()
}

func geoKey(query string) string { return "geo:" + query }

// CacheLocation stores a geocoding result in a hash with TTL.
func (c *Client) CacheLocation(ctx context.Context, query string, lat, lng float64, ttl time.Duration) error {
	key := geoKey(query)
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lng": strconv.FormatFloat(lng, 'f', -1, 64),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// CachedLocation retrieves a cached geocoding result. ok is false on a miss.
func (c *Client) CachedLocation(ctx context.Context, query string) (lat, lng float64, ok bool, err error) {
	m, err := c.rdb.HGetAll(ctx, geoKey(query)).Result()
	if err != nil || len(m) == 0 {
		return 0, 0, false, err
	}
	if lat, err = strconv.ParseFloat(m["lat"], 64); err != nil {
		return 0, 0, false, err
	}
	if lng, err = strconv.ParseFloat(m["lng"], 64); err != nil {
		return 0, 0, false, err
	}
	return lat, lng, true, nil
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
