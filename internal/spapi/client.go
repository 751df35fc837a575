// Package spapi is a minimal client for the Amazon Selling Partner API.
// It covers the two calls the dashboard needs (orders and FBA inventory)
// plus the LWA token exchange that fronts them. Every failure is collapsed
// into ErrUnavailable; callers only need to know the live path is down,
// not why.
package spapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
)

// ErrUnavailable is returned for any live-source failure: network, auth,
// rate limiting, or a malformed response.
var ErrUnavailable = errors.New("live source unavailable")

const userAgent = "WallCharmers-ViktoryDashboard/3.0"

// tokenExpirySkew is subtracted from the LWA expiry so a token is refreshed
// before Amazon rejects it mid-request.
const tokenExpirySkew = 60 * time.Second

// rateLimitRetryDelay is how long to wait before the single retry after a 429.
const rateLimitRetryDelay = 2 * time.Second

// Config holds the connection settings for one seller account.
type Config struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	SellerID      string
	MarketplaceID string
	Endpoint      string
	LWAURL        string
	Timeout       time.Duration
}

// Client communicates with the Selling Partner API using LWA bearer auth.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *common.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a client for the given seller account.
func NewClient(cfg Config, logger *common.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Order is one order record from the orders API. Only the fields the
// dashboard aggregates are decoded.
type Order struct {
	AmazonOrderID          string `json:"AmazonOrderId"`
	PurchaseDate           string `json:"PurchaseDate"`
	OrderStatus            string `json:"OrderStatus"`
	NumberOfItemsShipped   int    `json:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int    `json:"NumberOfItemsUnshipped"`
	OrderTotal             struct {
		CurrencyCode string `json:"CurrencyCode"`
		Amount       string `json:"Amount"`
	} `json:"OrderTotal"`
}

// Units returns the total item count on the order.
func (o Order) Units() int {
	return o.NumberOfItemsShipped + o.NumberOfItemsUnshipped
}

// InventorySummary is one FBA inventory record.
type InventorySummary struct {
	SellerSKU     string `json:"sellerSku"`
	ASIN          string `json:"asin"`
	TotalQuantity int    `json:"totalQuantity"`
}

// GetOrders fetches shipped and delivered orders created in [after, before).
// GET /orders/v0/orders
func (c *Client) GetOrders(ctx context.Context, after, before time.Time) ([]Order, error) {
	params := url.Values{}
	params.Set("MarketplaceIds", c.cfg.MarketplaceID)
	params.Set("CreatedAfter", after.UTC().Format(time.RFC3339))
	params.Set("CreatedBefore", before.UTC().Format(time.RFC3339))
	params.Set("OrderStatuses", "Shipped,Delivered")

	body, err := c.get(ctx, "/orders/v0/orders", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Payload struct {
			Orders []Order `json:"Orders"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed orders response: %v", ErrUnavailable, err)
	}

	return result.Payload.Orders, nil
}

// GetInventorySummaries fetches current FBA stock levels for the marketplace.
// GET /fba/inventory/v1/summaries
func (c *Client) GetInventorySummaries(ctx context.Context) ([]InventorySummary, error) {
	params := url.Values{}
	params.Set("details", "true")
	params.Set("granularityType", "Marketplace")
	params.Set("granularityId", c.cfg.MarketplaceID)
	params.Set("marketplaceIds", c.cfg.MarketplaceID)

	body, err := c.get(ctx, "/fba/inventory/v1/summaries", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Payload struct {
			InventorySummaries []InventorySummary `json:"inventorySummaries"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed inventory response: %v", ErrUnavailable, err)
	}

	return result.Payload.InventorySummaries, nil
}

// get performs an authenticated GET against the SP-API endpoint.
// A 429 is retried once after a short delay; any other non-200 fails.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	retried := false
	for {
		body, status, err := c.doGet(ctx, path, params)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusOK:
			return body, nil
		case status == http.StatusTooManyRequests && !retried:
			retried = true
			if c.logger != nil {
				c.logger.Warn().Str("path", path).Msg("sp-api rate limited, retrying once")
			}
			select {
			case <-time.After(rateLimitRetryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		default:
			return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUnavailable, path, status, truncate(body, 200))
		}
	}
}

// doGet performs a single authenticated request.
func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	reqURL := c.cfg.Endpoint + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-amz-access-token", token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	return body, resp.StatusCode, nil
}

// getAccessToken returns a cached LWA access token, exchanging the refresh
// token when the cache is empty or near expiry.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.cfg.RefreshToken)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LWAURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read token response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d: %s", ErrUnavailable, resp.StatusCode, truncate(body, 200))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: malformed token response", ErrUnavailable)
	}

	expiresIn := time.Duration(token.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(expiresIn - tokenExpirySkew)

	if c.logger != nil {
		c.logger.Debug().Str("seller", c.cfg.SellerID).Msg("LWA access token refreshed")
	}

	return c.accessToken, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
