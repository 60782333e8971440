// Package indexer talks to the subname indexer HTTP API, the source of
// truth for which subnames exist under a parent and who owns them.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	statsCacheTTL = 30 * time.Second
	recentMints   = 10
)

// Node is a single minted subname as the indexer reports it.
type Node struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Owner      string            `json:"owner"`
	ParentName string            `json:"parentName"`
	ExpiresAt  int64             `json:"expiry"`
	Texts      map[string]string `json:"texts"`
}

// NodeQuery filters a nodes listing.
type NodeQuery struct {
	Owner      string
	ParentName string
	Name       string // full name, for point lookups
	Limit      int
}

// Client queries the indexer.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewClient creates an indexer client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(statsCacheTTL, time.Minute),
	}
}

// Nodes lists subnames matching the query and the total match count.
func (c *Client) Nodes(ctx context.Context, q NodeQuery) ([]Node, int, error) {
	params := url.Values{}
	if q.Owner != "" {
		params.Set("owner", q.Owner)
	}
	if q.ParentName != "" {
		params.Set("parentName", q.ParentName)
	}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	endpoint := c.baseURL + "/api/v1/nodes?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("indexer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("indexer returned %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Items      []Node `json:"items"`
		TotalItems int    `json:"totalItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, fmt.Errorf("parsing indexer response: %w", err)
	}
	return out.Items, out.TotalItems, nil
}

// OwnedSubnames lists the subnames an address owns under parentName.
func (c *Client) OwnedSubnames(ctx context.Context, owner, parentName string) ([]Node, error) {
	items, _, err := c.Nodes(ctx, NodeQuery{Owner: owner, ParentName: parentName})
	return items, err
}

// MintStats summarizes minting activity under a parent name.
type MintStats struct {
	TotalMinted int
	RecentMints []string
}

// Stats returns mint statistics for parentName, cached for a short window
// so a refreshing UI does not hammer the indexer.
func (c *Client) Stats(ctx context.Context, parentName string) (*MintStats, error) {
	if cached, ok := c.cache.Get("stats:" + parentName); ok {
		return cached.(*MintStats), nil
	}

	items, total, err := c.Nodes(ctx, NodeQuery{ParentName: parentName, Limit: 100})
	if err != nil {
		return nil, err
	}

	stats := &MintStats{TotalMinted: total}
	for i, n := range items {
		if i >= recentMints {
			break
		}
		stats.RecentMints = append(stats.RecentMints, n.Name)
	}

	c.cache.Set("stats:"+parentName, stats, gocache.DefaultExpiration)
	return stats, nil
}
