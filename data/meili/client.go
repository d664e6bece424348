package meili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
)

// ErrNoClient is returned by every operation on an unconfigured client.
var ErrNoClient = errors.New("meilisearch client is nil")

// Client Meilisearch client
type Client struct {
	client meilisearch.ServiceManager
}

// NewMeilisearch new Meilisearch client
func NewMeilisearch(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}
}

// NewWithManager wraps an existing service manager.
func NewWithManager(sm meilisearch.ServiceManager) *Client {
	return &Client{client: sm}
}

func (c *Client) ready() error {
	if c == nil || c.client == nil {
		return ErrNoClient
	}
	return nil
}

// Health reports whether the server answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	h, err := c.client.HealthWithContext(ctx)
	if err != nil {
		return err
	}
	if h.Status != "available" {
		return fmt.Errorf("meilisearch status %q", h.Status)
	}
	return nil
}

// SearchIDs runs a query and returns the primary keys of the hits in rank order.
func (c *Client) SearchIDs(ctx context.Context, index, query string, offset, limit int64) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.Index(index).SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Offset:               offset,
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var hits []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("meilisearch hits: %w", err)
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// IndexDocuments index document to Meilisearch
func (c *Client) IndexDocuments(ctx context.Context, index string, document any, primaryKey ...string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.client.Index(index).AddDocumentsWithContext(ctx, document, primaryKey...); err != nil {
		return fmt.Errorf("meilisearch index: %w", err)
	}
	return nil
}

// DeleteDocument delete document from Meilisearch
func (c *Client) DeleteDocument(ctx context.Context, index, documentID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.client.Index(index).DeleteDocumentWithContext(ctx, documentID); err != nil {
		return fmt.Errorf("meilisearch delete: %w", err)
	}
	return nil
}
