package client

import (
	"context"
	"net/http"

	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/models"
	"github.com/kpress/msit-dl/internal/pagecache"
)

// Client defines the interface for querying the MSIT press-release board.
type Client interface {
	// ArticleIDs fetches one listing page and returns the distinct article
	// identifiers found on it, in first-occurrence order.
	ArticleIDs(ctx context.Context, page int) ([]string, error)

	// ArticleDetail fetches an article's detail page and returns its title and
	// deduplicated attachment descriptors. An article without attachments is a
	// normal result, not an error.
	ArticleDetail(ctx context.Context, articleID string) (*models.ArticleDetail, error)

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient *http.Client
	baseURL    string
	pageCache  pagecache.Store // nil when page caching is disabled
}

// NewClient creates a new client for the configured board. When a cache
// provider is configured, fetched page bodies are cached by URL so repeated
// runs within the TTL do not hit the remote host again.
func NewClient(cfg *config.Config) (Client, error) {
	httpClient := &http.Client{
		Timeout:   cfg.FetchTimeoutDuration(),
		Transport: NewBrowserTransport(cfg.UserAgent, nil),
	}

	var pageCache pagecache.Store
	if cfg.Cache.Provider != "" {
		store, err := pagecache.New(pagecache.Config{
			Provider:      cfg.Cache.Provider,
			Size:          cfg.Cache.Size,
			TTL:           cfg.CacheTTLDuration(),
			RedisAddress:  cfg.Cache.RedisAddress,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       cfg.Cache.RedisDB,
			Logger:        config.GetLogger(),
		})
		if err != nil {
			return nil, err
		}
		pageCache = store
	}

	return &client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		pageCache:  pageCache,
	}, nil
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.pageCache != nil {
		return c.pageCache.Close()
	}
	return nil
}
