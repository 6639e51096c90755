package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kpress/msit-dl/internal/apperrors"
	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/metrics"
	"github.com/kpress/msit-dl/internal/models"
	"github.com/kpress/msit-dl/internal/parser"
)

const (
	listPath = "/bbs/list.do"
	viewPath = "/bbs/view.do"
)

// boardQuery returns the fixed query parameters selecting the press-release
// board (공지사항) on the MSIT site.
func boardQuery() url.Values {
	return url.Values{
		"sCode":    {"user"},
		"mId":      {"310"},
		"mPid":     {"121"},
		"bbsSeqNo": {"96"},
	}
}

// ArticleIDs fetches one listing page and extracts the distinct article IDs.
func (c *client) ArticleIDs(ctx context.Context, page int) ([]string, error) {
	logger := config.GetLogger()

	listURL, err := c.buildListURL(page)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchPage(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
	}
	metrics.PagesScannedTotal.Inc()

	ids, err := parser.ExtractArticleIDs(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page %d: %w", page, err)
	}

	logger.Debug().Int("page", page).Int("articles", len(ids)).Msg("Scanned listing page")
	return ids, nil
}

// ArticleDetail fetches an article's detail page and extracts its title and
// attachment descriptors.
func (c *client) ArticleDetail(ctx context.Context, articleID string) (*models.ArticleDetail, error) {
	viewURL, err := c.buildViewURL(articleID)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchPage(ctx, viewURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article %s: %w", articleID, err)
	}
	metrics.ArticlesInspectedTotal.Inc()

	detail, err := parser.ParseDetail(articleID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse article %s: %w", articleID, err)
	}
	for _, att := range detail.Attachments {
		metrics.AttachmentsFoundTotal.WithLabelValues(att.Ext).Inc()
	}
	return detail, nil
}

func (c *client) buildListURL(page int) (string, error) {
	return c.buildBoardURL(listPath, "pageIndex", strconv.Itoa(page))
}

func (c *client) buildViewURL(articleID string) (string, error) {
	return c.buildBoardURL(viewPath, "nttSeqNo", articleID)
}

func (c *client) buildBoardURL(path, key, value string) (string, error) {
	baseURL, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + path
	query := boardQuery()
	query.Set(key, value)
	baseURL.RawQuery = query.Encode()

	return baseURL.String(), nil
}

// fetchPage performs an HTTP GET and returns the response body bytes,
// consulting the page cache first when one is configured.
func (c *client) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	logger := config.GetLogger()

	if c.pageCache != nil {
		if body, found := c.pageCache.Get(pageURL); found {
			logger.Debug().Str("url", pageURL).Msg("Page cache hit")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrBadStatus{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.pageCache != nil {
		c.pageCache.Set(pageURL, body)
	}
	return body, nil
}
