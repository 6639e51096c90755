package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/kpress/msit-dl/internal/apperrors"
	"github.com/kpress/msit-dl/internal/client"
	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/metrics"
	"github.com/kpress/msit-dl/internal/models"
)

// downloadPath is the fixed endpoint all attachment downloads go through,
// regardless of which article they belong to.
const downloadPath = "/ssm/file/fileDown.do"

// documentDownloader implements Downloader against the board's form-encoded
// download endpoint.
type documentDownloader struct {
	httpClient *http.Client
	endpoint   string
	minSize    int64
}

// NewDownloader creates a downloader using the browser-like transport and the
// configured download timeout and validity threshold.
func NewDownloader(cfg *config.Config) (Downloader, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + downloadPath

	return &documentDownloader{
		httpClient: &http.Client{
			Timeout:   cfg.DownloadTimeoutDuration(),
			Transport: client.NewBrowserTransport(cfg.UserAgent, nil),
		},
		endpoint: baseURL.String(),
		minSize:  cfg.MinFileSize,
	}, nil
}

// Download fetches one attachment via POST and writes it to path.
func (d *documentDownloader) Download(ctx context.Context, att models.Attachment, path string) (*models.DownloadResult, error) {
	logger := config.GetLogger()

	// Existence on disk is the cross-run dedup mechanism.
	if info, err := os.Stat(path); err == nil {
		logger.Debug().Str("path", path).Msg("File already exists, skipping download")
		metrics.DocumentDownloadsTotal.WithLabelValues(att.Ext, metrics.StatusExists).Inc()
		return &models.DownloadResult{Path: path, Size: info.Size(), AlreadyExists: true}, nil
	}

	size, err := d.fetchToFile(ctx, att, path)
	if err != nil {
		removeIfPresent(path)
		metrics.DocumentDownloadsTotal.WithLabelValues(att.Ext, metrics.StatusFailed).Inc()
		return nil, err
	}

	// The board answers bad requests with a small HTML error page and
	// status 200; size is the only way to tell it from a real document.
	if size <= d.minSize {
		removeIfPresent(path)
		metrics.DocumentDownloadsTotal.WithLabelValues(att.Ext, metrics.StatusFailed).Inc()
		return nil, &apperrors.ErrUndersizedDownload{Path: path, Size: size, MinSize: d.minSize}
	}

	metrics.DocumentDownloadsTotal.WithLabelValues(att.Ext, metrics.StatusOK).Inc()
	return &models.DownloadResult{Path: path, Size: size}, nil
}

// fetchToFile issues the form-encoded POST and streams the response body to
// path, returning the number of bytes written.
func (d *documentDownloader) fetchToFile(ctx context.Context, att models.Attachment, path string) (int64, error) {
	body := strings.NewReader(att.FormValues().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &apperrors.ErrBadStatus{URL: d.endpoint, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return written, nil
}

func removeIfPresent(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("path", path).Msg("Failed to remove partial download")
	}
}
