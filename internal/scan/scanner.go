package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kpress/msit-dl/internal/client"
	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/downloader"
	"github.com/kpress/msit-dl/internal/models"
)

// Scanner drives the scan pipeline: listing pages are scanned for article
// IDs, each article's detail page is checked for attachments, and accepted
// attachments are downloaded. Execution is strictly sequential with a
// politeness delay between network calls; failures at page or article
// granularity are logged and skipped so one bad fetch never aborts the run.
type Scanner struct {
	client     client.Client
	downloader downloader.Downloader
	cfg        *config.Config
}

// New creates a Scanner over the given client and downloader.
func New(c client.Client, d downloader.Downloader, cfg *config.Config) *Scanner {
	return &Scanner{client: c, downloader: d, cfg: cfg}
}

// Run executes the full pipeline and returns the per-extension tally.
// The returned error is non-nil only when the context was cancelled.
func (s *Scanner) Run(ctx context.Context) (*models.Tally, error) {
	logger := config.GetLogger()
	tally := models.NewTally(s.cfg.Extensions)
	delay := s.cfg.DelayDuration()

	logger.Info().Int("pages", s.cfg.Pages).Msg("Scanning MSIT press release listing")

	ids, err := s.collectArticleIDs(ctx, delay)
	if err != nil {
		return tally, err
	}

	logger.Info().Int("articles", len(ids)).Msg("Found unique articles, checking for files")

	for i, articleID := range ids {
		if err := s.processArticle(ctx, articleID, i+1, len(ids), tally, delay); err != nil {
			return tally, err
		}
	}

	logger.Info().
		Str("downloaded", tally.Summary()).
		Int("failed", tally.Failed()).
		Str("outdir", s.cfg.OutDir).
		Msg("Done")
	return tally, nil
}

// collectArticleIDs scans the configured number of listing pages and returns
// the sorted union of article IDs. A failed page contributes nothing.
func (s *Scanner) collectArticleIDs(ctx context.Context, delay time.Duration) ([]string, error) {
	logger := config.GetLogger()
	seen := make(map[string]struct{})

	for page := 1; page <= s.cfg.Pages; page++ {
		ids, err := s.client.ArticleIDs(ctx, page)
		if err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("Failed to scan listing page")
		} else {
			logger.Info().Int("page", page).Int("articles", len(ids)).Msg("Scanned page")
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}
		if err := s.pause(ctx, delay); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// processArticle fetches one article's detail page and downloads its accepted
// attachments.
func (s *Scanner) processArticle(ctx context.Context, articleID string, index, total int, tally *models.Tally, delay time.Duration) error {
	logger := config.GetLogger()

	detail, err := s.client.ArticleDetail(ctx, articleID)
	if err != nil {
		logger.Warn().Err(err).Str("article", articleID).Msg("Failed to fetch article")
		return s.pause(ctx, delay)
	}

	progress := logger.With().
		Str("article", articleID).
		Str("progress", progressLabel(index, total)).
		Logger()

	if len(detail.Attachments) == 0 {
		progress.Info().Msg("No downloadable files")
		return s.pause(ctx, delay)
	}

	progress.Info().
		Str("title", detail.Title).
		Str("files", attachmentExts(detail.Attachments)).
		Msg("Found attachments")

	for _, att := range detail.Attachments {
		if !tally.Accepts(att.Ext) {
			continue
		}

		path := filepath.Join(s.cfg.OutDir, att.Filename(s.cfg.FilePrefix, articleID))
		result, err := s.downloader.Download(ctx, att, path)
		switch {
		case err != nil:
			progress.Warn().Err(err).Str("ext", att.Ext).Msg("Download FAILED")
			tally.AddFailure()
		case result.AlreadyExists:
			// No request was made, so no pacing is needed.
			progress.Info().Str("ext", att.Ext).Msg("Already exists, skipping")
			tally.Add(att.Ext)
			continue
		default:
			progress.Info().Str("ext", att.Ext).Int64("bytes", result.Size).Msg("Downloaded OK")
			tally.Add(att.Ext)
		}

		// Half delay between downloads belonging to the same article.
		if err := s.pause(ctx, delay/2); err != nil {
			return err
		}
	}

	return s.pause(ctx, delay)
}

// pause sleeps for d or until the context is cancelled.
func (s *Scanner) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func progressLabel(index, total int) string {
	return fmt.Sprintf("%d/%d", index, total)
}

func attachmentExts(attachments []models.Attachment) string {
	exts := make([]string, 0, len(attachments))
	for _, att := range attachments {
		exts = append(exts, att.Ext)
	}
	return strings.Join(exts, ", ")
}
