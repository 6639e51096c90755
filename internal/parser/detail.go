package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/models"
)

// downloadCallPattern matches the fn_download('atchFileNo', 'fileOrd', 'ext')
// JavaScript calls that attachment links on a detail page are wired to.
var downloadCallPattern = regexp.MustCompile(`fn_download\('(\d+)',\s*'(\d+)',\s*'(\w+)'\)`)

// ParseDetail extracts the attachment descriptors and article title from
// detail page markup. Descriptors repeated verbatim (the board renders each
// attachment link twice, once for preview and once for download) are collapsed
// to one entry, keeping first-occurrence order. A page with no attachment
// matches is a normal outcome.
func ParseDetail(articleID string, body io.Reader) (*models.ArticleDetail, error) {
	logger := config.GetLogger()

	utf8Body, err := NewUTF8Reader(body)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	data, err := io.ReadAll(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("read detail page: %w", err)
	}

	detail := &models.ArticleDetail{
		ID:          articleID,
		Title:       extractTitle(data),
		Attachments: extractAttachments(data),
	}

	logger.Debug().
		Str("article", articleID).
		Str("title", detail.Title).
		Int("attachments", len(detail.Attachments)).
		Msg("Parsed article detail page")
	return detail, nil
}

func extractAttachments(data []byte) []models.Attachment {
	matches := downloadCallPattern.FindAllSubmatch(data, -1)
	seen := make(map[string]struct{}, len(matches))
	attachments := make([]models.Attachment, 0, len(matches))
	for _, m := range matches {
		att := models.Attachment{
			FileNo: string(m[1]),
			Ord:    string(m[2]),
			Ext:    strings.ToLower(string(m[3])),
		}
		if _, exists := seen[att.Key()]; exists {
			continue
		}
		seen[att.Key()] = struct{}{}
		attachments = append(attachments, att)
	}
	return attachments
}

// extractTitle pulls the article title for progress output. The board page
// structure is not guaranteed, so several selectors are tried in order; an
// empty result only degrades logging, never the download itself.
func extractTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title
		}
	}
	for _, selector := range []string{".view_head h3", ".board_view h3", "h3.title"} {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
