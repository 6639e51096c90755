package parser

import (
	"fmt"
	"io"
	"regexp"

	"github.com/kpress/msit-dl/internal/config"
)

// detailCallPattern matches the fn_detail(NNN) JavaScript calls the listing
// page uses to open an article, capturing the article sequence number.
var detailCallPattern = regexp.MustCompile(`fn_detail\((\d+)\)`)

// ExtractArticleIDs scans listing page markup for article identifiers.
// Duplicate identifiers are collapsed; first-occurrence order is preserved.
func ExtractArticleIDs(body io.Reader) ([]string, error) {
	logger := config.GetLogger()

	utf8Body, err := NewUTF8Reader(body)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	data, err := io.ReadAll(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("read listing page: %w", err)
	}

	matches := detailCallPattern.FindAllSubmatch(data, -1)
	seen := make(map[string]struct{}, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := string(m[1])
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	logger.Debug().Int("matches", len(matches)).Int("unique", len(ids)).Msg("Extracted article IDs from listing page")
	return ids, nil
}
