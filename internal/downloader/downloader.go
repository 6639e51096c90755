package downloader

import (
	"context"

	"github.com/kpress/msit-dl/internal/models"
)

// Downloader retrieves one attachment and writes it to a target path.
type Downloader interface {
	// Download fetches the attachment and writes it to path. If path already
	// exists the download is skipped and the result reports AlreadyExists.
	// A download that produced an invalid (undersized) file is removed from
	// disk and reported as an error.
	Download(ctx context.Context, att models.Attachment, path string) (*models.DownloadResult, error)
}
