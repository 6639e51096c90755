package models

import (
	"fmt"
	"net/url"
)

// Attachment identifies one downloadable file linked from an article.
// The board exposes attachments as fn_download('atchFileNo', 'fileOrd', 'ext')
// JavaScript calls; the three arguments map directly onto these fields.
type Attachment struct {
	FileNo string // File-group handle (atchFileNo)
	Ord    string // Ordinal position within the group (fileOrd)
	Ext    string // Lowercase file extension, e.g. "hwp"
}

// Key returns a string uniquely identifying the (handle, ordinal, extension)
// triple, used to collapse attachments repeated verbatim on a detail page.
func (a Attachment) Key() string {
	return a.FileNo + "|" + a.Ord + "|" + a.Ext
}

// FormValues builds the form-encoded body the download endpoint expects.
// fileBtn=A requests the raw attachment rather than a preview.
func (a Attachment) FormValues() url.Values {
	return url.Values{
		"atchFileNo": {a.FileNo},
		"fileOrd":    {a.Ord},
		"fileBtn":    {"A"},
	}
}

// Filename derives the deterministic output filename for this attachment
// when downloaded for the given article.
func (a Attachment) Filename(prefix, articleID string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, articleID, a.Ext)
}
