package models

// ArticleDetail holds everything extracted from one press-release detail page.
type ArticleDetail struct {
	ID          string       // Numeric sequence number (nttSeqNo) of the post
	Title       string       // Article title, empty when it could not be extracted
	Attachments []Attachment // Deduplicated, in first-occurrence order
}
