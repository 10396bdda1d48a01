// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as NewsItem, along with
// their validation rules and domain-specific errors.
package entity

const (
	// SourceFallback is the publisher name used when the feed entry carries none.
	SourceFallback = "Haber"

	// DateFallback is the display time used when the feed entry has no parseable timestamp.
	DateFallback = "--:--"
)

// NewsItem represents one aggregated local-news entry.
// Link is always non-empty; Image stays empty until enrichment succeeds.
type NewsItem struct {
	Title    string
	Link     string
	Image    string
	Source   string
	Date     string
	District string
}

// HasImage reports whether the item already carries a representative image.
func (n *NewsItem) HasImage() bool {
	return n.Image != ""
}
