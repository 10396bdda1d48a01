package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/resolve"
	"istanbul-news/internal/usecase/aggregate"
)

// imageAttrs are the <img> attributes checked for an image URL, in order.
// Lazy-loading markup often leaves src empty and puts the real URL in a
// data attribute.
var imageAttrs = []string{"src", "data-src", "data-lazy-src"}

// normalizeItem converts a raw gofeed item into an aggregate.FeedItem.
// Google News wraps everything: titles carry a " - Publisher" suffix, links
// point at a redirector, and images hide in extensions or embedded HTML.
func normalizeItem(it *gofeed.Item) aggregate.FeedItem {
	title, publisher := splitPublisher(it.Title)

	date := entity.DateFallback
	if it.PublishedParsed != nil {
		date = it.PublishedParsed.Local().Format("15:04")
	}

	return aggregate.FeedItem{
		Title:       title,
		Link:        resolve.ArticleURL(it.Link),
		Image:       itemImage(it),
		Source:      itemSource(it, publisher),
		Date:        date,
		PublishedAt: it.PublishedParsed,
	}
}

// splitPublisher strips the trailing " - Publisher" that Google News appends
// to titles. The split happens on the last separator so titles containing
// " - " themselves survive.
func splitPublisher(title string) (clean, publisher string) {
	idx := strings.LastIndex(title, " - ")
	if idx < 0 {
		return title, ""
	}
	return title[:idx], strings.TrimSpace(title[idx+3:])
}

// itemImage extracts an image URL from a feed item, trying in order the
// media RSS extensions, enclosures, and any <img> embedded in the
// description HTML. Returns "" when nothing is found.
func itemImage(it *gofeed.Item) string {
	if u := mediaExtensionURL(it, "content"); u != "" {
		return u
	}
	if u := mediaExtensionURL(it, "thumbnail"); u != "" {
		return u
	}

	for _, enc := range it.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	return descriptionImage(it.Description)
}

// mediaExtensionURL reads the url attribute of a media:<name> extension.
func mediaExtensionURL(it *gofeed.Item, name string) string {
	media, ok := it.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[name] {
		if u := ext.Attrs["url"]; u != "" {
			return u
		}
	}
	return ""
}

// descriptionImage pulls the first usable <img> URL out of an HTML snippet.
func descriptionImage(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range imageAttrs {
			if v, ok := sel.Attr(attr); ok && v != "" {
				found = v
				return false
			}
		}
		return true
	})
	return found
}

// itemSource resolves the publisher name for an item. The RSS <source>
// element wins, then the publisher split off the title, then a generic
// fallback.
func itemSource(it *gofeed.Item, publisher string) string {
	if src := strings.TrimSpace(it.Custom["source"]); src != "" {
		return src
	}
	if publisher != "" {
		return publisher
	}
	return entity.SourceFallback
}
