// Package resolve decodes Google News redirect links into canonical article URLs.
// Google News wraps article links as news.google.com/rss/articles/<token> where
// the token is base64-encoded binary data embedding the real URL.
package resolve

import (
	"encoding/base64"
	"regexp"
	"strings"
)

const (
	redirectHost    = "news.google.com"
	articlesSegment = "articles/"
)

// embeddedURLPattern extracts the first http(s) URL from decoded token bytes.
// The token payload is not valid UTF-8 around the URL, so the character class
// stops at whitespace, quotes, pipes and tag closers.
var embeddedURLPattern = regexp.MustCompile(`https?://[^\s|"'>]+`)

// ArticleURL resolves a Google News redirect link to the canonical article URL.
// URLs that are not Google News redirects are returned unchanged, and every
// failure path (missing token, undecodable base64, no embedded URL) degrades to
// returning the input. The function never fails for any string input.
func ArticleURL(rawURL string) string {
	if !strings.Contains(rawURL, redirectHost) || !strings.Contains(rawURL, articlesSegment) {
		return rawURL
	}

	token := rawURL[strings.Index(rawURL, articlesSegment)+len(articlesSegment):]
	if q := strings.IndexByte(token, '?'); q >= 0 {
		token = token[:q]
	}
	if token == "" {
		return rawURL
	}

	decoded, ok := decodeToken(token)
	if !ok {
		return rawURL
	}

	// 不正なバイトは捨ててからURLを抽出する
	text := strings.ToValidUTF8(string(decoded), "")
	if match := embeddedURLPattern.FindString(text); match != "" {
		return match
	}
	return rawURL
}

// decodeToken base64-decodes a redirect token, tolerating missing padding and
// both the URL-safe and standard alphabets.
func decodeToken(token string) ([]byte, bool) {
	trimmed := strings.TrimRight(token, "=")
	if decoded, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil {
		return decoded, true
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		return decoded, true
	}
	return nil, false
}
