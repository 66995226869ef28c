package feeds

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripHTML flattens markup and entities that some providers embed in
// headline text.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return strings.TrimSpace(s)
	}
	return text
}

// hashID derives a stable identity from a URL when the provider supplies
// no usable one.
func hashID(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:16]
}
