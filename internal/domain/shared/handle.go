package shared

import (
	"regexp"
	"strings"
)

var handleSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe handle
func Slugify(name string) string {
	h := handleSanitizer.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(h, "-")
}
