package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML before it is rendered to a page. Post content is
// stored verbatim; sanitization happens only at display time.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
