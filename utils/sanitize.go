package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML content to prevent XSS while keeping
// common formatting tags.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup, for titles and other one-line fields.
func SanitizePlain(input string) string {
	return plainPolicy.Sanitize(input)
}
