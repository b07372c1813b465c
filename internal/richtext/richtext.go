// Package richtext turns HTML fragments that models sometimes emit inside
// text fields ("<p>What is <code>O(n)</code>?</p>") into markdown.
package richtext

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// tagPattern matches common inline and block tags only, so comparisons such
// as "a<b and c>d" are not mistaken for markup.
var tagPattern = regexp.MustCompile(`(?i)</?(p|br|b|i|u|em|strong|code|pre|ul|ol|li|sup|sub|span|div|h[1-6]|table|thead|tbody|tr|td|th|a|img|blockquote)(\s[^<>]*)?/?>`)

// HasMarkup reports whether s contains a recognized HTML tag.
func HasMarkup(s string) bool {
	return tagPattern.MatchString(s)
}

// Markdown converts s to markdown when it contains HTML markup. Text without
// markup, and text the converter rejects, is returned unchanged.
func Markdown(s string) string {
	if !HasMarkup(s) {
		return s
	}
	converted, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	converted = strings.TrimSpace(converted)
	if converted == "" {
		return s
	}
	return converted
}
