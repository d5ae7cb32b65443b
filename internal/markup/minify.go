package markup

import (
	"regexp"
	"strings"
)

type replacement struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	cssReplacements = []replacement{
		{pattern: regexp.MustCompile(`(?:/\*[\s\S]*?\*/|\s)+`), replacement: " "},
		{pattern: regexp.MustCompile(`[ ;]*([^\w:*.#% -])[ ;]*`), replacement: "${1}"},
		{pattern: regexp.MustCompile(`\*?: *`), replacement: ":"},
	}
	htmlReplacements = []replacement{
		{pattern: regexp.MustCompile(`(?:<!-[\s\S]*?->|\s)+`), replacement: " "},
		{pattern: regexp.MustCompile(` +<`), replacement: "<"},
		{pattern: regexp.MustCompile(` ?/?>`), replacement: ">"},
		{pattern: regexp.MustCompile(`(?i)</(?:li|t[rhd])>|</p> *(<[p/])`), replacement: "${1}"},
	}
)

// MinifyCSS drops comments, collapses whitespace, removes semicolons and spaces around
// punctuation, and strips universal selectors before pseudo-classes. Spaces before ":" in
// declarations survive only when they follow a word character.
func MinifyCSS(source string) string {
	return applyReplacements(source, cssReplacements)
}

// MinifyHTML drops comments, collapses whitespace, removes self-closing slashes and the
// optional closing tags of list items, table cells and rows, and paragraphs followed by a tag.
func MinifyHTML(source string) string {
	return applyReplacements(source, htmlReplacements)
}

func applyReplacements(source string, replacements []replacement) string {
	result := source
	for _, step := range replacements {
		result = step.pattern.ReplaceAllString(result, step.replacement)
	}
	return strings.TrimSpace(result)
}
