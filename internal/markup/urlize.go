package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	wwwPrefixConstant                = "www."
	httpPrefixConstant               = "http://"
	httpsPrefixConstant              = "https://"
	emailMarkerConstant              = "@"
	schemeMarkerConstant             = ":"
	ellipsisConstant                 = "..."
	nofollowAttributeConstant        = ` rel="nofollow"`
	schemelessAnchorTemplateConstant = `<a href="http://%s"%s>%s</a>`
	anchorTemplateConstant           = `<a href="%s"%s>%s</a>`
	mailtoAnchorTemplateConstant     = `<a href="mailto:%s">%s</a>`
	alphanumericCharactersConstant   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	wordSeparatorPattern = regexp.MustCompile(`\s+`)
	punctuationPattern   = regexp.MustCompile(`^((?:\(|<|&lt;)*)(.*?)((?:\.|,|\)|>|\n|&gt;)*)$`)
	simpleEmailPattern   = regexp.MustCompile(`^\S+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9._-]+$`)
	bareDomainSuffixes   = []string{".org", ".net", ".com"}
)

// UrlizeOptions tunes anchor generation.
type UrlizeOptions struct {
	// TrimLimit shortens link text to this many characters followed by an ellipsis.
	// The zero value leaves link text untrimmed rather than reducing it to a bare ellipsis.
	TrimLimit int
	Nofollow  bool
}

// Urlize HTML-escapes text and wraps http(s) URLs, www. hosts, bare .org/.net/.com domains and
// email addresses in anchors. Leading "(" or "<" and trailing ".,)>" punctuation stay outside the link.
func Urlize(text string, options UrlizeOptions) string {
	escaped := html.EscapeString(text)
	nofollowAttribute := ""
	if options.Nofollow {
		nofollowAttribute = nofollowAttributeConstant
	}

	var result strings.Builder
	previousEnd := 0
	for _, separator := range wordSeparatorPattern.FindAllStringIndex(escaped, -1) {
		result.WriteString(linkifyWord(escaped[previousEnd:separator[0]], nofollowAttribute, options.TrimLimit))
		result.WriteString(escaped[separator[0]:separator[1]])
		previousEnd = separator[1]
	}
	result.WriteString(linkifyWord(escaped[previousEnd:], nofollowAttribute, options.TrimLimit))
	return result.String()
}

func linkifyWord(word string, nofollowAttribute string, trimLimit int) string {
	matches := punctuationPattern.FindStringSubmatch(word)
	if matches == nil {
		return word
	}
	lead, middle, trail := matches[1], matches[2], matches[3]

	if strings.HasPrefix(middle, wwwPrefixConstant) || isBareDomain(middle) {
		middle = fmt.Sprintf(schemelessAnchorTemplateConstant, middle, nofollowAttribute, trimLinkText(middle, trimLimit))
	}
	if strings.HasPrefix(middle, httpPrefixConstant) || strings.HasPrefix(middle, httpsPrefixConstant) {
		middle = fmt.Sprintf(anchorTemplateConstant, middle, nofollowAttribute, trimLinkText(middle, trimLimit))
	}
	if strings.Contains(middle, emailMarkerConstant) &&
		!strings.HasPrefix(middle, wwwPrefixConstant) &&
		!strings.Contains(middle, schemeMarkerConstant) &&
		simpleEmailPattern.MatchString(middle) {
		middle = fmt.Sprintf(mailtoAnchorTemplateConstant, middle, middle)
	}
	return lead + middle + trail
}

func isBareDomain(middle string) bool {
	if len(middle) == 0 || strings.Contains(middle, emailMarkerConstant) {
		return false
	}
	if strings.HasPrefix(middle, httpPrefixConstant) || strings.HasPrefix(middle, httpsPrefixConstant) {
		return false
	}
	if !strings.ContainsRune(alphanumericCharactersConstant, rune(middle[0])) {
		return false
	}
	for _, suffix := range bareDomainSuffixes {
		if strings.HasSuffix(middle, suffix) {
			return true
		}
	}
	return false
}

func trimLinkText(linkText string, trimLimit int) string {
	if trimLimit <= 0 {
		return linkText
	}
	characters := []rune(linkText)
	if len(characters) < trimLimit {
		return linkText
	}
	return string(characters[:trimLimit]) + ellipsisConstant
}
