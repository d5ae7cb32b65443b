package arguments

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
)

const (
	missingClosingQuoteMessageConstant = "No closing quotation"
	shellOperatorTemplateConstant      = "unsupported shell operator at offset %d"
)

// ErrMissingClosingQuote indicates a quoted token that never ends.
var ErrMissingClosingQuote = errors.New(missingClosingQuoteMessageConstant)

// Split tokenizes text. POSIX mode removes quotes and honors escapes; literal mode keeps
// quote characters and treats backslashes as ordinary characters.
func Split(text string, posix bool) ([]string, error) {
	if posix {
		parser := shellwords.NewParser()
		parser.ParseEnv = false
		parser.ParseBacktick = false
		tokens, parseError := parser.Parse(text)
		if parseError != nil {
			return nil, parseError
		}
		if parser.Position >= 0 {
			return nil, fmt.Errorf(shellOperatorTemplateConstant, parser.Position)
		}
		if tokens == nil {
			tokens = []string{}
		}
		return tokens, nil
	}
	return splitLiteral(text)
}

// splitLiteral starts a quoted token only at a token boundary and ends it right after the closing quote.
// Quotes inside a bare word are ordinary characters.
func splitLiteral(text string) ([]string, error) {
	tokens := []string{}
	var current strings.Builder
	inWord := false
	var openQuote rune

	flushToken := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		inWord = false
	}

	for _, character := range text {
		switch {
		case openQuote != 0:
			current.WriteRune(character)
			if character == openQuote {
				openQuote = 0
				flushToken()
			}
		case unicode.IsSpace(character):
			flushToken()
		case !inWord && (character == '"' || character == '\''):
			openQuote = character
			current.WriteRune(character)
		default:
			inWord = true
			current.WriteRune(character)
		}
	}
	if openQuote != 0 {
		return nil, ErrMissingClosingQuote
	}
	flushToken()
	return tokens, nil
}
