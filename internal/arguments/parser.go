package arguments

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	argumentErrorPrefixConstant   = "ArgumentError: "
	helpRequestedTemplateConstant = "help is not available: %w"
)

// FlagDefinitions registers the flags a parser accepts.
type FlagDefinitions func(flagSet *pflag.FlagSet)

// ArgumentError wraps splitting and flag parsing failures.
type ArgumentError struct {
	Cause error
}

// Error renders the failure with an ArgumentError prefix.
func (argumentError *ArgumentError) Error() string {
	return argumentErrorPrefixConstant + argumentError.Cause.Error()
}

// Unwrap exposes the underlying failure.
func (argumentError *ArgumentError) Unwrap() error {
	return argumentError.Cause
}

// Parser parses a line of text against a fixed set of flag definitions.
type Parser struct {
	name        string
	posix       bool
	definitions FlagDefinitions
}

// NewParser constructs a parser. Definitions run against a fresh flag set on every Parse.
func NewParser(name string, posix bool, definitions FlagDefinitions) *Parser {
	return &Parser{name: name, posix: posix, definitions: definitions}
}

// Arguments holds the outcome of a successful parse.
type Arguments struct {
	flagSet *pflag.FlagSet
}

// FlagSet exposes the parsed flag set for typed lookups.
func (arguments *Arguments) FlagSet() *pflag.FlagSet {
	return arguments.flagSet
}

// Positional returns the non-flag tokens in order.
func (arguments *Arguments) Positional() []string {
	return arguments.flagSet.Args()
}

// Parse splits text and parses the tokens. Unknown flags, help requests, bad values and
// unbalanced quotes are reported as *ArgumentError.
func (parser *Parser) Parse(text string) (*Arguments, error) {
	tokens, splitError := Split(text, parser.posix)
	if splitError != nil {
		return nil, &ArgumentError{Cause: splitError}
	}

	flagSet := pflag.NewFlagSet(parser.name, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	if parser.definitions != nil {
		parser.definitions(flagSet)
	}

	if parseError := flagSet.Parse(tokens); parseError != nil {
		if errors.Is(parseError, pflag.ErrHelp) {
			parseError = fmt.Errorf(helpRequestedTemplateConstant, parseError)
		}
		return nil, &ArgumentError{Cause: parseError}
	}
	return &Arguments{flagSet: flagSet}, nil
}
