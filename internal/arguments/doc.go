// Package arguments parses flag-style arguments out of a single line of text.
//
// Text is split shell-style, either with POSIX quoting rules or with a literal mode
// that keeps quote characters in the resulting tokens, and the tokens are parsed by
// a pflag flag set that reports failures as errors instead of exiting.
package arguments
