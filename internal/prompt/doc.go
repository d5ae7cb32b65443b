// Package prompt reads answers to interactive questions from a line-oriented input.
package prompt
