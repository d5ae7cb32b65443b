// Package pipeline runs a sequence of commands described by a YAML manifest or given on the command line.
//
// Each step names a command, either as a shell-style string or as a list of arguments, and
// optional settings under "with": verbose, directory, environment, stdin and require_success.
// Settings accept loose values such as "yes" or "off" for booleans.
package pipeline
