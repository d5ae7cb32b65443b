// Package markup turns plain text links into anchors and strips redundant bytes from CSS and HTML.
//
// The minifiers are regular expression passes. They do not parse their input, so quoted
// strings and inline scripts may be altered.
package markup
