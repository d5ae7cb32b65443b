// Package ui renders command lifecycle events as short console messages.
//
// Structured run details keep flowing through the diagnostic logger; the console
// logger only receives one readable line per event.
package ui
