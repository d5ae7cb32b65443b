// Package execshell runs external commands and streams their output line by line.
//
// ProcessRunner spawns a child with both output streams bound to pipes it owns,
// drains each stream on its own goroutine, and reports every line to a progress
// callback or to a diagnostic writer. ShellExecutor layers structured logging,
// lifecycle observers, and typed failures on top of any CommandRunner.
package execshell
