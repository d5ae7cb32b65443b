// Package cli constructs the utilkit command-line interface, wiring the
// Cobra command hierarchy, the embedded default configuration, the Viper
// configuration loader, and zap logging around the cache, run, url and
// markup commands.
package cli
