// Package utils exposes infrastructure shared by every utilkit command.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// UTILKIT_* environment overrides through Viper. LoggerFactory builds the zap
// loggers used for structured diagnostics and human-readable console output.
// FlushingWriter serializes and flushes writes to diagnostic streams.
package utils
