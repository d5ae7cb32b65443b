// Package options coerces loosely typed option maps, such as decoded YAML or JSON, into typed values.
package options
