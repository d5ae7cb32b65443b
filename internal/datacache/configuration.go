package datacache

import (
	"strings"

	pathutils "github.com/temirov/utilkit/internal/utils/path"
)

const (
	defaultCachePrefixConstant       = "./"
	defaultCacheReadOnlyConstant     = true
	configurationPrefixKeyConstant   = "prefix"
	configurationReadOnlyKeyConstant = "read_only"
)

var cacheConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

// CommandConfiguration captures cache settings loaded from configuration files.
type CommandConfiguration struct {
	Prefix   string `mapstructure:"prefix"`
	ReadOnly bool   `mapstructure:"read_only"`
}

// DefaultCommandConfiguration provides baseline cache settings. Caches are read-only unless configured otherwise.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Prefix:   defaultCachePrefixConstant,
		ReadOnly: defaultCacheReadOnlyConstant,
	}
}

// DefaultConfigurationValues returns viper defaults for the cache section rooted at sectionKey.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		sectionKey + "." + configurationPrefixKeyConstant:   defaults.Prefix,
		sectionKey + "." + configurationReadOnlyKeyConstant: defaults.ReadOnly,
	}
}

// Sanitize trims the prefix and expands a leading home directory reference.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	trimmedPrefix := strings.TrimSpace(configuration.Prefix)
	if len(trimmedPrefix) == 0 {
		trimmedPrefix = defaultCachePrefixConstant
	}
	sanitized.Prefix = cacheConfigurationHomeDirectoryExpander.Expand(trimmedPrefix)
	return sanitized
}
