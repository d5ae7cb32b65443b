package pipeline

const configurationVerboseKeyConstant = "verbose"

// CommandConfiguration captures defaults for the run command.
type CommandConfiguration struct {
	Verbose bool `mapstructure:"verbose"`
}

// DefaultCommandConfiguration keeps command output terse.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Verbose: false}
}

// DefaultConfigurationValues returns viper defaults for the run section rooted at sectionKey.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	return map[string]any{
		sectionKey + "." + configurationVerboseKeyConstant: DefaultCommandConfiguration().Verbose,
	}
}
