package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/utilkit/internal/datacache"
	"github.com/temirov/utilkit/internal/execshell"
	"github.com/temirov/utilkit/internal/markup"
	"github.com/temirov/utilkit/internal/pipeline"
	"github.com/temirov/utilkit/internal/ui"
	"github.com/temirov/utilkit/internal/utils"
	"github.com/temirov/utilkit/internal/utils/flags"
	"github.com/temirov/utilkit/internal/weburl"
)

const (
	applicationNameConstant                 = "utilkit"
	applicationShortDescriptionConstant     = "Command-line interface for utilkit helpers"
	applicationLongDescriptionConstant      = "utilkit bundles a line-streaming process runner, a disk-backed CSV table cache, and URL and markup helpers."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageTemplateConstant      = "Override the configured log format (%s)."
	logFormatChoiceSeparatorConstant        = " or "
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "UTILKIT"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	toolsConfigurationKeyConstant           = "tools"
	cacheConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".cache"
	runConfigurationKeyConstant             = toolsConfigurationKeyConstant + ".run"
	cacheCommandLabelConstant               = "cache"
	runCommandLabelConstant                 = "run"
	urlCommandLabelConstant                 = "url"
	markupCommandLabelConstant              = "markup"
	genericFailureExitCodeConstant          = 1
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool.
type ApplicationToolsConfiguration struct {
	Cache datacache.CommandConfiguration `mapstructure:"cache"`
	Run   pipeline.CommandConfiguration  `mapstructure:"run"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	consoleEvents         *ui.ConsoleCommandEventLogger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	buildErrors           []error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.DefaultConfigurationSearchPaths(applicationNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", fmt.Sprintf(logFormatFlagUsageTemplateConstant, strings.Join(utils.SupportedLogFormats(), logFormatChoiceSeparatorConstant)))

	cacheBuilder := datacache.CommandBuilder{
		LoggerProvider: application.currentLogger,
		ConfigurationProvider: func() datacache.CommandConfiguration {
			return application.configuration.Tools.Cache
		},
	}
	runBuilder := pipeline.CommandBuilder{
		LoggerProvider: application.currentLogger,
		ConfigurationProvider: func() pipeline.CommandConfiguration {
			return application.configuration.Tools.Run
		},
		CommandEventsObserver: consoleEventForwarder{application: application},
	}
	urlBuilder := weburl.CommandBuilder{LoggerProvider: application.currentLogger}
	markupBuilder := markup.CommandBuilder{LoggerProvider: application.currentLogger}

	subcommandBuilders := []struct {
		label string
		build func() (*cobra.Command, error)
	}{
		{label: cacheCommandLabelConstant, build: cacheBuilder.Build},
		{label: runCommandLabelConstant, build: runBuilder.Build},
		{label: urlCommandLabelConstant, build: urlBuilder.Build},
		{label: markupCommandLabelConstant, build: markupBuilder.Build},
	}
	for _, subcommandBuilder := range subcommandBuilders {
		subcommand, buildError := subcommandBuilder.build()
		if buildError != nil {
			application.buildErrors = append(application.buildErrors, fmt.Errorf(commandBuildErrorTemplateConstant, subcommandBuilder.label, buildError))
			continue
		}
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy with the given arguments and ensures logger flushing.
func (application *Application) Execute(arguments []string) error {
	if len(application.buildErrors) > 0 {
		return errors.Join(application.buildErrors...)
	}
	normalizedArguments := flags.NormalizeToggleArguments(arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute(arguments []string) error {
	return NewApplication().Execute(arguments)
}

// ExitCode maps an execution error to a process exit status. A child command that exited with a non-zero status
// propagates its own status; any other failure maps to 1.
func ExitCode(executionError error) int {
	if executionError == nil {
		return 0
	}
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode > 0 {
		return commandFailure.Result.ExitCode
	}
	return genericFailureExitCodeConstant
}

// SetStreams redirects the standard streams of the command hierarchy.
func (application *Application) SetStreams(input io.Reader, output io.Writer, errorOutput io.Writer) {
	application.rootCommand.SetIn(input)
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(errorOutput)
}

// Configuration returns the configuration resolved by the most recent command execution.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range datacache.DefaultConfigurationValues(cacheConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range pipeline.DefaultConfigurationValues(runConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleEvents = nil
	if logFormat, _ := utils.ParseLogFormat(application.configuration.Common.LogFormat); logFormat == utils.LogFormatConsole {
		application.consoleEvents = ui.NewConsoleCommandEventLogger(loggerOutputs.ConsoleLogger)
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// consoleEventForwarder resolves the console event logger at event time, after configuration has been loaded.
type consoleEventForwarder struct {
	application *Application
}

func (forwarder consoleEventForwarder) CommandStarted(command execshell.ShellCommand) {
	if forwarder.application.consoleEvents != nil {
		forwarder.application.consoleEvents.CommandStarted(command)
	}
}

func (forwarder consoleEventForwarder) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if forwarder.application.consoleEvents != nil {
		forwarder.application.consoleEvents.CommandCompleted(command, result)
	}
}

func (forwarder consoleEventForwarder) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if forwarder.application.consoleEvents != nil {
		forwarder.application.consoleEvents.CommandExecutionFailed(command, failure)
	}
}
