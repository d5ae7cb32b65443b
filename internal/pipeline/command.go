package pipeline

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/utilkit/internal/execshell"
	"github.com/temirov/utilkit/internal/utils/flags"
)

const (
	runCommandUseConstant              = "run [flags] [-- command [arguments...]]"
	runCommandShortDescriptionConstant = "Run a command or a manifest of commands while draining their output"
	runCommandLongDescriptionConstant  = "run executes a single command given after -- or every step of a YAML manifest, printing one dot per output line or the lines themselves with --verbose."
	manifestFlagNameConstant           = "manifest"
	manifestFlagDescriptionConstant    = "Path to a YAML manifest of steps"
	verboseFlagNameConstant            = "verbose"
	verboseFlagShorthandConstant       = "v"
	verboseFlagDescriptionConstant     = "Echo command output instead of progress dots"
	manifestWithCommandMessageConstant = "run accepts either --manifest or a command, not both"
	nothingToRunMessageConstant        = "run requires --manifest or a command after --"
)

var (
	errManifestWithCommand = errors.New(manifestWithCommandMessageConstant)
	errNothingToRun        = errors.New(nothingToRunMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current run configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ExecutorFactory       ExecutorFactory
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          runCommandUseConstant,
		Short:        runCommandShortDescriptionConstant,
		Long:         runCommandLongDescriptionConstant,
		SilenceUsage: true,
		RunE:         builder.run,
	}
	command.Flags().String(manifestFlagNameConstant, "", manifestFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), nil, verboseFlagNameConstant, verboseFlagShorthandConstant, false, verboseFlagDescriptionConstant)
	command.Flags().SetInterspersed(false)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	manifestPath, _ := command.Flags().GetString(manifestFlagNameConstant)
	manifestPath = strings.TrimSpace(manifestPath)
	if len(manifestPath) > 0 && len(arguments) > 0 {
		return errManifestWithCommand
	}
	if len(manifestPath) == 0 && len(arguments) == 0 {
		return errNothingToRun
	}

	verbose := builder.resolveConfiguration().Verbose
	if command.Flags().Changed(verboseFlagNameConstant) {
		verbose, _ = command.Flags().GetBool(verboseFlagNameConstant)
	}

	plans, planError := builder.planSteps(manifestPath, arguments, verbose)
	if planError != nil {
		return planError
	}

	logger := builder.resolveLogger()
	runner, runnerError := NewRunner(logger, builder.resolveExecutorFactory(logger, command.ErrOrStderr()))
	if runnerError != nil {
		return runnerError
	}
	_, runError := runner.Run(command.Context(), plans)
	return runError
}

func (builder *CommandBuilder) planSteps(manifestPath string, arguments []string, verbose bool) ([]StepPlan, error) {
	if len(manifestPath) > 0 {
		manifest, loadError := LoadManifest(manifestPath)
		if loadError != nil {
			return nil, loadError
		}
		return manifest.Plan(verbose)
	}

	shellCommand, commandError := execshell.NewShellCommand(arguments, execshell.CommandDetails{})
	if commandError != nil {
		return nil, commandError
	}
	return []StepPlan{{Name: arguments[0], Command: shellCommand, Verbose: verbose, RequireSuccess: true}}, nil
}

func (builder *CommandBuilder) resolveExecutorFactory(logger *zap.Logger, diagnosticWriter io.Writer) ExecutorFactory {
	if builder.ExecutorFactory != nil {
		return builder.ExecutorFactory
	}
	return func(verbose bool) (StepExecutor, error) {
		processRunner := execshell.NewProcessRunner(execshell.ProcessRunnerOptions{
			Verbose:          verbose,
			DiagnosticWriter: diagnosticWriter,
		})
		shellExecutor, executorError := execshell.NewShellExecutor(logger, processRunner, execshell.WithCommandEventObserver(builder.CommandEventsObserver))
		if executorError != nil {
			return nil, executorError
		}
		return shellExecutor, nil
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
