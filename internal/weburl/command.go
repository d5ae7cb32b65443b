package weburl

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	urlCommandUseConstant                   = "url"
	urlCommandShortDescriptionConstant      = "Validate endpoint URLs and join URL paths"
	validateCommandUseConstant              = "validate <url>..."
	validateCommandShortDescriptionConstant = "Validate proto://address endpoint URLs"
	joinCommandUseConstant                  = "join <piece>..."
	joinCommandShortDescriptionConstant     = "Join URL path pieces without doubled slashes"
	validURLTemplateConstant                = "%s: valid\n"
	invalidURLReportTemplateConstant        = "%s: %v\n"
	validationFailedMessageConstant         = "one or more URLs are invalid"
	urlRejectedMessageConstant              = "url rejected"
	logFieldURLConstant                     = "url"
)

var errValidationFailed = errors.New(validationFailedMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the url command hierarchy.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the url command with validate and join subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	urlCommand := &cobra.Command{
		Use:          urlCommandUseConstant,
		Short:        urlCommandShortDescriptionConstant,
		SilenceUsage: true,
	}

	validateCommand := &cobra.Command{
		Use:   validateCommandUseConstant,
		Short: validateCommandShortDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.runValidate,
	}

	joinCommand := &cobra.Command{
		Use:   joinCommandUseConstant,
		Short: joinCommandShortDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			_, writeError := fmt.Fprintln(command.OutOrStdout(), JoinPath(arguments...))
			return writeError
		},
	}

	urlCommand.AddCommand(validateCommand, joinCommand)
	return urlCommand, nil
}

func (builder *CommandBuilder) runValidate(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	failed := false
	for _, candidate := range arguments {
		validationError := Validate(candidate)
		if validationError == nil {
			if _, writeError := fmt.Fprintf(command.OutOrStdout(), validURLTemplateConstant, candidate); writeError != nil {
				return writeError
			}
			continue
		}
		failed = true
		logger.Debug(urlRejectedMessageConstant, zap.String(logFieldURLConstant, candidate), zap.Error(validationError))
		if _, writeError := fmt.Fprintf(command.OutOrStdout(), invalidURLReportTemplateConstant, candidate, validationError); writeError != nil {
			return writeError
		}
	}
	if failed {
		return errValidationFailed
	}
	return nil
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
