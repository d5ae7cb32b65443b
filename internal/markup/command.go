package markup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/utilkit/internal/utils/flags"
)

const (
	markupCommandUseConstant                  = "markup"
	markupCommandShortDescriptionConstant     = "Linkify text and minify CSS or HTML"
	urlizeCommandUseConstant                  = "urlize [file]"
	urlizeCommandShortDescriptionConstant     = "Escape text and wrap URLs and email addresses in anchors"
	minifyCSSCommandUseConstant               = "minify-css [file]"
	minifyCSSCommandShortDescriptionConstant  = "Minify a stylesheet"
	minifyHTMLCommandUseConstant              = "minify-html [file]"
	minifyHTMLCommandShortDescriptionConstant = "Minify an HTML document"
	trimFlagNameConstant                      = "trim"
	trimFlagDescriptionConstant               = "Shorten link text to this many characters (0 keeps full text)"
	nofollowFlagNameConstant                  = "nofollow"
	nofollowFlagDescriptionConstant           = "Add rel=\"nofollow\" to generated links"
	inputReadErrorTemplateConstant            = "read markup input: %w"
	transformCompletedMessageConstant         = "markup transformed"
	logFieldOperationConstant                 = "operation"
	logFieldInputBytesConstant                = "input_bytes"
	logFieldOutputBytesConstant               = "output_bytes"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the markup command hierarchy.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the markup command with urlize, minify-css and minify-html subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	markupCommand := &cobra.Command{
		Use:          markupCommandUseConstant,
		Short:        markupCommandShortDescriptionConstant,
		SilenceUsage: true,
	}

	urlizeCommand := &cobra.Command{
		Use:   urlizeCommandUseConstant,
		Short: urlizeCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			trimLimit, _ := command.Flags().GetInt(trimFlagNameConstant)
			nofollow, _ := command.Flags().GetBool(nofollowFlagNameConstant)
			options := UrlizeOptions{TrimLimit: trimLimit, Nofollow: nofollow}
			return builder.transform(command, arguments, func(source string) string {
				return Urlize(source, options)
			})
		},
	}
	urlizeCommand.Flags().Int(trimFlagNameConstant, 0, trimFlagDescriptionConstant)
	flags.AddToggleFlag(urlizeCommand.Flags(), nil, nofollowFlagNameConstant, "", false, nofollowFlagDescriptionConstant)

	minifyCSSCommand := &cobra.Command{
		Use:   minifyCSSCommandUseConstant,
		Short: minifyCSSCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.transform(command, arguments, MinifyCSS)
		},
	}

	minifyHTMLCommand := &cobra.Command{
		Use:   minifyHTMLCommandUseConstant,
		Short: minifyHTMLCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.transform(command, arguments, MinifyHTML)
		},
	}

	markupCommand.AddCommand(urlizeCommand, minifyCSSCommand, minifyHTMLCommand)
	return markupCommand, nil
}

func (builder *CommandBuilder) transform(command *cobra.Command, arguments []string, transformation func(string) string) error {
	source, readError := readSource(command, arguments)
	if readError != nil {
		return readError
	}
	transformed := transformation(source)
	builder.resolveLogger().Debug(transformCompletedMessageConstant,
		zap.String(logFieldOperationConstant, command.Name()),
		zap.Int(logFieldInputBytesConstant, len(source)),
		zap.Int(logFieldOutputBytesConstant, len(transformed)),
	)
	_, writeError := fmt.Fprintln(command.OutOrStdout(), transformed)
	return writeError
}

func readSource(command *cobra.Command, arguments []string) (string, error) {
	var sourceBytes []byte
	var readError error
	if len(arguments) == 1 {
		sourceBytes, readError = os.ReadFile(arguments[0])
	} else {
		sourceBytes, readError = io.ReadAll(command.InOrStdin())
	}
	if readError != nil {
		return "", fmt.Errorf(inputReadErrorTemplateConstant, readError)
	}
	return string(sourceBytes), nil
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
