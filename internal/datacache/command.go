package datacache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/utilkit/internal/prompt"
	"github.com/temirov/utilkit/internal/utils/flags"
)

const (
	cacheCommandUseConstant                 = "cache"
	cacheCommandShortDescriptionConstant    = "Inspect and modify the CSV table cache"
	cacheCommandLongDescriptionConstant     = "cache reads and writes tables stored as <prefix><key>.csv files encoded as ISO-8859-1."
	getCommandUseConstant                   = "get <key>"
	getCommandShortDescriptionConstant      = "Print a cached table"
	setCommandUseConstant                   = "set <key>"
	setCommandShortDescriptionConstant      = "Store a UTF-8 CSV table read from standard input or --input"
	deleteCommandUseConstant                = "delete <key>"
	deleteCommandShortDescriptionConstant   = "Remove a cached table"
	containsCommandUseConstant              = "contains <key>"
	containsCommandShortDescriptionConstant = "Report whether a table file exists for the key"
	keysCommandUseConstant                  = "keys"
	keysCommandShortDescriptionConstant     = "List cached keys"
	prefixFlagNameConstant                  = "prefix"
	prefixFlagDescriptionConstant           = "Path prefix prepended to every key"
	writableFlagNameConstant                = "writable"
	writableFlagDescriptionConstant         = "Allow the command to modify cache files"
	formatFlagNameConstant                  = "format"
	formatFlagDescriptionConstant           = "Output format"
	formatLabelConstant                     = "format"
	formatCSVConstant                       = "csv"
	formatYAMLConstant                      = "yaml"
	inputFlagNameConstant                   = "input"
	inputFlagDescriptionConstant            = "Read the table from this UTF-8 CSV file instead of standard input"
	yesFlagNameConstant                     = "yes"
	yesFlagDescriptionConstant              = "Delete without asking for confirmation"
	longFlagNameConstant                    = "long"
	longFlagDescriptionConstant             = "Include file sizes and modification times"
	deleteConfirmationTemplateConstant      = "Delete cached table %s? [y/N] "
	deleteSkippedTemplateConstant           = "kept %s\n"
	deleteCompletedTemplateConstant         = "deleted %s\n"
	keyLineTemplateConstant                 = "%s\n"
	longKeyLineTemplateConstant             = "%s\t%s\t%s\n"
	inputOpenErrorTemplateConstant          = "open table input: %w"
	inputDecodeErrorTemplateConstant        = "decode table input: %w"
	outputErrorTemplateConstant             = "write table output: %w"
	tableStoredMessageConstant              = "cache table stored"
	tableDeletedMessageConstant             = "cache table deleted"
	logFieldKeyConstant                     = "key"
	logFieldPathConstant                    = "path"
	logFieldRowsConstant                    = "rows"
	logFieldPrefixConstant                  = "prefix"
	logFieldReadOnlyConstant                = "read_only"
	cacheOpenedMessageConstant              = "cache opened"
	missingKeyMessageConstant               = "a cache key is required"
	nonInteractiveMessageConstant           = "confirmation requires an interactive terminal; pass --yes"
)

var (
	errMissingKey     = errors.New(missingKeyMessageConstant)
	errNonInteractive = errors.New(nonInteractiveMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current cache configuration.
type ConfigurationProvider func() CommandConfiguration

// ConfirmationPrompter asks yes/no questions.
type ConfirmationPrompter interface {
	Bool(prompt string, defaultAnswer bool) (bool, error)
}

// CommandBuilder assembles the cache command hierarchy.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Prompter              ConfirmationPrompter
}

// Build constructs the cache command with its get, set, delete, contains and keys subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	cacheCommand := &cobra.Command{
		Use:          cacheCommandUseConstant,
		Short:        cacheCommandShortDescriptionConstant,
		Long:         cacheCommandLongDescriptionConstant,
		SilenceUsage: true,
	}
	cacheCommand.PersistentFlags().String(prefixFlagNameConstant, "", prefixFlagDescriptionConstant)
	flags.AddToggleFlag(cacheCommand.PersistentFlags(), nil, writableFlagNameConstant, "", false, writableFlagDescriptionConstant)

	getCommand := &cobra.Command{
		Use:   getCommandUseConstant,
		Short: getCommandShortDescriptionConstant,
		Args:  requireSingleKey,
		RunE:  builder.runGet,
	}
	getCommand.Flags().String(formatFlagNameConstant, formatCSVConstant, flags.FormatChoiceUsage(formatCSVConstant, supportedOutputFormats(), formatFlagDescriptionConstant))

	setCommand := &cobra.Command{
		Use:   setCommandUseConstant,
		Short: setCommandShortDescriptionConstant,
		Args:  requireSingleKey,
		RunE:  builder.runSet,
	}
	setCommand.Flags().String(inputFlagNameConstant, "", inputFlagDescriptionConstant)

	deleteCommand := &cobra.Command{
		Use:   deleteCommandUseConstant,
		Short: deleteCommandShortDescriptionConstant,
		Args:  requireSingleKey,
		RunE:  builder.runDelete,
	}
	flags.AddToggleFlag(deleteCommand.Flags(), nil, yesFlagNameConstant, "y", false, yesFlagDescriptionConstant)

	containsCommand := &cobra.Command{
		Use:   containsCommandUseConstant,
		Short: containsCommandShortDescriptionConstant,
		Args:  requireSingleKey,
		RunE:  builder.runContains,
	}

	keysCommand := &cobra.Command{
		Use:   keysCommandUseConstant,
		Short: keysCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runKeys,
	}
	flags.AddToggleFlag(keysCommand.Flags(), nil, longFlagNameConstant, "l", false, longFlagDescriptionConstant)

	cacheCommand.AddCommand(getCommand, setCommand, deleteCommand, containsCommand, keysCommand)
	return cacheCommand, nil
}

func (builder *CommandBuilder) runGet(command *cobra.Command, arguments []string) error {
	formatValue, _ := command.Flags().GetString(formatFlagNameConstant)
	outputFormat, formatError := flags.ResolveChoice(formatLabelConstant, formatValue, supportedOutputFormats())
	if formatError != nil {
		return formatError
	}

	cache := builder.openCache(command)
	table, getError := cache.Get(arguments[0])
	if getError != nil {
		return getError
	}

	switch outputFormat {
	case formatYAMLConstant:
		return writeTableYAML(command.OutOrStdout(), table)
	default:
		if encodeError := EncodeCSV(command.OutOrStdout(), table); encodeError != nil {
			return fmt.Errorf(outputErrorTemplateConstant, encodeError)
		}
		return nil
	}
}

func (builder *CommandBuilder) runSet(command *cobra.Command, arguments []string) error {
	input := command.InOrStdin()
	inputPath, _ := command.Flags().GetString(inputFlagNameConstant)
	if len(inputPath) > 0 {
		inputFile, openError := os.Open(inputPath)
		if openError != nil {
			return fmt.Errorf(inputOpenErrorTemplateConstant, openError)
		}
		defer inputFile.Close()
		input = inputFile
	}

	table, decodeError := DecodeCSV(input)
	if decodeError != nil {
		return fmt.Errorf(inputDecodeErrorTemplateConstant, decodeError)
	}

	key := arguments[0]
	cache := builder.openCache(command)
	if setError := cache.Set(key, table); setError != nil {
		return setError
	}
	builder.resolveLogger().Info(tableStoredMessageConstant,
		zap.String(logFieldKeyConstant, key),
		zap.String(logFieldPathConstant, cache.Path(key)),
		zap.Int(logFieldRowsConstant, len(table.Rows)),
	)
	return nil
}

func (builder *CommandBuilder) runDelete(command *cobra.Command, arguments []string) error {
	key := arguments[0]
	cache := builder.openCache(command)

	confirmed, _ := command.Flags().GetBool(yesFlagNameConstant)
	if !confirmed && cache.Contains(key) {
		if cache.ReadOnly() {
			return ErrReadOnly
		}
		if !builder.canPrompt(command) {
			return errNonInteractive
		}
		answer, promptError := builder.resolvePrompter(command).Bool(fmt.Sprintf(deleteConfirmationTemplateConstant, cache.Path(key)), false)
		if promptError != nil {
			return promptError
		}
		if !answer {
			_, writeError := fmt.Fprintf(command.OutOrStdout(), deleteSkippedTemplateConstant, key)
			return writeError
		}
	}

	if deleteError := cache.Delete(key); deleteError != nil {
		return deleteError
	}
	builder.resolveLogger().Info(tableDeletedMessageConstant,
		zap.String(logFieldKeyConstant, key),
		zap.String(logFieldPathConstant, cache.Path(key)),
	)
	_, writeError := fmt.Fprintf(command.OutOrStdout(), deleteCompletedTemplateConstant, key)
	return writeError
}

func (builder *CommandBuilder) runContains(command *cobra.Command, arguments []string) error {
	cache := builder.openCache(command)
	_, writeError := fmt.Fprintln(command.OutOrStdout(), strconv.FormatBool(cache.Contains(arguments[0])))
	return writeError
}

func (builder *CommandBuilder) runKeys(command *cobra.Command, _ []string) error {
	cache := builder.openCache(command)
	entries, entriesError := cache.Entries()
	if entriesError != nil {
		return entriesError
	}

	longListing, _ := command.Flags().GetBool(longFlagNameConstant)
	for _, entry := range entries {
		var writeError error
		if longListing {
			_, writeError = fmt.Fprintf(command.OutOrStdout(), longKeyLineTemplateConstant, entry.Key, humanize.Bytes(uint64(entry.Size)), humanize.Time(entry.ModifiedAt))
		} else {
			_, writeError = fmt.Fprintf(command.OutOrStdout(), keyLineTemplateConstant, entry.Key)
		}
		if writeError != nil {
			return writeError
		}
	}
	return nil
}

func (builder *CommandBuilder) openCache(command *cobra.Command) *Cache {
	configuration := builder.resolveConfiguration()

	prefixValue, _ := command.Flags().GetString(prefixFlagNameConstant)
	if command.Flags().Changed(prefixFlagNameConstant) {
		configuration.Prefix = prefixValue
	}
	if command.Flags().Changed(writableFlagNameConstant) {
		writable, _ := command.Flags().GetBool(writableFlagNameConstant)
		configuration.ReadOnly = !writable
	}
	configuration = configuration.Sanitize()

	builder.resolveLogger().Debug(cacheOpenedMessageConstant,
		zap.String(logFieldPrefixConstant, configuration.Prefix),
		zap.Bool(logFieldReadOnlyConstant, configuration.ReadOnly),
	)
	return New(configuration.Prefix, configuration.ReadOnly, nil)
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

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return prompt.NewPrompter(command.InOrStdin(), command.ErrOrStderr())
}

// canPrompt reports false when the default prompter would read from a non-terminal standard input.
func (builder *CommandBuilder) canPrompt(command *cobra.Command) bool {
	if builder.Prompter != nil {
		return true
	}
	inputFile, isFile := command.InOrStdin().(*os.File)
	if !isFile {
		return true
	}
	return prompt.IsInteractive(inputFile)
}

func requireSingleKey(_ *cobra.Command, arguments []string) error {
	if len(arguments) != 1 || len(arguments[0]) == 0 {
		return errMissingKey
	}
	return nil
}

func supportedOutputFormats() []string {
	return []string{formatCSVConstant, formatYAMLConstant}
}

// writeTableYAML renders rows as a sequence of mappings that keep the column order.
func writeTableYAML(writer io.Writer, table Table) error {
	document := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range table.Rows {
		rowNode := &yaml.Node{Kind: yaml.MappingNode}
		for columnIndex, column := range table.Columns {
			rowNode.Content = append(rowNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: column},
				&yaml.Node{Kind: yaml.ScalarNode, Value: row[columnIndex], Style: yaml.DoubleQuotedStyle},
			)
		}
		document.Content = append(document.Content, rowNode)
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(outputErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(outputErrorTemplateConstant, closeError)
	}
	return nil
}
