package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/utilkit/internal/arguments"
	"github.com/temirov/utilkit/internal/execshell"
	"github.com/temirov/utilkit/internal/options"
)

const (
	manifestReadErrorTemplateConstant  = "read manifest %s: %w"
	manifestParseErrorTemplateConstant = "parse manifest: %w"
	stepErrorTemplateConstant          = "step %d (%s): %w"
	commandSplitErrorTemplateConstant  = "split command: %w"
	emptyManifestMessageConstant       = "manifest defines no steps"
	missingCommandMessageConstant      = "step command is empty"
	unnamedStepTemplateConstant        = "step-%d"
	commandOptionKeyConstant           = "command"
	verboseOptionKeyConstant           = "verbose"
	requireSuccessOptionKeyConstant    = "require_success"
	defaultRequireSuccessConstant      = true
)

// ErrEmptyManifest indicates a manifest without steps.
var ErrEmptyManifest = errors.New(emptyManifestMessageConstant)

// ErrMissingCommand indicates a step without a command.
var ErrMissingCommand = errors.New(missingCommandMessageConstant)

// Manifest lists the steps to execute in order.
type Manifest struct {
	Steps []Step `yaml:"steps"`
}

// Step is a manifest entry before its loose values are coerced.
type Step struct {
	Name    string         `yaml:"name"`
	Command any            `yaml:"command"`
	With    options.Values `yaml:"with"`
}

// StepPlan is a fully resolved step ready for execution.
type StepPlan struct {
	Name           string
	Command        execshell.ShellCommand
	Verbose        bool
	RequireSuccess bool
}

type stepSettings struct {
	Directory   string            `mapstructure:"directory"`
	Environment map[string]string `mapstructure:"environment"`
	Stdin       string            `mapstructure:"stdin"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(manifestPath string) (Manifest, error) {
	manifestData, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}
	return ParseManifest(manifestData)
}

// ParseManifest decodes manifest YAML.
func ParseManifest(manifestData []byte) (Manifest, error) {
	var manifest Manifest
	if decodeError := yaml.Unmarshal(manifestData, &manifest); decodeError != nil {
		return Manifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, decodeError)
	}
	return manifest, nil
}

// Plan coerces every step into a StepPlan. defaultVerbose applies to steps that do not set verbose.
func (manifest Manifest) Plan(defaultVerbose bool) ([]StepPlan, error) {
	if len(manifest.Steps) == 0 {
		return nil, ErrEmptyManifest
	}
	plans := make([]StepPlan, 0, len(manifest.Steps))
	for stepIndex, step := range manifest.Steps {
		stepName := strings.TrimSpace(step.Name)
		if len(stepName) == 0 {
			stepName = fmt.Sprintf(unnamedStepTemplateConstant, stepIndex+1)
		}
		plan, planError := step.plan(stepName, defaultVerbose)
		if planError != nil {
			return nil, fmt.Errorf(stepErrorTemplateConstant, stepIndex+1, stepName, planError)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (step Step) plan(stepName string, defaultVerbose bool) (StepPlan, error) {
	argumentVector, commandError := resolveArgumentVector(step.Command)
	if commandError != nil {
		return StepPlan{}, commandError
	}

	settingsValues := step.With
	if settingsValues == nil {
		settingsValues = options.Values{}
	}
	verbose, verboseError := settingsValues.Bool(verboseOptionKeyConstant, defaultVerbose)
	if verboseError != nil {
		return StepPlan{}, verboseError
	}
	requireSuccess, requireSuccessError := settingsValues.Bool(requireSuccessOptionKeyConstant, defaultRequireSuccessConstant)
	if requireSuccessError != nil {
		return StepPlan{}, requireSuccessError
	}
	var settings stepSettings
	if decodeError := options.Decode(settingsValues, &settings); decodeError != nil {
		return StepPlan{}, decodeError
	}

	details := execshell.CommandDetails{
		WorkingDirectory:     settings.Directory,
		EnvironmentVariables: settings.Environment,
	}
	if len(settings.Stdin) > 0 {
		details.StandardInput = []byte(settings.Stdin)
	}
	shellCommand, commandBuildError := execshell.NewShellCommand(argumentVector, details)
	if commandBuildError != nil {
		return StepPlan{}, commandBuildError
	}

	return StepPlan{
		Name:           stepName,
		Command:        shellCommand,
		Verbose:        verbose,
		RequireSuccess: requireSuccess,
	}, nil
}

func resolveArgumentVector(rawCommand any) ([]string, error) {
	var argumentVector []string
	switch typedCommand := rawCommand.(type) {
	case nil:
		return nil, ErrMissingCommand
	case string:
		splitTokens, splitError := arguments.Split(typedCommand, true)
		if splitError != nil {
			return nil, fmt.Errorf(commandSplitErrorTemplateConstant, splitError)
		}
		argumentVector = splitTokens
	default:
		listValue, listError := options.Values{commandOptionKeyConstant: rawCommand}.List(commandOptionKeyConstant, nil)
		if listError != nil {
			return nil, listError
		}
		argumentVector = listValue
	}
	if len(argumentVector) == 0 {
		return nil, ErrMissingCommand
	}
	return argumentVector, nil
}
