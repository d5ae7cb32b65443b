package execshell

import (
	"fmt"
	"os"
	"strings"
)

const (
	commandLabelTemplateConstant           = "%s%s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	commandArgumentsJoinSeparatorConstant  = " "
	emptyStringConstant                    = ""
)

// CommandName identifies the executable to spawn.
type CommandName string

// CommandDetails describes the parameters forwarded to process creation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult describes a process that has terminated and whose streams were drained.
type ExecutionResult struct {
	RunIdentifier       string
	ExitCode            int
	ProcessState        *os.ProcessState
	StandardOutputLines int
	StandardErrorLines  int
}

// NewShellCommand builds a ShellCommand from an argument vector whose first element is the executable.
func NewShellCommand(argumentVector []string, details CommandDetails) (ShellCommand, error) {
	if len(argumentVector) == 0 || len(strings.TrimSpace(argumentVector[0])) == 0 {
		return ShellCommand{}, ErrEmptyArgumentVector
	}
	details.Arguments = append([]string{}, argumentVector[1:]...)
	return ShellCommand{Name: CommandName(argumentVector[0]), Details: details}, nil
}

// Label renders the command and its working directory for human-readable messages.
func (command ShellCommand) Label() string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	workingDirectorySuffix := emptyStringConstant
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}

	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}
