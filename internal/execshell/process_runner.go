package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/temirov/utilkit/internal/utils"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	emptyArgumentVectorMessageConstant     = "command argument vector must not be empty"
)

// ErrEmptyArgumentVector indicates a command was requested without an executable.
var ErrEmptyArgumentVector = errors.New(emptyArgumentVectorMessageConstant)

// ProcessRunnerOptions configures how a ProcessRunner reports output.
type ProcessRunnerOptions struct {
	Verbose          bool
	Progress         ProgressFunc
	DiagnosticWriter io.Writer
}

// ProcessRunner spawns commands and drains both output streams concurrently.
type ProcessRunner struct {
	verbose          bool
	progress         ProgressFunc
	diagnosticWriter io.Writer
}

// NewProcessRunner constructs a runner. Without a progress callback, output is summarized on DiagnosticWriter
// (os.Stderr when unset): one "." per line, or every line verbatim when Verbose is set.
func NewProcessRunner(options ProcessRunnerOptions) *ProcessRunner {
	diagnosticWriter := options.DiagnosticWriter
	if diagnosticWriter == nil {
		diagnosticWriter = os.Stderr
	}
	return &ProcessRunner{
		verbose:          options.Verbose,
		progress:         options.Progress,
		diagnosticWriter: utils.NewFlushingWriter(diagnosticWriter),
	}
}

// Run executes the command and returns once the process has exited and both streams are fully drained.
// Spawn failures are returned unchanged. A non-zero exit status is reported through ExecutionResult.ExitCode.
func (runner *ProcessRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(command.Name) == 0 {
		return ExecutionResult{}, ErrEmptyArgumentVector
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	standardOutputReader, standardOutputWriter, pipeError := os.Pipe()
	if pipeError != nil {
		return ExecutionResult{}, pipeError
	}
	standardErrorReader, standardErrorWriter, pipeError := os.Pipe()
	if pipeError != nil {
		standardOutputReader.Close()
		standardOutputWriter.Close()
		return ExecutionResult{}, pipeError
	}

	// The child holds its own copies of the write ends; closing ours lets readers observe end of stream.
	executable.Stdout = standardOutputWriter
	executable.Stderr = standardErrorWriter
	startError := executable.Start()
	standardOutputWriter.Close()
	standardErrorWriter.Close()
	if startError != nil {
		standardOutputReader.Close()
		standardErrorReader.Close()
		return ExecutionResult{}, startError
	}

	result := ExecutionResult{RunIdentifier: uuid.NewString()}

	var standardOutputError, standardErrorError error
	var readersGroup sync.WaitGroup
	readersGroup.Add(2)
	go func() {
		defer readersGroup.Done()
		result.StandardOutputLines, standardOutputError = runner.drainStream(standardOutputReader, StreamStandardOutput)
	}()
	go func() {
		defer readersGroup.Done()
		result.StandardErrorLines, standardErrorError = runner.drainStream(standardErrorReader, StreamStandardError)
	}()

	waitError := executable.Wait()
	readersGroup.Wait()

	result.ProcessState = executable.ProcessState
	if waitError != nil {
		exitError := &exec.ExitError{}
		if !errors.As(waitError, &exitError) {
			return result, waitError
		}
	}
	if result.ProcessState != nil {
		result.ExitCode = result.ProcessState.ExitCode()
	}

	if readError := errors.Join(standardOutputError, standardErrorError); readError != nil {
		return result, readError
	}

	if completionError := runner.reportCompletion(); completionError != nil {
		return result, completionError
	}

	return result, nil
}
