package tests

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationCommandTimeout        = 60 * time.Second
	integrationHomeEnvironmentName   = "HOME"
	integrationConfigEnvironmentName = "XDG_CONFIG_HOME"
)

type integrationResult struct {
	output   string
	exitCode int
	runError error
}

func repositoryRoot(testInstance *testing.T) string {
	testInstance.Helper()

	currentWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	return filepath.Dir(currentWorkingDirectory)
}

func runUtilkit(testInstance *testing.T, standardInput string, environment []string, arguments ...string) integrationResult {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancel()

	isolatedHome := testInstance.TempDir()
	commandArguments := append([]string{"run", "."}, arguments...)
	command := exec.CommandContext(executionContext, "go", commandArguments...)
	command.Dir = repositoryRoot(testInstance)
	command.Env = append(append([]string{}, os.Environ()...),
		integrationHomeEnvironmentName+"="+isolatedHome,
		integrationConfigEnvironmentName+"="+filepath.Join(isolatedHome, ".config"),
	)
	command.Env = append(command.Env, environment...)
	command.Stdin = strings.NewReader(standardInput)

	outputBytes, runError := command.CombinedOutput()
	result := integrationResult{output: string(outputBytes), runError: runError}
	if command.ProcessState != nil {
		result.exitCode = command.ProcessState.ExitCode()
	}
	return result
}

func requireSuccess(testInstance *testing.T, result integrationResult) {
	testInstance.Helper()
	if result.runError != nil {
		testInstance.Fatalf("command failed: %v\n%s", result.runError, result.output)
	}
}

func filterStructuredOutput(rawOutput string) string {
	lines := strings.Split(rawOutput, "\n")
	var filtered []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, "\n") + "\n"
}
