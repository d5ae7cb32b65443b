package pipeline_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/utilkit/internal/execshell"
	"github.com/temirov/utilkit/internal/options"
	"github.com/temirov/utilkit/internal/pipeline"
)

const sampleManifestConstant = `
steps:
  - name: greet
    command: echo "hello world"
    with:
      verbose: yes
      directory: /tmp
      environment:
        GREETING: hi
  - command: [printf, "%s\n", 42]
    with:
      require_success: off
      stdin: payload
`

func TestParseManifestAndPlan(testInstance *testing.T) {
	manifest, parseError := pipeline.ParseManifest([]byte(sampleManifestConstant))
	require.NoError(testInstance, parseError)
	require.Len(testInstance, manifest.Steps, 2)

	plans, planError := manifest.Plan(false)
	require.NoError(testInstance, planError)
	require.Len(testInstance, plans, 2)

	require.Equal(testInstance, "greet", plans[0].Name)
	require.Equal(testInstance, execshell.CommandName("echo"), plans[0].Command.Name)
	require.Equal(testInstance, []string{"hello world"}, plans[0].Command.Details.Arguments)
	require.Equal(testInstance, "/tmp", plans[0].Command.Details.WorkingDirectory)
	require.Equal(testInstance, map[string]string{"GREETING": "hi"}, plans[0].Command.Details.EnvironmentVariables)
	require.True(testInstance, plans[0].Verbose)
	require.True(testInstance, plans[0].RequireSuccess)

	require.Equal(testInstance, "step-2", plans[1].Name)
	require.Equal(testInstance, execshell.CommandName("printf"), plans[1].Command.Name)
	require.Equal(testInstance, []string{"%s\n", "42"}, plans[1].Command.Details.Arguments)
	require.Equal(testInstance, []byte("payload"), plans[1].Command.Details.StandardInput)
	require.False(testInstance, plans[1].Verbose)
	require.False(testInstance, plans[1].RequireSuccess)
}

func TestPlanAppliesDefaultVerbosity(testInstance *testing.T) {
	manifest := pipeline.Manifest{Steps: []pipeline.Step{{Name: "list", Command: "ls"}}}

	plans, planError := manifest.Plan(true)
	require.NoError(testInstance, planError)
	require.True(testInstance, plans[0].Verbose)
}

func TestPlanRejectsInvalidSteps(testInstance *testing.T) {
	testCases := []struct {
		name          string
		manifest      pipeline.Manifest
		expectedError error
		expectedText  string
	}{
		{name: "no_steps", manifest: pipeline.Manifest{}, expectedError: pipeline.ErrEmptyManifest},
		{name: "missing_command", manifest: pipeline.Manifest{Steps: []pipeline.Step{{Name: "blank"}}}, expectedError: pipeline.ErrMissingCommand, expectedText: "step 1 (blank)"},
		{name: "blank_command", manifest: pipeline.Manifest{Steps: []pipeline.Step{{Command: "   "}}}, expectedError: pipeline.ErrMissingCommand},
		{name: "unbalanced_quote", manifest: pipeline.Manifest{Steps: []pipeline.Step{{Command: `echo "oops`}}}, expectedText: "split command"},
		{name: "bad_toggle", manifest: pipeline.Manifest{Steps: []pipeline.Step{{Command: "ls", With: options.Values{"verbose": "loud"}}}}, expectedText: "Invalid value \"loud\" for option verbose"},
		{name: "map_command", manifest: pipeline.Manifest{Steps: []pipeline.Step{{Command: map[string]any{"run": "ls"}}}}, expectedText: "you must give a list value"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			_, planError := testCase.manifest.Plan(false)
			require.Error(subTest, planError)
			if testCase.expectedError != nil {
				require.True(subTest, errors.Is(planError, testCase.expectedError))
			}
			if len(testCase.expectedText) > 0 {
				require.ErrorContains(subTest, planError, testCase.expectedText)
			}
		})
	}
}

func TestLoadManifest(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), "steps.yaml")
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(sampleManifestConstant), 0o644))

	manifest, loadError := pipeline.LoadManifest(manifestPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, manifest.Steps, 2)

	_, missingError := pipeline.LoadManifest(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.ErrorContains(testInstance, missingError, "read manifest")

	_, invalidError := pipeline.ParseManifest([]byte("steps: [unterminated"))
	require.ErrorContains(testInstance, invalidError, "parse manifest")
}
