package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/utilkit/cmd/cli"
	"github.com/temirov/utilkit/internal/datacache"
	"github.com/temirov/utilkit/internal/execshell"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testCacheKeyConstant              = "cities"
	testCacheInputConstant            = "city,population\nZurich,421878\n"
	testWritableConfigurationTemplate = "common:\n  log_level: error\n  log_format: structured\ntools:\n  cache:\n    prefix: %PREFIX%\n    read_only: false\n"
	testCachePrefixPlaceholder        = "%PREFIX%"
	testCachePrefixEnvironmentName    = "UTILKIT_TOOLS_CACHE_PREFIX"
	testLogLevelEnvironmentName       = "UTILKIT_COMMON_LOG_LEVEL"
)

type applicationHarness struct {
	application *cli.Application
	output      *bytes.Buffer
	errorOutput *bytes.Buffer
}

func newApplicationHarness(testInstance *testing.T, input string) applicationHarness {
	testInstance.Helper()

	isolatedDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", isolatedDirectory)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(isolatedDirectory, ".config"))
	testInstance.Setenv(testLogLevelEnvironmentName, "error")
	testInstance.Chdir(isolatedDirectory)

	harness := applicationHarness{
		application: cli.NewApplication(),
		output:      &bytes.Buffer{},
		errorOutput: &bytes.Buffer{},
	}
	harness.application.SetStreams(strings.NewReader(input), harness.output, harness.errorOutput)
	return harness
}

func writeWritableConfiguration(testInstance *testing.T, prefix string) string {
	testInstance.Helper()

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	configurationContent := strings.ReplaceAll(testWritableConfigurationTemplate, testCachePrefixPlaceholder, prefix)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))
	return configurationPath
}

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, datacache.DefaultCommandConfiguration(), configuration.Tools.Cache)
	require.False(testInstance, configuration.Tools.Run.Verbose)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondCopy[0])
}

func TestApplicationCacheRoundTripThroughConfigurationFile(testInstance *testing.T) {
	cachePrefix := filepath.Join(testInstance.TempDir(), "table-")

	setHarness := newApplicationHarness(testInstance, testCacheInputConstant)
	configurationPath := writeWritableConfiguration(testInstance, cachePrefix)
	require.NoError(testInstance, setHarness.application.Execute([]string{"--config", configurationPath, "cache", "set", testCacheKeyConstant}))
	require.FileExists(testInstance, cachePrefix+testCacheKeyConstant+".csv")
	require.False(testInstance, setHarness.application.Configuration().Tools.Cache.ReadOnly)

	getHarness := newApplicationHarness(testInstance, "")
	require.NoError(testInstance, getHarness.application.Execute([]string{"--config", configurationPath, "cache", "get", testCacheKeyConstant}))
	require.Equal(testInstance, testCacheInputConstant, getHarness.output.String())
}

func TestApplicationCacheDefaultsToReadOnly(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, testCacheInputConstant)

	executionError := harness.application.Execute([]string{"cache", "set", testCacheKeyConstant})
	require.ErrorIs(testInstance, executionError, datacache.ErrReadOnly)
	require.True(testInstance, harness.application.Configuration().Tools.Cache.ReadOnly)
	require.Equal(testInstance, 1, cli.ExitCode(executionError))
}

func TestApplicationEnvironmentOverridesCachePrefix(testInstance *testing.T) {
	cachePrefix := filepath.Join(testInstance.TempDir(), "env-")

	harness := newApplicationHarness(testInstance, testCacheInputConstant)
	testInstance.Setenv(testCachePrefixEnvironmentName, cachePrefix)

	require.NoError(testInstance, harness.application.Execute([]string{"cache", "set", testCacheKeyConstant, "--writable"}))
	require.FileExists(testInstance, cachePrefix+testCacheKeyConstant+".csv")
	require.Equal(testInstance, cachePrefix, harness.application.Configuration().Tools.Cache.Prefix)
}

func TestApplicationLogFlagsOverrideConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedLogLevel  string
		expectedLogFormat string
		expectError       bool
	}{
		{
			name:              "configured values",
			arguments:         []string{"url", "join", "a", "b"},
			expectedLogLevel:  "error",
			expectedLogFormat: "structured",
		},
		{
			name:              "flag overrides",
			arguments:         []string{"--log-level", "debug", "--log-format", "console", "url", "join", "a", "b"},
			expectedLogLevel:  "debug",
			expectedLogFormat: "console",
		},
		{
			name:        "unsupported level",
			arguments:   []string{"--log-level", "verbose", "url", "join", "a", "b"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			harness := newApplicationHarness(subTest, "")

			executionError := harness.application.Execute(testCase.arguments)
			if testCase.expectError {
				require.Error(subTest, executionError)
				require.Contains(subTest, executionError.Error(), "unable to create logger")
				return
			}

			require.NoError(subTest, executionError)
			require.Equal(subTest, "a/b\n", harness.output.String())
			configuration := harness.application.Configuration()
			require.Equal(subTest, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(subTest, testCase.expectedLogFormat, configuration.Common.LogFormat)
		})
	}
}

func TestApplicationRejectsMissingConfigurationFile(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, "")

	missingPath := filepath.Join(testInstance.TempDir(), "absent.yaml")
	executionError := harness.application.Execute([]string{"--config", missingPath, "url", "join", "a"})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to load configuration")
}

func TestApplicationRunPropagatesChildExitCode(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, "")

	executionError := harness.application.Execute([]string{"run", "--", "/bin/sh", "-c", "echo partial; exit 3"})
	require.Error(testInstance, executionError)

	var commandFailure execshell.CommandFailedError
	require.True(testInstance, errors.As(executionError, &commandFailure))
	require.Equal(testInstance, 3, cli.ExitCode(executionError))
	require.Equal(testInstance, ".", harness.errorOutput.String())
}

func TestApplicationRunVerboseToggle(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, "")

	require.NoError(testInstance, harness.application.Execute([]string{"run", "--verbose", "yes", "--", "/bin/sh", "-c", "echo hello"}))
	require.Equal(testInstance, "hello\ndone.\n", harness.errorOutput.String())
}

func TestApplicationMarkupAndURLCommandsRegistered(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		arguments      []string
		expectedOutput string
	}{
		{
			name:           "minify css",
			input:          "a { color: red; }",
			arguments:      []string{"markup", "minify-css"},
			expectedOutput: "a{color:red}\n",
		},
		{
			name:           "validate url",
			arguments:      []string{"url", "validate", "tcp://localhost:5555"},
			expectedOutput: "tcp://localhost:5555: valid\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			harness := newApplicationHarness(subTest, testCase.input)
			require.NoError(subTest, harness.application.Execute(testCase.arguments))
			require.Equal(subTest, testCase.expectedOutput, harness.output.String())
		})
	}
}

func TestExitCodeWithoutError(testInstance *testing.T) {
	require.Equal(testInstance, 0, cli.ExitCode(nil))
	require.Equal(testInstance, 1, cli.ExitCode(errors.New("boom")))
}
