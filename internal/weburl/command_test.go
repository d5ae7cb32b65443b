package weburl_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/utilkit/internal/weburl"
)

func executeURLCommand(testInstance *testing.T, arguments ...string) (string, error) {
	testInstance.Helper()
	builder := weburl.CommandBuilder{LoggerProvider: func() *zap.Logger { return zap.NewNop() }}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetContext(context.Background())
	command.SetOut(output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return output.String(), executionError
}

func TestURLCommandValidate(testInstance *testing.T) {
	output, executionError := executeURLCommand(testInstance, "validate", "tcp://*:5555", "udp://host:1")
	require.ErrorContains(testInstance, executionError, "one or more URLs are invalid")
	require.Equal(testInstance, "tcp://*:5555: valid\nudp://host:1: Invalid protocol: \"udp\"\n", output)

	validOutput, validError := executeURLCommand(testInstance, "validate", "inproc://jobs")
	require.NoError(testInstance, validError)
	require.Equal(testInstance, "inproc://jobs: valid\n", validOutput)
}

func TestURLCommandJoin(testInstance *testing.T) {
	output, executionError := executeURLCommand(testInstance, "join", "/static/", "css", "site.css")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "/static/css/site.css\n", output)
}
