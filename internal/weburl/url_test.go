package weburl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/utilkit/internal/weburl"
)

func TestIsURL(testInstance *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "tcp", url: "tcp://127.0.0.1:5555", expected: true},
		{name: "uppercase_protocol", url: "IPC:///tmp/socket", expected: true},
		{name: "inproc", url: "inproc://workers", expected: true},
		{name: "http_rejected", url: "http://example.com", expected: false},
		{name: "missing_separator", url: "tcp:/host", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expected, weburl.IsURL(testCase.url))
		})
	}
}

func TestValidate(testInstance *testing.T) {
	testCases := []struct {
		name          string
		url           string
		expectedError string
	}{
		{name: "tcp_host", url: "tcp://broker.example.com:5555"},
		{name: "tcp_wildcard", url: "TCP://*:6000"},
		{name: "tcp_single_label", url: "tcp://localhost:1"},
		{name: "ipc_not_inspected", url: "ipc:///var/run/anything:at:all"},
		{name: "double_separator", url: "tcp://a://b", expectedError: `Invalid url: "tcp://a://b"`},
		{name: "unknown_protocol", url: "udp://host:1", expectedError: `Invalid protocol: "udp"`},
		{name: "missing_port", url: "tcp://host", expectedError: `Invalid url: "tcp://host"`},
		{name: "non_numeric_port", url: "tcp://host:http", expectedError: `Invalid port "http" in url: "tcp://host:http"`},
		{name: "invalid_host", url: "tcp://-bad-.com:80", expectedError: `Invalid url: "tcp://-bad-.com:80"`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			validationError := weburl.Validate(testCase.url)
			if len(testCase.expectedError) == 0 {
				require.NoError(subTest, validationError)
				return
			}
			require.EqualError(subTest, validationError, testCase.expectedError)
			var typedError *weburl.ValidationError
			require.True(subTest, errors.As(validationError, &typedError))
		})
	}
}

func TestJoinPath(testInstance *testing.T) {
	testCases := []struct {
		name     string
		pieces   []string
		expected string
	}{
		{name: "relative", pieces: []string{"api", "v1", "users"}, expected: "api/v1/users"},
		{name: "keeps_edges", pieces: []string{"/api/", "/v1/", "users/"}, expected: "/api/v1/users/"},
		{name: "drops_empty_pieces", pieces: []string{"a", "", "/", "b"}, expected: "a/b"},
		{name: "root_only", pieces: []string{"/", "/"}, expected: "/"},
		{name: "single_root", pieces: []string{"/"}, expected: "/"},
		{name: "nothing", pieces: nil, expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expected, weburl.JoinPath(testCase.pieces...))
		})
	}
}
