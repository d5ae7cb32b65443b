package weburl

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	schemeSeparatorConstant         = "://"
	tcpProtocolConstant             = "tcp"
	hostPortSeparatorConstant       = ":"
	wildcardHostConstant            = "*"
	pathSeparatorConstant           = "/"
	invalidURLTemplateConstant      = "Invalid url: %q"
	invalidProtocolTemplateConstant = "Invalid protocol: %q"
	invalidPortTemplateConstant     = "Invalid port %q in url: %q"
)

var (
	supportedProtocols = []string{"tcp", "pgm", "epgm", "ipc", "inproc"}
	domainPattern      = regexp.MustCompile(`^([\w\d]([\w\d\-]{0,61}[\w\d])?\.)*[\w\d]([\w\d\-]{0,61}[\w\d])?$`)
)

// ValidationError describes why a URL was rejected.
type ValidationError struct {
	URL     string
	Message string
}

// Error returns the validation message.
func (validationError *ValidationError) Error() string {
	return validationError.Message
}

// SupportedProtocols lists the accepted URL protocols.
func SupportedProtocols() []string {
	return slices.Clone(supportedProtocols)
}

// IsURL reports whether candidate has the form proto://address with a supported protocol.
func IsURL(candidate string) bool {
	protocol, _, found := strings.Cut(candidate, schemeSeparatorConstant)
	if !found {
		return false
	}
	return slices.Contains(supportedProtocols, strings.ToLower(protocol))
}

// Validate checks the URL structure. Only tcp addresses are inspected beyond the protocol;
// they must be host:port with an integer port and a wildcard or domain-like host.
func Validate(candidate string) error {
	normalized := strings.ToLower(candidate)

	protocolAndAddress := strings.Split(normalized, schemeSeparatorConstant)
	if len(protocolAndAddress) != 2 {
		return newValidationError(normalized, invalidURLTemplateConstant, normalized)
	}
	protocol, address := protocolAndAddress[0], protocolAndAddress[1]
	if !slices.Contains(supportedProtocols, protocol) {
		return newValidationError(normalized, invalidProtocolTemplateConstant, protocol)
	}
	if protocol != tcpProtocolConstant {
		return nil
	}

	hostAndPort := strings.Split(address, hostPortSeparatorConstant)
	if len(hostAndPort) != 2 {
		return newValidationError(normalized, invalidURLTemplateConstant, normalized)
	}
	host, port := hostAndPort[0], hostAndPort[1]
	if _, portError := strconv.Atoi(port); portError != nil {
		return newValidationError(normalized, invalidPortTemplateConstant, port, normalized)
	}
	if host != wildcardHostConstant && !domainPattern.MatchString(host) {
		return newValidationError(normalized, invalidURLTemplateConstant, normalized)
	}
	return nil
}

// JoinPath joins pieces with single slashes, keeping a leading slash from the first piece and a
// trailing slash from the last.
func JoinPath(pieces ...string) string {
	if len(pieces) == 0 {
		return ""
	}
	keepsLeadingSlash := strings.HasPrefix(pieces[0], pathSeparatorConstant)
	keepsTrailingSlash := strings.HasSuffix(pieces[len(pieces)-1], pathSeparatorConstant)

	segments := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		trimmed := strings.Trim(piece, pathSeparatorConstant)
		if len(trimmed) == 0 {
			continue
		}
		segments = append(segments, trimmed)
	}

	joined := strings.Join(segments, pathSeparatorConstant)
	if keepsLeadingSlash {
		joined = pathSeparatorConstant + joined
	}
	if keepsTrailingSlash {
		joined += pathSeparatorConstant
	}
	if joined == pathSeparatorConstant+pathSeparatorConstant {
		joined = pathSeparatorConstant
	}
	return joined
}

func newValidationError(candidate string, template string, arguments ...any) *ValidationError {
	return &ValidationError{URL: candidate, Message: fmt.Sprintf(template, arguments...)}
}
