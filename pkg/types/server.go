package types

import "fmt"

// ServerTransport represents the transport the mcp-gcp server serves MCP over.
type ServerTransport string

const (
	TransportStdio          ServerTransport = "stdio"
	TransportStreamableHTTP ServerTransport = "http"
)

// ServerMetadata represents the server metadata response
type ServerMetadata struct {
	Version   string `json:"version"`
	Transport string `json:"transport"`
	Tools     int    `json:"tools"`
}

// ValidateTransport validates the input string and returns the corresponding ServerTransport.
// An empty input selects the stdio transport.
func ValidateTransport(input string) (ServerTransport, error) {
	switch input {
	case string(TransportStdio), "":
		return TransportStdio, nil
	case string(TransportStreamableHTTP):
		return TransportStreamableHTTP, nil
	default:
		return "", fmt.Errorf(
			"unsupported transport type: %s (acceptable values: '%s', '%s')",
			input, TransportStdio, TransportStreamableHTTP,
		)
	}
}
