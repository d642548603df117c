// Package mcpf composes the MCPF trust clients behind a unified facade:
// resolve-and-verify for agent names, delegation checks, and directory
// search.
package mcpf

import (
	"time"
)

// Default service endpoints.
const (
	DefaultANSURL      = "https://ans.veritrust.vc"
	DefaultRegistryURL = DefaultANSURL + "/mcp"
)

// Config is the immutable configuration shared by all sub-clients. It is
// fixed at construction; there is no ambient or global state.
type Config struct {
	// ANSURL is the base URL of the Agent Name Service.
	// Defaults to DefaultANSURL.
	ANSURL string

	// RegistryURL is the base URL of the MCP server directory.
	// Defaults to DefaultRegistryURL.
	RegistryURL string

	// A2AURL is the base URL of the delegation policy service. When empty,
	// delegation features are disabled and CanDelegate fails with
	// ErrNotConfigured.
	A2AURL string

	// DIDResolverURL is an optional remote DID resolver endpoint
	// (GET <url>/<did>). When set, it handles every DID method without a
	// built-in resolver; did:web and did:key stay local.
	DIDResolverURL string

	// Timeout applies to every network-bound call.
	// Defaults to transport.DefaultTimeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate validation. Strict
	// validation is the default.
	InsecureSkipVerify bool
}

// withDefaults returns a copy of the config with defaults filled in.
func (c Config) withDefaults() Config {
	if c.ANSURL == "" {
		c.ANSURL = DefaultANSURL
	}
	if c.RegistryURL == "" {
		c.RegistryURL = DefaultRegistryURL
	}
	return c
}
