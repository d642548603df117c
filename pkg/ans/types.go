// Package ans implements the Agent Name Service client: resolving logical
// agent names to Agent Cards, registering and suspending cards, and
// validating the compact signature binding a card to its issuer key.
package ans

import (
	"errors"
	"time"
)

// Common errors returned by this package.
var (
	ErrResolveFailed  = errors.New("ANS resolve failed")
	ErrRegisterFailed = errors.New("ANS register failed")
	ErrSuspendFailed  = errors.New("ANS suspend failed")
)

// Agent lifecycle statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusRevoked   = "revoked"
)

// JWS is the compact signature material binding an Agent Card to an issuer
// key. The directory supplies it alongside the card; it is surfaced as-is
// and verified separately by CardVerifier.
type JWS struct {
	// Compact is the compact JWS serialization. The payload segment may be
	// detached, in which case the canonical card bytes are reattached
	// during verification.
	Compact string `json:"compact"`

	// KeyID identifies the verification method in the card DID's document.
	KeyID string `json:"kid"`
}

// AgentCard is an agent's published identity record.
//
// A card with a nil JWS is unauthenticated; callers must treat it as such
// rather than silently trusting it.
type AgentCard struct {
	Name          string                 `json:"name"`
	Version       string                 `json:"version"`
	DID           string                 `json:"did"`
	Provider      string                 `json:"provider"`
	Capabilities  []string               `json:"capabilities"`
	Endpoints     map[string]string      `json:"endpoints"`
	Status        string                 `json:"status"`
	Meta          map[string]interface{} `json:"meta"`
	IssuedAt      time.Time              `json:"issuedAt,omitzero"`
	JWS           *JWS                   `json:"jws,omitempty"`
	CredentialURL string                 `json:"credentialUrl,omitempty"`
}

// IsAuthenticated reports whether the card carries signature material.
func (c *AgentCard) IsAuthenticated() bool {
	return c.JWS != nil && c.JWS.Compact != ""
}

// normalize applies the shape defaults required of resolved cards: empty
// containers instead of nils, and "active" when the directory omits status.
func (c *AgentCard) normalize() {
	if c.Capabilities == nil {
		c.Capabilities = []string{}
	}
	if c.Endpoints == nil {
		c.Endpoints = map[string]string{}
	}
	if c.Meta == nil {
		c.Meta = map[string]interface{}{}
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
}
