package mcpf

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/veritrust/mcpf-go/pkg/a2a"
	"github.com/veritrust/mcpf-go/pkg/ans"
	"github.com/veritrust/mcpf-go/pkg/did"
	"github.com/veritrust/mcpf-go/pkg/registry"
	"github.com/veritrust/mcpf-go/pkg/transport"
	"github.com/veritrust/mcpf-go/pkg/vc"
)

// ErrNotConfigured is returned when a delegation feature is requested but
// no A2A service URL was configured.
var ErrNotConfigured = errors.New("A2A service not configured")

// MCPF is the unified trust facade. All sub-clients share one immutable
// configuration and one transport; the value is safe for concurrent use.
type MCPF struct {
	// DID resolves decentralized identifiers to DID Documents.
	DID *did.Resolver

	// ANS resolves agent names to Agent Cards.
	ANS *ans.Client

	// Registry is the MCP server directory client.
	Registry *registry.Client

	// A2A is the delegation policy engine, nil when not configured.
	A2A *a2a.Engine

	// Verifier validates verifiable credentials.
	Verifier *vc.Verifier

	config Config
	log    *logrus.Entry
}

// New creates an MCPF facade from the given configuration.
func New(cfg Config) *MCPF {
	cfg = cfg.withDefaults()

	tc := transport.NewClient(transport.Options{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	resolver := did.NewResolver(tc)
	if cfg.DIDResolverURL != "" {
		resolver.SetFallback(&did.HTTPResolver{BaseURL: cfg.DIDResolverURL, Client: tc})
	}

	m := &MCPF{
		DID:      resolver,
		ANS:      ans.NewClient(cfg.ANSURL, tc),
		Registry: registry.NewClient(cfg.RegistryURL, tc),
		Verifier: vc.NewVerifier(resolver, vc.VerifierOptions{
			Status: vc.NewHTTPStatusChecker(tc),
			Client: tc,
		}),
		config: cfg,
		log:    logrus.WithField("component", "mcpf"),
	}
	if cfg.A2AURL != "" {
		m.A2A = a2a.NewEngine(a2a.NewClient(cfg.A2AURL, tc))
	}
	return m
}

// ResolvedCard is an Agent Card with the optional credential verification
// outcome attached. Verification is nil when the card references no
// external credential; it is never fabricated.
type ResolvedCard struct {
	ans.AgentCard

	// Verification is the credential verification outcome, present only
	// when the card carried a credentialUrl.
	Verification *vc.VerificationResult `json:"verification,omitempty"`
}

// ResolveAndVerify resolves an agent name and, when the card references an
// external credential, verifies it. A card without a credential reference
// is returned unverified, observably so.
func (m *MCPF) ResolveAndVerify(ctx context.Context, name, version string) (*ResolvedCard, error) {
	card, err := m.ANS.Resolve(ctx, name, version)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedCard{AgentCard: *card}
	if card.CredentialURL == "" {
		return resolved, nil
	}

	verification, err := m.Verifier.VerifyCredentialURL(ctx, card.CredentialURL)
	if err != nil {
		// Transport fault: no verification result can exist at all.
		return nil, err
	}
	m.log.WithFields(logrus.Fields{
		"agent": name,
		"valid": verification.Valid,
	}).Debug("credential verification completed")

	resolved.Verification = verification
	return resolved, nil
}

// CanDelegate reports whether from may delegate to to, optionally scoped to
// an action. Fails with ErrNotConfigured when no A2A service is configured.
func (m *MCPF) CanDelegate(ctx context.Context, from, to, action string) (bool, error) {
	if m.A2A == nil {
		return false, ErrNotConfigured
	}
	result, err := m.A2A.CheckDelegation(ctx, from, to, action)
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// FindMCPServer searches the server directory; a pass-through to the
// registry client.
func (m *MCPF) FindMCPServer(ctx context.Context, filters registry.SearchFilters) (*registry.ServerList, error) {
	return m.Registry.Search(ctx, filters)
}
