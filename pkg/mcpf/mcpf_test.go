package mcpf_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrust/mcpf-go/pkg/a2a"
	"github.com/veritrust/mcpf-go/pkg/ans"
	"github.com/veritrust/mcpf-go/pkg/did"
	"github.com/veritrust/mcpf-go/pkg/mcpf"
	"github.com/veritrust/mcpf-go/pkg/registry"
	"github.com/veritrust/mcpf-go/pkg/vc"
)

func TestNew_Defaults(t *testing.T) {
	m := mcpf.New(mcpf.Config{})

	assert.NotNil(t, m.DID)
	assert.NotNil(t, m.ANS)
	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.Verifier)
	assert.Nil(t, m.A2A, "delegation engine must stay nil without an A2A URL")
}

func TestNew_DIDResolverFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/did:ion:EiClkZMDxPKqC9c", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(map[string]interface{}{
			"didDocument": map[string]interface{}{"id": "did:ion:EiClkZMDxPKqC9c"},
		})
	}))
	defer server.Close()

	m := mcpf.New(mcpf.Config{DIDResolverURL: server.URL})

	doc, err := m.DID.Resolve(context.Background(), "did:ion:EiClkZMDxPKqC9c")
	require.NoError(t, err)
	assert.Equal(t, "did:ion:EiClkZMDxPKqC9c", doc.ID)
}

func TestNew_A2AConfigured(t *testing.T) {
	m := mcpf.New(mcpf.Config{A2AURL: "https://a2a.example"})
	assert.NotNil(t, m.A2A)
}

// keyIssuer creates a did:key identity whose credentials the facade can
// verify without any DID document server.
func keyIssuer(t *testing.T) (string, *vc.Issuer) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	issuerDID, err := did.FromKey(pub)
	require.NoError(t, err)

	kid := strings.TrimPrefix(issuerDID, "did:key:")
	return issuerDID, vc.NewIssuer(issuerDID, vc.NewJOSESigner(jose.EdDSA, kid, priv))
}

func TestResolveAndVerify_NoCredentialReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resolve", r.URL.Path)
		assert.Equal(t, "fraud-detector.risk.bank.example.agent", r.URL.Query().Get("name"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"card": ans.AgentCard{
				Name: "fraud-detector.risk.bank.example.agent",
				DID:  "did:web:bank.example:fraud-detector",
			},
		})
	}))
	defer server.Close()

	m := mcpf.New(mcpf.Config{ANSURL: server.URL})

	resolved, err := m.ResolveAndVerify(context.Background(), "fraud-detector.risk.bank.example.agent", "")
	require.NoError(t, err)
	assert.Equal(t, "did:web:bank.example:fraud-detector", resolved.DID)
	assert.Nil(t, resolved.Verification, "no credential reference must mean no verification outcome")
}

func TestResolveAndVerify_WithValidCredential(t *testing.T) {
	issuerDID, issuer := keyIssuer(t)

	cred, err := issuer.IssueCredential("did:web:bank.example:fraud-detector", "AgentIdentity", map[string]interface{}{
		"role": "fraud-detection",
	}, vc.IssueOptions{})
	require.NoError(t, err)

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"card": ans.AgentCard{
				Name:          "fraud-detector.risk.bank.example.agent",
				DID:           "did:web:bank.example:fraud-detector",
				CredentialURL: server.URL + "/credentials/fraud-detector.json",
			},
		})
	})
	mux.HandleFunc("/credentials/fraud-detector.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cred)
	})

	m := mcpf.New(mcpf.Config{ANSURL: server.URL})

	resolved, err := m.ResolveAndVerify(context.Background(), "fraud-detector.risk.bank.example.agent", "")
	require.NoError(t, err)
	require.NotNil(t, resolved.Verification)
	assert.True(t, resolved.Verification.Valid)
	assert.Equal(t, issuerDID, resolved.Verification.Issuer)
	assert.Equal(t, "did:web:bank.example:fraud-detector", resolved.Verification.Subject)
}

func TestResolveAndVerify_InvalidCredentialIsReportedNotFatal(t *testing.T) {
	_, issuer := keyIssuer(t)

	// Unsigned credential: verification must fail but resolution succeed.
	cred := issuer.IssueUnsigned("did:web:bank.example:fraud-detector", "AgentIdentity", nil, vc.IssueOptions{})

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"card": ans.AgentCard{
				Name:          "fraud-detector.risk.bank.example.agent",
				DID:           "did:web:bank.example:fraud-detector",
				CredentialURL: server.URL + "/credentials/fraud-detector.json",
			},
		})
	})
	mux.HandleFunc("/credentials/fraud-detector.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cred)
	})

	m := mcpf.New(mcpf.Config{ANSURL: server.URL})

	resolved, err := m.ResolveAndVerify(context.Background(), "fraud-detector.risk.bank.example.agent", "")
	require.NoError(t, err)
	require.NotNil(t, resolved.Verification)
	assert.False(t, resolved.Verification.Valid)
	assert.True(t, strings.HasPrefix(resolved.Verification.Error, vc.CodeNoProof))
}

func TestResolveAndVerify_CredentialFetchFailure(t *testing.T) {
	credServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	credServer.Close() // resolved card points at a dead endpoint

	ansServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"card": ans.AgentCard{
				Name:          "fraud-detector.risk.bank.example.agent",
				DID:           "did:web:bank.example:fraud-detector",
				CredentialURL: credServer.URL + "/credentials/fraud-detector.json",
			},
		})
	}))
	defer ansServer.Close()

	m := mcpf.New(mcpf.Config{ANSURL: ansServer.URL})

	resolved, err := m.ResolveAndVerify(context.Background(), "fraud-detector.risk.bank.example.agent", "")
	require.Error(t, err)
	assert.Nil(t, resolved)
}

func TestCanDelegate_NotConfigured(t *testing.T) {
	m := mcpf.New(mcpf.Config{})

	allowed, err := m.CanDelegate(context.Background(), "did:web:a.example", "did:web:b.example", "act")
	require.Error(t, err)
	assert.ErrorIs(t, err, mcpf.ErrNotConfigured)
	assert.False(t, allowed)
}

func TestCanDelegate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/a2a/policies", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"policies": []a2a.Policy{{
				ID:             "pol-1",
				FromAgent:      "did:web:bank.example:fraud-detector",
				ToAgent:        "did:web:bank.example:risk-analyzer",
				AllowedActions: []string{"read-risk-score"},
				Status:         a2a.PolicyStatusActive,
				CreatedAt:      time.Now().Add(-time.Hour),
			}},
		})
	}))
	defer server.Close()

	m := mcpf.New(mcpf.Config{A2AURL: server.URL})

	allowed, err := m.CanDelegate(context.Background(),
		"did:web:bank.example:fraud-detector", "did:web:bank.example:risk-analyzer", "read-risk-score")
	require.NoError(t, err)
	assert.True(t, allowed)

	denied, err := m.CanDelegate(context.Background(),
		"did:web:bank.example:fraud-detector", "did:web:bank.example:risk-analyzer", "write-risk-score")
	require.NoError(t, err)
	assert.False(t, denied)
}

func TestFindMCPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "fraud-signals", r.URL.Query().Get("capability"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []registry.Server{{DID: "did:web:mcp.bank.example:fraud-tools"}},
		})
	}))
	defer server.Close()

	m := mcpf.New(mcpf.Config{RegistryURL: server.URL})

	list, err := m.FindMCPServer(context.Background(), registry.SearchFilters{Capability: "fraud-signals"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "did:web:mcp.bank.example:fraud-tools", list.Items[0].DID)
}
