package did_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrust/mcpf-go/pkg/did"
	"github.com/veritrust/mcpf-go/pkg/transport"
)

// localWebDID encodes an httptest server address as a did:web identifier.
func localWebDID(t *testing.T, serverURL string, segments ...string) string {
	t.Helper()
	host := strings.TrimPrefix(serverURL, "http://")
	s := "did:web:" + strings.ReplaceAll(host, ":", "%3A")
	if len(segments) > 0 {
		s += ":" + strings.Join(segments, ":")
	}
	return s
}

func TestResolve_Web(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "did:web:bank.example",
			"verificationMethod": [{
				"id": "did:web:bank.example#key-1",
				"type": "JsonWebKey2020",
				"controller": "did:web:bank.example",
				"publicKeyJwk": {"kty": "OKP", "crv": "Ed25519", "x": "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}
			}],
			"assertionMethod": ["did:web:bank.example#key-1"]
		}`))
	}))
	defer server.Close()

	resolver := did.NewResolver(transport.NewClient(transport.Options{}))

	t.Run("well-known path", func(t *testing.T) {
		doc, err := resolver.Resolve(context.Background(), localWebDID(t, server.URL))
		require.NoError(t, err)
		assert.Equal(t, "/.well-known/did.json", requestedPath)
		assert.Equal(t, "did:web:bank.example", doc.ID)
		require.Len(t, doc.VerificationMethod, 1)
		assert.NotNil(t, doc.VerificationMethod[0].PublicKeyJWK)
	})

	t.Run("path segments", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), localWebDID(t, server.URL, "agents", "fraud-detector"))
		require.NoError(t, err)
		assert.Equal(t, "/agents/fraud-detector/did.json", requestedPath)
	})
}

func TestResolve_WebFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	resolver := did.NewResolver(transport.NewClient(transport.Options{}))

	doc, err := resolver.Resolve(context.Background(), localWebDID(t, server.URL))
	require.Error(t, err)
	assert.ErrorIs(t, err, did.ErrResolutionFailed)
	assert.Contains(t, err.Error(), "404")
	assert.Nil(t, doc)
}

func TestResolve_UnsupportedMethod(t *testing.T) {
	resolver := did.NewResolver(transport.NewClient(transport.Options{}))

	doc, err := resolver.Resolve(context.Background(), "did:ion:EiClkZMDxPKqC9c")
	require.Error(t, err)
	assert.ErrorIs(t, err, did.ErrUnsupportedMethod)
	assert.Nil(t, doc)
}

func TestResolve_Key(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	keyDID, err := did.FromKey(pub)
	require.NoError(t, err)

	resolver := did.NewResolver(transport.NewClient(transport.Options{}))

	doc, err := resolver.Resolve(context.Background(), keyDID)
	require.NoError(t, err)
	assert.Equal(t, keyDID, doc.ID)
	require.Len(t, doc.VerificationMethod, 1)

	vm := doc.VerificationMethod[0]
	require.NotNil(t, vm.PublicKeyJWK)
	assert.Equal(t, pub, vm.PublicKeyJWK.Key)
	assert.Equal(t, []string{vm.ID}, doc.AssertionMethod)
}

type staticResolver struct {
	doc *did.Document
}

func (s *staticResolver) ResolveMethod(_ context.Context, _ *did.DID) (*did.Document, error) {
	return s.doc, nil
}

func TestRegister_CustomMethod(t *testing.T) {
	resolver := did.NewResolver(transport.NewClient(transport.Options{}))
	resolver.Register("example", &staticResolver{doc: &did.Document{ID: "did:example:123"}})

	doc, err := resolver.Resolve(context.Background(), "did:example:123")
	require.NoError(t, err)
	assert.Equal(t, "did:example:123", doc.ID)
}

func TestSetFallback_HTTPResolver(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"didDocument": {
				"id": "did:ion:EiClkZMDxPKqC9c",
				"verificationMethod": [{"id": "did:ion:EiClkZMDxPKqC9c#key-1"}]
			}
		}`))
	}))
	defer server.Close()

	tc := transport.NewClient(transport.Options{})
	resolver := did.NewResolver(tc)
	resolver.SetFallback(&did.HTTPResolver{BaseURL: server.URL, Client: tc})

	doc, err := resolver.Resolve(context.Background(), "did:ion:EiClkZMDxPKqC9c")
	require.NoError(t, err)
	assert.Equal(t, "/did:ion:EiClkZMDxPKqC9c", requestedPath)
	assert.Equal(t, "did:ion:EiClkZMDxPKqC9c", doc.ID)
	require.Len(t, doc.VerificationMethod, 1)
}

func TestHTTPResolver_BareDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "did:ion:EiClkZMDxPKqC9c"}`))
	}))
	defer server.Close()

	tc := transport.NewClient(transport.Options{})
	hr := &did.HTTPResolver{BaseURL: server.URL, Client: tc}

	d, err := did.Parse("did:ion:EiClkZMDxPKqC9c")
	require.NoError(t, err)

	doc, err := hr.ResolveMethod(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "did:ion:EiClkZMDxPKqC9c", doc.ID)
}

func TestHTTPResolver_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tc := transport.NewClient(transport.Options{})
	resolver := did.NewResolver(tc)
	resolver.SetFallback(&did.HTTPResolver{BaseURL: server.URL, Client: tc})

	doc, err := resolver.Resolve(context.Background(), "did:ion:EiClkZMDxPKqC9c")
	require.Error(t, err)
	assert.ErrorIs(t, err, did.ErrResolutionFailed)
	assert.Nil(t, doc)
}

func TestFallback_DoesNotShadowRegisteredMethods(t *testing.T) {
	tc := transport.NewClient(transport.Options{})
	resolver := did.NewResolver(tc)
	resolver.SetFallback(&staticResolver{doc: &did.Document{ID: "from-fallback"}})

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	keyDID, err := did.FromKey(pub)
	require.NoError(t, err)

	doc, err := resolver.Resolve(context.Background(), keyDID)
	require.NoError(t, err)
	assert.Equal(t, keyDID, doc.ID)
}

func TestDocumentHelpers(t *testing.T) {
	doc := &did.Document{
		ID: "did:web:bank.example",
		VerificationMethod: []did.VerificationMethod{
			{ID: "did:web:bank.example#key-1"},
			{ID: "did:web:bank.example#key-2"},
		},
		AssertionMethod: []string{"did:web:bank.example#key-2"},
	}

	t.Run("find by full id", func(t *testing.T) {
		vm := doc.FindVerificationMethod("did:web:bank.example#key-1")
		require.NotNil(t, vm)
		assert.Equal(t, "did:web:bank.example#key-1", vm.ID)
	})

	t.Run("find by fragment", func(t *testing.T) {
		vm := doc.FindVerificationMethod("key-2")
		require.NotNil(t, vm)
		assert.Equal(t, "did:web:bank.example#key-2", vm.ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, doc.FindVerificationMethod("key-9"))
	})

	t.Run("assertion methods follow references", func(t *testing.T) {
		methods := doc.AssertionMethods()
		require.Len(t, methods, 1)
		assert.Equal(t, "did:web:bank.example#key-2", methods[0].ID)
	})
}
