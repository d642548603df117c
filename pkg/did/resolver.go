package did

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-jose/go-jose/v4"

	"github.com/veritrust/mcpf-go/pkg/transport"
)

// MethodResolver resolves DIDs of a single method to DID Documents.
// Implementations register with a Resolver; the dispatcher itself never
// needs to change when a new method is added.
type MethodResolver interface {
	ResolveMethod(ctx context.Context, d *DID) (*Document, error)
}

// Resolver dispatches DID resolution on the method segment.
type Resolver struct {
	mu       sync.RWMutex
	methods  map[string]MethodResolver
	fallback MethodResolver
}

// NewResolver creates a Resolver with the built-in did:web and did:key
// handlers registered.
func NewResolver(client *transport.Client) *Resolver {
	r := &Resolver{methods: make(map[string]MethodResolver)}
	r.Register(MethodWeb, &WebResolver{Client: client})
	r.Register(MethodKey, &KeyResolver{})
	return r
}

// Register installs a method handler. Registering an already-registered
// method replaces the previous handler.
func (r *Resolver) Register(method string, mr MethodResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[method] = mr
}

// SetFallback installs a handler for methods with no registered resolver,
// typically an HTTPResolver pointed at a remote DID resolver service.
func (r *Resolver) SetFallback(mr MethodResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = mr
}

// Resolve parses the DID and dispatches to the registered method handler.
// Unregistered methods fail with ErrUnsupportedMethod.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*Document, error) {
	d, err := Parse(didStr)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	mr, ok := r.methods[d.Method]
	if !ok {
		mr, ok = r.fallback, r.fallback != nil
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: did:%s", ErrUnsupportedMethod, d.Method)
	}
	return mr.ResolveMethod(ctx, d)
}

// WebResolver resolves did:web identifiers by fetching the DID Document
// from its well-known HTTPS location.
type WebResolver struct {
	Client *transport.Client
}

// ResolveMethod fetches and parses the DID Document for a did:web DID.
// Any non-success fetch outcome fails with ErrResolutionFailed carrying the
// upstream status.
func (wr *WebResolver) ResolveMethod(ctx context.Context, d *DID) (*Document, error) {
	docURL := wr.documentFetchURL(d)

	var doc Document
	if err := wr.Client.GetJSON(ctx, "did resolve", docURL, &doc); err != nil {
		if te, ok := transport.AsError(err); ok && te.Status != 0 {
			return nil, fmt.Errorf("%w: %s", ErrResolutionFailed, te.StatusText)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	return &doc, nil
}

// documentFetchURL is DocumentURL with plain HTTP for loopback domains,
// which lets local registries serve documents without certificates.
func (wr *WebResolver) documentFetchURL(d *DID) string {
	u := d.DocumentURL()
	if strings.HasPrefix(d.Domain, "localhost") || strings.HasPrefix(d.Domain, "127.0.0.1") {
		u = "http" + strings.TrimPrefix(u, "https")
	}
	return u
}

// HTTPResolver resolves DIDs through a remote resolver service speaking the
// HTTP binding: GET <base>/<did> returning the DID Document, either bare or
// wrapped in a {"didDocument": ...} resolution envelope.
type HTTPResolver struct {
	// BaseURL is the resolver service endpoint.
	BaseURL string

	Client *transport.Client
}

// ResolveMethod fetches the document for any DID method the service handles.
func (hr *HTTPResolver) ResolveMethod(ctx context.Context, d *DID) (*Document, error) {
	docURL := transport.BuildURL(hr.BaseURL, "/"+url.PathEscape(d.Raw), nil)

	var envelope struct {
		Document
		DIDDocument *Document `json:"didDocument"`
	}
	if err := hr.Client.GetJSON(ctx, "did resolve", docURL, &envelope); err != nil {
		if te, ok := transport.AsError(err); ok && te.Status != 0 {
			return nil, fmt.Errorf("%w: %s", ErrResolutionFailed, te.StatusText)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	doc := envelope.Document
	if envelope.DIDDocument != nil {
		doc = *envelope.DIDDocument
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: resolver returned no document for %s", ErrResolutionFailed, d.Raw)
	}
	return &doc, nil
}

// KeyResolver resolves did:key identifiers locally by synthesizing a
// DID Document around the embedded Ed25519 public key. No network access.
type KeyResolver struct{}

// ResolveMethod builds the document for a did:key DID.
func (kr *KeyResolver) ResolveMethod(_ context.Context, d *DID) (*Document, error) {
	if len(d.PublicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: missing embedded public key", ErrInvalidKeyDID)
	}

	keyID := d.Raw + "#" + strings.TrimPrefix(d.Raw, "did:key:")
	return &Document{
		ID: d.Raw,
		VerificationMethod: []VerificationMethod{
			{
				ID:         keyID,
				Type:       "JsonWebKey2020",
				Controller: d.Raw,
				PublicKeyJWK: &jose.JSONWebKey{
					Key:       d.PublicKey,
					Algorithm: string(jose.EdDSA),
					Use:       "sig",
				},
			},
		},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}, nil
}
