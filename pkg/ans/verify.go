package ans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v4"

	"github.com/veritrust/mcpf-go/pkg/did"
)

// DocumentResolver resolves a DID string to its DID Document.
// *did.Resolver satisfies this.
type DocumentResolver interface {
	Resolve(ctx context.Context, didStr string) (*did.Document, error)
}

// CardVerification is the outcome of validating an Agent Card's signature.
type CardVerification struct {
	// Signed reports whether the card carried signature material at all.
	// An unsigned card is unauthenticated, not invalid.
	Signed bool `json:"signed"`

	// Valid reports whether the signature verified against the card's
	// canonical byte form and the key identified by the kid.
	Valid bool `json:"valid"`

	// KeyID is the kid the signature referenced.
	KeyID string `json:"kid,omitempty"`

	// Error describes the failure, if any.
	Error string `json:"error,omitempty"`
}

// CardVerifier validates the JWS binding an Agent Card to the issuer key
// published in the card DID's document.
type CardVerifier struct {
	resolver DocumentResolver

	// Algorithms restricts accepted JWS algorithms.
	// Defaults to EdDSA and ES256.
	Algorithms []jose.SignatureAlgorithm
}

// NewCardVerifier creates a CardVerifier resolving keys through resolver.
func NewCardVerifier(resolver DocumentResolver) *CardVerifier {
	return &CardVerifier{resolver: resolver}
}

// VerifyCard checks the card's signature against its byte-identical
// canonical form. A card without signature material yields Signed=false so
// callers are informed rather than the card being silently trusted.
func (cv *CardVerifier) VerifyCard(ctx context.Context, card *AgentCard) *CardVerification {
	if !card.IsAuthenticated() {
		return &CardVerification{Signed: false, Error: "card is not signed"}
	}

	result := &CardVerification{Signed: true, KeyID: card.JWS.KeyID}

	payload, err := CanonicalCardJSON(card)
	if err != nil {
		result.Error = fmt.Sprintf("failed to canonicalize card: %v", err)
		return result
	}

	compact, err := reattachPayload(card.JWS.Compact, payload)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	doc, err := cv.resolver.Resolve(ctx, card.DID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to resolve card DID %s: %v", card.DID, err)
		return result
	}
	vm := doc.FindVerificationMethod(card.JWS.KeyID)
	if vm == nil || vm.PublicKeyJWK == nil {
		result.Error = fmt.Sprintf("no verification method matches kid %q", card.JWS.KeyID)
		return result
	}

	algs := cv.Algorithms
	if len(algs) == 0 {
		algs = []jose.SignatureAlgorithm{jose.EdDSA, jose.ES256}
	}
	jwsObj, err := jose.ParseSigned(compact, algs)
	if err != nil {
		result.Error = fmt.Sprintf("failed to parse JWS: %v", err)
		return result
	}
	if _, err := jwsObj.Verify(vm.PublicKeyJWK.Key); err != nil {
		result.Error = fmt.Sprintf("signature verification failed: %v", err)
		return result
	}

	result.Valid = true
	return result
}

// CanonicalCardJSON returns the canonical byte form of an Agent Card: the
// jws field removed and keys sorted, so signer and verifier agree on the
// exact bytes. The card is canonicalized in its normalized shape (empty
// containers, defaulted status), so a card signed as registered still
// verifies after Resolve applies the same defaults.
func CanonicalCardJSON(card *AgentCard) ([]byte, error) {
	normalized := *card
	normalized.normalize()

	data, err := json.Marshal(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent card: %w", err)
	}

	var rawMap map[string]interface{}
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	delete(rawMap, "jws")

	canonical, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create canonical json: %w", err)
	}
	return canonical, nil
}

// reattachPayload turns the directory-supplied compact JWS into a full
// serialization over payload. A detached middle segment is filled in; a
// present one must match the canonical card bytes exactly.
func reattachPayload(compact string, payload []byte) (string, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid compact JWS: expected 3 segments, got %d", len(parts))
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	if parts[1] == "" {
		return parts[0] + "." + encoded + "." + parts[2], nil
	}

	signed, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid JWS payload encoding: %w", err)
	}
	if !bytes.Equal(signed, payload) {
		return "", fmt.Errorf("card bytes do not match the signed payload")
	}
	return compact, nil
}
