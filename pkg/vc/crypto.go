package vc

import (
	"crypto"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v4"
)

// DefaultProofType is the proof type emitted by the built-in JOSE suite.
const DefaultProofType = "JsonWebSignature2020"

// Signer produces detached compact JWS signatures over canonical credential
// bytes. Implementations are injected into the Issuer at construction.
type Signer interface {
	// Algorithm returns the JWS algorithm this signer uses.
	Algorithm() jose.SignatureAlgorithm

	// KeyID returns the key identifier placed in the proof's
	// verificationMethod fragment.
	KeyID() string

	// Sign returns a detached compact JWS (header..signature) over payload.
	Sign(payload []byte) (string, error)
}

// ProofVerifier checks a detached compact JWS against a public key.
// Implementations are injected into the Verifier at construction.
type ProofVerifier interface {
	// Verify reattaches payload to the detached JWS and verifies it with
	// the given public key.
	Verify(payload []byte, detachedJWS string, key interface{}) error
}

// JOSESigner is the go-jose backed Signer. It signs with a single private
// key under a fixed algorithm.
type JOSESigner struct {
	alg   jose.SignatureAlgorithm
	keyID string
	key   crypto.PrivateKey
}

// NewJOSESigner creates a JOSESigner. EdDSA (Ed25519) is the expected
// algorithm for MCPF issuers.
func NewJOSESigner(alg jose.SignatureAlgorithm, keyID string, key crypto.PrivateKey) *JOSESigner {
	return &JOSESigner{alg: alg, keyID: keyID, key: key}
}

func (s *JOSESigner) Algorithm() jose.SignatureAlgorithm { return s.alg }

func (s *JOSESigner) KeyID() string { return s.keyID }

// Sign signs the payload and detaches it from the compact serialization.
func (s *JOSESigner) Sign(payload []byte) (string, error) {
	opts := &jose.SignerOptions{}
	if s.keyID != "" {
		opts.WithHeader("kid", s.keyID)
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: s.alg, Key: s.key}, opts)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	jwsObj, err := signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}

	compact, err := jwsObj.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to serialize JWS: %w", err)
	}
	return DetachPayload(compact)
}

// JOSEVerifier is the go-jose backed ProofVerifier.
type JOSEVerifier struct {
	// Algorithms restricts which JWS algorithms are accepted. Defaults to
	// EdDSA and ES256 when empty.
	Algorithms []jose.SignatureAlgorithm
}

// Verify reconstructs the compact JWS from the detached form and the payload
// and verifies the signature with key.
func (v *JOSEVerifier) Verify(payload []byte, detachedJWS string, key interface{}) error {
	compact, err := AttachPayload(detachedJWS, payload)
	if err != nil {
		return err
	}

	algs := v.Algorithms
	if len(algs) == 0 {
		algs = []jose.SignatureAlgorithm{jose.EdDSA, jose.ES256}
	}

	jwsObj, err := jose.ParseSigned(compact, algs)
	if err != nil {
		return fmt.Errorf("failed to parse JWS: %w", err)
	}
	if _, err := jwsObj.Verify(key); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

// DetachPayload converts a compact JWS (header.payload.signature) into its
// detached form (header..signature).
func DetachPayload(compact string) (string, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid compact JWS: expected 3 segments, got %d", len(parts))
	}
	return parts[0] + ".." + parts[2], nil
}

// AttachPayload reinserts a payload into a detached compact JWS.
func AttachPayload(detached string, payload []byte) (string, error) {
	parts := strings.Split(detached, ".")
	if len(parts) != 3 || parts[1] != "" {
		return "", fmt.Errorf("invalid detached JWS: expected header..signature")
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return parts[0] + "." + encoded + "." + parts[2], nil
}
