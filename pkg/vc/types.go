// Package vc implements Verifiable Credential issuance and verification.
// Credentials are signed with a detached compact JWS over a canonical JSON
// form of the credential; verification resolves the issuer's keys through
// the DID resolver.
package vc

import (
	"encoding/json"
	"fmt"
	"time"
)

// W3C credential context URIs attached to every issued credential.
const (
	ContextV1 = "https://www.w3.org/2018/credentials/v1"
	ContextV2 = "https://www.w3.org/ns/credentials/v2"
)

// TypeVerifiableCredential is the mandatory credential type tag.
const TypeVerifiableCredential = "VerifiableCredential"

// Verification failure codes. These appear as the prefix of
// VerificationResult.Error so callers can branch on the failing step.
const (
	CodeMalformed             = "VC_MALFORMED"
	CodeNoProof               = "VC_NO_PROOF"
	CodeIssuerKeyNotFound     = "VC_ISSUER_KEY_NOT_FOUND"
	CodeSignatureInvalid      = "VC_SIGNATURE_INVALID"
	CodeExpired               = "VC_EXPIRED"
	CodeNotYetValid           = "VC_NOT_YET_VALID"
	CodeRevoked               = "VC_REVOKED"
	CodeRevocationCheckFailed = "VC_REVOCATION_CHECK_FAILED"
)

// IssuerRef is the credential issuer reference. The wire form is either a
// bare DID string or an object wrapping one; both unmarshal into ID.
type IssuerRef struct {
	// ID is the issuer DID.
	ID string

	// wrapped records whether the wire form was the object variant, so the
	// credential round-trips byte-identically.
	wrapped bool
}

// NewIssuerRef returns an object-form issuer reference, the form this SDK
// emits when issuing.
func NewIssuerRef(did string) IssuerRef {
	return IssuerRef{ID: did, wrapped: true}
}

// MarshalJSON emits the object form for wrapped refs and the bare string
// otherwise.
func (r IssuerRef) MarshalJSON() ([]byte, error) {
	if r.wrapped {
		return json.Marshal(struct {
			ID string `json:"id"`
		}{ID: r.ID})
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts both the bare-string and object-wrapped forms.
func (r *IssuerRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.ID = s
		r.wrapped = false
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("issuer must be a DID string or an object with an id: %w", err)
	}
	r.ID = obj.ID
	r.wrapped = true
	return nil
}

// Proof is the cryptographic proof attached to a credential. The JWS field
// holds a detached compact serialization (header..signature); the payload is
// the canonical credential byte form.
type Proof struct {
	Type               string    `json:"type"`
	Created            time.Time `json:"created"`
	VerificationMethod string    `json:"verificationMethod"`
	ProofPurpose       string    `json:"proofPurpose,omitempty"`
	JWS                string    `json:"jws"`
}

// Status points at the issuer-specified revocation mechanism for a
// credential.
type Status struct {
	// ID is the URL of the status resource.
	ID string `json:"id"`

	// Type names the status mechanism (e.g. "RevocationList2021Status").
	Type string `json:"type"`
}

// Credential is a W3C Verifiable Credential. A credential without a proof
// is unverified by construction; the Verifier rejects it.
type Credential struct {
	Context           []string               `json:"@context"`
	ID                string                 `json:"id,omitempty"`
	Type              []string               `json:"type"`
	Issuer            IssuerRef              `json:"issuer"`
	IssuanceDate      time.Time              `json:"issuanceDate"`
	ValidUntil        *time.Time             `json:"validUntil,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject"`
	CredentialStatus  *Status                `json:"credentialStatus,omitempty"`
	Proof             *Proof                 `json:"proof,omitempty"`
}

// SubjectDID returns the subject DID from the credentialSubject block, or
// empty string if absent.
func (c *Credential) SubjectDID() string {
	if c.CredentialSubject == nil {
		return ""
	}
	id, _ := c.CredentialSubject["id"].(string)
	return id
}

// HasType reports whether the credential carries the given type tag.
func (c *Credential) HasType(t string) bool {
	for _, ct := range c.Type {
		if ct == t {
			return true
		}
	}
	return false
}

// VerificationResult is the outcome of credential verification. It is the
// only channel through which verification failures reach callers; semantic
// failures populate Error instead of propagating as Go errors.
type VerificationResult struct {
	// Valid reports whether every verification step passed.
	Valid bool `json:"valid"`

	// Issuer is the resolved issuer DID, when extraction succeeded.
	Issuer string `json:"issuer,omitempty"`

	// Subject is the resolved subject DID, when extraction succeeded.
	Subject string `json:"subject,omitempty"`

	// IsRevoked reports the revocation status, independently of Valid, so
	// callers can distinguish "expired" from "revoked" from "still valid".
	IsRevoked bool `json:"isRevoked"`

	// Error describes the first failing step, prefixed with its VC_* code.
	Error string `json:"error,omitempty"`
}

func failure(code, format string, args ...interface{}) *VerificationResult {
	return &VerificationResult{
		Valid: false,
		Error: code + ": " + fmt.Sprintf(format, args...),
	}
}
