package vc

import (
	"context"
	"fmt"
	"time"

	"github.com/veritrust/mcpf-go/pkg/did"
	"github.com/veritrust/mcpf-go/pkg/transport"
)

// DefaultClockSkew is the tolerated clock drift between issuer and verifier
// when checking the issuance timestamp.
const DefaultClockSkew = 5 * time.Second

// DocumentResolver resolves a DID string to its DID Document.
// *did.Resolver satisfies this.
type DocumentResolver interface {
	Resolve(ctx context.Context, didStr string) (*did.Document, error)
}

// Verifier validates Verifiable Credentials: structure, proof, temporal
// validity, and revocation. All semantic failures are reported through
// VerificationResult; only transport faults when fetching a credential by
// URL propagate as errors.
type Verifier struct {
	resolver DocumentResolver
	proofs   ProofVerifier
	status   StatusChecker
	client   *transport.Client

	// ClockSkew is the tolerated issuance-timestamp drift.
	// Defaults to DefaultClockSkew.
	ClockSkew time.Duration

	// Now overrides the verification clock (for testing).
	Now func() time.Time
}

// VerifierOptions configures optional Verifier collaborators.
type VerifierOptions struct {
	// Proofs overrides the proof suite. Defaults to the JOSE suite.
	Proofs ProofVerifier

	// Status overrides the revocation checker. When nil, credentials
	// carrying a credentialStatus fail their revocation check as
	// unverifiable rather than being silently accepted.
	Status StatusChecker

	// Client is the transport used by VerifyCredentialURL.
	Client *transport.Client

	// ClockSkew overrides the issuance-timestamp tolerance.
	ClockSkew time.Duration
}

// NewVerifier creates a Verifier resolving issuer keys through resolver.
func NewVerifier(resolver DocumentResolver, opts VerifierOptions) *Verifier {
	v := &Verifier{
		resolver:  resolver,
		proofs:    opts.Proofs,
		status:    opts.Status,
		client:    opts.Client,
		ClockSkew: opts.ClockSkew,
		Now:       time.Now,
	}
	if v.proofs == nil {
		v.proofs = &JOSEVerifier{}
	}
	if v.client == nil {
		v.client = transport.NewClient(transport.Options{})
	}
	if v.ClockSkew <= 0 {
		v.ClockSkew = DefaultClockSkew
	}
	return v
}

// VerifyCredential runs the full verification pipeline on a credential,
// short-circuiting on the first failing step. It never returns a Go error
// for malformed-but-parseable input; every such case becomes a
// VerificationResult.
func (v *Verifier) VerifyCredential(ctx context.Context, cred *Credential) *VerificationResult {
	// Step 1: structure, issuer and subject extraction.
	if cred == nil {
		return failure(CodeMalformed, "credential is nil")
	}
	if !cred.HasType(TypeVerifiableCredential) {
		return failure(CodeMalformed, "type must include %q", TypeVerifiableCredential)
	}
	issuer := cred.Issuer.ID
	if issuer == "" {
		return failure(CodeMalformed, "credential has no issuer")
	}
	subject := cred.SubjectDID()
	if subject == "" {
		return failure(CodeMalformed, "credentialSubject has no id")
	}

	result := &VerificationResult{Issuer: issuer, Subject: subject}

	// A credential without a proof is unverified by construction.
	if cred.Proof == nil || cred.Proof.JWS == "" {
		result.Error = CodeNoProof + ": credential has no proof"
		return result
	}

	// Step 2: resolve the issuer's keys and locate the verification method
	// referenced by the proof.
	doc, err := v.resolver.Resolve(ctx, issuer)
	if err != nil {
		result.Error = fmt.Sprintf("%s: failed to resolve issuer %s: %v", CodeIssuerKeyNotFound, issuer, err)
		return result
	}
	vm := v.locateKey(doc, cred.Proof)
	if vm == nil || vm.PublicKeyJWK == nil {
		result.Error = fmt.Sprintf("%s: no verification method matches %q", CodeIssuerKeyNotFound, cred.Proof.VerificationMethod)
		return result
	}

	// Step 3: verify the proof against the canonical credential bytes.
	payload, err := CanonicalJSON(cred)
	if err != nil {
		result.Error = fmt.Sprintf("%s: %v", CodeMalformed, err)
		return result
	}
	if err := v.proofs.Verify(payload, cred.Proof.JWS, vm.PublicKeyJWK.Key); err != nil {
		result.Error = fmt.Sprintf("%s: %v", CodeSignatureInvalid, err)
		return result
	}

	// Step 4: temporal validity.
	now := v.Now()
	if cred.IssuanceDate.After(now.Add(v.ClockSkew)) {
		result.Error = fmt.Sprintf("%s: issued at %s, which is in the future", CodeNotYetValid, cred.IssuanceDate.Format(time.RFC3339))
		return result
	}
	if cred.ValidUntil != nil && cred.ValidUntil.Before(now) {
		result.Error = fmt.Sprintf("%s: credential expired at %s", CodeExpired, cred.ValidUntil.Format(time.RFC3339))
		return result
	}

	// Step 5: revocation. Reported independently of Valid so callers can
	// tell "revoked" from "expired".
	if cred.CredentialStatus != nil {
		if v.status == nil {
			result.Error = CodeRevocationCheckFailed + ": no status checker configured"
			return result
		}
		revoked, err := v.status.IsRevoked(ctx, cred.CredentialStatus)
		if err != nil {
			result.Error = fmt.Sprintf("%s: %v", CodeRevocationCheckFailed, err)
			return result
		}
		if revoked {
			result.IsRevoked = true
			result.Error = fmt.Sprintf("%s: credential %s has been revoked", CodeRevoked, cred.ID)
			return result
		}
	}

	result.Valid = true
	return result
}

// VerifyCredentialURL fetches a credential and verifies it. Transport
// failures propagate as hard errors, distinct from semantic verification
// failures, since no result can be produced at all in that case.
func (v *Verifier) VerifyCredentialURL(ctx context.Context, url string) (*VerificationResult, error) {
	var cred Credential
	if err := v.client.GetJSON(ctx, "credential fetch", url, &cred); err != nil {
		return nil, err
	}
	return v.VerifyCredential(ctx, &cred), nil
}

// VerifyAgent reports whether the agent DID resolves to a document carrying
// at least one usable assertion key.
func (v *Verifier) VerifyAgent(ctx context.Context, agentDID string) (bool, error) {
	doc, err := v.resolver.Resolve(ctx, agentDID)
	if err != nil {
		return false, err
	}
	for _, vm := range doc.AssertionMethods() {
		if vm.PublicKeyJWK != nil {
			return true, nil
		}
	}
	return false, nil
}

// locateKey finds the verification method referenced by the proof, falling
// back to the document's default assertion method when the proof omits one.
func (v *Verifier) locateKey(doc *did.Document, proof *Proof) *did.VerificationMethod {
	if proof.VerificationMethod != "" {
		return doc.FindVerificationMethod(proof.VerificationMethod)
	}
	methods := doc.AssertionMethods()
	if len(methods) == 0 {
		return nil
	}
	return &methods[0]
}
