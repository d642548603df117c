package vc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Issuer builds and signs Verifiable Credentials for a single issuer
// identity. The signing capability is injected, not hard-coded, so proof
// suites can be swapped without touching issuance logic.
type Issuer struct {
	issuerDID string
	signer    Signer

	// Now overrides the issuance clock (for testing).
	Now func() time.Time
}

// IssueOptions carries the optional parts of a credential issuance.
type IssueOptions struct {
	// ValidFrom overrides the issuance timestamp. Defaults to now.
	ValidFrom *time.Time

	// ValidUntil sets the end of the validity window, if any.
	ValidUntil *time.Time

	// Status attaches a revocation status pointer, if any.
	Status *Status
}

// NewIssuer creates an Issuer for the given DID. The signer may be nil, in
// which case only IssueUnsigned is usable.
func NewIssuer(issuerDID string, signer Signer) *Issuer {
	return &Issuer{
		issuerDID: issuerDID,
		signer:    signer,
		Now:       time.Now,
	}
}

// IssueCredential builds a structurally valid credential and attaches a
// proof binding its canonical byte form to the issuer's signing key.
func (i *Issuer) IssueCredential(subjectDID, credentialType string, claims map[string]interface{}, opts IssueOptions) (*Credential, error) {
	if i.signer == nil {
		return nil, fmt.Errorf("issuer %s has no signer configured", i.issuerDID)
	}

	cred := i.build(subjectDID, credentialType, claims, opts)

	payload, err := CanonicalJSON(cred)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize credential: %w", err)
	}

	detached, err := i.signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sign credential: %w", err)
	}

	cred.Proof = &Proof{
		Type:               DefaultProofType,
		Created:            i.Now().UTC().Truncate(time.Second),
		VerificationMethod: i.verificationMethod(),
		ProofPurpose:       "assertionMethod",
		JWS:                detached,
	}
	return cred, nil
}

// IssueUnsigned builds a credential without a proof. Such a credential is
// unverified by construction and will be rejected by the Verifier; this is
// only useful as input to an external proof suite.
func (i *Issuer) IssueUnsigned(subjectDID, credentialType string, claims map[string]interface{}, opts IssueOptions) *Credential {
	return i.build(subjectDID, credentialType, claims, opts)
}

func (i *Issuer) build(subjectDID, credentialType string, claims map[string]interface{}, opts IssueOptions) *Credential {
	issuedAt := i.Now().UTC().Truncate(time.Second)
	if opts.ValidFrom != nil {
		issuedAt = opts.ValidFrom.UTC().Truncate(time.Second)
	}

	subject := map[string]interface{}{"id": subjectDID}
	for k, v := range claims {
		if k == "id" {
			continue // the subject DID always wins
		}
		subject[k] = v
	}

	cred := &Credential{
		Context:           []string{ContextV1, ContextV2},
		ID:                "urn:uuid:" + uuid.New().String(),
		Type:              []string{TypeVerifiableCredential, credentialType},
		Issuer:            NewIssuerRef(i.issuerDID),
		IssuanceDate:      issuedAt,
		CredentialSubject: subject,
		CredentialStatus:  opts.Status,
	}
	if opts.ValidUntil != nil {
		until := opts.ValidUntil.UTC().Truncate(time.Second)
		cred.ValidUntil = &until
	}
	return cred
}

func (i *Issuer) verificationMethod() string {
	kid := i.signer.KeyID()
	if kid == "" {
		kid = "key-1"
	}
	return i.issuerDID + "#" + kid
}
