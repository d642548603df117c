package vc

import (
	"encoding/json"
	"fmt"
)

// CanonicalJSON returns the canonical byte form of a credential for signing
// and verification. The proof field is removed and keys are sorted (which
// encoding/json does for maps), so signer and verifier always agree on the
// exact bytes.
//
// The canonical form is this SDK's typed projection of the credential: wire
// properties outside the Credential struct (e.g. credentialSchema) are not
// part of the signed bytes. A credential signed over a richer shape by a
// third-party issuer will not verify here.
func CanonicalJSON(c *Credential) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}

	var rawMap map[string]interface{}
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	delete(rawMap, "proof")

	canonical, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create canonical json: %w", err)
	}
	return canonical, nil
}
