package did

import (
	"strings"

	"github.com/go-jose/go-jose/v4"
)

// Document is the resolved representation of a DID. It is a read-only
// projection of externally controlled state and is never mutated here.
type Document struct {
	// ID is the DID this document describes.
	ID string `json:"id"`

	// VerificationMethod is the ordered list of keys bound to the DID.
	VerificationMethod []VerificationMethod `json:"verificationMethod"`

	// Authentication references verification methods usable for
	// authentication, by id.
	Authentication []string `json:"authentication,omitempty"`

	// AssertionMethod references verification methods usable for signing
	// assertions (credentials), by id.
	AssertionMethod []string `json:"assertionMethod,omitempty"`
}

// VerificationMethod is a single key entry in a DID Document.
type VerificationMethod struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Controller   string           `json:"controller"`
	PublicKeyJWK *jose.JSONWebKey `json:"publicKeyJwk,omitempty"`
}

// FindVerificationMethod looks up a verification method by full id or by
// fragment (the part after '#'). Returns nil if none matches.
func (doc *Document) FindVerificationMethod(id string) *VerificationMethod {
	if id == "" {
		return nil
	}
	for i := range doc.VerificationMethod {
		vm := &doc.VerificationMethod[i]
		if vm.ID == id {
			return vm
		}
		if frag := fragment(vm.ID); frag != "" && frag == fragment(id) {
			return vm
		}
	}
	return nil
}

// AssertionMethods returns the verification methods referenced by the
// document's assertionMethod list. When the list is absent, every
// verification method is considered usable for assertions.
func (doc *Document) AssertionMethods() []VerificationMethod {
	if len(doc.AssertionMethod) == 0 {
		return doc.VerificationMethod
	}
	var methods []VerificationMethod
	for _, ref := range doc.AssertionMethod {
		if vm := doc.FindVerificationMethod(ref); vm != nil {
			methods = append(methods, *vm)
		}
	}
	return methods
}

func fragment(id string) string {
	if i := strings.LastIndex(id, "#"); i >= 0 {
		return id[i+1:]
	}
	return id
}
