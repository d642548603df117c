// Package did provides parsing, creation, and resolution of Decentralized
// Identifiers. did:web resolves to a remotely hosted DID Document; did:key
// embeds an Ed25519 public key and resolves locally.
package did

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mr-tron/base58"
)

// Common errors returned by this package.
var (
	ErrInvalidDID        = errors.New("invalid DID format")
	ErrUnsupportedMethod = errors.New("unsupported DID method")
	ErrNotImplemented    = errors.New("DID method recognized but not implemented")
	ErrResolutionFailed  = errors.New("DID resolution failed")
	ErrMissingDomain     = errors.New("domain required for did:web")
	ErrInvalidKeyDID     = errors.New("invalid did:key format")
)

// Ed25519 multicodec prefix bytes (varint encoding of 0xed01).
const (
	ed25519MulticodecByte0 = 0xed
	ed25519MulticodecByte1 = 0x01
)

// Recognized method names.
const (
	MethodWeb = "web"
	MethodKey = "key"
)

// DID represents a parsed DID identifier.
type DID struct {
	// Method is the DID method ("web", "key", ...).
	Method string

	// Domain is the domain hosting the DID Document (did:web only).
	Domain string

	// PathSegments are the segments after the domain (did:web only).
	PathSegments []string

	// PublicKey is the embedded Ed25519 public key (did:key only).
	PublicKey ed25519.PublicKey

	// Raw is the original DID string.
	Raw string
}

// Parse parses a DID identifier into its components.
//
// Returns ErrInvalidDID if the string is not of the form did:<method>:<id>.
// The method itself is not validated here; unknown methods parse fine and
// fail later at resolution time with ErrUnsupportedMethod.
func Parse(s string) (*DID, error) {
	if s == "" {
		return nil, ErrInvalidDID
	}

	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: expected at least 3 parts, got %d", ErrInvalidDID, len(parts))
	}
	if parts[0] != "did" {
		return nil, fmt.Errorf("%w: must start with 'did:'", ErrInvalidDID)
	}

	d := &DID{Method: parts[1], Raw: s}

	switch d.Method {
	case MethodWeb:
		domain, err := url.PathUnescape(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid domain encoding: %v", ErrInvalidDID, err)
		}
		if domain == "" {
			return nil, fmt.Errorf("%w: empty domain", ErrInvalidDID)
		}
		d.Domain = domain
		d.PathSegments = parts[3:]

	case MethodKey:
		key, err := decodeKeyDID(parts)
		if err != nil {
			return nil, err
		}
		d.PublicKey = key
	}

	return d, nil
}

// New constructs a DID string for the given method.
//
// For "web" a non-empty domain is required and the result is
// did:web:<domain>. "key" is recognized but generation is not implemented
// (ErrNotImplemented). Any other method fails with ErrUnsupportedMethod so
// callers can tell "not yet supported" from "invalid input".
func New(method, domain string) (string, error) {
	switch method {
	case MethodWeb:
		if domain == "" {
			return "", ErrMissingDomain
		}
		return "did:web:" + encodeWebDomain(domain), nil
	case MethodKey:
		return "", fmt.Errorf("%w: did:key generation", ErrNotImplemented)
	default:
		return "", fmt.Errorf("%w: did:%s", ErrUnsupportedMethod, method)
	}
}

// FromKey constructs a did:key identifier from an Ed25519 public key.
// Format: did:key:z<base58btc(0xed01 || public_key)>
func FromKey(publicKey ed25519.PublicKey) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key must be %d bytes", ErrInvalidKeyDID, ed25519.PublicKeySize)
	}
	prefixed := make([]byte, 2+len(publicKey))
	prefixed[0] = ed25519MulticodecByte0
	prefixed[1] = ed25519MulticodecByte1
	copy(prefixed[2:], publicKey)
	return "did:key:z" + base58.Encode(prefixed), nil
}

// String returns the canonical DID string.
func (d *DID) String() string {
	return d.Raw
}

// DocumentURL returns the HTTPS URL of the DID Document per the did:web
// method: /.well-known/did.json when no path segments follow the domain,
// otherwise /<path>/did.json. Empty for non-web methods.
func (d *DID) DocumentURL() string {
	if d.Method != MethodWeb {
		return ""
	}
	if len(d.PathSegments) == 0 {
		return fmt.Sprintf("https://%s/.well-known/did.json", d.Domain)
	}
	return fmt.Sprintf("https://%s/%s/did.json", d.Domain, strings.Join(d.PathSegments, "/"))
}

func decodeKeyDID(parts []string) (ed25519.PublicKey, error) {
	if len(parts) != 3 || parts[2] == "" {
		return nil, fmt.Errorf("%w: expected did:key:<multibase>", ErrInvalidKeyDID)
	}
	multibaseValue := parts[2]

	// 'z' is the multibase prefix for base58btc.
	if multibaseValue[0] != 'z' {
		return nil, fmt.Errorf("%w: expected 'z' (base58btc) prefix, got %q", ErrInvalidKeyDID, multibaseValue[0])
	}

	decoded, err := base58.Decode(multibaseValue[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58btc encoding: %v", ErrInvalidKeyDID, err)
	}
	if len(decoded) < 2 || decoded[0] != ed25519MulticodecByte0 || decoded[1] != ed25519MulticodecByte1 {
		return nil, fmt.Errorf("%w: expected Ed25519 multicodec prefix (0xed01)", ErrInvalidKeyDID)
	}

	key := decoded[2:]
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: Ed25519 public key must be %d bytes, got %d", ErrInvalidKeyDID, ed25519.PublicKeySize, len(key))
	}
	return ed25519.PublicKey(key), nil
}

// encodeWebDomain percent-encodes a domain for use in a did:web identifier.
// Colons (e.g. a port) must be encoded per the did:web method.
func encodeWebDomain(domain string) string {
	encoded := url.PathEscape(domain)
	return strings.ReplaceAll(encoded, ":", "%3A")
}
