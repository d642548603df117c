package did_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrust/mcpf-go/pkg/did"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantMethod string
		wantDomain string
		wantPath   []string
		wantErr    error
	}{
		{
			name:       "domain only",
			input:      "did:web:bank.example",
			wantMethod: "web",
			wantDomain: "bank.example",
			wantPath:   []string{},
		},
		{
			name:       "domain with path",
			input:      "did:web:bank.example:fraud-detector",
			wantMethod: "web",
			wantDomain: "bank.example",
			wantPath:   []string{"fraud-detector"},
		},
		{
			name:       "encoded port",
			input:      "did:web:localhost%3A8443:agents:a1",
			wantMethod: "web",
			wantDomain: "localhost:8443",
			wantPath:   []string{"agents", "a1"},
		},
		{
			name:       "unknown method parses",
			input:      "did:example:12345",
			wantMethod: "example",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: did.ErrInvalidDID,
		},
		{
			name:    "too short",
			input:   "did:web",
			wantErr: did.ErrInvalidDID,
		},
		{
			name:    "not a DID",
			input:   "https://bank.example",
			wantErr: did.ErrInvalidDID,
		},
		{
			name:    "empty domain",
			input:   "did:web:",
			wantErr: did.ErrInvalidDID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := did.Parse(tc.input)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantMethod, parsed.Method)
			assert.Equal(t, tc.wantDomain, parsed.Domain)
			if tc.wantPath != nil {
				assert.Equal(t, tc.wantPath, parsed.PathSegments)
			}
			assert.Equal(t, tc.input, parsed.Raw)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("web", func(t *testing.T) {
		s, err := did.New("web", "bank.example")
		require.NoError(t, err)
		assert.Equal(t, "did:web:bank.example", s)
	})

	t.Run("web requires domain", func(t *testing.T) {
		_, err := did.New("web", "")
		assert.ErrorIs(t, err, did.ErrMissingDomain)
	})

	t.Run("web encodes port", func(t *testing.T) {
		s, err := did.New("web", "localhost:8443")
		require.NoError(t, err)
		assert.Equal(t, "did:web:localhost%3A8443", s)
	})

	t.Run("key is recognized but not implemented", func(t *testing.T) {
		_, err := did.New("key", "")
		assert.ErrorIs(t, err, did.ErrNotImplemented)
		assert.NotErrorIs(t, err, did.ErrUnsupportedMethod)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := did.New("ion", "")
		assert.ErrorIs(t, err, did.ErrUnsupportedMethod)
	})
}

func TestDocumentURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "well-known when no path",
			input: "did:web:bank.example",
			want:  "https://bank.example/.well-known/did.json",
		},
		{
			name:  "path segments",
			input: "did:web:bank.example:fraud-detector",
			want:  "https://bank.example/fraud-detector/did.json",
		},
		{
			name:  "nested path segments",
			input: "did:web:bank.example:agents:fraud-detector",
			want:  "https://bank.example/agents/fraud-detector/did.json",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := did.Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, parsed.DocumentURL())
		})
	}
}

func TestFromKeyRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	keyDID, err := did.FromKey(pub)
	require.NoError(t, err)
	assert.Contains(t, keyDID, "did:key:z")

	parsed, err := did.Parse(keyDID)
	require.NoError(t, err)
	assert.Equal(t, did.MethodKey, parsed.Method)
	assert.Equal(t, pub, parsed.PublicKey)
	assert.Empty(t, parsed.DocumentURL())
}

func TestParseKeyDID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing multibase prefix", input: "did:key:abc"},
		{name: "bad base58", input: "did:key:z0OIl"},
		{name: "empty identifier", input: "did:key:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := did.Parse(tc.input)
			assert.ErrorIs(t, err, did.ErrInvalidKeyDID)
		})
	}
}
