// Package registry implements the MCP server directory client: paginated
// listing, lookup by DID, capability search, and server registration.
package registry

import "errors"

// Common errors returned by this package.
var (
	ErrListFailed     = errors.New("registry list failed")
	ErrGetFailed      = errors.New("registry get server failed")
	ErrSearchFailed   = errors.New("registry search failed")
	ErrRegisterFailed = errors.New("registry register failed")
)

// ServerMetadata describes an MCP server's discoverable attributes.
type ServerMetadata struct {
	Capabilities []string `json:"capabilities"`
	Organization string   `json:"organization,omitempty"`
	Country      string   `json:"country,omitempty"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
}

// CredentialRef points at an externally hosted credential attesting a
// server.
type CredentialRef struct {
	Issuer        string `json:"issuer"`
	Type          string `json:"type"`
	CredentialURL string `json:"credentialUrl"`
}

// Server is a single MCP server directory record.
type Server struct {
	DID         string          `json:"did"`
	Endpoint    string          `json:"endpoint"`
	Manifest    string          `json:"manifest"`
	Credentials []CredentialRef `json:"credentials"`
	Metadata    ServerMetadata  `json:"metadata"`
}

// ServerList is a page of directory records.
type ServerList struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
	Items []Server `json:"items"`
}

// SearchFilters narrows a directory search. Zero fields are omitted.
type SearchFilters struct {
	Capability   string
	Tag          string
	Organization string
	Country      string
}

// RegisterResult is the directory's acknowledgement of a server
// registration.
type RegisterResult struct {
	Status string `json:"status"`
	DID    string `json:"did"`
}

// normalize applies shape defaults: empty containers instead of nils and
// "active" when the directory omits status.
func (s *Server) normalize() {
	if s.Credentials == nil {
		s.Credentials = []CredentialRef{}
	}
	if s.Metadata.Capabilities == nil {
		s.Metadata.Capabilities = []string{}
	}
	if s.Metadata.Tags == nil {
		s.Metadata.Tags = []string{}
	}
	if s.Metadata.Status == "" {
		s.Metadata.Status = "active"
	}
}
