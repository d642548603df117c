package registry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/veritrust/mcpf-go/pkg/transport"
)

// Default pagination applied when the caller does not specify one.
const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Client talks to an MCP server directory.
type Client struct {
	baseURL string
	tc      *transport.Client
}

// NewClient creates a registry client for the given directory base URL.
func NewClient(baseURL string, tc *transport.Client) *Client {
	if tc == nil {
		tc = transport.NewClient(transport.Options{})
	}
	return &Client{baseURL: baseURL, tc: tc}
}

// ListServers fetches one page of the server directory.
// GET /servers?page=&limit=
func (c *Client) ListServers(ctx context.Context, page, limit int) (*ServerList, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}

	var list ServerList
	err := c.tc.GetJSON(ctx, "registry list", transport.BuildURL(c.baseURL, "/servers", q), &list)
	if err != nil {
		return nil, wrap(ErrListFailed, err)
	}
	for i := range list.Items {
		list.Items[i].normalize()
	}
	return &list, nil
}

// GetServer fetches a single server record by DID.
// GET /servers/{did}
func (c *Client) GetServer(ctx context.Context, didStr string) (*Server, error) {
	path := "/servers/" + url.PathEscape(didStr)

	var server Server
	err := c.tc.GetJSON(ctx, "registry get server", transport.BuildURL(c.baseURL, path, nil), &server)
	if err != nil {
		return nil, wrap(ErrGetFailed, err)
	}
	server.normalize()
	return &server, nil
}

// Search returns all servers matching the filters. The result is not
// paginated; the page fields reflect the full match list.
// GET /search?capability=&tag=&organization=&country=
func (c *Client) Search(ctx context.Context, filters SearchFilters) (*ServerList, error) {
	q := url.Values{}
	if filters.Capability != "" {
		q.Set("capability", filters.Capability)
	}
	if filters.Tag != "" {
		q.Set("tag", filters.Tag)
	}
	if filters.Organization != "" {
		q.Set("organization", filters.Organization)
	}
	if filters.Country != "" {
		q.Set("country", filters.Country)
	}

	var resp struct {
		Items []Server `json:"items"`
	}
	err := c.tc.GetJSON(ctx, "registry search", transport.BuildURL(c.baseURL, "/search", q), &resp)
	if err != nil {
		return nil, wrap(ErrSearchFailed, err)
	}
	for i := range resp.Items {
		resp.Items[i].normalize()
	}
	return &ServerList{
		Page:  1,
		Limit: len(resp.Items),
		Total: len(resp.Items),
		Items: resp.Items,
	}, nil
}

// RegisterServer submits a server record to the directory.
// POST /servers
func (c *Client) RegisterServer(ctx context.Context, server *Server) (*RegisterResult, error) {
	var result RegisterResult
	err := c.tc.PostJSON(ctx, "registry register", transport.BuildURL(c.baseURL, "/servers", nil), server, &result)
	if err != nil {
		return nil, wrap(ErrRegisterFailed, err)
	}
	return &result, nil
}

func wrap(sentinel, err error) error {
	if te, ok := transport.AsError(err); ok && te.Status != 0 {
		return fmt.Errorf("%w: %s", sentinel, te.StatusText)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
