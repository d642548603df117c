package a2a

import (
	"context"
	"net/url"

	"github.com/veritrust/mcpf-go/pkg/transport"
)

// Client talks to a remote A2A policy service. It implements Directory, so
// an Engine can evaluate against it directly.
type Client struct {
	baseURL string
	tc      *transport.Client
}

// NewClient creates an A2A client for the given service base URL.
func NewClient(baseURL string, tc *transport.Client) *Client {
	if tc == nil {
		tc = transport.NewClient(transport.Options{})
	}
	return &Client{baseURL: baseURL, tc: tc}
}

// Query lists candidate policies for a (from, to) pair.
// GET /a2a/policies?from=&to=&action=
func (c *Client) Query(ctx context.Context, from, to, action string) ([]Policy, error) {
	q := url.Values{"from": {from}, "to": {to}}
	if action != "" {
		q.Set("action", action)
	}

	var resp struct {
		Policies []Policy `json:"policies"`
	}
	err := c.tc.GetJSON(ctx, "a2a policy query", transport.BuildURL(c.baseURL, "/a2a/policies", q), &resp)
	if err != nil {
		return nil, err
	}
	return resp.Policies, nil
}

// SubmitPolicy registers a policy with the service.
// POST /a2a/policies
func (c *Client) SubmitPolicy(ctx context.Context, p Policy) (*RegisterPolicyResult, error) {
	var result RegisterPolicyResult
	err := c.tc.PostJSON(ctx, "a2a policy register", transport.BuildURL(c.baseURL, "/a2a/policies", nil), p, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchAuditLog queries the audit trail; entries are returned in the
// service's order, unmodified.
// GET /a2a/audit?from=&to=&action=&startDate=&endDate=
func (c *Client) FetchAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	q := url.Values{}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}

	var resp struct {
		Entries []AuditEntry `json:"entries"`
	}
	err := c.tc.GetJSON(ctx, "a2a audit", transport.BuildURL(c.baseURL, "/a2a/audit", q), &resp)
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Check asks the service itself for a delegation decision, bypassing local
// evaluation. Useful when the service is the decision authority.
// GET /a2a/check?from=&to=&action=
func (c *Client) Check(ctx context.Context, from, to, action string) (*DelegationResult, error) {
	q := url.Values{"from": {from}, "to": {to}}
	if action != "" {
		q.Set("action", action)
	}

	var result DelegationResult
	err := c.tc.GetJSON(ctx, "a2a check", transport.BuildURL(c.baseURL, "/a2a/check", q), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
