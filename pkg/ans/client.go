package ans

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/veritrust/mcpf-go/pkg/transport"
)

// Client talks to an ANS directory. It performs shape normalization only;
// signature verification is delegated to CardVerifier.
type Client struct {
	baseURL string
	tc      *transport.Client
}

// NewClient creates an ANS client for the given directory base URL.
func NewClient(baseURL string, tc *transport.Client) *Client {
	if tc == nil {
		tc = transport.NewClient(transport.Options{})
	}
	return &Client{baseURL: baseURL, tc: tc}
}

// wireCard accepts both the issuedAt and issued_at spellings the directory
// has used for the issuance timestamp.
type wireCard struct {
	AgentCard
	IssuedAtAlt *time.Time `json:"issued_at"`
}

type resolveResponse struct {
	Card wireCard `json:"card"`
	JWS  *JWS     `json:"jws"`
}

// Resolve fetches the card for a name (and optional version) from the
// directory and reconstructs a normalized Agent Card. The directory's
// signature material, if any, is attached untouched.
//
// Non-success directory responses fail with ErrResolveFailed carrying the
// transport status text.
func (c *Client) Resolve(ctx context.Context, name, version string) (*AgentCard, error) {
	q := url.Values{"name": {name}}
	if version != "" {
		q.Set("version", version)
	}

	var resp resolveResponse
	err := c.tc.GetJSON(ctx, "ans resolve", transport.BuildURL(c.baseURL, "/resolve", q), &resp)
	if err != nil {
		if te, ok := transport.AsError(err); ok && te.Status != 0 {
			return nil, fmt.Errorf("%w: %s", ErrResolveFailed, te.StatusText)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolveFailed, err)
	}

	card := resp.Card.AgentCard
	if resp.Card.IssuedAtAlt != nil {
		card.IssuedAt = *resp.Card.IssuedAtAlt
	}
	card.JWS = resp.JWS
	card.normalize()
	return &card, nil
}

// RegisterResult is the directory's acknowledgement of a registration.
type RegisterResult struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// Register submits an Agent Card to the directory.
func (c *Client) Register(ctx context.Context, card *AgentCard) (*RegisterResult, error) {
	var result RegisterResult
	err := c.tc.PostJSON(ctx, "ans register", transport.BuildURL(c.baseURL, "/register", nil), card, &result)
	if err != nil {
		if te, ok := transport.AsError(err); ok && te.Status != 0 {
			return nil, fmt.Errorf("%w: %s", ErrRegisterFailed, te.StatusText)
		}
		return nil, fmt.Errorf("%w: %v", ErrRegisterFailed, err)
	}
	return &result, nil
}

// SuspendResult is the directory's acknowledgement of a suspension.
type SuspendResult struct {
	OK bool `json:"ok"`
}

// Suspend marks a registered name (and optional version) as suspended.
func (c *Client) Suspend(ctx context.Context, name, version string) (*SuspendResult, error) {
	body := map[string]string{"name": name}
	if version != "" {
		body["version"] = version
	}

	var result SuspendResult
	err := c.tc.PostJSON(ctx, "ans suspend", transport.BuildURL(c.baseURL, "/suspend", nil), body, &result)
	if err != nil {
		if te, ok := transport.AsError(err); ok && te.Status != 0 {
			return nil, fmt.Errorf("%w: %s", ErrSuspendFailed, te.StatusText)
		}
		return nil, fmt.Errorf("%w: %v", ErrSuspendFailed, err)
	}
	return &result, nil
}
