package a2a

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PolicyStore returns candidate policies for a (from, to) pair, optionally
// narrowed by action. The store performs matching only; the engine applies
// the in-effect invariant and precedence.
type PolicyStore interface {
	Query(ctx context.Context, from, to, action string) ([]Policy, error)
}

// PolicyRegistrar accepts new policies into the store.
type PolicyRegistrar interface {
	SubmitPolicy(ctx context.Context, p Policy) (*RegisterPolicyResult, error)
}

// AuditSource serves the delegation audit trail.
type AuditSource interface {
	FetchAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
}

// Directory is the full policy-store collaborator contract the engine
// requires. *Client satisfies it.
type Directory interface {
	PolicyStore
	PolicyRegistrar
	AuditSource
}

// Engine evaluates delegation policies. Decisions are deterministic given
// the same upstream policies: in-effect candidates only, action-scoped, and
// the most recently created policy wins.
type Engine struct {
	dir Directory

	// Now overrides the evaluation clock (for testing).
	Now func() time.Time
}

// NewEngine creates an Engine backed by the given policy directory.
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir, Now: time.Now}
}

// CheckDelegation determines whether from may delegate to to, optionally
// scoped to an action. The returned result always carries the governing
// policy when one matched, so callers can display and audit the rule.
//
// Errors are returned only for store-level faults; "no policy permits this"
// is a legitimate outcome reported through the result.
func (e *Engine) CheckDelegation(ctx context.Context, from, to, action string) (*DelegationResult, error) {
	policies, err := e.dir.Query(ctx, from, to, action)
	if err != nil {
		return nil, fmt.Errorf("delegation check: %w", err)
	}

	winner := SelectGoverning(policies, action, e.Now())
	if winner == nil {
		return &DelegationResult{
			Allowed: false,
			Reason:  "no matching policy",
		}, nil
	}

	return &DelegationResult{
		Allowed: true,
		Policy:  winner,
		Reason:  fmt.Sprintf("delegation permitted by policy %s", winner.ID),
	}, nil
}

// SelectGoverning applies the evaluation rule to a candidate set: only
// in-effect policies that allow the action are considered; among those the
// one with the latest createdAt wins, independent of input order. Ties on
// createdAt break on the lexicographically greatest id so the decision
// stays reproducible.
func SelectGoverning(policies []Policy, action string, now time.Time) *Policy {
	var winner *Policy
	for i := range policies {
		p := &policies[i]
		if !p.InEffect(now) || !p.AllowsAction(action) {
			continue
		}
		if winner == nil ||
			p.CreatedAt.After(winner.CreatedAt) ||
			(p.CreatedAt.Equal(winner.CreatedAt) && p.ID > winner.ID) {
			winner = p
		}
	}
	if winner == nil {
		return nil
	}
	out := *winner
	return &out
}

// RegisterPolicy submits a policy to the store, minting an id and creation
// timestamp when absent.
func (e *Engine) RegisterPolicy(ctx context.Context, p Policy) (*RegisterPolicyResult, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PolicyStatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = e.Now().UTC()
	}
	result, err := e.dir.SubmitPolicy(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("policy registration: %w", err)
	}
	return result, nil
}

// AuditLog returns a filtered, order-preserving projection of the audit
// collaborator's entries.
func (e *Engine) AuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	entries, err := e.dir.FetchAuditLog(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("audit query: %w", err)
	}
	return entries, nil
}
