// Package a2a implements the agent-to-agent delegation policy engine:
// policy evaluation with deterministic precedence, policy registration, and
// audit-trail queries.
package a2a

import (
	"time"
)

// PolicyStatusActive is the only status under which a policy can govern a
// delegation decision.
const PolicyStatusActive = "active"

// WildcardAction is the reserved allowedActions token meaning "any action".
// Wildcard matching is an explicit policy field, never implicit behavior.
const WildcardAction = "*"

// Policy is a delegation authorization record between two agents.
type Policy struct {
	ID             string                 `json:"id"`
	FromAgent      string                 `json:"fromAgent"`
	ToAgent        string                 `json:"toAgent"`
	AllowedActions []string               `json:"allowedActions"`
	Constraints    map[string]interface{} `json:"constraints,omitempty"`
	Status         string                 `json:"status"`
	IssuedBy       string                 `json:"issuedBy"`
	ValidFrom      *time.Time             `json:"validFrom,omitempty"`
	ValidUntil     *time.Time             `json:"validUntil,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// InEffect reports whether the policy governs at the given instant: status
// active, validFrom absent or not after now, validUntil absent or not
// before now.
func (p *Policy) InEffect(now time.Time) bool {
	if p.Status != PolicyStatusActive {
		return false
	}
	if p.ValidFrom != nil && p.ValidFrom.After(now) {
		return false
	}
	if p.ValidUntil != nil && p.ValidUntil.Before(now) {
		return false
	}
	return true
}

// AllowsAction reports whether the policy permits the given action. An
// empty action matches any policy; the WildcardAction token matches any
// action.
func (p *Policy) AllowsAction(action string) bool {
	if action == "" {
		return true
	}
	for _, a := range p.AllowedActions {
		if a == action || a == WildcardAction {
			return true
		}
	}
	return false
}

// DelegationResult is the decision record of a delegation check. Reason is
// always present on denial; explainability is a hard requirement for audit.
type DelegationResult struct {
	Allowed bool    `json:"allowed"`
	Policy  *Policy `json:"policy,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// AuditEntry is a single delegation-check record from the audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Action    string    `json:"action,omitempty"`
	Allowed   bool      `json:"allowed"`
	PolicyID  string    `json:"policyId,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditFilter narrows an audit-log query. Zero fields are omitted from the
// query.
type AuditFilter struct {
	From      string
	To        string
	Action    string
	StartDate string
	EndDate   string
}

// RegisterPolicyResult is the policy store's acknowledgement of a
// registration.
type RegisterPolicyResult struct {
	Status   string `json:"status"`
	PolicyID string `json:"policyId"`
}
