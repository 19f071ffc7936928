package models

import "time"

// DestinationKind enumerates supported delivery adapter variants.
type DestinationKind string

const (
	DestinationKindLRS     DestinationKind = "lrs"
	DestinationKindWebhook DestinationKind = "webhook"
)

// Valid reports whether the kind has a registered adapter variant.
func (k DestinationKind) Valid() bool {
	switch k {
	case DestinationKindLRS, DestinationKindWebhook:
		return true
	}
	return false
}

// Destination is a configured external endpoint that receives statements.
// Looked up by name at push time; RuleID optionally binds the destination to
// a filter rule evaluated before delivery.
type Destination struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Kind      DestinationKind `db:"kind" json:"kind"`
	Endpoint  string          `db:"endpoint" json:"endpoint"`
	AuthToken string          `db:"auth_token" json:"-"`
	RuleID    *string         `db:"rule_id" json:"rule_id,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
