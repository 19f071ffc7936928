package dto

import "github.com/noah-isme/lms-content-push/internal/models"

// DestinationRequest captures POST /destinations payload.
type DestinationRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Kind      models.DestinationKind `json:"kind" binding:"required"`
	Endpoint  string                 `json:"endpoint" binding:"required,url"`
	AuthToken string                 `json:"auth_token"`
	RuleID    *string                `json:"rule_id"`
}

// DestinationResponse exposes a destination without its credential.
type DestinationResponse struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Kind     models.DestinationKind `json:"kind"`
	Endpoint string                 `json:"endpoint"`
	RuleID   *string                `json:"rule_id,omitempty"`
}
