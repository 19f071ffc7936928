package dto

import "github.com/noah-isme/lms-content-push/internal/models"

// FilterRuleRequest captures POST /filter-rules payload.
type FilterRuleRequest struct {
	Name          string   `json:"name" binding:"required"`
	ContentTypes  []string `json:"content_types"`
	GradeMin      *string  `json:"grade_min"`
	RequiredTags  []string `json:"required_tags"`
	LearnerGroups []string `json:"learner_groups"`
}

// TestFilterRequest captures POST /filter-rules/test payload. Either a stored
// rule id or an inline rule may be supplied; with neither, the decision is
// always allow.
type TestFilterRequest struct {
	Content ContentPayload     `json:"content" binding:"required"`
	RuleID  *string            `json:"rule_id"`
	Rule    *FilterRuleRequest `json:"rule"`
}

// TestFilterResponse reports the filter decision with its reason.
type TestFilterResponse struct {
	Allowed bool              `json:"allowed"`
	Reason  string            `json:"reason"`
	Summary TestFilterSummary `json:"content_summary"`
}

// TestFilterSummary echoes the fields the decision was based on.
type TestFilterSummary struct {
	ContentType models.ContentType `json:"content_type"`
	Grade       string             `json:"grade,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Group       string             `json:"learner_group,omitempty"`
}
