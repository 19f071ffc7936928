package service

import (
	"fmt"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// FilterService decides whether a content record may be pushed under a rule.
// Evaluation is pure: no I/O, no state, identical inputs give identical
// results.
type FilterService struct{}

// NewFilterService constructs the filter engine.
func NewFilterService() *FilterService {
	return &FilterService{}
}

// Matches reports whether the record passes the rule. A nil rule allows
// everything.
func (s *FilterService) Matches(content models.ContentRecord, rule *models.FilterRule) bool {
	ok, _ := s.Evaluate(content, rule)
	return ok
}

// Evaluate runs the four checks in order, short-circuiting on the first
// failure, and reports the decision with its reason.
func (s *FilterService) Evaluate(content models.ContentRecord, rule *models.FilterRule) (bool, string) {
	if rule == nil {
		return true, "no filter rule configured"
	}

	if len(rule.ContentTypes) > 0 && !containsString(rule.ContentTypes, string(content.ContentType)) {
		return false, fmt.Sprintf("content type %q not allowed by rule %q", content.ContentType, rule.Name)
	}

	if rule.GradeMin != nil && *rule.GradeMin != "" {
		threshold, ok := models.GradeRank(*rule.GradeMin)
		if !ok {
			return false, fmt.Sprintf("rule %q has unrecognised grade threshold %q", rule.Name, *rule.GradeMin)
		}
		if content.Grade == "" {
			return false, fmt.Sprintf("record has no grade but rule %q requires at least %q", rule.Name, *rule.GradeMin)
		}
		rank, ok := models.GradeRank(content.Grade)
		if !ok || rank < threshold {
			return false, fmt.Sprintf("grade %q below rule %q threshold %q", content.Grade, rule.Name, *rule.GradeMin)
		}
	}

	for _, tag := range rule.RequiredTags {
		if !containsString(content.Tags, tag) {
			return false, fmt.Sprintf("missing required tag %q for rule %q", tag, rule.Name)
		}
	}

	if len(rule.LearnerGroups) > 0 && !containsString(rule.LearnerGroups, content.LearnerGroup) {
		return false, fmt.Sprintf("learner group %q not allowed by rule %q", content.LearnerGroup, rule.Name)
	}

	return true, fmt.Sprintf("matches rule %q", rule.Name)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
