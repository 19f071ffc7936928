package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-content-push/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleContent() models.ContentRecord {
	return models.ContentRecord{
		LearnerID:      "learner-1",
		LearnerName:    "Test Learner",
		LearnerEmail:   "learner@example.com",
		LearnerGroup:   "cohort-a",
		ContentID:      "content-1",
		ContentType:    models.ContentTypeEssay,
		Title:          "Final Essay",
		ContentURL:     "https://lms.example.com/c/1",
		SubmissionDate: time.Now().UTC(),
		Grade:          "A",
		Tags:           []string{"final", "graded"},
	}
}

func TestFilterEvaluateNilRuleAllows(t *testing.T) {
	svc := NewFilterService()
	allowed, reason := svc.Evaluate(sampleContent(), nil)
	assert.True(t, allowed)
	assert.Equal(t, "no filter rule configured", reason)
}

func TestFilterEvaluateContentType(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "essays-only", ContentTypes: []string{"essay", "project"}}

	allowed, _ := svc.Evaluate(sampleContent(), rule)
	assert.True(t, allowed)

	content := sampleContent()
	content.ContentType = models.ContentTypeVideo
	allowed, reason := svc.Evaluate(content, rule)
	assert.False(t, allowed)
	assert.Contains(t, reason, "content type")
}

func TestFilterEvaluateGradeThreshold(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "b-or-better", GradeMin: strPtr("B")}

	content := sampleContent()
	content.Grade = "A"
	allowed, _ := svc.Evaluate(content, rule)
	assert.True(t, allowed)

	content.Grade = "B"
	allowed, _ = svc.Evaluate(content, rule)
	assert.True(t, allowed)

	content.Grade = "C"
	allowed, reason := svc.Evaluate(content, rule)
	assert.False(t, allowed)
	assert.Contains(t, reason, "below")
}

func TestFilterEvaluateGradeCaseInsensitive(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "b-or-better", GradeMin: strPtr("b")}

	content := sampleContent()
	content.Grade = "a"
	allowed, _ := svc.Evaluate(content, rule)
	assert.True(t, allowed)
}

func TestFilterEvaluateUngradedFailsThreshold(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "c-or-better", GradeMin: strPtr("C")}

	content := sampleContent()
	content.Grade = ""
	allowed, reason := svc.Evaluate(content, rule)
	require.False(t, allowed)
	assert.Contains(t, reason, "no grade")
}

func TestFilterEvaluateRequiredTags(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "finals", RequiredTags: []string{"final", "graded"}}

	allowed, _ := svc.Evaluate(sampleContent(), rule)
	assert.True(t, allowed)

	content := sampleContent()
	content.Tags = []string{"final"}
	allowed, reason := svc.Evaluate(content, rule)
	assert.False(t, allowed)
	assert.Contains(t, reason, `"graded"`)
}

func TestFilterEvaluateLearnerGroups(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "cohorts", LearnerGroups: []string{"cohort-a", "cohort-b"}}

	allowed, _ := svc.Evaluate(sampleContent(), rule)
	assert.True(t, allowed)

	content := sampleContent()
	content.LearnerGroup = "cohort-z"
	allowed, reason := svc.Evaluate(content, rule)
	assert.False(t, allowed)
	assert.Contains(t, reason, "learner group")
}

func TestFilterEvaluateShortCircuitOrder(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{
		Name:          "everything",
		ContentTypes:  []string{"video"},
		GradeMin:      strPtr("A"),
		RequiredTags:  []string{"missing"},
		LearnerGroups: []string{"cohort-z"},
	}

	// The record violates all four checks; the type check reports first.
	allowed, reason := svc.Evaluate(sampleContent(), rule)
	assert.False(t, allowed)
	assert.Contains(t, reason, "content type")
}

func TestFilterEvaluateAllChecksPass(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{
		Name:          "strict",
		ContentTypes:  []string{"essay"},
		GradeMin:      strPtr("B"),
		RequiredTags:  []string{"final"},
		LearnerGroups: []string{"cohort-a"},
	}

	allowed, reason := svc.Evaluate(sampleContent(), rule)
	assert.True(t, allowed)
	assert.Contains(t, reason, `matches rule "strict"`)
}

func TestFilterMatches(t *testing.T) {
	svc := NewFilterService()
	rule := &models.FilterRule{Name: "essays-only", ContentTypes: []string{"essay"}}
	assert.True(t, svc.Matches(sampleContent(), rule))

	content := sampleContent()
	content.ContentType = models.ContentTypeQuiz
	assert.False(t, svc.Matches(content, rule))
}
