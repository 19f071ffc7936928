package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ContentType enumerates the kinds of learner work the pipeline accepts.
type ContentType string

const (
	ContentTypeEssay        ContentType = "essay"
	ContentTypeVideo        ContentType = "video"
	ContentTypeAudio        ContentType = "audio"
	ContentTypePresentation ContentType = "presentation"
	ContentTypeCode         ContentType = "code"
	ContentTypeQuiz         ContentType = "quiz"
	ContentTypeProject      ContentType = "project"
)

// Valid reports whether the content type belongs to the fixed vocabulary.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeEssay, ContentTypeVideo, ContentTypeAudio, ContentTypePresentation,
		ContentTypeCode, ContentTypeQuiz, ContentTypeProject:
		return true
	}
	return false
}

// ContentRecord is one normalized unit of learner work handed to the pipeline.
// It is immutable once submitted; the push row stores it as a JSONB snapshot.
type ContentRecord struct {
	LearnerID      string                 `json:"learner_id" validate:"required"`
	LearnerName    string                 `json:"learner_name" validate:"required"`
	LearnerEmail   string                 `json:"learner_email" validate:"required,email"`
	LearnerGroup   string                 `json:"learner_group,omitempty"`
	ContentID      string                 `json:"content_id" validate:"required"`
	ContentType    ContentType            `json:"content_type" validate:"required"`
	Title          string                 `json:"title" validate:"required"`
	Description    string                 `json:"description,omitempty"`
	ContentURL     string                 `json:"content_url" validate:"required,url"`
	SubmissionDate time.Time              `json:"submission_date" validate:"required"`
	Grade          string                 `json:"grade,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Value marshals the record to JSON for persistence.
func (c ContentRecord) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan unmarshals a JSONB column into the record.
func (c *ContentRecord) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported content record source type %T", src)
	}
}

// gradeRanks orders the letter scale F < D < C < B < A.
var gradeRanks = map[string]int{"F": 0, "D": 1, "C": 2, "B": 3, "A": 4}

// GradeRank returns the ordinal position of a letter grade and whether the
// grade is recognised. Comparison is case-insensitive.
func GradeRank(grade string) (int, bool) {
	rank, ok := gradeRanks[strings.ToUpper(strings.TrimSpace(grade))]
	return rank, ok
}
