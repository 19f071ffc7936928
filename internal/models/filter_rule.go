package models

import (
	"time"

	"github.com/lib/pq"
)

// FilterRule is a named predicate restricting which content records may be
// pushed. Empty content type and learner group sets allow everything;
// required tags must all be present on the record.
type FilterRule struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	ContentTypes  pq.StringArray `db:"content_types" json:"content_types"`
	GradeMin      *string        `db:"grade_min" json:"grade_min,omitempty"`
	RequiredTags  pq.StringArray `db:"required_tags" json:"required_tags"`
	LearnerGroups pq.StringArray `db:"learner_groups" json:"learner_groups"`
	Active        bool           `db:"active" json:"active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
