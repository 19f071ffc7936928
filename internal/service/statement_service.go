package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-content-push/internal/models"
)

const (
	adlVerbPrefix     = "http://adlnet.gov/expapi/verbs"
	adlActivityPrefix = "http://adlnet.gov/expapi/activities"

	platformName   = "LMS Platform"
	instructorName = "LMS System"
	languageTag    = "en-US"
)

// verbVocabulary maps pipeline actions onto ADL verbs. Only "completed" is
// emitted today; "submitted" is kept for future verb selection by content
// type.
var verbVocabulary = map[string]models.StatementVerb{
	"completed": {
		ID:      adlVerbPrefix + "/completed",
		Display: map[string]string{languageTag: "completed"},
	},
	"submitted": {
		ID:      adlVerbPrefix + "/answered",
		Display: map[string]string{languageTag: "submitted"},
	},
}

// StatementService maps content records into xAPI activity statements.
// Generation is deterministic apart from the freshly minted statement id and
// the generation timestamp.
type StatementService struct {
	namespace string
}

// NewStatementService constructs the generator. The namespace anchors object
// ids and extension keys.
func NewStatementService(namespace string) *StatementService {
	namespace = strings.TrimRight(namespace, "/")
	if namespace == "" {
		namespace = "http://lms.example.com"
	}
	return &StatementService{namespace: namespace}
}

// Generate builds the statement for one delivery attempt.
func (s *StatementService) Generate(content models.ContentRecord) *models.Statement {
	stmt := &models.Statement{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Actor: models.StatementActor{
			Mbox:       "mailto:" + content.LearnerEmail,
			Name:       content.LearnerName,
			ObjectType: "Agent",
		},
		Verb: verbVocabulary["completed"],
		Object: models.StatementObject{
			ID: fmt.Sprintf("%s/content/%s", s.namespace, content.ContentID),
			Definition: models.ActivityDefinition{
				Name:        map[string]string{languageTag: content.Title},
				Description: map[string]string{languageTag: content.Description},
				Type:        fmt.Sprintf("%s/%s", adlActivityPrefix, content.ContentType),
			},
			ObjectType: "Activity",
		},
		Context: &models.StatementContext{
			Instructor: models.StatementActor{Name: instructorName, ObjectType: "Agent"},
			Platform:   platformName,
			Language:   languageTag,
			Extensions: map[string]interface{}{
				s.namespace + "/content_type": string(content.ContentType),
				s.namespace + "/tags":         content.Tags,
				s.namespace + "/metadata":     content.Metadata,
			},
		},
	}

	// A grade is the only completion signal in the source data, so graded
	// and completed are deliberately conflated.
	if content.Grade != "" {
		stmt.Result = &models.StatementResult{
			Score:      &models.StatementScore{Raw: content.Grade},
			Completion: true,
			Success:    true,
		}
	}

	return stmt
}
