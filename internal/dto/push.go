package dto

import (
	"time"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// ContentPayload captures the content record portion of a push submission.
type ContentPayload struct {
	LearnerID      string                 `json:"learner_id" binding:"required"`
	LearnerName    string                 `json:"learner_name" binding:"required"`
	LearnerEmail   string                 `json:"learner_email" binding:"required,email"`
	LearnerGroup   string                 `json:"learner_group"`
	ContentID      string                 `json:"content_id" binding:"required"`
	ContentType    models.ContentType     `json:"content_type" binding:"required"`
	Title          string                 `json:"title" binding:"required"`
	Description    string                 `json:"description"`
	ContentURL     string                 `json:"content_url" binding:"required,url"`
	SubmissionDate time.Time              `json:"submission_date" binding:"required"`
	Grade          string                 `json:"grade"`
	Tags           []string               `json:"tags"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// ToModel maps the payload onto the immutable domain record.
func (p ContentPayload) ToModel() models.ContentRecord {
	return models.ContentRecord{
		LearnerID:      p.LearnerID,
		LearnerName:    p.LearnerName,
		LearnerEmail:   p.LearnerEmail,
		LearnerGroup:   p.LearnerGroup,
		ContentID:      p.ContentID,
		ContentType:    p.ContentType,
		Title:          p.Title,
		Description:    p.Description,
		ContentURL:     p.ContentURL,
		SubmissionDate: p.SubmissionDate,
		Grade:          p.Grade,
		Tags:           p.Tags,
		Metadata:       p.Metadata,
	}
}

// PushRequest captures POST /pushes payload.
type PushRequest struct {
	Content     ContentPayload `json:"content" binding:"required"`
	Destination string         `json:"destination" binding:"required"`
	ForcePush   bool           `json:"force_push"`
}

// DrivePushRequest captures POST /pushes/drive payload. The shared drive link
// is converted to a direct-download URL before submission.
type DrivePushRequest struct {
	FileURL     string         `json:"file_url" binding:"required,url"`
	Platform    string         `json:"platform" binding:"required,oneof=google_drive one_drive"`
	Content     ContentPayload `json:"content" binding:"required"`
	Destination string         `json:"destination" binding:"required"`
	ForcePush   bool           `json:"force_push"`
}

// PushSubmitResponse is returned after a submission is accepted.
type PushSubmitResponse struct {
	ID     string            `json:"id"`
	Status models.PushStatus `json:"status"`
}

// PushStatusResponse exposes a push record snapshot to pollers.
type PushStatusResponse struct {
	ID          string            `json:"id"`
	Destination string            `json:"destination"`
	Status      models.PushStatus `json:"status"`
	RetryCount  int               `json:"retry_count"`
	LastError   *string           `json:"last_error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PushListQuery captures GET /pushes filters.
type PushListQuery struct {
	Hours    int                `form:"hours"`
	Status   *models.PushStatus `form:"status"`
	Page     int                `form:"page"`
	PageSize int                `form:"page_size"`
}
