package service

import (
	"context"
	"net/http"
	"time"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// WebhookAdapter delivers to an arbitrary HTTP endpoint, combining the
// statement with selected content metadata.
type WebhookAdapter struct {
	client *http.Client
}

// WebhookPayload is the body posted to webhook destinations.
type WebhookPayload struct {
	Statement *models.Statement    `json:"xapi_statement"`
	Content   models.ContentRecord `json:"content_metadata"`
	Timestamp time.Time            `json:"timestamp"`
}

// Deliver posts the combined payload to the configured endpoint.
func (a *WebhookAdapter) Deliver(ctx context.Context, stmt *models.Statement, content models.ContentRecord, dest *models.Destination) DeliveryOutcome {
	headers := map[string]string{}
	if dest.AuthToken != "" {
		headers["Authorization"] = "Bearer " + dest.AuthToken
	}

	payload := WebhookPayload{
		Statement: stmt,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	return postJSON(ctx, a.client, dest.Endpoint, payload, headers)
}
