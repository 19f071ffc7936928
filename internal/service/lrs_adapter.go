package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/lms-content-push/internal/models"
)

const xapiVersion = "1.0.3"

// LRSAdapter delivers statements to a learning record store's xAPI statements
// resource.
type LRSAdapter struct {
	client *http.Client
}

// Deliver posts the bare statement to {endpoint}/statements.
func (a *LRSAdapter) Deliver(ctx context.Context, stmt *models.Statement, _ models.ContentRecord, dest *models.Destination) DeliveryOutcome {
	headers := map[string]string{"X-Experience-API-Version": xapiVersion}
	if dest.AuthToken != "" {
		headers["Authorization"] = "Bearer " + dest.AuthToken
	}

	url := strings.TrimRight(dest.Endpoint, "/") + "/statements"
	return postJSON(ctx, a.client, url, stmt, headers)
}
