package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// DeliveryState classifies the outcome of one delivery attempt.
type DeliveryState int

const (
	// DeliveryDelivered means the destination accepted the statement.
	DeliveryDelivered DeliveryState = iota
	// DeliveryRetryable means the attempt failed in a way worth retrying
	// (transport error or server-side 5xx).
	DeliveryRetryable
	// DeliveryFatal means retrying cannot help (client-side 4xx such as a
	// bad credential or malformed payload).
	DeliveryFatal
)

// DeliveryOutcome is the result of one adapter call.
type DeliveryOutcome struct {
	State  DeliveryState
	Reason string
}

// DestinationAdapter delivers a statement to one destination kind. Adapters
// are stateless per call; concurrent calls against the same destination are
// safe.
type DestinationAdapter interface {
	Deliver(ctx context.Context, stmt *models.Statement, content models.ContentRecord, dest *models.Destination) DeliveryOutcome
}

// AdapterRegistry maps destination kinds onto adapter implementations. Built
// once at wiring time; never mutated afterwards.
type AdapterRegistry map[models.DestinationKind]DestinationAdapter

// NewAdapterRegistry registers one adapter per supported destination kind.
func NewAdapterRegistry(client *http.Client) AdapterRegistry {
	if client == nil {
		client = http.DefaultClient
	}
	return AdapterRegistry{
		models.DestinationKindLRS:     &LRSAdapter{client: client},
		models.DestinationKindWebhook: &WebhookAdapter{client: client},
	}
}

// postJSON issues an authenticated JSON POST and classifies the response.
func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}, headers map[string]string) DeliveryOutcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return DeliveryOutcome{State: DeliveryFatal, Reason: fmt.Sprintf("encode payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return DeliveryOutcome{State: DeliveryFatal, Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return DeliveryOutcome{State: DeliveryRetryable, Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return DeliveryOutcome{State: DeliveryDelivered}
	case resp.StatusCode >= 500:
		return DeliveryOutcome{State: DeliveryRetryable, Reason: fmt.Sprintf("server error: %s", resp.Status)}
	default:
		return DeliveryOutcome{State: DeliveryFatal, Reason: fmt.Sprintf("rejected: %s", resp.Status)}
	}
}
