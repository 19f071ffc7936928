package models

import "time"

// Statement is the canonical xAPI activity statement generated per delivery
// attempt. It is never persisted as pipeline state, only handed to an
// adapter as the delivery payload.
type Statement struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     StatementActor    `json:"actor"`
	Verb      StatementVerb     `json:"verb"`
	Object    StatementObject   `json:"object"`
	Result    *StatementResult  `json:"result,omitempty"`
	Context   *StatementContext `json:"context,omitempty"`
}

// StatementActor identifies the learner who performed the activity.
type StatementActor struct {
	Mbox       string `json:"mbox"`
	Name       string `json:"name"`
	ObjectType string `json:"objectType"`
}

// StatementVerb carries an ADL verb identifier with an en-US display label.
type StatementVerb struct {
	ID      string            `json:"id"`
	Display map[string]string `json:"display"`
}

// StatementObject describes the activity acted upon.
type StatementObject struct {
	ID         string             `json:"id"`
	Definition ActivityDefinition `json:"definition"`
	ObjectType string             `json:"objectType"`
}

// ActivityDefinition localises name and description and classifies the
// activity type.
type ActivityDefinition struct {
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	Type        string            `json:"type"`
}

// StatementResult carries the grade outcome when one exists.
type StatementResult struct {
	Score      *StatementScore `json:"score,omitempty"`
	Completion bool            `json:"completion"`
	Success    bool            `json:"success"`
}

// StatementScore wraps the raw letter grade.
type StatementScore struct {
	Raw string `json:"raw"`
}

// StatementContext identifies the issuing platform and carries source
// extensions (content type, tags, metadata).
type StatementContext struct {
	Instructor StatementActor         `json:"instructor"`
	Platform   string                 `json:"platform"`
	Language   string                 `json:"language"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}
