package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Content Push API",
        "description": "Selective learner content pushing with xAPI statements",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Pushes", "description": "Content push submission and status tracking"},
        {"name": "Filter Rules", "description": "Push filter rule management"},
        {"name": "Destinations", "description": "Delivery destination configuration"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Dependencies unavailable"}
                }
            }
        },
        "/api/v1/pushes": {
            "get": {
                "tags": ["Pushes"],
                "summary": "List pushes created in a recent window",
                "parameters": [
                    {"name": "hours", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Pushes"],
                "summary": "Submit a content push",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PushRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/pushes/drive": {
            "post": {
                "tags": ["Pushes"],
                "summary": "Submit a push for content shared via Google Drive or OneDrive",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DrivePushRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/pushes/{id}": {
            "get": {
                "tags": ["Pushes"],
                "summary": "Current push record snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown push id"}
                }
            }
        },
        "/api/v1/pushes/{id}/events": {
            "get": {
                "tags": ["Pushes"],
                "summary": "WebSocket stream of status snapshots ending with the terminal one",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "101": {"description": "Switching protocols"}
                }
            }
        },
        "/api/v1/filter-rules": {
            "get": {
                "tags": ["Filter Rules"],
                "summary": "List filter rules",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Filter Rules"],
                "summary": "Create filter rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/filter-rules/test": {
            "post": {
                "tags": ["Filter Rules"],
                "summary": "Evaluate the filter decision for a content record without pushing",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TestFilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/destinations": {
            "get": {
                "tags": ["Destinations"],
                "summary": "List destinations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Destinations"],
                "summary": "Create destination",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DestinationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ContentPayload": {
            "type": "object",
            "properties": {
                "learner_id": {"type": "string"},
                "learner_name": {"type": "string"},
                "learner_email": {"type": "string"},
                "learner_group": {"type": "string"},
                "content_id": {"type": "string"},
                "content_type": {"type": "string", "enum": ["essay", "video", "audio", "presentation", "code", "quiz", "project"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "content_url": {"type": "string"},
                "submission_date": {"type": "string", "format": "date-time"},
                "grade": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "metadata": {"type": "object"}
            },
            "required": ["learner_id", "learner_name", "learner_email", "content_id", "content_type", "title", "content_url", "submission_date"]
        },
        "PushRequest": {
            "type": "object",
            "properties": {
                "content": {"$ref": "#/definitions/ContentPayload"},
                "destination": {"type": "string"},
                "force_push": {"type": "boolean"}
            },
            "required": ["content", "destination"]
        },
        "DrivePushRequest": {
            "type": "object",
            "properties": {
                "file_url": {"type": "string"},
                "platform": {"type": "string", "enum": ["google_drive", "one_drive"]},
                "content": {"$ref": "#/definitions/ContentPayload"},
                "destination": {"type": "string"},
                "force_push": {"type": "boolean"}
            },
            "required": ["file_url", "platform", "content", "destination"]
        },
        "FilterRuleRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "content_types": {"type": "array", "items": {"type": "string"}},
                "grade_min": {"type": "string"},
                "required_tags": {"type": "array", "items": {"type": "string"}},
                "learner_groups": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["name"]
        },
        "TestFilterRequest": {
            "type": "object",
            "properties": {
                "content": {"$ref": "#/definitions/ContentPayload"},
                "rule_id": {"type": "string"},
                "rule": {"$ref": "#/definitions/FilterRuleRequest"}
            },
            "required": ["content"]
        },
        "DestinationRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "kind": {"type": "string", "enum": ["lrs", "webhook"]},
                "endpoint": {"type": "string"},
                "auth_token": {"type": "string"},
                "rule_id": {"type": "string"}
            },
            "required": ["name", "kind", "endpoint"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
