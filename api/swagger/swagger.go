package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Certificados API",
        "description": "Certificate lookup and administration service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Public", "description": "Public certificate search"},
        {"name": "Authentication", "description": "Administrator sessions"},
        {"name": "Certificates", "description": "Certificate administration"},
        {"name": "Cohorts", "description": "Cohort-wide operations"}
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
        "/search": {
            "post": {
                "tags": ["Public"],
                "summary": "Search active certificates by national ID",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing or empty ID", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Public"],
                "summary": "List courses with at least one active certificate",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Open an administrator session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the current session token",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/certificates": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List certificates with cohort summaries",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Filter on student name or class code"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "description": "Download the listing instead of returning JSON"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/certificates/{id}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Get certificate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Certificates"],
                "summary": "Update certificate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCertificateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Certificates"],
                "summary": "Delete certificate and its Drive file",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/cohorts/{classCode}/{action}": {
            "post": {
                "tags": ["Cohorts"],
                "summary": "Activate or deactivate every certificate in a cohort",
                "parameters": [
                    {"name": "classCode", "in": "path", "required": true, "type": "string"},
                    {"name": "action", "in": "path", "required": true, "type": "string", "enum": ["activate", "deactivate"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/cohorts/{classCode}": {
            "delete": {
                "tags": ["Cohorts"],
                "summary": "Delete a whole cohort, streaming an HTML progress log",
                "parameters": [
                    {"name": "classCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Streamed progress log"}
                }
            }
        }
    },
    "definitions": {
        "Certificate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_name": {"type": "string"},
                "class_code": {"type": "string"},
                "file_link": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CertificateMatch": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_name": {"type": "string"},
                "class_code": {"type": "string"},
                "file_link": {"type": "string"},
                "active": {"type": "boolean"},
                "course_name": {"type": "string"}
            }
        },
        "CohortSummary": {
            "type": "object",
            "properties": {
                "class_code": {"type": "string"},
                "total": {"type": "integer"},
                "active": {"type": "integer"}
            }
        },
        "AvailableCourse": {
            "type": "object",
            "properties": {
                "course_name": {"type": "string"},
                "class_code": {"type": "string"}
            }
        },
        "SearchRequest": {
            "type": "object",
            "properties": {
                "cpf": {"type": "string"}
            },
            "required": ["cpf"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "session_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "issued_at": {"type": "string"}
            }
        },
        "UpdateCertificateRequest": {
            "type": "object",
            "properties": {
                "student_name": {"type": "string"},
                "class_code": {"type": "string"},
                "file_link": {"type": "string"},
                "active": {"type": "boolean"}
            },
            "required": ["student_name", "class_code"]
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
