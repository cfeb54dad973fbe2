// Package docs holds the OpenAPI description served at /swagger, written in
// the layout swag init produces.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/documents": {
            "get": {
                "description": "Newest first. Optionally restricted to one source.",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "rows to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "source filter", "name": "source_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "description": "Archives the file under its SHA-256 content hash and records a document for it.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Ingest a document",
                "parameters": [
                    {"type": "file", "description": "document content", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "text, tabular or other; inferred when omitted", "name": "type", "in": "formData"},
                    {"type": "integer", "description": "owning source", "name": "source_id", "in": "formData"},
                    {"type": "string", "description": "JSON object merged into the metadata payload", "name": "meta", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "description": "Metadata payload entries flattened with the document columns.",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a document",
                "parameters": [{"type": "integer", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "description": "The archived file is removed once no document references its content hash.",
                "tags": ["documents"],
                "summary": "Delete a document",
                "parameters": [{"type": "integer", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}/file": {
            "get": {
                "description": "Redirects to a time-limited presigned URL.",
                "tags": ["documents"],
                "summary": "Download the archived file",
                "parameters": [{"type": "integer", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}/meta": {
            "put": {
                "description": "The content_hash is fixed by the archived file; a body naming another one is rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Replace a document's metadata",
                "parameters": [
                    {"type": "integer", "description": "document id", "name": "id", "in": "path", "required": true},
                    {"description": "metadata payload", "name": "meta", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}/source": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get the source of a document",
                "parameters": [{"type": "integer", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Source"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports healthy when the database answers a ping.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sources"],
                "summary": "List sources",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SourceListResult"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sources"],
                "summary": "Register a source",
                "parameters": [
                    {"description": "slug and optional label", "name": "source", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createSourceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Source"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/sources/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sources"],
                "summary": "Get a source",
                "parameters": [{"type": "integer", "description": "source id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Source"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/sources/{id}/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sources"],
                "summary": "List the documents of a source",
                "parameters": [
                    {"type": "integer", "description": "source id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.createSourceRequest": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "slug": {"type": "string"}
            }
        },
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.listResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "total": {"type": "integer"}
            }
        },
        "model.Source": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "label": {"type": "string"},
                "slug": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "service.SourceListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Source"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Store API",
	Description:      "Content-addressed document archive with JSON metadata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
