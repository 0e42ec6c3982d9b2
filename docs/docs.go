// Package docs registers the Swagger document served at /swagger.
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
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Refresh the access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/bulk-uploads/{entity}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["BulkUpload"],
                "summary": "Bulk upload records",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "entity", "required": true},
                    {"type": "boolean", "in": "query", "name": "autoCreate"},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/bulk-uploads/{entity}/excel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["BulkUpload"],
                "summary": "Bulk upload records from a spreadsheet",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "entity", "required": true},
                    {"type": "boolean", "in": "query", "name": "autoCreate"},
                    {"type": "file", "in": "formData", "name": "file", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/bulk-uploads/template/{entity}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["BulkUpload"],
                "summary": "Get a JSON template",
                "description": "Returns an array of example records ready to edit and upload.",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "entity", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}, "400": {"description": "Bad Request"}}
            }
        },
        "/bulk-uploads/template/{entity}/excel": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["BulkUpload"],
                "summary": "Download an Excel template",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "in": "path", "name": "entity", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/bulk-uploads/template/{entity}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["BulkUpload"],
                "summary": "Download the field guide as PDF",
                "produces": ["application/pdf"],
                "parameters": [{"type": "string", "in": "path", "name": "entity", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/auditlogs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["AuditLog"],
                "summary": "Get audit logs",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "query", "name": "user_id"},
                    {"type": "string", "in": "query", "name": "action"},
                    {"type": "string", "in": "query", "name": "status"},
                    {"type": "string", "in": "query", "name": "from_date"},
                    {"type": "string", "in": "query", "name": "to_date"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "limit"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auditlogs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["AuditLog"],
                "summary": "Get audit log by ID",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Real Estate Bulk Upload API",
	Description:      "Bulk import of users, developers, locations, properties, leads and launches.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
