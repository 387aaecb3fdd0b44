// Package docs holds the OpenAPI document of the master service.
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
        "/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current token payload",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/v1/tenants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "List tenants",
                "parameters": [
                    {"type": "string", "name": "ownerId", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListTenantsResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Create a tenant",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTenantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Tenant"}},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/tenants/{tenantId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Get a tenant",
                "parameters": [
                    {"type": "string", "name": "tenantId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Tenant"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/tenants/{tenantId}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Change a tenant's status",
                "parameters": [
                    {"type": "string", "name": "tenantId", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Tenant"}},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "Tenant": {
            "type": "object",
            "properties": {
                "tenantId": {"type": "string"},
                "tenantName": {"type": "string"},
                "tenantStatus": {"type": "string", "enum": ["ACTIVE", "SUSPENDED"]},
                "tenantFriendlyIdentifier": {"type": "string"},
                "ownerId": {"type": "string"},
                "version": {"type": "integer"},
                "createdAt": {"type": "integer"},
                "updatedAt": {"type": "integer"}
            }
        },
        "CreateTenantRequest": {
            "type": "object",
            "required": ["tenantName"],
            "properties": {
                "tenantName": {"type": "string", "minLength": 2, "maxLength": 128},
                "tenantFriendlyIdentifier": {"type": "string", "maxLength": 128},
                "ownerId": {"type": "string", "maxLength": 64}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["ACTIVE", "SUSPENDED"]}
            }
        },
        "ListTenantsResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Tenant"}}
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
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Master Service API",
	Description:      "Tenant management for the master service.",
	InfoInstanceName: "master",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
