// Package docs registers the OpenAPI document served by the swagger UI.
// Regenerate with `swag init -g cmd/server/main.go -o internal/docs` after
// changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness and dependency probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}
        },
        "/v1/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "List bookings",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "health", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BookingListResponse"}}}
            }
        },
        "/v1/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Get a booking with derived status and health",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BookingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/bookings/{id}/resources": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Get or generate resource rows",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "force", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResourceListResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Override resource quantities",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateResourcesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResourceListResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/events/{id}/menu/finalize": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Finalize an event menu",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "force", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FinalizeMenuResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/inventory": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "List inventory items", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/inventory/low-stock": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Items at or below their minimum", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/inventory/movements": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Stock movement history", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/inventory/{id}/adjust": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["inventory"],
                "summary": "Adjust stock",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AdjustStockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InventoryItemResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {"type": "object", "properties": {"detail": {"type": "string"}, "reason": {"type": "string"}}},
        "dto.BookingResponse": {"type": "object"},
        "dto.BookingListResponse": {"type": "object"},
        "dto.ResourceListResponse": {"type": "object"},
        "dto.UpdateResourcesRequest": {"type": "object"},
        "dto.FinalizeMenuResponse": {"type": "object"},
        "dto.AdjustStockRequest": {"type": "object"},
        "dto.InventoryItemResponse": {"type": "object"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VenueOps API",
	Description:      "Booking lifecycle and resource planning for venues.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
