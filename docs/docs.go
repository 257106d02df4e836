// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/signout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Caller's profile and role",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}}}
            }
        },
        "/v1/me/role": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Caller's effective role",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}}
            }
        },
        "/v1/me/profile": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Change display name",
                "parameters": [
                    {"description": "New display name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}}}
            }
        },
        "/v1/records": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List the caller's trading records",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.recordListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Record a trade",
                "parameters": [
                    {"type": "string", "description": "Retrying with the same key returns the original record", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Trade details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.recordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Replayed by Idempotency-Key", "schema": {"$ref": "#/definitions/handler.recordResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.recordResponse"}},
                    "409": {"description": "Idempotency key in use", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/records/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Profit/loss summary of the caller's records",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.summaryResponse"}}}
            }
        },
        "/v1/records/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get one trading record",
                "parameters": [{"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.recordResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Replace a trading record",
                "parameters": [
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true},
                    {"description": "Trade details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.recordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.recordResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["records"],
                "summary": "Delete a trading record",
                "parameters": [{"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List every user with their role",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.directoryResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/admin/users/{id}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Assign a role",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Role to assign", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.setRoleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.setRoleResponse"}}}
            }
        },
        "/v1/admin/records/count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Total trading records across all users",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.countResponse"}}}
            }
        },
        "/v1/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Directory statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.directoryStatsResponse"}}}
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.signUpRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "display_name": {"type": "string", "maxLength": 100}
            }
        },
        "handler.signInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.profileResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "email": {"type": "string"},
                "display_name": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.roleResponse": {
            "type": "object",
            "properties": {"role": {"type": "string", "enum": ["admin", "user", "unresolved"]}}
        },
        "handler.updateProfileRequest": {
            "type": "object",
            "required": ["display_name"],
            "properties": {"display_name": {"type": "string", "maxLength": 100}}
        },
        "handler.recordRequest": {
            "type": "object",
            "required": ["trade_date", "stock_symbol", "transaction_type", "quantity", "price"],
            "properties": {
                "trade_date": {"type": "string", "example": "2024-03-15"},
                "stock_symbol": {"type": "string", "maxLength": 16},
                "stock_name": {"type": "string", "maxLength": 100},
                "transaction_type": {"type": "string", "enum": ["buy", "sell"]},
                "quantity": {"type": "integer"},
                "price": {"type": "string", "example": "100.00"},
                "commission": {"type": "string", "example": "5.00"},
                "tax": {"type": "string", "example": "0"},
                "notes": {"type": "string", "maxLength": 1000}
            }
        },
        "handler.recordResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trade_date": {"type": "string"},
                "stock_symbol": {"type": "string"},
                "stock_name": {"type": "string"},
                "transaction_type": {"type": "string"},
                "quantity": {"type": "integer"},
                "price": {"type": "string"},
                "commission": {"type": "string"},
                "tax": {"type": "string"},
                "notes": {"type": "string"},
                "display_amount": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.recordListResponse": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"$ref": "#/definitions/handler.recordResponse"}},
                "count": {"type": "integer"}
            }
        },
        "handler.summaryResponse": {
            "type": "object",
            "properties": {
                "total_investment": {"type": "string"},
                "total_return": {"type": "string"},
                "total_fees": {"type": "string"},
                "net_profit_loss": {"type": "string"},
                "trade_count": {"type": "integer"}
            }
        },
        "handler.directoryResponse": {
            "type": "object",
            "properties": {
                "users": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "user_id": {"type": "string"},
                            "email": {"type": "string"},
                            "display_name": {"type": "string"},
                            "role": {"type": "string"},
                            "created_at": {"type": "string"}
                        }
                    }
                },
                "count": {"type": "integer"}
            }
        },
        "handler.setRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {"role": {"type": "string", "enum": ["admin", "user"]}}
        },
        "handler.setRoleResponse": {
            "type": "object",
            "properties": {"user_id": {"type": "string"}, "role": {"type": "string"}}
        },
        "handler.countResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer"}}
        },
        "handler.directoryStatsResponse": {
            "type": "object",
            "properties": {
                "total_users": {"type": "integer"},
                "total_records": {"type": "integer"},
                "admin_users": {"type": "integer"},
                "active_users": {"type": "integer"}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Trading Journal API",
	Description:      "Personal stock trading journal with per-user records, profit/loss summaries and an admin user directory.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
