// Package docs registra el documento OpenAPI del devapi en swag.
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
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login with username or email",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {"200": {"description": "user and bearer token"}, "401": {"description": "invalid credentials"}}
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {"201": {"description": "created"}, "400": {"description": "invalid data"}, "409": {"description": "email already exists"}}
            }
        },
        "/products": {
            "get": {"tags": ["products"], "summary": "List active products", "responses": {"200": {"description": "envelope with products"}}}
        },
        "/products/search": {
            "get": {
                "tags": ["products"],
                "summary": "Search products by name, brand or description",
                "parameters": [{"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "envelope with products"}}
            }
        },
        "/veterinarians": {
            "get": {"tags": ["veterinarians"], "summary": "List veterinarians", "responses": {"200": {"description": "veterinarians"}}}
        },
        "/appointments": {
            "get": {"tags": ["appointments"], "summary": "List appointments", "responses": {"200": {"description": "appointments"}}},
            "post": {
                "tags": ["appointments"],
                "summary": "Book an appointment",
                "responses": {"201": {"description": "booked"}, "400": {"description": "validation failed"}, "409": {"description": "slot already booked"}}
            }
        },
        "/appointments/check-availability": {
            "get": {
                "tags": ["appointments"],
                "summary": "Check whether a veterinarian slot is free",
                "parameters": [
                    {"in": "query", "name": "veterinarianId", "type": "integer", "required": true},
                    {"in": "query", "name": "date", "type": "string", "required": true},
                    {"in": "query", "name": "time", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "true when available"}}
            }
        },
        "/cart/{userId}": {
            "get": {"tags": ["cart"], "summary": "Active cart of a user", "security": [{"Bearer": []}], "responses": {"200": {"description": "cart"}}}
        },
        "/orders": {
            "post": {"tags": ["orders"], "summary": "Place an order", "security": [{"Bearer": []}], "responses": {"201": {"description": "order"}}}
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {"usernameOrEmail": {"type": "string"}, "password": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Pet Care Dev API",
	Description:      "Development backend for the pet-care client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
