// Package docs registers the OpenAPI document served under /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"description": "Sign-up form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}}
                }
            }
        },
        "/auth/activate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Activate an account",
                "parameters": [
                    {"description": "Activation key", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.activateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/activation/resend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Resend the activation email",
                "parameters": [
                    {"description": "Account email", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.resendActivationRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.statusResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}}
                }
            }
        },
        "/countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["countries"],
                "summary": "List countries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.countriesResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me/profile": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Update profile",
                "parameters": [
                    {"description": "Profile fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.profileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}}
                }
            }
        },
        "/me/account": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Update account fields",
                "parameters": [
                    {"description": "Account fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.accountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}}
                }
            }
        },
        "/me/password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Old and new passwords", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.passwordChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.statusResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationResponse"}}
                }
            }
        },
        "/users/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Country": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "name": {"type": "string"}}
        },
        "domain.FieldError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "field": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "biography": {"type": "string"},
                "city": {"type": "string"},
                "contact_number": {"type": "string"},
                "country": {"type": "string"},
                "github_username": {"type": "string"},
                "linkedin": {"type": "string"},
                "name": {"type": "string"},
                "organization": {"type": "string"},
                "profession": {"type": "string"},
                "profile_image": {"type": "string"},
                "surname": {"type": "string"},
                "twitter_handle": {"type": "string"},
                "website": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "id": {"type": "string"},
                "is_active": {"type": "boolean"},
                "last_name": {"type": "string"},
                "profile": {"$ref": "#/definitions/domain.Profile"},
                "role": {"type": "string"},
                "updated_at": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.accountRequest": {
            "type": "object",
            "properties": {
                "captcha_token": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string", "maxLength": 150},
                "last_name": {"type": "string", "maxLength": 150}
            }
        },
        "handler.activateRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {"key": {"type": "string"}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/domain.User"}}
        },
        "handler.countriesResponse": {
            "type": "object",
            "properties": {"countries": {"type": "array", "items": {"$ref": "#/definitions/domain.Country"}}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.passwordChangeRequest": {
            "type": "object",
            "properties": {
                "captcha_token": {"type": "string"},
                "new_password1": {"type": "string"},
                "new_password2": {"type": "string"},
                "old_password": {"type": "string"}
            }
        },
        "handler.profileRequest": {
            "type": "object",
            "properties": {
                "biography": {"type": "string", "maxLength": 4000},
                "captcha_token": {"type": "string"},
                "city": {"type": "string", "maxLength": 255},
                "contact_number": {"type": "string", "maxLength": 32},
                "country": {"type": "string"},
                "github_username": {"type": "string", "maxLength": 39},
                "linkedin": {"type": "string"},
                "name": {"type": "string", "maxLength": 255},
                "organization": {"type": "string", "maxLength": 255},
                "profession": {"type": "string", "maxLength": 255},
                "profile_image": {"type": "string"},
                "surname": {"type": "string", "maxLength": 255},
                "twitter_handle": {"type": "string", "maxLength": 15},
                "website": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "properties": {
                "captcha_token": {"type": "string"},
                "email": {"type": "string"},
                "password1": {"type": "string"},
                "password2": {"type": "string"},
                "tos": {"type": "boolean"},
                "username": {"type": "string"}
            }
        },
        "handler.resendActivationRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "handler.statusResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "handler.validationResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/domain.FieldError"}}
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
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "PyCon Africa Registration API",
	Description:      "Sign-up, activation, login and self-service account management for the PyCon Africa site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
