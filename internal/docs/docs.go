// Package docs registers the OpenAPI description of the govtrack API with swag.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/policies": {
            "get": {
                "tags": ["policies"],
                "summary": "List policies",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "federal, state or local", "name": "level", "in": "query"},
                    {"type": "string", "description": "proposed, passed, failed or vetoed", "name": "status", "in": "query"},
                    {"type": "string", "description": "Topic tag", "name": "tag", "in": "query"},
                    {"type": "string", "description": "Jurisdiction state", "name": "state", "in": "query"},
                    {"type": "integer", "description": "Maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/policies/{id}": {
            "get": {
                "tags": ["policies"],
                "summary": "Get a policy",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Policy ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/policies/location/{state}": {
            "get": {
                "tags": ["policies"],
                "summary": "Policies affecting a state",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "State code", "name": "state", "in": "path", "required": true},
                    {"type": "string", "description": "City", "name": "city", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/representatives": {
            "get": {
                "tags": ["representatives"],
                "summary": "List representatives",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Party", "name": "party", "in": "query"},
                    {"type": "string", "description": "State", "name": "state", "in": "query"},
                    {"type": "string", "description": "federal, state or local", "name": "level", "in": "query"},
                    {"type": "integer", "description": "Maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/representatives/{id}": {
            "get": {
                "tags": ["representatives"],
                "summary": "Get a representative",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Representative ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/representatives/{id}/votes": {
            "get": {
                "tags": ["representatives"],
                "summary": "Voting history",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Representative ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes": {
            "get": {
                "tags": ["quizzes"],
                "summary": "List quizzes",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "Create a quiz",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.Quiz"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}": {
            "get": {
                "tags": ["quizzes"],
                "summary": "Get a quiz",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "Replace a quiz",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.Quiz"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Quiz"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "Delete a quiz and its stances",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/stances": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "Every representative's stances on a quiz",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/stances/{repId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "Replace a representative's stances on a quiz",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Representative ID", "name": "repId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.SetStancesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/score": {
            "post": {
                "tags": ["quizzes"],
                "summary": "Score answers against every representative",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.SubmitQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/top": {
            "get": {
                "tags": ["quizzes"],
                "summary": "Most common top matches",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Board size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/results/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["quizzes"],
                "summary": "A saved quiz result",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Result ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Current user's profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "model.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "integer"},
                "user": {"type": "object"}
            }
        },
        "model.QuizResponse": {
            "type": "object",
            "properties": {
                "questionKey": {"type": "string"},
                "value": {"type": "integer"}
            }
        },
        "model.SubmitQuizRequest": {
            "type": "object",
            "properties": {
                "responses": {"type": "array", "items": {"$ref": "#/definitions/model.QuizResponse"}}
            }
        },
        "model.QuizQuestion": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "text": {"type": "string"},
                "category": {"type": "string"},
                "scaleMin": {"type": "integer"},
                "scaleMax": {"type": "integer"}
            }
        },
        "model.Quiz": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "version": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/model.QuizQuestion"}}
            }
        },
        "model.Stance": {
            "type": "object",
            "properties": {
                "questionKey": {"type": "string"},
                "value": {"type": "integer"},
                "source": {"type": "string"}
            }
        },
        "model.SetStancesRequest": {
            "type": "object",
            "properties": {
                "stances": {"type": "array", "items": {"$ref": "#/definitions/model.Stance"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "GovTrack API",
	Description:      "Policies, representatives and the political alignment quiz.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
