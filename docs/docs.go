// Package docs registers the Swagger specification served at /swagger/.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "token and user"},
                    "401": {"description": "invalid credentials"},
                    "429": {"description": "too many attempts"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["users"],
                "summary": "List user accounts",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "paginated users"}}
            },
            "post": {
                "tags": ["users"],
                "summary": "Create a user account",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "created user"},
                    "409": {"description": "username or email taken"}
                }
            }
        },
        "/users/me": {
            "get": {
                "tags": ["users"],
                "summary": "Get the authenticated user's profile",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "profile"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user by id",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "user"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["users"],
                "summary": "Update a user account",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "updated user"}}
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user account",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "deleted"}}
            }
        },
        "/tasks": {
            "get": {
                "tags": ["tasks"],
                "summary": "List tasks",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "paginated tasks"}}
            },
            "post": {
                "tags": ["tasks"],
                "summary": "Open a new task",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "created task"},
                    "403": {"description": "administrators cannot create tasks"}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["tasks"],
                "summary": "Get a task by id",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "task"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["tasks"],
                "summary": "Update a task",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "updated task"}}
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "deleted"}}
            }
        },
        "/statistics/employees": {
            "get": {
                "tags": ["statistics"],
                "summary": "Per-employee task statistics",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "statistics rows"}, "403": {"description": "forbidden"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "TestFlow Task System API",
	Description:      "Role-based task and test management backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
