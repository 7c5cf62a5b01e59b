// Package docs holds the OpenAPI document of the JSON API, registered with swag.
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
        "/api/v1/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "List predictive models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Catalog"}},
                    "502": {"description": "connection error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "List past predictions",
                "parameters": [
                    {"type": "string", "description": "Model key", "name": "model_key", "in": "query"},
                    {"type": "string", "description": "Exact player name", "name": "player_name", "in": "query"},
                    {"type": "integer", "description": "Maximum records", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HistoryPage"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "connection error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Predict a player's score",
                "parameters": [
                    {"description": "Player, model and stats", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PredictionPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PredictionResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Rejected by the scoring service", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Current dashboard session",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.Catalog": {
            "type": "object",
            "properties": {
                "models": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.ModelDescriptor"}},
                "categorical_fields": {"type": "array", "items": {"type": "string"}},
                "field_kinds": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.FieldKindSpec"}}
            }
        },
        "models.ModelDescriptor": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.FieldKindSpec": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["numeric", "enumerated"]},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/models.FieldOption"}}
            }
        },
        "models.FieldOption": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "models.HistoryRecord": {
            "type": "object",
            "properties": {
                "player_name": {"type": "string"},
                "model_key": {"type": "string"},
                "stats": {"type": "object", "additionalProperties": true},
                "score": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "models.HistoryPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.HistoryRecord"}}
            }
        },
        "models.PredictionPayload": {
            "type": "object",
            "required": ["model_key", "player_name"],
            "properties": {
                "player_name": {"type": "string"},
                "model_key": {"type": "string"},
                "stats": {"type": "object", "additionalProperties": true}
            }
        },
        "models.PredictionResult": {
            "type": "object",
            "properties": {
                "score": {"type": "number"},
                "record": {"$ref": "#/definitions/models.HistoryRecord"}
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
	Title:            "MyMatch Dashboard API",
	Description:      "Model catalog, history and prediction pass-through of the MyMatch dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
