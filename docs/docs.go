// Package docs holds the Swagger description served under /swagger/
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
        "/generate-boc": {
            "post": {
                "description": "Builds a transfer of amount TON from the service wallet to toAddress, signs it and returns the serialized BOC in base64. The transfer is not broadcast.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ton"],
                "summary": "Sign a TON transfer",
                "parameters": [
                    {
                        "description": "Transfer data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.BOCRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.BOCResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/model.ErrorResponse"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports liveness and the address of the signing wallet",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.HealthResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "model.BOCRequest": {
            "type": "object",
            "required": ["amount", "toAddress"],
            "properties": {
                "amount": {"type": "string", "example": "0.05"},
                "toAddress": {"type": "string"}
            }
        },
        "model.BOCResponse": {
            "type": "object",
            "properties": {
                "boc": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "status": {"type": "string"}
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
	Title:            "TON BOC backend",
	Description:      "Signs TON wallet v4 transfers and returns them as BOC",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
