// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/upload": {
            "post": {
                "description": "Stores the multipart field \"file\" and registers it for editing.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Upload a resume",
                "parameters": [
                    {"type": "file", "description": "Document", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/editor/{fileId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Editor launch URL for a file",
                "parameters": [
                    {"type": "string", "description": "File id", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.EditorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/{fileId}/revisions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Write history of a file, newest first",
                "parameters": [
                    {"type": "string", "description": "File id", "name": "fileId", "in": "path", "required": true},
                    {"type": "integer", "description": "Max entries (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RevisionList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/wopi/files/{fileId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wopi"],
                "summary": "WOPI CheckFileInfo",
                "parameters": [
                    {"type": "string", "description": "File id", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.FileInfo"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/wopi/files/{fileId}/contents": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["wopi"],
                "summary": "WOPI GetFile",
                "parameters": [
                    {"type": "string", "description": "File id", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "description": "Replaces the whole file with the request body. Any content type is accepted.",
                "consumes": ["*/*"],
                "tags": ["wopi"],
                "summary": "WOPI PutFile",
                "parameters": [
                    {"type": "string", "description": "File id", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/assist/keywords": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assist"],
                "summary": "Extract keywords from a job description",
                "parameters": [
                    {"description": "Job description", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.keywordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.keywordsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/assist/bullet": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assist"],
                "summary": "Rewrite a bullet point around keywords",
                "parameters": [
                    {"description": "Bullet and keywords", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.improveBulletRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.bulletResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/assist/bullet/new": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assist"],
                "summary": "Write a new bullet point about a keyword",
                "parameters": [
                    {"description": "Keyword, line count, header flag", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.newBulletRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.bulletResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/assist/ats": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assist"],
                "summary": "Score a resume against a job description",
                "parameters": [
                    {"description": "Resume text and job description", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.atsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/assist.ATSResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "assist.ATSResult": {
            "type": "object",
            "properties": {
                "feedback": {"type": "string"},
                "score": {"type": "integer"}
            }
        },
        "handler.EditorResponse": {
            "type": "object",
            "properties": {
                "editorUrl": {"type": "string"},
                "fileId": {"type": "string"},
                "readyGraceMs": {"type": "integer"}
            }
        },
        "handler.RevisionList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Revision"}}
            }
        },
        "handler.UploadResponse": {
            "type": "object",
            "properties": {
                "editorUrl": {"type": "string"},
                "fileId": {"type": "string"}
            }
        },
        "handler.atsRequest": {
            "type": "object",
            "properties": {
                "jobDescription": {"type": "string"},
                "resume": {"type": "string"}
            }
        },
        "handler.bulletResponse": {
            "type": "object",
            "properties": {
                "bullet": {"type": "string"}
            }
        },
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.improveBulletRequest": {
            "type": "object",
            "properties": {
                "bullet": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.keywordsRequest": {
            "type": "object",
            "properties": {
                "jobDescription": {"type": "string"}
            }
        },
        "handler.keywordsResponse": {
            "type": "object",
            "properties": {
                "keywords": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.newBulletRequest": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"},
                "lines": {"type": "integer"},
                "withHeader": {"type": "boolean"}
            }
        },
        "model.FileInfo": {
            "type": "object",
            "properties": {
                "BaseFileName": {"type": "string"},
                "DisableCopy": {"type": "boolean"},
                "DisableExport": {"type": "boolean"},
                "DisablePrint": {"type": "boolean"},
                "LastModifiedTime": {"type": "string"},
                "OwnerId": {"type": "string"},
                "Size": {"type": "integer"},
                "SupportsLocks": {"type": "boolean"},
                "SupportsUpdate": {"type": "boolean"},
                "UserCanWrite": {"type": "boolean"},
                "UserFriendlyName": {"type": "string"},
                "UserId": {"type": "string"},
                "Version": {"type": "string"}
            }
        },
        "model.Revision": {
            "type": "object",
            "properties": {
                "event": {"type": "string"},
                "file_id": {"type": "string"},
                "recorded_at": {"type": "string"},
                "size": {"type": "integer"},
                "version": {"type": "integer"}
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
	Title:            "Resume Host API",
	Description:      "WOPI file host and resume assistant for the embedded document editor.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
