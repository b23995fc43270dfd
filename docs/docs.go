// Package docs registers the gateway OpenAPI document served under /api/swagger.
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Estado del servicio",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sesión actual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ResponseError"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Lista de usuarios",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.User"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "502": {"description": "No se pudo obtener la lista", "schema": {"$ref": "#/definitions/api.ResponseError"}}
                }
            }
        },
        "/users/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Editar perfil",
                "parameters": [
                    {"type": "integer", "description": "ID del usuario", "name": "id", "in": "path", "required": true},
                    {"description": "Campos a modificar", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entity.ProfileUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ResponseError"}}
                }
            }
        },
        "/users/{id}/active": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Activar o desactivar usuario",
                "parameters": [
                    {"type": "integer", "description": "ID del usuario", "name": "id", "in": "path", "required": true},
                    {"description": "Estado", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SetActiveRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.User"}}}
            }
        },
        "/users/{id}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Cambiar rol",
                "parameters": [
                    {"type": "integer", "description": "ID del usuario", "name": "id", "in": "path", "required": true},
                    {"description": "Rol", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ChangeRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Más de un copropietario", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.OwnerResponse"}}
                }
            }
        },
        "/users/{id}/owner": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Reasignar copropietario",
                "parameters": [
                    {"type": "integer", "description": "ID del nuevo copropietario", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "207": {"description": "Asignado, pero el anterior conserva el rol", "schema": {"$ref": "#/definitions/api.OwnerResponse"}},
                    "409": {"description": "Más de un copropietario", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.OwnerResponse"}}
                }
            }
        },
        "/faces/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["faces"],
                "summary": "Verificación facial",
                "parameters": [
                    {"type": "file", "description": "Imagen JPEG, PNG, BMP o GIF", "name": "imagen", "in": "formData"},
                    {"type": "string", "description": "file, camera o staging", "name": "source", "in": "formData"},
                    {"type": "string", "description": "Captura de cámara como data URL", "name": "data_url", "in": "formData"},
                    {"type": "string", "description": "Imagen preparada", "name": "staged_id", "in": "formData"},
                    {"type": "integer", "description": "ID de copropietario", "name": "copropietario_id", "in": "formData"},
                    {"type": "integer", "description": "ID de inquilino", "name": "inquilino_id", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/api.ResponseError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.AttemptResponse"}}
                }
            }
        },
        "/faces/enroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["faces"],
                "summary": "Registro facial",
                "parameters": [
                    {"type": "file", "description": "Imagen JPEG o PNG", "name": "imagen", "in": "formData"},
                    {"type": "string", "description": "Imagen preparada", "name": "staged_id", "in": "formData"},
                    {"type": "integer", "description": "ID de copropietario", "name": "copropietario_id", "in": "formData"},
                    {"type": "integer", "description": "ID de inquilino", "name": "inquilino_id", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/faces/enroll/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["faces"],
                "summary": "Eliminar registro facial",
                "parameters": [{"type": "integer", "description": "ID del registro", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/faces/status/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["faces"],
                "summary": "Estado del registro facial",
                "parameters": [{"type": "integer", "description": "ID de la persona", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/security/recognize": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["security"],
                "summary": "Reconocimiento en portería",
                "parameters": [
                    {"type": "file", "description": "Imagen JPEG, PNG, BMP o GIF", "name": "imagen", "in": "formData"},
                    {"type": "string", "description": "Captura de cámara como data URL", "name": "data_url", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.AttemptResponse"}}
                }
            }
        },
        "/staging/images": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["staging"],
                "summary": "Imágenes preparadas",
                "parameters": [
                    {"type": "string", "description": "Identificador del asistente de registro", "name": "request_id", "in": "query", "required": true},
                    {"type": "integer", "description": "Máximo de imágenes (20 por defecto, 100 como máximo)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["staging"],
                "summary": "Preparar imagen",
                "parameters": [
                    {"type": "string", "description": "Identificador del asistente de registro", "name": "request_id", "in": "formData", "required": true},
                    {"type": "file", "description": "Imagen JPEG o PNG", "name": "imagen", "in": "formData"},
                    {"type": "string", "description": "Captura de cámara como data URL", "name": "data_url", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/staging/images/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["image/jpeg", "image/png"],
                "tags": ["staging"],
                "summary": "Descargar imagen preparada",
                "parameters": [{"type": "string", "description": "ID de la imagen", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["staging"],
                "summary": "Descartar imagen preparada",
                "parameters": [{"type": "string", "description": "ID de la imagen", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "api.ResponseError": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}}
        },
        "api.SessionResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "permissions": {"type": "array", "items": {"type": "string"}},
                "role": {"type": "string"},
                "role_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "api.SetActiveRequest": {
            "type": "object",
            "properties": {"active": {"type": "boolean"}}
        },
        "api.ChangeRoleRequest": {
            "type": "object",
            "properties": {"role": {"type": "string"}}
        },
        "api.OwnerResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}, "result": {"type": "object"}}
        },
        "api.AttemptResponse": {
            "type": "object",
            "properties": {"attempt": {"type": "object"}, "error": {"type": "string"}, "message": {"type": "string"}}
        },
        "entity.ProfileUpdate": {
            "type": "object",
            "properties": {
                "apellidos": {"type": "string"},
                "direccion": {"type": "string"},
                "nombres": {"type": "string"},
                "telefono": {"type": "string"},
                "vivienda": {"type": "integer"}
            }
        },
        "entity.User": {
            "type": "object",
            "properties": {
                "apellidos": {"type": "string"},
                "direccion": {"type": "string"},
                "email": {"type": "string"},
                "estado": {"type": "boolean"},
                "id": {"type": "integer"},
                "nombres": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "integer"}},
                "telefono": {"type": "string"},
                "vivienda": {"type": "integer"}
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Condominium Gateway API",
	Description:      "Face verification, recognition and user roster management for the condominium backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
