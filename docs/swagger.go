// Package docs HK Smart Transport API.
//
// Сервис поиска точек общественного транспорта Гонконга рядом с пользователем,
// пешеходных маршрутов и порядка обхода нескольких точек.
//
// Основные возможности:
// - Поиск остановок, пирсов, стоянок такси и станций MTR в радиусе
// - Пешеходный маршрут по сети тротуаров с запасным вариантом через OSRM
// - Упорядочивание точек маршрута (ближайший сосед + 2-opt)
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Dependency unavailable"}
                }
            }
        },
        "/api/v1/nearby": {
            "get": {
                "description": "Остановки, пирсы, стоянки такси и станции MTR в радиусе, по возрастанию расстояния",
                "produces": ["application/json"],
                "tags": ["Nearby"],
                "summary": "Точки транспорта рядом",
                "parameters": [
                    {"type": "number", "description": "Широта", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Долгота", "name": "lng", "in": "query", "required": true},
                    {"type": "number", "default": 800, "description": "Радиус в метрах", "name": "radius", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Категории или подстроки названий", "name": "types", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Максимум результатов", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.NearbyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/nearby/sources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Nearby"],
                "summary": "Состояние источников",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SourcesResponse"}}
                }
            }
        },
        "/api/v1/nearby/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Nearby"],
                "summary": "Пересобрать кеш точек",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SourcesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/route/walk": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Route"],
                "summary": "Пешеходный маршрут",
                "parameters": [
                    {"description": "Начало и конец маршрута", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.WalkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WalkResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Route not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/route/optimize": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Route"],
                "summary": "Порядок обхода точек",
                "parameters": [
                    {"description": "Точки, необязательная матрица и стартовый индекс", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.OptimizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.OptimizeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Matrix unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.LatLng": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "dto.NearbyItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "category": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "distance": {"type": "integer"},
                "walk_min": {"type": "integer"}
            }
        },
        "dto.NearbyResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/dto.NearbyItem"}},
                "count": {"type": "integer"},
                "radius": {"type": "number"},
                "index_version": {"type": "integer"}
            }
        },
        "dto.SourceStatus": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "origin": {"type": "string"},
                "points": {"type": "integer"},
                "skipped": {"type": "object", "additionalProperties": {"type": "integer"}},
                "error": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "dto.SourcesResponse": {
            "type": "object",
            "properties": {
                "built": {"type": "boolean"},
                "version": {"type": "integer"},
                "run_id": {"type": "string"},
                "built_at": {"type": "string"},
                "points": {"type": "integer"},
                "duplicates": {"type": "integer"},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/dto.SourceStatus"}}
            }
        },
        "dto.WalkRequest": {
            "type": "object",
            "properties": {
                "start": {"$ref": "#/definitions/domain.LatLng"},
                "end": {"$ref": "#/definitions/domain.LatLng"}
            }
        },
        "dto.WalkResponse": {
            "type": "object",
            "properties": {
                "polyline": {"type": "array", "items": {"$ref": "#/definitions/domain.LatLng"}},
                "distance_m": {"type": "number"},
                "duration_s": {"type": "number"},
                "walk_min": {"type": "integer"},
                "source": {"type": "string", "enum": ["pedestrian_network", "osrm"]}
            }
        },
        "dto.OptimizeRequest": {
            "type": "object",
            "properties": {
                "points": {"type": "array", "items": {"$ref": "#/definitions/domain.LatLng"}},
                "matrix": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "start": {"type": "integer"}
            }
        },
        "dto.OptimizeResponse": {
            "type": "object",
            "properties": {
                "ordered_index": {"type": "array", "items": {"type": "integer"}},
                "optimized": {"type": "array", "items": {"$ref": "#/definitions/domain.LatLng"}},
                "total_cost": {"type": "number"},
                "matrix_source": {"type": "string"},
                "polyline": {"type": "array", "items": {"$ref": "#/definitions/domain.LatLng"}},
                "distance_m": {"type": "number"},
                "duration_s": {"type": "number"},
                "warning": {"type": "string"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        }
    }
}`

// SwaggerInfo - метаданные документации для /swagger/*
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "HK Smart Transport API",
	Description:      "Точки транспорта рядом, пешеходные маршруты и порядок обхода точек",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
