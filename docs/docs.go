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
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Получить токен организатора",
                "parameters": [
                    {"description": "Пароль организатора", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TokenInput"}}
                ],
                "responses": {
                    "200": {"description": "token и expires_at", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Пустой пароль", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Неверный пароль", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Список турниров",
                "parameters": [
                    {"type": "string", "description": "active | completed", "name": "status", "in": "query"},
                    {"type": "string", "description": "Comma separated tournament IDs", "name": "ids", "in": "query"},
                    {"type": "integer", "description": "Default 20", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Default 0", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Неверные параметры", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Создать турнир",
                "parameters": [
                    {"description": "Название, число групп и команды", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}
                ],
                "responses": {
                    "201": {"description": "Турнир создан", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Ошибка валидации", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Неавторизован", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Полное состояние турнира",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Удалить турнир",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Неавторизован", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Для матчей плей-офф при ничьей нужны extra_time и, если счёт снова равный, penalties.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Внести результат матча",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "description": "Match ID, e.g. A1 or QF-2", "name": "matchID", "in": "path", "required": true},
                    {"description": "Счёт", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.MatchResultInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Неверный счёт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Турнир или матч не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Матч не относится к текущей стадии", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Сбросить все результаты турнира",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/groups/{groupID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Таблица группы",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "description": "Group letter", "name": "groupID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир или группа не найдены", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "produces": ["application/json"],
                "tags": ["knockout"],
                "summary": "Сетка плей-офф",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/champion": {
            "get": {
                "produces": ["application/json"],
                "tags": ["knockout"],
                "summary": "Победитель турнира",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден или финал ещё не сыгран", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Журнал событий турнира",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "description": "Return events with seq greater than this", "name": "since", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Неверный since", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.TokenInput": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "models.ScorePair": {
            "type": "object",
            "properties": {"home": {"type": "integer"}, "away": {"type": "integer"}}
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "group_count": {"type": "integer"},
                "teams": {"type": "array", "items": {"type": "string"}}
            }
        },
        "services.MatchResultInput": {
            "type": "object",
            "properties": {
                "home_score": {"type": "integer"},
                "away_score": {"type": "integer"},
                "extra_time": {"$ref": "#/definitions/models.ScorePair"},
                "penalties": {"$ref": "#/definitions/models.ScorePair"}
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
	Title:            "Knockout Cup API",
	Description:      "Group stage and knockout bracket progression for football-style cups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
