// Package docs feedtagger API
//
// feedtagger ingests syndication feeds, keeps the items that match an
// operator-maintained keyword set and serves them back filtered by tag.
//
//	Schemes: http, https
//	Host: localhost:8080
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs

import "github.com/swaggo/swag"

// @title feedtagger API
// @version 1.0
// @description Keyword-tagged feed ingestion and tag-filtered article queries

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "feedtagger API",
	Description:      "Keyword-tagged feed ingestion and tag-filtered article queries",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        }
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/keywords": {
            "get": {
                "tags": ["Keywords"],
                "summary": "List Keywords",
                "description": "Returns every stored keyword in its lower-cased form, sorted",
                "operationId": "listKeywords",
                "responses": {
                    "200": {
                        "description": "Keyword values",
                        "schema": {"type": "array", "items": {"type": "string"}, "example": ["hypersonic", "quantum computing"]}
                    }
                }
            },
            "post": {
                "tags": ["Keywords"],
                "summary": "Add Keywords",
                "description": "Adds one keyword or a batch. Values are trimmed and lower-cased; values already stored are reported as skipped",
                "operationId": "addKeywords",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/KeywordsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Per-item outcome", "schema": {"$ref": "#/definitions/KeywordAddResult"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Keywords"],
                "summary": "Remove Keywords",
                "description": "Removes a batch of keywords, case-insensitively",
                "operationId": "removeKeywords",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/KeywordsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Per-item outcome", "schema": {"$ref": "#/definitions/RemoveResult"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/keywords/{value}": {
            "delete": {
                "tags": ["Keywords"],
                "summary": "Remove Keyword",
                "description": "Removes a single keyword given in the path (percent-encode spaces)",
                "operationId": "removeKeyword",
                "parameters": [
                    {"name": "value", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Per-item outcome", "schema": {"$ref": "#/definitions/RemoveResult"}},
                    "400": {"description": "Empty keyword", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/articles": {
            "get": {
                "tags": ["Articles"],
                "summary": "Query Articles",
                "description": "Returns one page of articles, newest first with undated articles last. Articles matching any requested tag are returned",
                "operationId": "queryArticles",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer", "default": 1, "minimum": 1},
                    {"name": "page_size", "in": "query", "type": "integer", "default": 10, "minimum": 1, "maximum": 100},
                    {
                        "name": "tags",
                        "in": "query",
                        "type": "array",
                        "items": {"type": "string"},
                        "collectionFormat": "multi",
                        "description": "Repeat the parameter or pass a comma-joined list"
                    }
                ],
                "responses": {
                    "200": {"description": "One page of articles", "schema": {"$ref": "#/definitions/ArticlePage"}},
                    "400": {"description": "Invalid pagination", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/tags": {
            "get": {
                "tags": ["Tags"],
                "summary": "List Tags",
                "description": "Returns the canonical vocabulary when one is saved, else the tags observed on articles. The X-Tag-Source header reports which",
                "operationId": "listTags",
                "parameters": [
                    {"name": "include_has_articles", "in": "query", "type": "boolean", "default": false}
                ],
                "responses": {
                    "200": {
                        "description": "Tag strings, or tag objects when include_has_articles is set",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/TagInfo"}}
                    }
                }
            },
            "put": {
                "tags": ["Tags"],
                "summary": "Replace Tags",
                "description": "Replaces the canonical vocabulary wholesale. Order and duplicates are kept; quote characters are stripped",
                "operationId": "replaceTags",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TagsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Saved vocabulary", "schema": {"$ref": "#/definitions/TagsRequest"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Tags"],
                "summary": "Remove Tags",
                "description": "Removes tags from the canonical vocabulary, case-insensitively",
                "operationId": "removeTags",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TagsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Per-item outcome", "schema": {"$ref": "#/definitions/RemoveResult"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/ingest/run": {
            "post": {
                "tags": ["Ingestion"],
                "summary": "Run Ingestion",
                "description": "Runs one ingestion pass synchronously and returns its outcome",
                "operationId": "runIngestion",
                "responses": {
                    "200": {"description": "Run outcome", "schema": {"$ref": "#/definitions/RunResult"}},
                    "409": {"description": "A run is already in progress", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/ingest/status": {
            "get": {
                "tags": ["Ingestion"],
                "summary": "Ingestion Status",
                "operationId": "ingestionStatus",
                "responses": {
                    "200": {
                        "description": "Poller state and the last run",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "is_polling": {"type": "boolean"},
                                "is_running": {"type": "boolean"},
                                "last_run": {"$ref": "#/definitions/RunResult"}
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "KeywordsRequest": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}}
            }
        },
        "KeywordAddResult": {
            "type": "object",
            "properties": {
                "added": {"type": "array", "items": {"type": "string"}},
                "skipped": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RemoveResult": {
            "type": "object",
            "properties": {
                "removed": {"type": "array", "items": {"type": "string"}},
                "not_found": {"type": "array", "items": {"type": "string"}}
            }
        },
        "TagsRequest": {
            "type": "object",
            "properties": {
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "TagInfo": {
            "type": "object",
            "properties": {
                "tag": {"type": "string"},
                "has_articles": {"type": "boolean"}
            }
        },
        "Article": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "published_date": {"type": "string", "format": "date-time", "x-nullable": true},
                "summary": {"type": "string"},
                "source": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ArticlePage": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "articles": {"type": "array", "items": {"$ref": "#/definitions/Article"}}
            }
        },
        "SourceFailure": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "RunResult": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string", "format": "uuid"},
                "status": {"type": "string", "enum": ["committed", "rolled_back"]},
                "added": {"type": "integer"},
                "sources": {"type": "integer"},
                "failed_sources": {"type": "array", "items": {"$ref": "#/definitions/SourceFailure"}},
                "started_at": {"type": "string", "format": "date-time"},
                "finished_at": {"type": "string", "format": "date-time"},
                "error": {"type": "string"}
            }
        }
    },
    "tags": [
        {"name": "Keywords", "description": "Match term management"},
        {"name": "Articles", "description": "Tag-filtered article queries"},
        {"name": "Tags", "description": "Tag vocabulary"},
        {"name": "Ingestion", "description": "Ingestion trigger and status"}
    ]
}`
