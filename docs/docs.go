// Package docs registers the OpenAPI description served under /swagger.
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
        "/": {
            "get": {"tags": ["home"], "summary": "Home view", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/category/{id}": {
            "get": {
                "tags": ["home"],
                "summary": "Category page, deals discounted by at least 5%",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/search": {
            "get": {
                "tags": ["search"],
                "summary": "Search deals, merchants and categories",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "enum": ["relevance", "discount", "new"], "name": "sort", "in": "query"},
                    {"type": "array", "items": {"type": "integer"}, "collectionFormat": "multi", "name": "category", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/deal/create": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Create a deal (partner or admin)",
                "consumes": ["application/json"],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Caller may not change the catalog"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deal/{id}": {
            "get": {
                "tags": ["deals"],
                "summary": "Deal detail",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Partial update, invalid values keep the stored ones",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/deal/{id}/edit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Replace a deal with a validated form (partner or admin)",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "303": {"description": "Caller may not change the catalog"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deal/{id}/delete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Delete a deal with its coupons, favorites and category links",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "303": {"description": "Caller may not change the catalog"}}
            }
        },
        "/deal/{id}/update_all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Partial update from form fields",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deal/{id}/update_description": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Update only the description of a deal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deal/{id}/image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["deals"],
                "summary": "Upload the deal image",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deal/{id}/favorite": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["favorites"],
                "summary": "Add or remove a deal from the caller's favorites",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "303": {"description": "Back to the referring page"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}
            }
        },
        "/deal/{id}/coupons": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["coupons"],
                "summary": "Issue a coupon on a deal for the caller",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/favorites": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["favorites"], "summary": "Favorite deals of the caller, most recent first", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/coupons": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["coupons"], "summary": "Coupons held by the caller", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/coupons/{code}/redeem": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["coupons"],
                "summary": "Redeem an active coupon",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
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
	Title:            "Discounts API",
	Description:      "Deals catalog with search, favorites and coupons.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
