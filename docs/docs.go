// Package docs 由 swag 根据处理函数注释生成，重新生成: swag init -g cmd/server/main.go
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["页面"],
                "summary": "首页：匿名时返回注册提示，登录后返回时间线",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/signup": {
            "get": {
                "tags": ["认证"],
                "summary": "注册表单",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["认证"],
                "summary": "注册",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "邮箱", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "密码，至少 6 位", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "头像地址", "name": "image_url", "in": "formData"}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/login": {
            "get": {
                "tags": ["认证"],
                "summary": "登录表单",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["认证"],
                "summary": "登录",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "密码", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/logout": {
            "get": {"tags": ["认证"], "summary": "退出登录", "responses": {"302": {"description": "Found"}}}
        },
        "/users": {
            "get": {
                "tags": ["用户"],
                "summary": "用户搜索",
                "parameters": [{"type": "string", "description": "用户名关键字，空表示全部", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/users/{user_id}": {
            "get": {
                "tags": ["用户"],
                "summary": "用户主页：资料、计数与最新消息",
                "parameters": [{"type": "integer", "description": "用户ID", "name": "user_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/{user_id}/following": {
            "get": {
                "tags": ["关系链"],
                "summary": "查询关注列表",
                "parameters": [
                    {"type": "integer", "description": "用户ID", "name": "user_id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "每页数量", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/users/{user_id}/followers": {
            "get": {
                "tags": ["关系链"],
                "summary": "查询粉丝列表",
                "parameters": [
                    {"type": "integer", "description": "用户ID", "name": "user_id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "每页数量", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/users/follow/{follow_id}": {
            "post": {
                "tags": ["关系链"],
                "summary": "关注用户",
                "parameters": [{"type": "integer", "description": "被关注的用户ID", "name": "follow_id", "in": "path", "required": true}],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/users/stop-following/{follow_id}": {
            "post": {
                "tags": ["关系链"],
                "summary": "取消关注",
                "parameters": [{"type": "integer", "description": "被关注的用户ID", "name": "follow_id", "in": "path", "required": true}],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/users/profile": {
            "get": {"tags": ["用户"], "summary": "资料编辑表单", "responses": {"200": {"description": "OK"}}},
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["用户"],
                "summary": "修改资料",
                "parameters": [{"type": "string", "description": "当前密码", "name": "password", "in": "formData", "required": true}],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/users/delete": {
            "post": {"tags": ["用户"], "summary": "注销账号", "responses": {"302": {"description": "Found"}}}
        },
        "/messages/new": {
            "get": {"tags": ["消息"], "summary": "发消息表单", "responses": {"200": {"description": "OK"}}},
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["消息"],
                "summary": "发消息",
                "parameters": [{"type": "string", "description": "消息内容，最多 140 字", "name": "text", "in": "formData", "required": true}],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/messages/{message_id}": {
            "get": {
                "tags": ["消息"],
                "summary": "查看消息",
                "parameters": [{"type": "integer", "description": "消息ID", "name": "message_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/messages/{message_id}/delete": {
            "post": {
                "tags": ["消息"],
                "summary": "删除消息",
                "parameters": [{"type": "integer", "description": "消息ID", "name": "message_id", "in": "path", "required": true}],
                "responses": {"302": {"description": "Found"}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
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
	Title:            "Warbler API",
	Description:      "Warbler: users, messages and follows.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
