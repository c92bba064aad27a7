package api

import (
	"encoding/json"
	"net/http"
)

const docsPage = `<!DOCTYPE html>
<html>
<head>
    <title>PowerShell Forge API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
            });
        };
    </script>
</body>
</html>`

// handleOpenAPI serves the interactive documentation page
func (s *APIServer) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsPage))
}

// handleOpenAPISpec serves the OpenAPI JSON specification
func (s *APIServer) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(getOpenAPISpec())
}

type object = map[string]interface{}

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func jsonBody(schema object) object {
	return object{
		"required": true,
		"content":  object{"application/json": object{"schema": schema}},
	}
}

func operation(summary string, body object, params ...object) object {
	op := object{
		"summary": summary,
		"responses": object{
			"200":     object{"description": "Success", "content": object{"application/json": object{"schema": ref("APIResponse")}}},
			"default": object{"description": "Error", "content": object{"application/json": object{"schema": ref("ErrorResponse")}}},
		},
	}
	if body != nil {
		op["requestBody"] = body
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func pathParam(name, description string, enum ...string) object {
	schema := object{"type": "string"}
	if len(enum) > 0 {
		schema["enum"] = enum
	}
	return object{"name": name, "in": "path", "required": true, "description": description, "schema": schema}
}

// getOpenAPISpec returns the OpenAPI 3.0 specification
func getOpenAPISpec() object {
	typeParam := pathParam("type", "Script buffer", "add", "launch", "remove")
	stringProp := object{"type": "string"}

	return object{
		"openapi": "3.0.3",
		"info": object{
			"title":       "PowerShell Forge API",
			"description": "Compose add, launch and remove PowerShell scripts from a command catalog",
			"version":     "1.0.0",
		},
		"servers": []object{{"url": "http://localhost:8080/api/v1"}},
		"paths": object{
			"/health": object{"get": operation("Service health", nil)},
			"/commands": object{
				"get": operation("List or search catalog commands", nil,
					object{"name": "q", "in": "query", "description": "Fuzzy search query", "schema": stringProp}),
				"post": operation("Add a custom command", jsonBody(ref("CustomCommandRequest"))),
			},
			"/commands/{id}": object{"get": operation("Get a command", nil, pathParam("id", "Command id"))},
			"/scripts":       object{"get": operation("List all scripts", nil)},
			"/scripts/{type}": object{
				"get": operation("Get a script", nil, typeParam,
					object{"name": "format", "in": "query", "schema": object{"type": "string", "enum": []string{"text", "markdown"}}}),
				"put": operation("Replace a script", jsonBody(object{"type": "object", "properties": object{"text": stringProp}}), typeParam),
			},
			"/scripts/{type}/insert": object{
				"post": operation("Append a catalog command", jsonBody(object{"type": "object", "properties": object{"commandId": stringProp}}), typeParam),
			},
			"/scripts/{type}/drop": object{
				"post": operation("Insert a dragged command", jsonBody(ref("DragPayload")), typeParam),
			},
			"/scripts/{type}/lines/{line}/parameters": object{
				"put": operation("Bind parameter values on a line",
					jsonBody(object{"type": "object", "properties": object{"values": object{"type": "object", "additionalProperties": stringProp}}}),
					typeParam, pathParam("line", "Zero-based line index")),
			},
			"/scripts/{type}/generate": object{
				"post": operation("Generate a script from a description",
					jsonBody(object{"type": "object", "properties": object{"description": stringProp}}), typeParam),
			},
			"/scripts/{type}/suggest": object{"post": operation("Refine the current script", nil, typeParam)},
			"/scripts/{type}/ai":      object{"delete": operation("Cancel a pending generation", nil, typeParam)},
			"/scripts/{type}/export":  object{"get": operation("Download the script as .ps1", nil, typeParam)},
			"/scripts/{type}/import": object{
				"post": operation("Replace the script with the request body",
					object{"required": true, "content": object{"text/plain": object{"schema": stringProp}}}, typeParam),
			},
			"/bundle": object{
				"get":  operation("Download all scripts as one JSON bundle", nil),
				"post": operation("Replace all scripts from a bundle", jsonBody(ref("Bundle"))),
			},
			"/settings/ai": object{
				"get": operation("Get the AI suggestions setting", nil),
				"put": operation("Change the AI suggestions setting",
					jsonBody(object{"type": "object", "properties": object{"enabled": object{"type": "boolean"}}})),
			},
		},
		"components": object{
			"schemas": object{
				"APIResponse": object{
					"type": "object",
					"properties": object{
						"success":   object{"type": "boolean"},
						"data":      object{},
						"message":   stringProp,
						"timestamp": object{"type": "string", "format": "date-time"},
					},
				},
				"CustomCommandRequest": object{
					"type": "object",
					"properties": object{
						"id":          stringProp,
						"name":        stringProp,
						"description": stringProp,
						"category":    stringProp,
						"parameters":  object{"type": "array", "items": stringProp},
					},
					"required": []string{"name"},
				},
				"DragPayload": object{
					"type": "object",
					"properties": object{
						"commandId": stringProp,
						"target":    object{"type": "string", "enum": []string{"add", "launch", "remove"}},
					},
					"required": []string{"commandId"},
				},
				"Bundle": object{
					"type":                 "object",
					"properties":           object{"add": stringProp, "launch": stringProp, "remove": stringProp},
					"required":             []string{"add", "launch", "remove"},
					"additionalProperties": false,
				},
				"ErrorResponse": object{
					"type": "object",
					"properties": object{
						"error": object{
							"type": "object",
							"properties": object{
								"code":      stringProp,
								"message":   stringProp,
								"category":  stringProp,
								"retryable": object{"type": "boolean"},
								"details":   stringProp,
								"context":   object{"type": "object"},
							},
							"required": []string{"code", "message"},
						},
					},
					"required": []string{"error"},
				},
			},
		},
	}
}
