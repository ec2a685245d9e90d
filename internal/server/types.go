package server

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github-search-mcp/internal/tool"
)

type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type ListToolsResponse struct {
	Tools []Tool `json:"tools"`
}

type CallRequest struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"arguments"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type CallResponse struct {
	Content []Content     `json:"content"`
	IsError bool          `json:"isError"`
	Error   *tool.Failure `json:"error,omitempty"`
}
