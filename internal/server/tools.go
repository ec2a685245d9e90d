package server

import (
	"context"
	"encoding/json"
	"errors"

	"github-search-mcp/internal/github"
	"github-search-mcp/internal/tool"
)

// GitHub is the subset of the GitHub client the tools call.
type GitHub interface {
	Search(ctx context.Context, p github.SearchParams) (json.RawMessage, error)
	GetUser(ctx context.Context, username string) (json.RawMessage, error)
}

// SearchSchema is the input of the search_github tool. The type field has no
// default here: the client decides what an absent type searches.
var SearchSchema = tool.Schema{
	Name:        "search_github",
	Description: "Search GitHub for repositories, code, issues or users",
	Fields: []tool.Field{
		{Name: "query", Type: tool.String, Required: true, Description: "Search keywords matched against GitHub content"},
		{Name: "page", Type: tool.Number, Default: 1, Description: "Page number of the results to fetch"},
		{Name: "perPage", Type: tool.Number, Default: 30, Description: "Number of results per page"},
		{Name: "type", Type: tool.Enum, Enum: github.SearchTypes, Description: "What to search: repositories, code, issues or users (default repositories)"},
	},
}

// UserInfoSchema is the input of the get_github_user tool.
var UserInfoSchema = tool.Schema{
	Name:        "get_github_user",
	Description: "Get the profile of a GitHub user",
	Fields: []tool.Field{
		{Name: "username", Type: tool.String, Required: true, Description: "GitHub login of the user"},
	},
}

// RegisterGitHubTools registers search_github and get_github_user on reg.
func RegisterGitHubTools(reg *tool.Registry, gh GitHub) error {
	if err := reg.Register(SearchSchema, searchHandler(gh)); err != nil {
		return err
	}
	return reg.Register(UserInfoSchema, userHandler(gh))
}

func searchHandler(gh GitHub) tool.Handler {
	return func(ctx context.Context, args tool.Args) (any, error) {
		body, err := gh.Search(ctx, github.SearchParams{
			Query:   args.StringValue("query"),
			Page:    args.NumberValue("page"),
			PerPage: args.NumberValue("perPage"),
			Type:    args.StringValue("type"),
		})
		if err != nil {
			return nil, remoteFailure(err)
		}
		return body, nil
	}
}

func userHandler(gh GitHub) tool.Handler {
	return func(ctx context.Context, args tool.Args) (any, error) {
		body, err := gh.GetUser(ctx, args.StringValue("username"))
		if err != nil {
			return nil, remoteFailure(err)
		}
		return body, nil
	}
}

// remoteFailure maps client errors onto the failure taxonomy. Errors that are
// neither an HTTP status nor a network failure are left for the dispatcher.
func remoteFailure(err error) error {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return tool.RemoteAPIFailure(apiErr.StatusCode, apiErr.StatusText)
	}
	var transportErr *github.TransportError
	if errors.As(err, &transportErr) {
		return tool.TransportFailure(transportErr.Err)
	}
	return err
}
