package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for octoscope resources.
	uriScheme = "octoscope://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "hot",
		Name:        "hot",
		Description: "First page of this week's hot repositories",
		MIMEType:    "application/json",
	}, s.handleHotResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "repos/{owner}/{name}",
		Name:        "repository",
		Description: "A single repository with its star state",
		MIMEType:    "application/json",
	}, s.handleRepoResource)
}

// handleHotResource returns the first page of hot repositories.
func (s *Server) handleHotResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	result, err := s.ports.Repos.Hot(ctx, 1, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("listing hot repositories: %w", err)
	}
	return jsonResource(req.Params.URI, reposOutput(result, 1))
}

// handleRepoResource returns one repository.
func (s *Server) handleRepoResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractRepoName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	repo, err := s.loadRepository(ctx, name)
	if errors.Is(err, ErrDetailUnavailable) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, repoOutput(repo, true))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRepoName extracts "owner/name" from a URI like
// octoscope://repos/{owner}/{name}.
func extractRepoName(uri string) string {
	const prefix = uriScheme + "repos/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if _, err := domain.ParseRepoRef(name); err != nil {
		return ""
	}
	return name
}
