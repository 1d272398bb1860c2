// Package resources implements MCP resource templates for Pipefy.
//
// Resources provide read-only data that the host can attach as context.
// They use URI-based addressing (pipefy://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// Reader is the subset of the Pipefy client the resources read from.
type Reader interface {
	GetPipe(ctx context.Context, pipeID int64) (map[string]any, error)
	GetCard(ctx context.Context, cardID int64, includeFields bool) (map[string]any, error)
}

// Handler manages the pipefy:// resource templates.
type Handler struct {
	reader Reader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// PipeTemplate returns the template for a pipe's structure.
func (h *Handler) PipeTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"pipefy://pipes/{pipe_id}",
		"Pipefy Pipe",
		mcp.WithTemplateDescription("A pipe with its phases, labels and start form fields"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// CardTemplate returns the template for a card with its field values.
func (h *Handler) CardTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"pipefy://cards/{card_id}",
		"Pipefy Card",
		mcp.WithTemplateDescription("A card with its current phase, assignees, labels and field values"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandlePipe returns get_pipe output for the pipe in the URI.
func (h *Handler) HandlePipe(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	pipeID, err := idArgument(req, "pipe_id", "pipefy://pipes/")
	if err != nil {
		return nil, err
	}
	result, err := h.reader.GetPipe(ctx, pipeID)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, result)
}

// HandleCard returns get_card output, including field values, for the
// card in the URI.
func (h *Handler) HandleCard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cardID, err := idArgument(req, "card_id", "pipefy://cards/")
	if err != nil {
		return nil, err
	}
	result, err := h.reader.GetCard(ctx, cardID, true)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, result)
}

// idArgument reads a numeric template variable, falling back to the
// URI suffix after prefix when the server did not fill Arguments.
func idArgument(req mcp.ReadResourceRequest, name, prefix string) (int64, error) {
	var raw string
	switch v := req.Params.Arguments[name].(type) {
	case []string:
		if len(v) > 0 {
			raw = v[0]
		}
	case nil:
	default:
		raw = cast.ToString(v)
	}
	if raw == "" {
		raw = strings.TrimPrefix(req.Params.URI, prefix)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s in %q", name, req.Params.URI)
	}
	return id, nil
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
