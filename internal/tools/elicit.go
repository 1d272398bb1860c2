package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pipefy/pipefy-mcp/internal/models"
	"github.com/spf13/cast"
)

// ElicitAction is how the user answered an elicitation request.
type ElicitAction string

const (
	ElicitAccept  ElicitAction = "accept"
	ElicitDecline ElicitAction = "decline"
	ElicitCancel  ElicitAction = "cancel"
)

// ElicitResult carries the user's answer. Content is only meaningful
// when Action is ElicitAccept.
type ElicitResult struct {
	Action  ElicitAction
	Content map[string]any
}

// Elicitor asks the user for structured input through the MCP client.
type Elicitor interface {
	// Supported reports whether the calling session declared the
	// elicitation capability.
	Supported(ctx context.Context) bool
	Elicit(ctx context.Context, message string, schema map[string]any) (ElicitResult, error)
}

// ServerElicitor sends elicitation/create requests through an mcp-go
// server.
type ServerElicitor struct {
	srv *server.MCPServer
}

// NewServerElicitor creates an Elicitor bound to srv. srv must be built
// with server.WithElicitation().
func NewServerElicitor(srv *server.MCPServer) *ServerElicitor {
	return &ServerElicitor{srv: srv}
}

func (e *ServerElicitor) Supported(ctx context.Context) bool {
	session := server.ClientSessionFromContext(ctx)
	if session == nil {
		return false
	}
	if _, ok := session.(server.SessionWithElicitation); !ok {
		return false
	}
	info, ok := session.(server.SessionWithClientInfo)
	if !ok {
		return false
	}
	return info.GetClientCapabilities().Elicitation != nil
}

func (e *ServerElicitor) Elicit(ctx context.Context, message string, schema map[string]any) (ElicitResult, error) {
	res, err := e.srv.RequestElicitation(ctx, mcp.ElicitationRequest{
		Params: mcp.ElicitationParams{
			Message:         message,
			RequestedSchema: schema,
		},
	})
	if err != nil {
		return ElicitResult{}, fmt.Errorf("requesting elicitation: %w", err)
	}
	out := ElicitResult{Action: ElicitAction(res.Action)}
	if res.Content != nil {
		content, err := cast.ToStringMapE(res.Content)
		if err != nil {
			return ElicitResult{}, fmt.Errorf("unexpected elicitation content %T", res.Content)
		}
		out.Content = content
	}
	return out, nil
}

// noElicitor is used when the server runs without elicitation support.
type noElicitor struct{}

func (noElicitor) Supported(context.Context) bool { return false }

func (noElicitor) Elicit(context.Context, string, map[string]any) (ElicitResult, error) {
	return ElicitResult{}, fmt.Errorf("elicitation: %w", server.ErrElicitationNotSupported)
}

func orNoElicitor(e Elicitor) Elicitor {
	if e == nil {
		return noElicitor{}
	}
	return e
}

// elicitFields shows a form for defs, pre-filled with defaults, and
// returns the validated values. Anything but an accepted answer, including
// a failed round trip, is ErrUserCancelled. Rejected values are a
// *models.ValidationError.
func elicitFields(ctx context.Context, e Elicitor, logger *slog.Logger, message string, defs []models.FieldDefinition, defaults map[string]any) (map[string]any, error) {
	res, err := e.Elicit(ctx, message, models.Schema(defs, defaults))
	if err != nil {
		logger.Warn("field elicitation failed", "error", err)
		return nil, ErrUserCancelled
	}
	if res.Action != ElicitAccept {
		return nil, ErrUserCancelled
	}
	form := models.Validate(res.Content, defs)
	if err := form.Err(); err != nil {
		return nil, err
	}
	return form.Values, nil
}
