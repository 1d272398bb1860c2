// Package tools implements the MCP tool handlers that expose Pipefy.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() for registration and Handle() as
// the mcp-go CallToolRequest handler.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/pipefy"
	"github.com/spf13/cast"
)

// ErrUserCancelled is returned when the user declines or dismisses an
// interactive form.
var ErrUserCancelled = errors.New("user cancelled")

// PipefyAPI is the facade surface the tools depend on. *pipefy.Client
// implements it.
type PipefyAPI interface {
	GetPipe(ctx context.Context, pipeID int64) (map[string]any, error)
	GetPipeMembers(ctx context.Context, pipeID int64) (map[string]any, error)
	GetStartFormFields(ctx context.Context, pipeID int64, requiredOnly bool) (map[string]any, error)
	GetPhaseFields(ctx context.Context, phaseID int64, requiredOnly bool) (map[string]any, error)
	SearchPipes(ctx context.Context, pipeName string, threshold float64) (map[string]any, error)

	CreateCard(ctx context.Context, pipeID int64, fields any) (map[string]any, error)
	GetCard(ctx context.Context, cardID int64, includeFields bool) (map[string]any, error)
	GetCards(ctx context.Context, pipeID int64, search *pipefy.CardSearch, includeFields bool) (map[string]any, error)
	FindCards(ctx context.Context, pipeID int64, fieldID, fieldValue string, includeFields bool) (map[string]any, error)
	MoveCardToPhase(ctx context.Context, cardID, destinationPhaseID int64) (map[string]any, error)
	UpdateCardField(ctx context.Context, cardID int64, fieldID string, newValue any) (map[string]any, error)
	UpdateCard(ctx context.Context, in pipefy.UpdateCardInput) (map[string]any, error)
	DeleteCard(ctx context.Context, cardID int64) (map[string]any, error)

	CreateComment(ctx context.Context, cardID int64, text string) (map[string]any, error)
	UpdateComment(ctx context.Context, commentID int64, text string) (map[string]any, error)
	DeleteComment(ctx context.Context, commentID int64) (map[string]any, error)
}

var _ PipefyAPI = (*pipefy.Client)(nil)

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// jsonResult wraps v as both text and structured tool content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	res, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return res, nil
}

// requireInt reads a required integer argument. JSON numbers arrive as
// float64; numeric strings are accepted too.
func requireInt(req mcp.CallToolRequest, key string) (int64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be an integer", key)
	}
	return n, nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int64(x), nil
	}
	return cast.ToInt64E(v)
}

// optionalInts reads an optional list of integers. A missing key yields
// nil so the attribute is left out of the mutation.
func optionalInts(req mcp.CallToolRequest, key string) ([]int64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("'%s' must be a list of integers", key)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := toInt64(item)
		if err != nil {
			return nil, fmt.Errorf("'%s' must be a list of integers", key)
		}
		out = append(out, n)
	}
	return out, nil
}

// optionalString returns nil when key is absent.
func optionalString(req mcp.CallToolRequest, key string) *string {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil
	}
	s := cast.ToString(raw)
	return &s
}

// optionalMap reads an optional object argument.
func optionalMap(req mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("'%s' must be an object", key)
	}
	return m, nil
}

// fieldUpdates turns a field_id → value map into REPLACE updates ordered
// by field id.
func fieldUpdates(values map[string]any) []map[string]any {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, pipefy.FieldUpdate{FieldID: k, Value: values[k]}.Map())
	}
	return out
}

// dig walks nested maps by key and returns nil when any step is missing.
func dig(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = next[k]
	}
	return cur
}
