package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/graphql"
	"github.com/spf13/cast"
)

const (
	msgInvalidCardID     = "Invalid 'card_id'. Please provide a positive integer."
	msgDeleteCancelled   = "Card deletion cancelled by user."
	confirmFieldDescribe = "Set to true to confirm deletion, or false to cancel."
)

// DeleteCardTool handles delete_card. Deletion is irreversible, so the
// user must confirm: through an elicitation form when the client supports
// it, or by calling again with confirm=true after seeing the preview.
type DeleteCardTool struct {
	api      PipefyAPI
	elicitor Elicitor
	logger   *slog.Logger
}

func NewDeleteCardTool(api PipefyAPI, elicitor Elicitor, logger *slog.Logger) *DeleteCardTool {
	return &DeleteCardTool{api: api, elicitor: orNoElicitor(elicitor), logger: orDiscard(logger)}
}

func (t *DeleteCardTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_card",
		mcp.WithDescription(
			"Permanently delete a card. The user is asked to confirm first; clients without "+
				"interactive confirmation get a preview and must call again with confirm=true. "+
				"This cannot be undone.",
		),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card to delete")),
		mcp.WithBoolean("confirm",
			mcp.Description("Skip the preview and delete when the client cannot ask the user (default: false)"),
		),
		mcp.WithBoolean("debug",
			mcp.Description("Append raw GraphQL error codes and correlation id to error messages (default: false)"),
		),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
	)
}

func (t *DeleteCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil || cardID <= 0 {
		return jsonResult(errorPayload(msgInvalidCardID))
	}
	debug := req.GetBool("debug", false)
	confirm := req.GetBool("confirm", false)

	card, err := t.api.GetCard(ctx, cardID, false)
	if err != nil {
		codes := graphql.Codes(err)
		msg := deleteCardMessage(cardID, "", codes)
		if len(codes) == 0 {
			msg = fmt.Sprintf("Could not load card %d before deletion. Please try again or contact support.", cardID)
		}
		return jsonResult(errorPayload(withDebug(msg, debug, codes, graphql.CorrelationID(err))))
	}
	title := cast.ToString(dig(card, "card", "title"))
	pipeName := cast.ToString(dig(card, "card", "pipe", "name"))

	if t.elicitor.Supported(ctx) {
		if !t.confirmed(ctx, cardID, title, pipeName) {
			return jsonResult(errorPayload(msgDeleteCancelled))
		}
	} else if !confirm {
		return jsonResult(deletePreviewPayload(cardID, title, pipeName))
	}

	result, err := t.api.DeleteCard(ctx, cardID)
	if err != nil {
		codes := graphql.Codes(err)
		t.logger.Warn("delete card failed", "card_id", cardID, "codes", codes)
		msg := withDebug(deleteCardMessage(cardID, title, codes), debug, codes, graphql.CorrelationID(err))
		return jsonResult(errorPayload(msg))
	}
	if !cast.ToBool(dig(result, "deleteCard", "success")) {
		return jsonResult(errorPayload(deleteCardMessage(cardID, title, nil)))
	}

	t.logger.Info("card deleted", "card_id", cardID, "pipe", pipeName)
	return jsonResult(map[string]any{
		"success":    true,
		"card_id":    cardID,
		"card_title": title,
		"pipe_name":  pipeName,
		"message":    fmt.Sprintf("Card '%s' (ID: %d) from pipe '%s' has been permanently deleted.", title, cardID, pipeName),
	})
}

// confirmed asks the user to approve the deletion. Errors, declines and
// anything but an explicit confirm=true count as a refusal.
func (t *DeleteCardTool) confirmed(ctx context.Context, cardID int64, title, pipeName string) bool {
	message := fmt.Sprintf(
		"⚠️ You are about to permanently delete card '%s' (ID: %d) from pipe '%s'. This action is irreversible. Confirm?",
		title, cardID, pipeName,
	)
	res, err := t.elicitor.Elicit(ctx, message, confirmSchema())
	if err != nil {
		t.logger.Warn("delete confirmation failed", "card_id", cardID, "error", err)
		return false
	}
	return res.Action == ElicitAccept && cast.ToBool(res.Content["confirm"])
}

func confirmSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"confirm": map[string]any{
				"type":        "boolean",
				"title":       "Confirm",
				"description": confirmFieldDescribe,
			},
		},
		"required": []string{"confirm"},
	}
}

func deletePreviewPayload(cardID int64, title, pipeName string) map[string]any {
	return map[string]any{
		"success":               false,
		"requires_confirmation": true,
		"card_id":               cardID,
		"card_title":            title,
		"pipe_name":             pipeName,
		"message": fmt.Sprintf(
			"⚠️ You are about to permanently delete card '%s' (ID: %d) from pipe '%s'. "+
				"This action is irreversible. Set 'confirm=true' to proceed.",
			title, cardID, pipeName,
		),
	}
}

func errorPayload(message string) map[string]any {
	return map[string]any{"success": false, "error": message}
}
