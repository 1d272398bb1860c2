package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/models"
	"github.com/spf13/cast"
)

// Comment tools never return tool errors: every failure becomes
// {success: false, error} with a message picked by Classify.

// AddCardCommentTool handles add_card_comment.
type AddCardCommentTool struct {
	api PipefyAPI
}

func NewAddCardCommentTool(api PipefyAPI) *AddCardCommentTool {
	return &AddCardCommentTool{api: api}
}

func (t *AddCardCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_card_comment",
		mcp.WithDescription("Add a comment (1 to 1000 characters) to a card."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The comment text")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)
}

func (t *AddCardCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fail := func(err error) (*mcp.CallToolResult, error) {
		return jsonResult(errorPayload(Classify(err, addCommentRules, addCommentFallback)))
	}

	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return fail(err)
	}
	in := models.CommentInput{CardID: cardID, Text: req.GetString("text", "")}
	if err := in.Validate(); err != nil {
		return fail(err)
	}

	result, err := t.api.CreateComment(ctx, in.CardID, in.Text)
	if err != nil {
		return fail(err)
	}
	return jsonResult(map[string]any{
		"success":    true,
		"comment_id": cast.ToString(dig(result, "createComment", "comment", "id")),
	})
}

// UpdateCommentTool handles update_comment.
type UpdateCommentTool struct {
	api PipefyAPI
}

func NewUpdateCommentTool(api PipefyAPI) *UpdateCommentTool {
	return &UpdateCommentTool{api: api}
}

func (t *UpdateCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("update_comment",
		mcp.WithDescription("Replace the text of an existing comment (1 to 1000 characters)."),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("The ID of the comment")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The new comment text")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *UpdateCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fail := func(err error) (*mcp.CallToolResult, error) {
		return jsonResult(errorPayload(Classify(err, updateCommentRules, updateCommentFallback)))
	}

	commentID, err := requireInt(req, "comment_id")
	if err != nil {
		return fail(err)
	}
	in := models.UpdateCommentInput{CommentID: commentID, Text: req.GetString("text", "")}
	if err := in.Validate(); err != nil {
		return fail(err)
	}

	result, err := t.api.UpdateComment(ctx, in.CommentID, in.Text)
	if err != nil {
		return fail(err)
	}
	return jsonResult(map[string]any{
		"success":    true,
		"comment_id": cast.ToString(dig(result, "updateComment", "comment", "id")),
	})
}

// DeleteCommentTool handles delete_comment.
type DeleteCommentTool struct {
	api    PipefyAPI
	logger *slog.Logger
}

func NewDeleteCommentTool(api PipefyAPI, logger *slog.Logger) *DeleteCommentTool {
	return &DeleteCommentTool{api: api, logger: orDiscard(logger)}
}

func (t *DeleteCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_comment",
		mcp.WithDescription("Permanently delete a comment."),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("The ID of the comment")),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *DeleteCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fail := func(err error) (*mcp.CallToolResult, error) {
		return jsonResult(errorPayload(Classify(err, deleteCommentRules, deleteCommentFallback)))
	}

	commentID, err := requireInt(req, "comment_id")
	if err != nil {
		return fail(err)
	}
	in := models.DeleteCommentInput{CommentID: commentID}
	if err := in.Validate(); err != nil {
		return fail(err)
	}

	result, err := t.api.DeleteComment(ctx, in.CommentID)
	if err != nil {
		return fail(err)
	}
	if !cast.ToBool(dig(result, "deleteComment", "success")) {
		return jsonResult(errorPayload(deleteCommentFallback))
	}

	t.logger.Info("comment deleted", "comment_id", in.CommentID)
	return jsonResult(map[string]any{"success": true})
}
