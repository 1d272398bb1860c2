package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/pipefy"
)

// GetPipeTool handles get_pipe.
type GetPipeTool struct {
	api PipefyAPI
}

func NewGetPipeTool(api PipefyAPI) *GetPipeTool {
	return &GetPipeTool{api: api}
}

func (t *GetPipeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_pipe",
		mcp.WithDescription(
			"Get a pipe by its ID, including its phases (in order), labels and start form fields. "+
				"Use the phase IDs from this response with move_card_to_phase.",
		),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetPipeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetPipe(ctx, pipeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get pipe: %v", err)), nil
	}
	return jsonResult(result)
}

// GetPipeMembersTool handles get_pipe_members.
type GetPipeMembersTool struct {
	api PipefyAPI
}

func NewGetPipeMembersTool(api PipefyAPI) *GetPipeMembersTool {
	return &GetPipeMembersTool{api: api}
}

func (t *GetPipeMembersTool) Definition() mcp.Tool {
	return mcp.NewTool("get_pipe_members",
		mcp.WithDescription("Get the members of a pipe. Use the user IDs as assignee_ids in update_card."),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetPipeMembersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetPipeMembers(ctx, pipeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get pipe members: %v", err)), nil
	}
	return jsonResult(result)
}

// GetStartFormFieldsTool handles get_start_form_fields.
type GetStartFormFieldsTool struct {
	api PipefyAPI
}

func NewGetStartFormFieldsTool(api PipefyAPI) *GetStartFormFieldsTool {
	return &GetStartFormFieldsTool{api: api}
}

func (t *GetStartFormFieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_start_form_fields",
		mcp.WithDescription(
			"Get the start form fields of a pipe: the fields filled in when a card is created. "+
				"Call this before create_card to know which field IDs to send.",
		),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithBoolean("required_only",
			mcp.Description("Return only required fields (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetStartFormFieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetStartFormFields(ctx, pipeID, req.GetBool("required_only", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get start form fields: %v", err)), nil
	}
	return jsonResult(result)
}

// GetPhaseFieldsTool handles get_phase_fields.
type GetPhaseFieldsTool struct {
	api PipefyAPI
}

func NewGetPhaseFieldsTool(api PipefyAPI) *GetPhaseFieldsTool {
	return &GetPhaseFieldsTool{api: api}
}

func (t *GetPhaseFieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_phase_fields",
		mcp.WithDescription(
			"Get the fields of a phase. Use the field IDs with update_card_field, "+
				"update_card(field_updates) or fill_card_phase_fields.",
		),
		mcp.WithNumber("phase_id", mcp.Required(), mcp.Description("The ID of the phase")),
		mcp.WithBoolean("required_only",
			mcp.Description("Return only required fields (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetPhaseFieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phaseID, err := requireInt(req, "phase_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetPhaseFields(ctx, phaseID, req.GetBool("required_only", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get phase fields: %v", err)), nil
	}
	return jsonResult(result)
}

// SearchPipesTool handles search_pipes.
type SearchPipesTool struct {
	api PipefyAPI
}

func NewSearchPipesTool(api PipefyAPI) *SearchPipesTool {
	return &SearchPipesTool{api: api}
}

func (t *SearchPipesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_pipes",
		mcp.WithDescription(
			"List the pipes of every organization you can access. With pipe_name, pipes are "+
				"fuzzy-matched (case and accent insensitive), scored 0-100 in match_score and "+
				"sorted best first; pipes below match_threshold are left out.",
		),
		mcp.WithString("pipe_name", mcp.Description("Pipe name to search for (optional)")),
		mcp.WithNumber("match_threshold",
			mcp.Description("Minimum match score from 0 to 100 (default: 70)"),
			mcp.Min(0),
			mcp.Max(100),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *SearchPipesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("pipe_name", ""))
	threshold := req.GetFloat("match_threshold", pipefy.DefaultMatchThreshold)
	if threshold < 0 || threshold > 100 {
		return mcp.NewToolResultError("'match_threshold' must be between 0 and 100"), nil
	}
	result, err := t.api.SearchPipes(ctx, name, threshold)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search pipes: %v", err)), nil
	}
	return jsonResult(result)
}
