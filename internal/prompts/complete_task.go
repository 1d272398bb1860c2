// Package prompts implements MCP prompt handlers for Pipefy workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence of tool calls.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CompleteTaskPrompt handles the complete_task MCP prompt.
// It guides the AI to find a card and move it to the pipe's done phase.
type CompleteTaskPrompt struct{}

// NewCompleteTaskPrompt creates a CompleteTaskPrompt.
func NewCompleteTaskPrompt() *CompleteTaskPrompt {
	return &CompleteTaskPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CompleteTaskPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("complete_task",
		mcp.WithPromptDescription("Mark a task as complete by moving its card to the done phase."),
		mcp.WithArgument("pipe_name",
			mcp.ArgumentDescription("Name of the pipe that holds the task"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("card_title",
			mcp.ArgumentDescription("Title of the card to complete"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the complete_task prompt request.
func (p *CompleteTaskPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pipeName := strings.TrimSpace(req.Params.Arguments["pipe_name"])
	cardTitle := strings.TrimSpace(req.Params.Arguments["card_title"])
	if pipeName == "" || cardTitle == "" {
		return nil, fmt.Errorf("complete_task requires 'pipe_name' and 'card_title'")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Complete task %q in pipe %q", cardTitle, pipeName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Find the pipe named %q, then search for a card matching %q.\n\n"+
						"1. First, use `search_pipes` to find the pipe by name\n"+
						"2. Use `get_pipe` to get the pipe structure and identify the final/done phase. "+
						"When in doubt, show me the pipe structure and ask me to identify the final/done phase.\n"+
						"3. Use `get_cards` to find the card that matches the title %q\n"+
						"4. Use `move_card_to_phase` to move the card to the final phase\n"+
						"5. Confirm the card has been moved successfully",
					pipeName, cardTitle, cardTitle,
				)),
			},
		},
	}, nil
}
