package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestCompleteTaskPrompt_Definition(t *testing.T) {
	def := NewCompleteTaskPrompt().Definition()
	if def.Name != "complete_task" {
		t.Errorf("Name = %s", def.Name)
	}
	if len(def.Arguments) != 2 {
		t.Fatalf("Arguments = %d, want 2", len(def.Arguments))
	}
	for _, arg := range def.Arguments {
		if !arg.Required {
			t.Errorf("argument %s should be required", arg.Name)
		}
	}
}

func TestCompleteTaskPrompt_Handle(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"pipe_name": "Support", "card_title": "Printer jam"}

	result, err := NewCompleteTaskPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(result.Messages) != 1 || result.Messages[0].Role != mcp.RoleUser {
		t.Fatalf("Messages = %+v", result.Messages)
	}
	text := result.Messages[0].Content.(mcp.TextContent).Text
	for _, want := range []string{`"Support"`, `"Printer jam"`, "search_pipes", "get_pipe", "get_cards", "move_card_to_phase"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt should mention %s:\n%s", want, text)
		}
	}
	if strings.Index(text, "search_pipes") > strings.Index(text, "move_card_to_phase") {
		t.Error("search_pipes must come before move_card_to_phase")
	}
}

func TestCompleteTaskPrompt_MissingArguments(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"pipe_name": "Support"}
	if _, err := NewCompleteTaskPrompt().Handle(context.Background(), req); err == nil {
		t.Error("expected error when card_title is missing")
	}
}
