// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the GraphQL client and the
// Pipefy services and injects them into the tools, prompts and resources.
// No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pipefy/pipefy-mcp/internal/config"
	"github.com/pipefy/pipefy-mcp/internal/graphql"
	"github.com/pipefy/pipefy-mcp/internal/pipefy"
	"github.com/pipefy/pipefy-mcp/internal/prompts"
	"github.com/pipefy/pipefy-mcp/internal/resources"
	"github.com/pipefy/pipefy-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. cfg must already be validated.
func New(cfg *config.Settings, logger *slog.Logger) (*server.MCPServer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}

	gql, err := graphql.NewClient(graphql.Options{
		Endpoint:     cfg.Pipefy.GraphQLURL,
		TokenURL:     cfg.Pipefy.OAuthURL,
		ClientID:     cfg.Pipefy.OAuthClient,
		ClientSecret: cfg.Pipefy.OAuthSecret,
		Schema:       schema,
		Logger:       logger.With("component", "graphql"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating graphql client: %w", err)
	}

	return build(pipefy.NewClient(gql), logger), nil
}

// build registers every component against one shared Pipefy client.
func build(api *pipefy.Client, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := server.NewMCPServer(
		"pipefy",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithElicitation(),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	elicitor := tools.NewServerElicitor(s)
	toolLogger := logger.With("component", "tools")

	// --- Register pipe tools ---

	getPipe := tools.NewGetPipeTool(api)
	s.AddTool(getPipe.Definition(), getPipe.Handle)

	getPipeMembers := tools.NewGetPipeMembersTool(api)
	s.AddTool(getPipeMembers.Definition(), getPipeMembers.Handle)

	getStartFormFields := tools.NewGetStartFormFieldsTool(api)
	s.AddTool(getStartFormFields.Definition(), getStartFormFields.Handle)

	getPhaseFields := tools.NewGetPhaseFieldsTool(api)
	s.AddTool(getPhaseFields.Definition(), getPhaseFields.Handle)

	searchPipes := tools.NewSearchPipesTool(api)
	s.AddTool(searchPipes.Definition(), searchPipes.Handle)

	// --- Register card tools ---

	createCard := tools.NewCreateCardTool(api, elicitor, toolLogger)
	s.AddTool(createCard.Definition(), createCard.Handle)

	getCard := tools.NewGetCardTool(api)
	s.AddTool(getCard.Definition(), getCard.Handle)

	getCards := tools.NewGetCardsTool(api)
	s.AddTool(getCards.Definition(), getCards.Handle)

	findCards := tools.NewFindCardsTool(api)
	s.AddTool(findCards.Definition(), findCards.Handle)

	moveCard := tools.NewMoveCardToPhaseTool(api)
	s.AddTool(moveCard.Definition(), moveCard.Handle)

	updateCardField := tools.NewUpdateCardFieldTool(api)
	s.AddTool(updateCardField.Definition(), updateCardField.Handle)

	updateCard := tools.NewUpdateCardTool(api)
	s.AddTool(updateCard.Definition(), updateCard.Handle)

	fillPhase := tools.NewFillCardPhaseFieldsTool(api, elicitor, toolLogger)
	s.AddTool(fillPhase.Definition(), fillPhase.Handle)

	deleteCard := tools.NewDeleteCardTool(api, elicitor, toolLogger)
	s.AddTool(deleteCard.Definition(), deleteCard.Handle)

	// --- Register comment tools ---

	addComment := tools.NewAddCardCommentTool(api)
	s.AddTool(addComment.Definition(), addComment.Handle)

	updateComment := tools.NewUpdateCommentTool(api)
	s.AddTool(updateComment.Definition(), updateComment.Handle)

	deleteComment := tools.NewDeleteCommentTool(api, toolLogger)
	s.AddTool(deleteComment.Definition(), deleteComment.Handle)

	// --- Register prompts ---

	completeTask := prompts.NewCompleteTaskPrompt()
	s.AddPrompt(completeTask.Definition(), completeTask.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(api)
	s.AddResourceTemplate(resourceHandler.PipeTemplate(), resourceHandler.HandlePipe)
	s.AddResourceTemplate(resourceHandler.CardTemplate(), resourceHandler.HandleCard)

	return s
}

// serverInstructions returns the system-level instructions that tell the
// host how to drive the Pipefy tools.
func serverInstructions() string {
	return `You have access to Pipefy, a workflow platform where work moves as
cards through the phases of a pipe.

## FINDING THINGS

- Use search_pipes to turn a pipe name into a pipe ID. Names are matched
  approximately, so small typos and missing accents still find the pipe.
- Use get_pipe to see a pipe's phases, labels and start form fields.
- Use get_cards to list or filter cards in a pipe, and find_cards to look a
  card up by the value of one field.

## CREATING AND UPDATING CARDS

- Call get_start_form_fields before create_card so you know which fields
  exist and which are required.
- create_card and fill_card_phase_fields may ask the user to fill in a form.
  Values you pass become the form defaults. If the user cancels, report it
  and do not retry on your own.
- Use update_card for title, assignees, labels or due date, or to change
  several fields at once. Use update_card_field for a single field.
- Use move_card_to_phase to move a card. Call get_phase_fields first if the
  target phase has required fields.

## DELETING

delete_card is permanent. When the client cannot show a confirmation form,
the first call returns a preview: show it to the user and call again with
confirm=true only after the user agrees.

## COMMENTS

add_card_comment, update_comment and delete_comment accept 1 to 1000
characters of text. Failures come back as {success: false, error} with a
message you can show to the user as is.`
}
