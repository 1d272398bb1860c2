package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/models"
	"github.com/pipefy/pipefy-mcp/internal/pipefy"
	"github.com/spf13/cast"
)

// MsgNoCardsFound is added to find_cards results without edges.
const MsgNoCardsFound = "No cards found for this field/value."

// ─── create_card ────────────────────────────────────────────────────────────

// CreateCardTool handles create_card. When the client supports
// elicitation the user fills the start form interactively; otherwise the
// caller's fields are sent after dropping non-editable ids.
type CreateCardTool struct {
	api      PipefyAPI
	elicitor Elicitor
	logger   *slog.Logger
}

func NewCreateCardTool(api PipefyAPI, elicitor Elicitor, logger *slog.Logger) *CreateCardTool {
	return &CreateCardTool{api: api, elicitor: orNoElicitor(elicitor), logger: orDiscard(logger)}
}

func (t *CreateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("create_card",
		mcp.WithDescription(
			"Create a card in a pipe. Field values are keyed by field ID (see get_start_form_fields). "+
				"If the client supports it, the user is asked to fill in the start form, "+
				"with the given fields as defaults. The response includes card_link.",
		),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithObject("fields",
			mcp.Description("Field values keyed by field ID, e.g. {\"title\": \"Fix login\"}"),
		),
		mcp.WithBoolean("required_fields_only",
			mcp.Description("Only ask for required start form fields (default: false)"),
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)
}

func (t *CreateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := optionalMap(req, "fields")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	form, err := t.api.GetStartFormFields(ctx, pipeID, req.GetBool("required_fields_only", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get start form fields: %v", err)), nil
	}
	defs := models.EditableOnly(models.ParseFieldDefinitions(form["start_form_fields"]))

	var values map[string]any
	if len(defs) > 0 && t.elicitor.Supported(ctx) {
		values, err = elicitFields(ctx, t.elicitor, t.logger, "Fill in the fields to create the card.", defs, fields)
		switch {
		case errors.Is(err, ErrUserCancelled):
			return jsonResult(errorPayload("Card creation cancelled by user."))
		case err != nil:
			return jsonResult(errorPayload(err.Error()))
		}
	} else {
		values = models.FilterValues(fields, defs)
	}

	result, err := t.api.CreateCard(ctx, pipeID, values)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create card: %v", err)), nil
	}

	out := maps.Clone(result)
	if out == nil {
		out = map[string]any{}
	}
	if id := cast.ToString(dig(result, "createCard", "card", "id")); id != "" {
		out["card_link"] = pipefy.CardLink(id)
	}
	return jsonResult(out)
}

// ─── get_card ───────────────────────────────────────────────────────────────

// GetCardTool handles get_card.
type GetCardTool struct {
	api PipefyAPI
}

func NewGetCardTool(api PipefyAPI) *GetCardTool {
	return &GetCardTool{api: api}
}

func (t *GetCardTool) Definition() mcp.Tool {
	return mcp.NewTool("get_card",
		mcp.WithDescription("Get a card by its ID, with its current phase, assignees, labels and pipe."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithBoolean("include_fields",
			mcp.Description("Include the card's custom field values (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetCard(ctx, cardID, req.GetBool("include_fields", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get card: %v", err)), nil
	}
	return jsonResult(result)
}

// ─── get_cards ──────────────────────────────────────────────────────────────

// GetCardsTool handles get_cards.
type GetCardsTool struct {
	api PipefyAPI
}

func NewGetCardsTool(api PipefyAPI) *GetCardsTool {
	return &GetCardsTool{api: api}
}

func (t *GetCardsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_cards",
		mcp.WithDescription(
			"List the cards of a pipe. The optional search object filters by assignee_ids, "+
				"label_ids, title, ignore_ids, inbox_emails_read and include_done.",
		),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithObject("search",
			mcp.Description("Card search filter"),
			mcp.Properties(map[string]any{
				"assignee_ids":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"label_ids":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"ignore_ids":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"title":             map[string]any{"type": "string"},
				"inbox_emails_read": map[string]any{"type": "boolean"},
				"include_done":      map[string]any{"type": "boolean"},
			}),
		),
		mcp.WithBoolean("include_fields",
			mcp.Description("Include each card's custom field values (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *GetCardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := optionalMap(req, "search")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.GetCards(ctx, pipeID, parseCardSearch(raw), req.GetBool("include_fields", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get cards: %v", err)), nil
	}
	return jsonResult(result)
}

func parseCardSearch(raw map[string]any) *pipefy.CardSearch {
	if raw == nil {
		return nil
	}
	s := &pipefy.CardSearch{}
	if v, ok := raw["assignee_ids"]; ok && v != nil {
		s.AssigneeIDs = cast.ToStringSlice(v)
	}
	if v, ok := raw["label_ids"]; ok && v != nil {
		s.LabelIDs = cast.ToStringSlice(v)
	}
	if v, ok := raw["ignore_ids"]; ok && v != nil {
		s.IgnoreIDs = cast.ToStringSlice(v)
	}
	if v, ok := raw["title"]; ok && v != nil {
		title := cast.ToString(v)
		s.Title = &title
	}
	if v, ok := raw["inbox_emails_read"]; ok && v != nil {
		b := cast.ToBool(v)
		s.InboxEmailsRead = &b
	}
	if v, ok := raw["include_done"]; ok && v != nil {
		b := cast.ToBool(v)
		s.IncludeDone = &b
	}
	return s
}

// ─── find_cards ─────────────────────────────────────────────────────────────

// FindCardsTool handles find_cards.
type FindCardsTool struct {
	api PipefyAPI
}

func NewFindCardsTool(api PipefyAPI) *FindCardsTool {
	return &FindCardsTool{api: api}
}

func (t *FindCardsTool) Definition() mcp.Tool {
	return mcp.NewTool("find_cards",
		mcp.WithDescription("Find the cards of a pipe whose field equals a value."),
		mcp.WithNumber("pipe_id", mcp.Required(), mcp.Description("The ID of the pipe")),
		mcp.WithString("field_id", mcp.Required(), mcp.Description("The field ID to match")),
		mcp.WithString("field_value", mcp.Required(), mcp.Description("The value the field must equal")),
		mcp.WithBoolean("include_fields",
			mcp.Description("Include each card's custom field values (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *FindCardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeID, err := requireInt(req, "pipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := req.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError("'field_id' is required"), nil
	}
	fieldValue, err := req.RequireString("field_value")
	if err != nil {
		return mcp.NewToolResultError("'field_value' is required"), nil
	}

	result, err := t.api.FindCards(ctx, pipeID, fieldID, fieldValue, req.GetBool("include_fields", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to find cards: %v", err)), nil
	}

	if edges := cast.ToSlice(dig(result, "findCards", "edges")); len(edges) == 0 {
		result = maps.Clone(result)
		if result == nil {
			result = map[string]any{}
		}
		result["message"] = MsgNoCardsFound
	}
	return jsonResult(result)
}

// ─── move_card_to_phase ─────────────────────────────────────────────────────

// MoveCardToPhaseTool handles move_card_to_phase.
type MoveCardToPhaseTool struct {
	api PipefyAPI
}

func NewMoveCardToPhaseTool(api PipefyAPI) *MoveCardToPhaseTool {
	return &MoveCardToPhaseTool{api: api}
}

func (t *MoveCardToPhaseTool) Definition() mcp.Tool {
	return mcp.NewTool("move_card_to_phase",
		mcp.WithDescription("Move a card to another phase of its pipe. Phase IDs come from get_pipe."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithNumber("destination_phase_id", mcp.Required(), mcp.Description("The ID of the destination phase")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *MoveCardToPhaseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	phaseID, err := requireInt(req, "destination_phase_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.MoveCardToPhase(ctx, cardID, phaseID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move card: %v", err)), nil
	}
	return jsonResult(result)
}

// ─── update_card_field ──────────────────────────────────────────────────────

// UpdateCardFieldTool handles update_card_field.
type UpdateCardFieldTool struct {
	api PipefyAPI
}

func NewUpdateCardFieldTool(api PipefyAPI) *UpdateCardFieldTool {
	return &UpdateCardFieldTool{api: api}
}

func (t *UpdateCardFieldTool) Definition() mcp.Tool {
	return mcp.NewTool("update_card_field",
		mcp.WithDescription(
			"Replace the value of a single card field. For several fields, or to add or "+
				"remove items, use update_card with field_updates.",
		),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithString("field_id", mcp.Required(), mcp.Description("The field ID")),
		mcp.WithAny("new_value", mcp.Required(), mcp.Description("The new value")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *UpdateCardFieldTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := req.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError("'field_id' is required"), nil
	}
	newValue, ok := req.GetArguments()["new_value"]
	if !ok {
		return mcp.NewToolResultError("'new_value' is required"), nil
	}

	result, err := t.api.UpdateCardField(ctx, cardID, fieldID, newValue)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update card field: %v", err)), nil
	}
	return jsonResult(result)
}

// ─── update_card ────────────────────────────────────────────────────────────

// UpdateCardTool handles update_card.
type UpdateCardTool struct {
	api PipefyAPI
}

func NewUpdateCardTool(api PipefyAPI) *UpdateCardTool {
	return &UpdateCardTool{api: api}
}

func (t *UpdateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("update_card",
		mcp.WithDescription(
			"Update a card. With field_updates, custom fields are changed incrementally "+
				"(operation ADD, REMOVE or REPLACE, default REPLACE) and the other attributes are "+
				"ignored. Otherwise title, assignee_ids, label_ids and due_date are updated; "+
				"omitted attributes are left unchanged.",
		),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithString("title", mcp.Description("New card title")),
		mcp.WithArray("assignee_ids",
			mcp.Description("User IDs to assign (replaces current assignees)"),
			mcp.WithNumberItems(),
		),
		mcp.WithArray("label_ids",
			mcp.Description("Label IDs to set (replaces current labels)"),
			mcp.WithNumberItems(),
		),
		mcp.WithString("due_date", mcp.Description("Due date in ISO 8601 format")),
		mcp.WithArray("field_updates",
			mcp.Description("Incremental field changes: [{field_id, value, operation?}]"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"field_id":  map[string]any{"type": "string"},
					"value":     map[string]any{},
					"operation": map[string]any{"type": "string", "enum": []string{"ADD", "REMOVE", "REPLACE"}},
				},
				"required": []string{"field_id", "value"},
			}),
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)
}

func (t *UpdateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := parseUpdateCard(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.api.UpdateCard(ctx, in)
	var invalid *models.ValidationError
	switch {
	case errors.As(err, &invalid):
		return jsonResult(errorPayload(invalid.Error()))
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("failed to update card: %v", err)), nil
	}
	return jsonResult(result)
}

func parseUpdateCard(req mcp.CallToolRequest) (pipefy.UpdateCardInput, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return pipefy.UpdateCardInput{}, err
	}
	in := pipefy.UpdateCardInput{
		CardID:  cardID,
		Title:   optionalString(req, "title"),
		DueDate: optionalString(req, "due_date"),
	}
	if in.AssigneeIDs, err = optionalInts(req, "assignee_ids"); err != nil {
		return pipefy.UpdateCardInput{}, err
	}
	if in.LabelIDs, err = optionalInts(req, "label_ids"); err != nil {
		return pipefy.UpdateCardInput{}, err
	}

	if raw, ok := req.GetArguments()["field_updates"]; ok && raw != nil {
		items, err := cast.ToSliceE(raw)
		if err != nil {
			return pipefy.UpdateCardInput{}, errors.New("'field_updates' must be a list of objects")
		}
		for i, item := range items {
			m, err := cast.ToStringMapE(item)
			if err != nil {
				return pipefy.UpdateCardInput{}, fmt.Errorf("'field_updates' entry %d must be an object", i)
			}
			in.FieldUpdates = append(in.FieldUpdates, m)
		}
	}
	return in, nil
}
