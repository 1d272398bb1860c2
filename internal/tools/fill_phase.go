package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pipefy/pipefy-mcp/internal/models"
	"github.com/pipefy/pipefy-mcp/internal/pipefy"
)

// MsgNoFieldsToUpdate is returned instead of calling the API when no
// field value was selected.
const MsgNoFieldsToUpdate = "No fields to update."

// FillCardPhaseFieldsTool handles fill_card_phase_fields: the create_card
// form flow applied to the fields of one phase of an existing card.
type FillCardPhaseFieldsTool struct {
	api      PipefyAPI
	elicitor Elicitor
	logger   *slog.Logger
}

func NewFillCardPhaseFieldsTool(api PipefyAPI, elicitor Elicitor, logger *slog.Logger) *FillCardPhaseFieldsTool {
	return &FillCardPhaseFieldsTool{api: api, elicitor: orNoElicitor(elicitor), logger: orDiscard(logger)}
}

func (t *FillCardPhaseFieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("fill_card_phase_fields",
		mcp.WithDescription(
			"Fill in the fields of a phase on a card. If the client supports it, the user is "+
				"asked to fill in the phase form, with the given fields as defaults. Only "+
				"editable fields of the phase are sent.",
		),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The ID of the card")),
		mcp.WithNumber("phase_id", mcp.Required(), mcp.Description("The ID of the phase whose fields are filled")),
		mcp.WithObject("fields",
			mcp.Description("Field values keyed by field ID"),
		),
		mcp.WithBoolean("required_only",
			mcp.Description("Only ask for required phase fields (default: false)"),
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *FillCardPhaseFieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireInt(req, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	phaseID, err := requireInt(req, "phase_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := optionalMap(req, "fields")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	phase, err := t.api.GetPhaseFields(ctx, phaseID, req.GetBool("required_only", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get phase fields: %v", err)), nil
	}
	defs := models.EditableOnly(models.ParseFieldDefinitions(phase["fields"]))

	var values map[string]any
	if len(defs) > 0 && t.elicitor.Supported(ctx) {
		message := fmt.Sprintf("Fill in the fields of phase '%v'.", phase["phase_name"])
		values, err = elicitFields(ctx, t.elicitor, t.logger, message, defs, fields)
		switch {
		case errors.Is(err, ErrUserCancelled):
			return jsonResult(errorPayload("Filling phase fields cancelled by user."))
		case err != nil:
			return jsonResult(errorPayload(err.Error()))
		}
	} else {
		values = models.FilterValues(fields, defs)
	}

	if len(values) == 0 {
		return jsonResult(map[string]any{"success": false, "message": MsgNoFieldsToUpdate})
	}

	result, err := t.api.UpdateCard(ctx, pipefy.UpdateCardInput{
		CardID:       cardID,
		FieldUpdates: fieldUpdates(values),
	})
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		return jsonResult(errorPayload(invalid.Error()))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update phase fields: %v", err)), nil
	}
	return jsonResult(result)
}
