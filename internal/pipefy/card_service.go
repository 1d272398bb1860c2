package pipefy

import (
	"context"

	"github.com/pipefy/pipefy-mcp/internal/queries"
)

// CardService creates, reads, moves and updates cards and their comments.
type CardService struct {
	exec Executor
}

// NewCardService creates a CardService on the shared executor.
func NewCardService(exec Executor) *CardService {
	return &CardService{exec: exec}
}

// CreateCard creates a card in pipeID. fields may be a field_id → value
// map or an already structured list; see ConvertFieldsToArray.
func (s *CardService) CreateCard(ctx context.Context, pipeID int64, fields any) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.CreateCard, map[string]any{
		"pipe_id": pipeID,
		"fields":  ConvertFieldsToArray(fields),
	})
}

// CreateComment adds a text comment to a card.
func (s *CardService) CreateComment(ctx context.Context, cardID int64, text string) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.CreateComment, map[string]any{
		"input": map[string]any{"card_id": cardID, "text": text},
	})
}

// UpdateComment replaces a comment's text.
func (s *CardService) UpdateComment(ctx context.Context, commentID int64, text string) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.UpdateComment, map[string]any{
		"input": map[string]any{"id": commentID, "text": text},
	})
}

// DeleteComment deletes a comment.
func (s *CardService) DeleteComment(ctx context.Context, commentID int64) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.DeleteComment, map[string]any{
		"input": map[string]any{"id": commentID},
	})
}

// DeleteCard permanently deletes a card.
func (s *CardService) DeleteCard(ctx context.Context, cardID int64) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.DeleteCard, map[string]any{
		"input": map[string]any{"id": cardID},
	})
}

// GetCard returns a card; includeFields adds its custom field values.
func (s *CardService) GetCard(ctx context.Context, cardID int64, includeFields bool) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.GetCard, map[string]any{
		"card_id":       cardID,
		"includeFields": includeFields,
	})
}

// GetCards lists the cards of a pipe. A nil search sends an empty filter
// object, never null.
func (s *CardService) GetCards(ctx context.Context, pipeID int64, search *CardSearch, includeFields bool) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.GetCards, map[string]any{
		"pipe_id":       pipeID,
		"search":        search.Variables(),
		"includeFields": includeFields,
	})
}

// FindCards lists the cards of a pipe whose fieldID equals fieldValue.
func (s *CardService) FindCards(ctx context.Context, pipeID int64, fieldID, fieldValue string, includeFields bool) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.FindCards, map[string]any{
		"pipeId":        pipeID,
		"search":        map[string]any{"fieldId": fieldID, "fieldValue": fieldValue},
		"includeFields": includeFields,
	})
}

// MoveCardToPhase moves a card to destinationPhaseID.
func (s *CardService) MoveCardToPhase(ctx context.Context, cardID, destinationPhaseID int64) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.MoveCardToPhase, map[string]any{
		"input": map[string]any{"card_id": cardID, "destination_phase_id": destinationPhaseID},
	})
}

// UpdateCardField replaces the value of one field.
func (s *CardService) UpdateCardField(ctx context.Context, cardID int64, fieldID string, newValue any) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.UpdateCardField, map[string]any{
		"input": map[string]any{"card_id": cardID, "field_id": fieldID, "new_value": newValue},
	})
}

// UpdateCard sends exactly one mutation: updateFieldsValues when
// FieldUpdates is non-empty, otherwise updateCard with the non-nil
// attributes.
func (s *CardService) UpdateCard(ctx context.Context, in UpdateCardInput) (map[string]any, error) {
	if len(in.FieldUpdates) > 0 {
		return s.updateFieldsValues(ctx, in.CardID, in.FieldUpdates)
	}
	return s.updateAttributes(ctx, in)
}

func (s *CardService) updateAttributes(ctx context.Context, in UpdateCardInput) (map[string]any, error) {
	input := map[string]any{"id": in.CardID}
	if in.Title != nil {
		input["title"] = *in.Title
	}
	if in.AssigneeIDs != nil {
		input["assignee_ids"] = in.AssigneeIDs
	}
	if in.LabelIDs != nil {
		input["label_ids"] = in.LabelIDs
	}
	if in.DueDate != nil {
		input["due_date"] = *in.DueDate
	}
	return s.exec.Execute(ctx, queries.UpdateCard, map[string]any{"input": input})
}

func (s *CardService) updateFieldsValues(ctx context.Context, cardID int64, values []map[string]any) (map[string]any, error) {
	formatted, err := ConvertValuesToCamelCase(values)
	if err != nil {
		return nil, err
	}
	return s.exec.Execute(ctx, queries.UpdateFieldsValues, map[string]any{
		"input": map[string]any{"nodeId": cardID, "values": formatted},
	})
}
