// Package pipefy implements the Pipefy operations on top of the shared
// GraphQL client: pipe and card services plus a facade that exposes them
// as one flat surface.
package pipefy

import (
	"context"
	"strings"
)

// Executor runs one GraphQL document. *graphql.Client implements it; the
// same instance is shared by every service.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error)
}

// CardSearch filters get_cards. Nil fields are left out of the request.
type CardSearch struct {
	AssigneeIDs     []string `json:"assignee_ids,omitempty"`
	IgnoreIDs       []string `json:"ignore_ids,omitempty"`
	LabelIDs        []string `json:"label_ids,omitempty"`
	Title           *string  `json:"title,omitempty"`
	InboxEmailsRead *bool    `json:"inbox_emails_read,omitempty"`
	IncludeDone     *bool    `json:"include_done,omitempty"`
}

// Variables renders the search as the CardSearch input object.
func (s *CardSearch) Variables() map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	if s.AssigneeIDs != nil {
		out["assignee_ids"] = s.AssigneeIDs
	}
	if s.IgnoreIDs != nil {
		out["ignore_ids"] = s.IgnoreIDs
	}
	if s.LabelIDs != nil {
		out["label_ids"] = s.LabelIDs
	}
	if s.Title != nil {
		out["title"] = *s.Title
	}
	if s.InboxEmailsRead != nil {
		out["inbox_emails_read"] = *s.InboxEmailsRead
	}
	if s.IncludeDone != nil {
		out["include_done"] = *s.IncludeDone
	}
	return out
}

// Field update operations accepted by updateFieldsValues.
const (
	OperationAdd     = "ADD"
	OperationRemove  = "REMOVE"
	OperationReplace = "REPLACE"
)

// FieldUpdate is one incremental change to a custom field.
type FieldUpdate struct {
	FieldID   string `json:"field_id"`
	Value     any    `json:"value"`
	Operation string `json:"operation,omitempty"`
}

// Map returns the loosely typed form accepted by UpdateCardInput.
func (u FieldUpdate) Map() map[string]any {
	m := map[string]any{"field_id": u.FieldID, "value": u.Value}
	if op := strings.TrimSpace(u.Operation); op != "" {
		m["operation"] = op
	}
	return m
}

// UpdateCardInput selects between the attribute mutation (title,
// assignees, labels, due date) and the incremental field mutation. Nil
// attributes are not sent.
type UpdateCardInput struct {
	CardID       int64
	Title        *string
	AssigneeIDs  []int64
	LabelIDs     []int64
	DueDate      *string
	FieldUpdates []map[string]any
}

// CardLink is the web URL of a card.
func CardLink(cardID string) string {
	return "https://app.pipefy.com/open-cards/" + cardID
}
