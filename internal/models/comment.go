// Package models validates the inputs tools accept before anything is
// sent upstream: comment text and ids, and card forms described by a
// pipe's field definitions.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCommentTextLength is the longest comment Pipefy accepts.
const MaxCommentTextLength = 1000

// ValidationError reports malformed tool input. Its message is safe to
// show to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// CommentInput is a new comment on a card.
type CommentInput struct {
	CardID int64
	Text   string
}

// Validate checks the card id and text invariants.
func (c CommentInput) Validate() error {
	if err := PositiveID("card_id", c.CardID); err != nil {
		return err
	}
	return validateCommentText(c.Text)
}

// UpdateCommentInput replaces the text of an existing comment.
type UpdateCommentInput struct {
	CommentID int64
	Text      string
}

// Validate checks the comment id and text invariants.
func (c UpdateCommentInput) Validate() error {
	if err := PositiveID("comment_id", c.CommentID); err != nil {
		return err
	}
	return validateCommentText(c.Text)
}

// DeleteCommentInput removes a comment.
type DeleteCommentInput struct {
	CommentID int64
}

// Validate checks the comment id.
func (c DeleteCommentInput) Validate() error {
	return PositiveID("comment_id", c.CommentID)
}

// PositiveID rejects ids that are zero or negative.
func PositiveID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "must be a positive integer"}
	}
	return nil
}

func validateCommentText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Field: "text", Reason: "must not be blank"}
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentTextLength {
		return &ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("must be at most %d characters", MaxCommentTextLength),
		}
	}
	return nil
}
