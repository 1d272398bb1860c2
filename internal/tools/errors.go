package tools

import (
	"fmt"
	"strings"

	"github.com/pipefy/pipefy-mcp/internal/graphql"
)

// Rule maps an error to a user-facing message when Match accepts the
// lower-cased error text.
type Rule struct {
	Match   func(text string) bool
	Message string
}

// Classify returns the message of the first matching rule, or fallback.
func Classify(err error, rules []Rule, fallback string) string {
	text := strings.ToLower(strings.Join(graphql.Messages(err), " "))
	for _, r := range rules {
		if r.Match(text) {
			return r.Message
		}
	}
	return fallback
}

func containsAny(markers ...string) func(string) bool {
	return func(text string) bool {
		for _, m := range markers {
			if strings.Contains(text, m) {
				return true
			}
		}
		return false
	}
}

var (
	notFoundMarkers = containsAny(
		"not found", "record not found", "could not find", "does not exist", "doesn't exist",
	)
	permissionMarkers = containsAny(
		"permission", "not authorized", "unauthorized", "forbidden", "access denied", "not allowed",
	)
	invalidMarkers = containsAny(
		"invalid", "validation", "must be", "can't be", "cannot be", "required", "blank",
	)
	invalidMarkersNoBlank = containsAny(
		"invalid", "validation", "must be", "can't be", "cannot be", "required",
	)
)

// commentRules builds the not-found → permission → invalid ladder shared
// by the comment tools.
func commentRules(notFound, permission, invalid string, invalidMatch func(string) bool) []Rule {
	return []Rule{
		{Match: notFoundMarkers, Message: notFound},
		{Match: permissionMarkers, Message: permission},
		{Match: invalidMatch, Message: invalid},
	}
}

var (
	addCommentRules = commentRules(
		"Card not found. Please verify 'card_id' and access permissions.",
		"You don't have permission to comment on this card.",
		"Invalid input. Please provide a valid 'card_id' and non-empty 'text'.",
		invalidMarkers,
	)
	updateCommentRules = commentRules(
		"Comment not found. Please verify 'comment_id' and access permissions.",
		"You don't have permission to update this comment.",
		"Invalid input. Please provide a valid 'comment_id' and non-empty 'text'.",
		invalidMarkers,
	)
	deleteCommentRules = commentRules(
		"Comment not found. Please verify 'comment_id' and access permissions.",
		"You don't have permission to delete this comment.",
		"Invalid input. Please provide a valid 'comment_id'.",
		invalidMarkersNoBlank,
	)
)

const (
	addCommentFallback    = "Unexpected error while adding comment. Please try again."
	updateCommentFallback = "Unexpected error while updating comment. Please try again."
	deleteCommentFallback = "Unexpected error while deleting comment. Please try again."
)

// deleteCardMessage maps GraphQL extension codes to a message. The first
// known code wins.
func deleteCardMessage(cardID int64, title string, codes []string) string {
	for _, code := range codes {
		switch code {
		case "RESOURCE_NOT_FOUND":
			return fmt.Sprintf("Card with ID %d not found. Verify the card exists and you have access permissions.", cardID)
		case "PERMISSION_DENIED":
			return fmt.Sprintf("You don't have permission to delete card %d. Please check your access permissions.", cardID)
		case "RECORD_NOT_DESTROYED":
			return fmt.Sprintf("Failed to delete card '%s' (ID: %d). Please try again or contact support.", title, cardID)
		}
	}
	if len(codes) > 0 {
		return fmt.Sprintf("Failed to delete card '%s' (ID: %d). Codes: %s", title, cardID, strings.Join(codes, ", "))
	}
	return fmt.Sprintf("Failed to delete card '%s' (ID: %d). Please try again or contact support.", title, cardID)
}

// withDebug appends raw codes and the correlation id when debug is set
// and there is anything to show.
func withDebug(message string, debug bool, codes []string, correlationID string) string {
	if !debug {
		return message
	}
	var parts []string
	if len(codes) > 0 {
		parts = append(parts, "codes="+strings.Join(codes, ","))
	}
	if correlationID != "" {
		parts = append(parts, "correlation_id="+correlationID)
	}
	if len(parts) == 0 {
		return message
	}
	return fmt.Sprintf("%s (debug: %s)", message, strings.Join(parts, "; "))
}
