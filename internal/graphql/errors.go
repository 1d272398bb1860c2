package graphql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	gqlclient "github.com/hasura/go-graphql-client"
	"github.com/spf13/cast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error is one entry of a GraphQL "errors" array.
type Error struct {
	Message    string
	Extensions map[string]any
}

// Errors is the error list returned by the API (or by local schema
// validation). Services never unwrap it; the tool layer classifies it.
type Errors []Error

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, item := range e {
		msg := item.Message
		if code := cast.ToString(item.Extensions["code"]); code != "" {
			msg = fmt.Sprintf("%s {'code': '%s'}", msg, code)
		}
		parts = append(parts, msg)
	}
	return "graphql: " + strings.Join(parts, "; ")
}

func fromClientError(err error) error {
	var list gqlclient.Errors
	if !errors.As(err, &list) {
		return err
	}
	out := make(Errors, 0, len(list))
	for _, item := range list {
		out = append(out, Error{Message: item.Message, Extensions: item.Extensions})
	}
	return out
}

func fromValidation(list gqlerror.List) error {
	out := make(Errors, 0, len(list))
	for _, item := range list {
		out = append(out, Error{Message: item.Message, Extensions: item.Extensions})
	}
	return out
}

// Messages returns err's own text followed by every non-empty nested
// GraphQL message, for keyword classification.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var messages []string
	if raw := err.Error(); raw != "" {
		messages = append(messages, raw)
	}
	var list Errors
	if errors.As(err, &list) {
		for _, item := range list {
			if strings.TrimSpace(item.Message) != "" {
				messages = append(messages, item.Message)
			}
		}
	}
	return messages
}

var (
	codeRe          = regexp.MustCompile(`['"]code['"]\s*[:=]\s*['"]([A-Z_]+)['"]`)
	correlationIDRe = regexp.MustCompile(`['"]correlation_id['"]\s*[:=]\s*['"]([^'"]+)['"]`)
)

// Codes returns the distinct extensions.code values carried by err, in
// order of appearance. When a wrapped error lost its structure the codes
// are recovered from the error text.
func Codes(err error) []string {
	if err == nil {
		return nil
	}
	var codes []string
	var list Errors
	if errors.As(err, &list) {
		for _, item := range list {
			if code := cast.ToString(item.Extensions["code"]); code != "" {
				codes = append(codes, code)
			}
		}
	}
	for _, m := range codeRe.FindAllStringSubmatch(err.Error(), -1) {
		codes = append(codes, m[1])
	}

	seen := make(map[string]bool, len(codes))
	unique := codes[:0]
	for _, code := range codes {
		if !seen[code] {
			seen[code] = true
			unique = append(unique, code)
		}
	}
	return unique
}

// CorrelationID returns the request correlation id attached to err, or
// "" when there is none.
func CorrelationID(err error) string {
	if err == nil {
		return ""
	}
	var list Errors
	if errors.As(err, &list) {
		for _, item := range list {
			if id := cast.ToString(item.Extensions["correlation_id"]); id != "" {
				return id
			}
		}
	}
	if m := correlationIDRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}
