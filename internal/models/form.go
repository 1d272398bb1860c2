package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// FieldDefinition describes one fillable attribute of a start form or a
// phase. ID is the only key the API accepts in mutations.
type FieldDefinition struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Editable    bool     `json:"editable"`
	Options     []string `json:"options,omitempty"`
	Description string   `json:"description,omitempty"`
	Help        string   `json:"help,omitempty"`
}

// ParseFieldDefinitions converts the "fields" list of an API response.
// Entries that are not objects or have no id are skipped; a missing
// "editable" means editable.
func ParseFieldDefinitions(raw any) []FieldDefinition {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	defs := make([]FieldDefinition, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := cast.ToString(m["id"])
		if id == "" {
			continue
		}
		editable := true
		if v, present := m["editable"]; present && v != nil {
			editable = cast.ToBool(v)
		}
		defs = append(defs, FieldDefinition{
			ID:          id,
			Label:       cast.ToString(m["label"]),
			Type:        cast.ToString(m["type"]),
			Required:    cast.ToBool(m["required"]),
			Editable:    editable,
			Options:     cast.ToStringSlice(m["options"]),
			Description: cast.ToString(m["description"]),
			Help:        cast.ToString(m["help"]),
		})
	}
	return defs
}

// EditableOnly drops definitions the API will not accept values for.
func EditableOnly(defs []FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Editable {
			out = append(out, d)
		}
	}
	return out
}

// FilterValues keeps only the values whose key is one of defs' ids.
func FilterValues(values map[string]any, defs []FieldDefinition) map[string]any {
	out := map[string]any{}
	if len(values) == 0 {
		return out
	}
	allowed := make(map[string]bool, len(defs))
	for _, d := range defs {
		allowed[d.ID] = true
	}
	for id, v := range values {
		if allowed[id] {
			out[id] = v
		}
	}
	return out
}

// FieldError is one rejected form value.
type FieldError struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

// FormResult is the outcome of Validate: coerced values, or the reasons
// they were rejected.
type FormResult struct {
	Values map[string]any
	Errors []FieldError
}

// OK reports whether every value passed.
func (r FormResult) OK() bool { return len(r.Errors) == 0 }

// Err folds the field errors into one ValidationError, or nil.
func (r FormResult) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.FieldID, fe.Message))
	}
	return &ValidationError{Field: "fields", Reason: "are invalid (" + strings.Join(parts, "; ") + ")"}
}

// Validate checks values against defs: required fields must be present
// and non-empty, numbers and checkboxes are coerced, and single-choice
// fields must use one of their options. Keys not in defs are dropped.
func Validate(values map[string]any, defs []FieldDefinition) FormResult {
	res := FormResult{Values: map[string]any{}}
	for _, d := range defs {
		v, present := values[d.ID]
		if !present || isBlank(d, v) {
			if d.Required {
				res.Errors = append(res.Errors, FieldError{FieldID: d.ID, Message: "is required"})
			}
			continue
		}

		coerced, err := coerce(d, v)
		if err != nil {
			res.Errors = append(res.Errors, FieldError{FieldID: d.ID, Message: err.Error()})
			continue
		}
		res.Values[d.ID] = coerced
	}
	return res
}

func isBlank(d FieldDefinition, v any) bool {
	if v == nil {
		return true
	}
	if list, ok := v.([]any); ok && isMultiChoice(d.Type) {
		return len(list) == 0
	}
	return isStringKind(d.Type) && strings.TrimSpace(cast.ToString(v)) == ""
}

func coerce(d FieldDefinition, v any) (any, error) {
	switch schemaType(d.Type) {
	case "number":
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return f, nil
	case "boolean":
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return b, nil
	}

	if list, ok := v.([]any); ok && isMultiChoice(d.Type) {
		chosen := make([]any, 0, len(list))
		for _, item := range list {
			s := cast.ToString(item)
			if len(d.Options) > 0 && !slices.Contains(d.Options, s) {
				return nil, fmt.Errorf("must be chosen from %s", strings.Join(d.Options, ", "))
			}
			chosen = append(chosen, s)
		}
		return chosen, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, fmt.Errorf("must be text")
	}
	if isSingleChoice(d.Type) && len(d.Options) > 0 && !slices.Contains(d.Options, s) {
		return nil, fmt.Errorf("must be one of %s", strings.Join(d.Options, ", "))
	}
	return s, nil
}

// Schema returns the flat JSON schema used to elicit values for defs.
// defaults pre-fill properties the caller already supplied.
func Schema(defs []FieldDefinition, defaults map[string]any) map[string]any {
	props := make(map[string]any, len(defs))
	required := []string{}
	for _, d := range defs {
		prop := map[string]any{"type": schemaType(d.Type)}
		title := d.Label
		if title == "" {
			title = d.ID
		}
		prop["title"] = title
		if desc := firstNonEmpty(d.Description, d.Help); desc != "" {
			prop["description"] = desc
		}
		switch {
		case isSingleChoice(d.Type) && len(d.Options) > 0:
			prop["enum"] = d.Options
		case isMultiChoice(d.Type) && len(d.Options) > 0:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "string", "enum": d.Options}
		}
		if format := schemaFormat(d.Type); format != "" {
			prop["format"] = format
		}
		if v, ok := defaults[d.ID]; ok && v != nil {
			prop["default"] = v
		}
		props[d.ID] = prop
		if d.Required {
			required = append(required, d.ID)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func schemaType(fieldType string) string {
	switch fieldType {
	case "number", "currency":
		return "number"
	case "checkbox":
		return "boolean"
	}
	return "string"
}

func schemaFormat(fieldType string) string {
	switch fieldType {
	case "email":
		return "email"
	case "date":
		return "date"
	case "datetime", "due_date":
		return "date-time"
	}
	return ""
}

func isStringKind(fieldType string) bool { return schemaType(fieldType) == "string" }

func isSingleChoice(fieldType string) bool {
	switch fieldType {
	case "select", "radio_vertical", "radio_horizontal":
		return true
	}
	return false
}

func isMultiChoice(fieldType string) bool {
	return strings.HasPrefix(fieldType, "checklist")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
