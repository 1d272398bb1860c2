package pipefy

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pipefy/pipefy-mcp/internal/models"
	"github.com/spf13/cast"
)

// ConvertFieldsToArray turns create_card input into the FieldValueInput
// list:
//   - a map becomes one {field_id, field_value, generated_by_ai: true}
//     entry per key, ordered by key;
//   - a list is passed through, adding generated_by_ai: true to object
//     entries that lack it;
//   - any other non-empty value is wrapped in a one-element list;
//   - empty input yields an empty list.
func ConvertFieldsToArray(fields any) []any {
	switch f := fields.(type) {
	case map[string]any:
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, map[string]any{
				"field_id":        k,
				"field_value":     f[k],
				"generated_by_ai": true,
			})
		}
		return out
	case []map[string]any:
		items := make([]any, len(f))
		for i, m := range f {
			items[i] = m
		}
		return ConvertFieldsToArray(items)
	case []any:
		out := make([]any, 0, len(f))
		for _, item := range f {
			m, ok := item.(map[string]any)
			if !ok {
				out = append(out, item)
				continue
			}
			if _, has := m["generated_by_ai"]; !has {
				cp := make(map[string]any, len(m)+1)
				for k, v := range m {
					cp[k] = v
				}
				cp["generated_by_ai"] = true
				m = cp
			}
			out = append(out, m)
		}
		return out
	}

	if isEmpty(fields) {
		return []any{}
	}
	return []any{fields}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// ConvertValuesToCamelCase formats field updates for updateFieldsValues.
// Each entry must carry "field_id" and "value"; "operation" is upper-cased
// and defaults to REPLACE.
func ConvertValuesToCamelCase(values []map[string]any) ([]map[string]any, error) {
	formatted := make([]map[string]any, 0, len(values))
	for i, v := range values {
		fieldID, ok := v["field_id"]
		if !ok {
			return nil, &models.ValidationError{
				Field:  fmt.Sprintf("value at index %d", i),
				Reason: "is missing required 'field_id' key",
			}
		}
		value, ok := v["value"]
		if !ok {
			return nil, &models.ValidationError{
				Field:  fmt.Sprintf("value at index %d", i),
				Reason: "is missing required 'value' key",
			}
		}

		operation := strings.ToUpper(strings.TrimSpace(cast.ToString(v["operation"])))
		if operation == "" {
			operation = OperationReplace
		}

		formatted = append(formatted, map[string]any{
			"fieldId":       fieldID,
			"value":         value,
			"operation":     operation,
			"generatedByAi": true,
		})
	}
	return formatted, nil
}
