package models

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ─── Comment inputs ─────────────────────────────────────────────────────────

func TestCommentInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      CommentInput
		wantErr string
	}{
		{"valid", CommentInput{CardID: 1, Text: "ok"}, ""},
		{"zero card", CommentInput{CardID: 0, Text: "ok"}, "card_id must be a positive integer"},
		{"negative card", CommentInput{CardID: -999, Text: "ok"}, "card_id must be a positive integer"},
		{"empty text", CommentInput{CardID: 1, Text: ""}, "text must not be blank"},
		{"whitespace text", CommentInput{CardID: 1, Text: "\n\t  "}, "text must not be blank"},
		{"too long", CommentInput{CardID: 1, Text: strings.Repeat("a", MaxCommentTextLength+1)}, "text must be at most 1000 characters"},
		{"at boundary", CommentInput{CardID: 1, Text: strings.Repeat("a", MaxCommentTextLength)}, ""},
		{"boundary after trimming", CommentInput{CardID: 1, Text: "  " + strings.Repeat("é", MaxCommentTextLength) + "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err should be a *ValidationError, got %T", err)
			}
		})
	}
}

func TestUpdateCommentInput_Validate(t *testing.T) {
	if err := (UpdateCommentInput{CommentID: 5, Text: "edit"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (UpdateCommentInput{CommentID: 0, Text: "edit"}).Validate(); err == nil || !strings.Contains(err.Error(), "comment_id") {
		t.Errorf("err = %v, want comment_id error", err)
	}
	if err := (UpdateCommentInput{CommentID: 5, Text: " "}).Validate(); err == nil || !strings.Contains(err.Error(), "blank") {
		t.Errorf("err = %v, want blank error", err)
	}
}

func TestDeleteCommentInput_Validate(t *testing.T) {
	if err := (DeleteCommentInput{CommentID: 3}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (DeleteCommentInput{CommentID: -1}).Validate(); err == nil {
		t.Error("expected error for negative id")
	}
}

// ─── Field definitions ──────────────────────────────────────────────────────

func TestParseFieldDefinitions(t *testing.T) {
	raw := []any{
		map[string]any{"id": "title", "label": "Title", "type": "short_text", "required": true},
		map[string]any{"id": "locked", "label": "Locked", "type": "short_text", "editable": false},
		"not a map",
		map[string]any{"label": "no id"},
		map[string]any{"id": "priority", "type": "select", "options": []any{"Low", "High"}, "editable": true},
	}

	defs := ParseFieldDefinitions(raw)
	if len(defs) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(defs), defs)
	}
	if !defs[0].Editable {
		t.Error("missing editable should default to true")
	}
	if defs[1].Editable {
		t.Error("explicit editable=false must be kept")
	}
	if !reflect.DeepEqual(defs[2].Options, []string{"Low", "High"}) {
		t.Errorf("options = %v", defs[2].Options)
	}
	if ParseFieldDefinitions(nil) != nil {
		t.Error("nil input should yield nil")
	}
}

func TestEditableOnly(t *testing.T) {
	defs := []FieldDefinition{{ID: "a", Editable: true}, {ID: "b", Editable: false}, {ID: "c", Editable: true}}
	got := EditableOnly(defs)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("EditableOnly = %+v", got)
	}
	if got := EditableOnly(nil); len(got) != 0 {
		t.Errorf("EditableOnly(nil) = %+v", got)
	}
}

func TestFilterValues(t *testing.T) {
	defs := []FieldDefinition{{ID: "title"}, {ID: "due"}}
	got := FilterValues(map[string]any{"title": "x", "locked": "y", "due": "2025-01-01"}, defs)
	want := map[string]any{"title": "x", "due": "2025-01-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterValues = %v, want %v", got, want)
	}
	if got := FilterValues(nil, defs); len(got) != 0 {
		t.Errorf("FilterValues(nil) = %v, want empty", got)
	}
}

// ─── Validate ───────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	defs := []FieldDefinition{
		{ID: "title", Type: "short_text", Required: true},
		{ID: "estimate", Type: "number"},
		{ID: "urgent", Type: "checkbox"},
		{ID: "priority", Type: "select", Options: []string{"Low", "High"}},
	}

	t.Run("coerces values", func(t *testing.T) {
		res := Validate(map[string]any{
			"title": "Fix login", "estimate": "3.5", "urgent": "true", "priority": "High", "extra": 1,
		}, defs)
		if !res.OK() {
			t.Fatalf("unexpected errors: %+v", res.Errors)
		}
		want := map[string]any{"title": "Fix login", "estimate": 3.5, "urgent": true, "priority": "High"}
		if !reflect.DeepEqual(res.Values, want) {
			t.Errorf("Values = %v, want %v", res.Values, want)
		}
	})

	t.Run("reports every problem", func(t *testing.T) {
		res := Validate(map[string]any{"title": "  ", "estimate": "lots", "priority": "Medium"}, defs)
		if res.OK() {
			t.Fatal("expected errors")
		}
		got := map[string]string{}
		for _, fe := range res.Errors {
			got[fe.FieldID] = fe.Message
		}
		if got["title"] != "is required" {
			t.Errorf("title error = %q", got["title"])
		}
		if got["estimate"] != "must be a number" {
			t.Errorf("estimate error = %q", got["estimate"])
		}
		if !strings.Contains(got["priority"], "Low, High") {
			t.Errorf("priority error = %q", got["priority"])
		}
		var ve *ValidationError
		if !errors.As(res.Err(), &ve) {
			t.Errorf("Err() = %T, want *ValidationError", res.Err())
		}
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		res := Validate(map[string]any{"title": "x"}, defs)
		if !res.OK() || res.Err() != nil {
			t.Errorf("unexpected errors: %+v", res.Errors)
		}
	})
}

// ─── Schema ─────────────────────────────────────────────────────────────────

func TestSchema(t *testing.T) {
	defs := []FieldDefinition{
		{ID: "title", Label: "Title", Type: "short_text", Required: true, Description: "Card title"},
		{ID: "estimate", Label: "Estimate", Type: "number"},
		{ID: "urgent", Type: "checkbox"},
		{ID: "priority", Label: "Priority", Type: "select", Options: []string{"Low", "High"}, Help: "Pick one"},
		{ID: "contact", Label: "Contact", Type: "email"},
		{ID: "tags", Label: "Tags", Type: "checklist_vertical", Options: []string{"bug", "ui"}},
	}

	schema := Schema(defs, map[string]any{"title": "Preset"})
	if schema["type"] != "object" {
		t.Errorf("type = %v", schema["type"])
	}
	if !reflect.DeepEqual(schema["required"], []string{"title"}) {
		t.Errorf("required = %v", schema["required"])
	}

	props := schema["properties"].(map[string]any)
	title := props["title"].(map[string]any)
	if title["type"] != "string" || title["default"] != "Preset" || title["description"] != "Card title" {
		t.Errorf("title prop = %v", title)
	}
	if props["estimate"].(map[string]any)["type"] != "number" {
		t.Errorf("estimate prop = %v", props["estimate"])
	}
	urgent := props["urgent"].(map[string]any)
	if urgent["type"] != "boolean" || urgent["title"] != "urgent" {
		t.Errorf("urgent prop = %v", urgent)
	}
	priority := props["priority"].(map[string]any)
	if !reflect.DeepEqual(priority["enum"], []string{"Low", "High"}) || priority["description"] != "Pick one" {
		t.Errorf("priority prop = %v", priority)
	}
	if props["contact"].(map[string]any)["format"] != "email" {
		t.Errorf("contact prop = %v", props["contact"])
	}
	tags := props["tags"].(map[string]any)
	wantItems := map[string]any{"type": "string", "enum": []string{"bug", "ui"}}
	if tags["type"] != "array" || !reflect.DeepEqual(tags["items"], wantItems) {
		t.Errorf("tags prop = %v", tags)
	}
}

func TestValidate_Checklist(t *testing.T) {
	defs := []FieldDefinition{
		{ID: "tags", Type: "checklist_vertical", Options: []string{"bug", "ui"}, Required: true},
	}

	res := Validate(map[string]any{"tags": []any{"bug", "ui"}}, defs)
	if !res.OK() || !reflect.DeepEqual(res.Values["tags"], []any{"bug", "ui"}) {
		t.Errorf("valid choices: %+v", res)
	}

	res = Validate(map[string]any{"tags": []any{"bug", "backend"}}, defs)
	if res.OK() {
		t.Error("unknown option should be rejected")
	}

	res = Validate(map[string]any{"tags": []any{}}, defs)
	if res.OK() || res.Errors[0].Message != "is required" {
		t.Errorf("empty list on a required field: %+v", res.Errors)
	}
}
