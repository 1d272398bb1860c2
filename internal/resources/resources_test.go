package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeReader struct {
	pipeID        int64
	cardID        int64
	includeFields bool
	err           error
}

func (f *fakeReader) GetPipe(_ context.Context, pipeID int64) (map[string]any, error) {
	f.pipeID = pipeID
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"pipe": map[string]any{"id": "42", "name": "Support"}}, nil
}

func (f *fakeReader) GetCard(_ context.Context, cardID int64, includeFields bool) (map[string]any, error) {
	f.cardID = cardID
	f.includeFields = includeFields
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"card": map[string]any{"id": "7"}}, nil
}

func readReq(uri string, args map[string]any) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func TestTemplates(t *testing.T) {
	h := NewHandler(&fakeReader{})
	if h.PipeTemplate().URITemplate.Raw() != "pipefy://pipes/{pipe_id}" {
		t.Errorf("pipe template = %s", h.PipeTemplate().URITemplate.Raw())
	}
	if h.CardTemplate().MIMEType != "application/json" {
		t.Errorf("card MIME = %s", h.CardTemplate().MIMEType)
	}
}

func TestHandlePipe(t *testing.T) {
	reader := &fakeReader{}
	h := NewHandler(reader)

	contents, err := h.HandlePipe(context.Background(), readReq("pipefy://pipes/42", map[string]any{"pipe_id": []string{"42"}}))
	if err != nil {
		t.Fatalf("HandlePipe failed: %v", err)
	}
	tc := text(t, contents)
	if reader.pipeID != 42 || tc.MIMEType != "application/json" {
		t.Errorf("pipeID = %d, MIME = %s", reader.pipeID, tc.MIMEType)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(tc.Text), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["pipe"].(map[string]any)["name"] != "Support" {
		t.Errorf("out = %v", out)
	}
}

func TestHandlePipe_URIFallback(t *testing.T) {
	reader := &fakeReader{}
	if _, err := NewHandler(reader).HandlePipe(context.Background(), readReq("pipefy://pipes/9", nil)); err != nil {
		t.Fatalf("HandlePipe failed: %v", err)
	}
	if reader.pipeID != 9 {
		t.Errorf("pipeID = %d, want 9", reader.pipeID)
	}
}

func TestHandlePipe_InvalidID(t *testing.T) {
	_, err := NewHandler(&fakeReader{}).HandlePipe(context.Background(), readReq("pipefy://pipes/abc", nil))
	if err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestHandleCard_IncludesFields(t *testing.T) {
	reader := &fakeReader{}
	if _, err := NewHandler(reader).HandleCard(context.Background(), readReq("pipefy://cards/7", map[string]any{"card_id": "7"})); err != nil {
		t.Fatalf("HandleCard failed: %v", err)
	}
	if reader.cardID != 7 || !reader.includeFields {
		t.Errorf("cardID = %d, includeFields = %v", reader.cardID, reader.includeFields)
	}
}

func TestHandleCard_APIErrorBecomesErrorResource(t *testing.T) {
	reader := &fakeReader{err: errors.New("not found")}
	contents, err := NewHandler(reader).HandleCard(context.Background(), readReq("pipefy://cards/7", nil))
	if err != nil {
		t.Fatalf("HandleCard failed: %v", err)
	}
	tc := text(t, contents)
	if tc.MIMEType != "text/plain" || !strings.Contains(tc.Text, "not found") {
		t.Errorf("content = %+v", tc)
	}
}
