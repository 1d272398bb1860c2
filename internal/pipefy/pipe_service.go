package pipefy

import (
	"context"
	"sort"

	"github.com/pipefy/pipefy-mcp/internal/fuzzy"
	"github.com/pipefy/pipefy-mcp/internal/queries"
	"github.com/spf13/cast"
)

// DefaultMatchThreshold is the minimum fuzzy score search_pipes keeps.
const DefaultMatchThreshold = 70.0

// Messages returned instead of an empty field list.
const (
	MsgNoStartFormFields         = "This pipe has no start form fields configured."
	MsgNoRequiredStartFormFields = "This pipe has no required fields in the start form."
	MsgNoPhaseFields             = "This phase has no fields configured."
	MsgNoRequiredPhaseFields     = "This phase has no required fields."
)

// PipeService reads pipes, their members and their form fields.
type PipeService struct {
	exec Executor
}

// NewPipeService creates a PipeService on the shared executor.
func NewPipeService(exec Executor) *PipeService {
	return &PipeService{exec: exec}
}

// GetPipe returns a pipe with its phases, labels and start form fields.
func (s *PipeService) GetPipe(ctx context.Context, pipeID int64) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.GetPipe, map[string]any{"pipe_id": pipeID})
}

// GetPipeMembers returns the users that belong to a pipe.
func (s *PipeService) GetPipeMembers(ctx context.Context, pipeID int64) (map[string]any, error) {
	return s.exec.Execute(ctx, queries.GetPipeMembers, map[string]any{"pipe_id": pipeID})
}

// GetStartFormFields returns {"start_form_fields": [...]}. When the pipe
// has no fields, or requiredOnly leaves none, a "message" explains why
// the list is empty.
func (s *PipeService) GetStartFormFields(ctx context.Context, pipeID int64, requiredOnly bool) (map[string]any, error) {
	result, err := s.exec.Execute(ctx, queries.GetStartFormFields, map[string]any{"pipe_id": pipeID})
	if err != nil {
		return nil, err
	}

	pipe := cast.ToStringMap(result["pipe"])
	fields := toList(pipe["start_form_fields"])
	if len(fields) == 0 {
		return map[string]any{"message": MsgNoStartFormFields, "start_form_fields": []any{}}, nil
	}

	if requiredOnly {
		fields = requiredFields(fields)
		if len(fields) == 0 {
			return map[string]any{"message": MsgNoRequiredStartFormFields, "start_form_fields": []any{}}, nil
		}
	}
	return map[string]any{"start_form_fields": fields}, nil
}

// GetPhaseFields returns {"phase_id", "phase_name", "fields"} following
// the same empty-list policy as GetStartFormFields.
func (s *PipeService) GetPhaseFields(ctx context.Context, phaseID int64, requiredOnly bool) (map[string]any, error) {
	result, err := s.exec.Execute(ctx, queries.GetPhaseFields, map[string]any{"phase_id": phaseID})
	if err != nil {
		return nil, err
	}

	phase := cast.ToStringMap(result["phase"])
	out := map[string]any{
		"phase_id":   phase["id"],
		"phase_name": phase["name"],
	}

	fields := toList(phase["fields"])
	if len(fields) == 0 {
		out["message"] = MsgNoPhaseFields
		out["fields"] = []any{}
		return out, nil
	}

	if requiredOnly {
		fields = requiredFields(fields)
		if len(fields) == 0 {
			out["message"] = MsgNoRequiredPhaseFields
			out["fields"] = []any{}
			return out, nil
		}
	}
	out["fields"] = fields
	return out, nil
}

// SearchPipes lists every organization with its pipes. With a non-empty
// pipeName, pipes scoring below threshold are dropped, the rest get a
// "match_score" and are sorted best first, and organizations left without
// pipes disappear.
func (s *PipeService) SearchPipes(ctx context.Context, pipeName string, threshold float64) (map[string]any, error) {
	result, err := s.exec.Execute(ctx, queries.SearchPipes, map[string]any{})
	if err != nil {
		return nil, err
	}

	orgs := toList(result["organizations"])
	if orgs == nil {
		orgs = []any{}
	}
	if pipeName == "" {
		return map[string]any{"organizations": orgs}, nil
	}

	matched := make([]any, 0, len(orgs))
	for _, item := range orgs {
		org, ok := item.(map[string]any)
		if !ok {
			continue
		}

		var pipes []map[string]any
		for _, p := range toList(org["pipes"]) {
			pipe, ok := p.(map[string]any)
			if !ok {
				continue
			}
			score := fuzzy.Score(pipeName, cast.ToString(pipe["name"]))
			if score < threshold {
				continue
			}
			scored := make(map[string]any, len(pipe)+1)
			for k, v := range pipe {
				scored[k] = v
			}
			scored["match_score"] = score
			pipes = append(pipes, scored)
		}
		if len(pipes) == 0 {
			continue
		}

		sort.SliceStable(pipes, func(i, j int) bool {
			return cast.ToFloat64(pipes[i]["match_score"]) > cast.ToFloat64(pipes[j]["match_score"])
		})

		kept := make(map[string]any, len(org))
		for k, v := range org {
			kept[k] = v
		}
		list := make([]any, len(pipes))
		for i, p := range pipes {
			list[i] = p
		}
		kept["pipes"] = list
		matched = append(matched, kept)
	}

	return map[string]any{"organizations": matched}, nil
}

func toList(v any) []any {
	list, _ := v.([]any)
	return list
}

func requiredFields(fields []any) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if cast.ToBool(cast.ToStringMap(f)["required"]) {
			out = append(out, f)
		}
	}
	return out
}
