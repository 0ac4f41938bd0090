package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// Tool names exposed to the model.
const (
	ToolUpdateFilters = "update_filters"
	ToolNavigate      = "navigate"
)

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Tools returns the tool declarations offered to the model on every turn.
func Tools() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name:        ToolUpdateFilters,
			Description: "Update the job search filters. Use this when the user asks to filter jobs by role, skills, type, work mode, location or minimum match score.",
			Parameters: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"search":        {Type: llm.TypeString, Description: "Search keywords for role, title or skills"},
					"location":      {Type: llm.TypeString, Description: "Location substring, e.g. a city"},
					"type":          {Type: llm.TypeString, Enum: enumStrings(types.JobTypes)},
					"workMode":      {Type: llm.TypeString, Enum: enumStrings(types.WorkModes)},
					"minMatchScore": {Type: llm.TypeNumber, Description: "Minimum match score (0-100)"},
				},
			},
		},
		{
			Name:        ToolNavigate,
			Description: "Navigate to a different page in the application.",
			Parameters: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"path": {
						Type:        llm.TypeString,
						Enum:        types.NavigationPaths,
						Description: "The path to navigate to. /applications for dashboard, /profile for resume, / for job feed.",
					},
				},
				Required: []string{"path"},
			},
		},
	}
}

// argValidator checks tool arguments against the JSON Schema rendered from Tools.
type argValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func newArgValidator(tools []llm.ToolSpec) (*argValidator, error) {
	v := &argValidator{schemas: make(map[string]*gojsonschema.Schema, len(tools))}
	for _, tool := range tools {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tool.Parameters.JSONSchema()))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for tool %s: %w", tool.Name, err)
		}
		v.schemas[tool.Name] = schema
	}
	return v, nil
}

func (v *argValidator) known(name string) bool {
	_, ok := v.schemas[name]
	return ok
}

func (v *argValidator) validate(name string, args map[string]any) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("failed to validate %s arguments: %w", name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid %s arguments: %s", name, strings.Join(msgs, "; "))
	}
	return nil
}

// toAction maps a validated tool call to the UI action it requests.
func toAction(call llm.ToolCall) (*types.ChatAction, error) {
	data, err := json.Marshal(call.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s arguments: %w", call.Name, err)
	}

	switch call.Name {
	case ToolUpdateFilters:
		var update types.FilterUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			return nil, fmt.Errorf("failed to decode %s arguments: %w", call.Name, err)
		}
		return &types.ChatAction{Type: types.ActionUpdateFilters, Payload: &update}, nil
	case ToolNavigate:
		var nav types.NavigatePayload
		if err := json.Unmarshal(data, &nav); err != nil {
			return nil, fmt.Errorf("failed to decode %s arguments: %w", call.Name, err)
		}
		return &types.ChatAction{Type: types.ActionNavigate, Payload: &nav}, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}
