package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "plain JSON",
			input:    `{"score": 80, "explanation": "ok"}`,
			expected: `{"score": 80, "explanation": "ok"}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is the match analysis:\n{\"score\": 55}",
			expected: `{"score": 55}`,
		},
		{
			name:     "trailing text",
			input:    "{\"score\": 10}\n\nLet me know if you need anything else!",
			expected: `{"score": 10}`,
		},
		{
			name:     "braces inside strings",
			input:    `Result: {"explanation": "Strong {Go} match \"here\""}`,
			expected: `{"explanation": "Strong {Go} match \"here\""}`,
		},
		{
			name:     "preamble before array",
			input:    "Skills:\n[\"Go\", \"SQL\"]",
			expected: `["Go", "SQL"]`,
		},
		{
			name:     "no JSON at all",
			input:    "I cannot help with that.",
			expected: "I cannot help with that.",
		},
		{
			name:     "unbalanced object is returned as-is",
			input:    `{"score": 5`,
			expected: `{"score": 5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"nested objects", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"trailing text", `{"key": "value"} and more`, `{"key": "value"}`},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := extractJSONObject(tt.input); result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple array", `["a", "b"]`, `["a", "b"]`},
		{"array of objects", `[{"id": 1}, {"id": 2}] tail`, `[{"id": 1}, {"id": 2}]`},
		{"bracket in string", `["a]b"]`, `["a]b"]`},
		{"not starting with bracket", "nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := extractJSONArray(tt.input); result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
