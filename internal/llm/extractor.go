package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobPosting")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent values.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobPostingSchema returns the extraction schema for importing a job posting page
// into the catalog.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobPosting",
		Description: `You are an expert job posting parser.
Your task is to extract catalog fields from a raw job posting.
EXCLUDE: Application form fields, EEO statements, legal disclaimers.`,
		Fields: []SchemaField{
			{Name: "title", Type: `"string"`, Description: "Job title", Required: true},
			{Name: "company", Type: `"string"`, Description: "Hiring company name", Required: true},
			{Name: "location", Type: `"string"`, Description: "City and region, or Remote", Required: true},
			{Name: "description", Type: `"string"`, Description: "One or two sentence summary of the role", Required: true},
			{Name: "jobType", Type: `"Full-time" | "Part-time" | "Contract" | "Internship"`, Required: true},
			{Name: "workMode", Type: `"Remote" | "Hybrid" | "On-site"`, Required: true},
			{Name: "salaryRange", Type: `"string"`, Description: "Salary or rate as written, empty if absent"},
			{Name: "skills", Type: `["string"]`, Description: "Short skill keywords such as languages, frameworks, tools", Required: true},
		},
	}
}
