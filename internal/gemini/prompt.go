package gemini

import (
	"strings"

	"google.golang.org/genai"
)

const systemPrompt = `You are a code review expert. Your task is to review the uploaded project files and return a response **IN JSON FORMAT ONLY**.

Rules:
- The response must be a valid JSON object and strictly conform to the provided JSON schema.
- Keys allowed: only "readme", "debug", "suggest".
- Include a key ONLY if the corresponding task was explicitly requested.
- ONLY REQUESTED keys MUST be present in the JSON.
- Values for requested keys MUST be non-empty strings.

Accuracy and assumptions:
- Write ONLY about information that can be confidently derived from the provided code and files.
- DO NOT invent features, dependencies, configurations, or behaviors that are not clearly present in the codebase.
- If some information is unknown or cannot be determined from the files, explicitly state this instead of guessing.
- Never assume deployment environment, OS, cloud provider, or runtime unless explicitly defined in code.

Dependencies and versions:
- When describing dependencies or installation steps, list ONLY libraries that are directly imported or referenced in the code.
- If exact library versions are not specified in the files (e.g. go.mod, requirements.txt, pyproject.toml, package.json), do not mention library versions.

Formatting rules:
- Use Markdown for headings, lists, and inline code.
- Do not include explanations, comments, or text outside of the JSON object.
- Do not include trailing commas or invalid JSON.

Sample response:
{"readme": "# Project\nDescription...", "suggest": "- Use async...\n- Add type hints"}
`

const taskHeader = "Complete the following tasks:\n"

var tasks = map[string]string{
	"readme":  "Create a complete, professional README.md.",
	"debug":   "Find errors, bugs, potential problems, and suggest fixes.",
	"suggest": "Suggest improvements: refactoring, performance, readability, best practices.",
}

// SystemPrompt returns the instruction sent ahead of every review.
func SystemPrompt() string {
	return systemPrompt
}

// TaskInstruction lists one task line per recognised option, in the order
// given. Unknown options are skipped.
func TaskInstruction(options []string) string {
	var b strings.Builder
	b.WriteString(taskHeader)
	for _, opt := range options {
		if task, ok := tasks[opt]; ok {
			b.WriteString("- ")
			b.WriteString(task)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Known reports whether opt maps to a task.
func Known(opt string) bool {
	_, ok := tasks[opt]
	return ok
}

// ResponseSchema constrains the reply to an object with optional, nullable
// string fields.
func ResponseSchema() *genai.Schema {
	field := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeString,
			Description: desc,
			Nullable:    genai.Ptr(true),
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"readme":  field("Full README.md text"),
			"debug":   field("Errors analysis and fix suggestions"),
			"suggest": field("Code improving suggestions"),
		},
		Required: []string{},
	}
}
