// Package prompt builds the chat request sent for each resume.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/chat"
)

// Placeholder is replaced with the extracted resume text.
const Placeholder = "{{DOCUMENT_TEXT}}"

var ErrMissingPlaceholder = errors.New("prompt template has no " + Placeholder + " placeholder")

type Template struct {
	System string
	User   string
}

func Default() Template {
	return Template{System: systemPrompt(), User: userPrompt()}
}

// Load reads a user-turn template from path and pairs it with the default
// system prompt.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read prompt template: %w", err)
	}
	t := Template{System: systemPrompt(), User: string(data)}
	if err := t.Validate(); err != nil {
		return Template{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t Template) Validate() error {
	if !strings.Contains(t.User, Placeholder) {
		return ErrMissingPlaceholder
	}
	return nil
}

// Messages returns the system and user turns for one resume.
func (t Template) Messages(documentText string) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: t.System},
		{Role: chat.RoleUser, Content: strings.ReplaceAll(t.User, Placeholder, documentText)},
	}
}

func systemPrompt() string {
	return `You are an expert resume reviewer and career coach. You read resumes carefully and give honest, specific, actionable feedback. You always answer with a single JSON object and nothing else.`
}

func userPrompt() string {
	return `Analyze the following resume and evaluate its overall quality for a professional job search.

Return your result as a single JSON object in this format:

{
  "overallScore": number from 0 to 10,
  "performanceMetrics": {
    "clarity": integer 0-10,
    "impact": integer 0-10,
    "formatting": integer 0-10,
    "keywords": integer 0-10,
    "experience": integer 0-10,
    "skills": integer 0-10
  },
  "summary": string,
  "strengths": [string],
  "improvements": [string],
  "missingSections": [string]
}

If the text does not look like a resume, return {"error": "<short reason>"} instead.
Base all reasoning only on the provided text. Do not invent experience that is not mentioned.
Return only valid JSON. Do not include explanations, markdown, or text before or after the JSON.

Resume:
` + Placeholder
}
