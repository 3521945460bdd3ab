package prompts

import (
	"fmt"
	"strings"

	"github.com/soundprediction/verity/pkg/nlp"
	"github.com/soundprediction/verity/pkg/types"
)

// Style selects how much the model is asked to say besides the query.
type Style string

const (
	// StyleTerse asks for the query only.
	StyleTerse Style = "terse"
	// StyleExplain asks for a fenced query followed by a short explanation.
	StyleExplain Style = "explain"
)

// ParseStyle maps a config string onto a Style, defaulting to StyleTerse.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleTerse:
		return StyleTerse, nil
	case StyleExplain:
		return StyleExplain, nil
	default:
		return "", fmt.Errorf("unknown prompt style %q: must be terse or explain", s)
	}
}

// TranslateCypherPrompt defines the interface for prompt-to-Cypher prompts.
type TranslateCypherPrompt interface {
	Terse() PromptVersion
	Explain() PromptVersion
	ForStyle(style Style) PromptVersion
}

// TranslateCypherVersions holds all versions of the translation prompt.
type TranslateCypherVersions struct {
	tersePrompt   PromptVersion
	explainPrompt PromptVersion
}

func (t *TranslateCypherVersions) Terse() PromptVersion   { return t.tersePrompt }
func (t *TranslateCypherVersions) Explain() PromptVersion { return t.explainPrompt }

// ForStyle returns the prompt for style; unknown styles get the terse prompt.
func (t *TranslateCypherVersions) ForStyle(style Style) PromptVersion {
	if style == StyleExplain {
		return t.explainPrompt
	}
	return t.tersePrompt
}

// NewTranslateCypherVersions creates the translation prompt set.
func NewTranslateCypherVersions() *TranslateCypherVersions {
	return &TranslateCypherVersions{
		tersePrompt:   NewPromptVersion(terseCypherPrompt),
		explainPrompt: NewPromptVersion(explainCypherPrompt),
	}
}

// SchemaDescription describes the graph to the model.
const SchemaDescription = `The database contains writing "scraps" which are short text snippets that can inspire writers.
Each scrap is a node with the label Scrap and these properties:
- id: A unique identifier
- content: The actual text content
- tags: An array of descriptive tags
- metadata: A JSON string containing details like tone, setting, era, and characters

Scraps are connected to other scraps through RELATED_TO relationships with these properties:
- type: The kind of connection, for example "thematic_similarity"
- strength: A number between 0 and 1
- aiReasoning: A short explanation of why the scraps are related

Scraps can be grouped into collections.

When returning related scraps, name the columns relationType1, relationStrength1 and related1
for the first related scrap, relationType2, relationStrength2 and related2 for the second, and so on.
Always return the Scrap node itself rather than individual properties.
Only ever read data: never use CREATE, MERGE, SET, DELETE, REMOVE or DROP.`

const translatorRole = `You are a helpful assistant that translates natural language queries about a writing inspiration database into Neo4j Cypher queries.`

// terseCypherPrompt asks for the query and nothing else.
func terseCypherPrompt(context map[string]interface{}) ([]types.Message, error) {
	prompt, err := promptFrom(context)
	if err != nil {
		return nil, err
	}

	sysPrompt := translatorRole + "\n\n" + SchemaDescription + "\n\nReturn ONLY the Cypher query without explanation."

	logPrompts(loggerFrom(context), sysPrompt, prompt)
	return []types.Message{
		nlp.NewSystemMessage(sysPrompt),
		nlp.NewUserMessage(prompt),
	}, nil
}

// explainCypherPrompt asks for a fenced query followed by an explanation.
func explainCypherPrompt(context map[string]interface{}) ([]types.Message, error) {
	prompt, err := promptFrom(context)
	if err != nil {
		return nil, err
	}

	sysPrompt := translatorRole + "\n\n" + SchemaDescription + `

Respond with the Cypher query inside a single fenced code block tagged cypher, for example:
` + "```cypher\nMATCH (s:Scrap) WHERE s.content CONTAINS \"rain\" RETURN s LIMIT 10\n```" + `
After the code block, write one or two sentences explaining what the query looks for.`

	logPrompts(loggerFrom(context), sysPrompt, prompt)
	return []types.Message{
		nlp.NewSystemMessage(sysPrompt),
		nlp.NewUserMessage(prompt),
	}, nil
}

func promptFrom(context map[string]interface{}) (string, error) {
	prompt, ok := context["prompt"].(string)
	if !ok || strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}
	return prompt, nil
}
