package generation

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// Messages is the rendered system and user instruction pair.
type Messages struct {
	System string
	User   string
}

type promptData struct {
	Count      int
	MaxFront   int
	MaxBack    int
	SourceText string
}

// BuildMessages renders the instructions for generating count flashcards from
// sourceText. The output depends only on its arguments.
func BuildMessages(sourceText string, count int) (Messages, error) {
	data := promptData{
		Count:      count,
		MaxFront:   domain.MaxFrontLength,
		MaxBack:    domain.MaxBackLength,
		SourceText: sourceText,
	}

	system, err := render("system.tmpl", data)
	if err != nil {
		return Messages{}, err
	}
	user, err := render("user.tmpl", data)
	if err != nil {
		return Messages{}, err
	}

	return Messages{System: system, User: user}, nil
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}
