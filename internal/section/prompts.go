package section

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// promptFS holds one text/template per built-in section, named
// "<section id>.tmpl".
//
//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

type promptData struct {
	Subject string
}

// templatePrompt returns a PromptFunc rendering the embedded template for id.
// It panics at package init if the template does not exist.
func templatePrompt(id string) PromptFunc {
	name := id + ".tmpl"
	tmpl := promptTemplates.Lookup(name)
	if tmpl == nil {
		panic(fmt.Sprintf("section: no prompt template %s", name))
	}
	return func(subject string) string {
		var sb strings.Builder
		if err := tmpl.Execute(&sb, promptData{Subject: subject}); err != nil {
			// Only a broken template can fail here; the executor turns the
			// panic into a section error.
			panic(fmt.Sprintf("section: render prompt %s: %v", name, err))
		}
		return strings.TrimSpace(sb.String())
	}
}
