package mail

import (
	"fmt"
	"os"

	"github.com/osteele/liquid"
)

// DefaultWelcomeTemplate is the welcome body used when no template file is
// configured. Bindings: brand, email.
const DefaultWelcomeTemplate = `
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h1 style="color: #FF4500;">Welcome Aboard! 🎉</h1>
  <p>Hi there,</p>
  <p>Thank you for subscribing to {% if brand and brand != "" %}the {{ brand }}{% else %}our{% endif %} newsletter. You've been successfully added to our database.</p>
  <p>Best regards,<br>The {% if brand and brand != "" %}{{ brand }} {% endif %}Team</p>
</div>
`

// Template is a parsed liquid welcome body.
type Template struct {
	tpl *liquid.Template
}

// NewTemplate parses src with the liquid engine.
func NewTemplate(src string) (*Template, error) {
	engine := liquid.NewEngine()
	tpl, err := engine.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parsing welcome template: %w", err)
	}
	return &Template{tpl: tpl}, nil
}

// LoadTemplate parses the file at path, or DefaultWelcomeTemplate when path
// is empty.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return NewTemplate(DefaultWelcomeTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading welcome template: %w", err)
	}
	return NewTemplate(string(data))
}

// Render executes the template with the given bindings.
func (t *Template) Render(bindings map[string]interface{}) (string, error) {
	out, err := t.tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("rendering welcome template: %w", err)
	}
	return out, nil
}
