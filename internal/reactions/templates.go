package reactions

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/events"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

type templateFile struct {
	Default  string            `yaml:"default"`
	Statuses map[string]string `yaml:"statuses"`
}

type templateData struct {
	Company        string
	Position       string
	Status         string
	Label          string
	PreviousStatus string
	Comment        string
}

// MessageTemplates renders notification text for a target status.
type MessageTemplates struct {
	fallback *template.Template
	byStatus map[applications.Status]*template.Template
}

// DefaultMessageTemplates parses the embedded set. It panics only if the
// embedded file is broken.
func DefaultMessageTemplates() *MessageTemplates {
	t, err := ParseMessageTemplates(defaultTemplatesYAML)
	if err != nil {
		panic(fmt.Sprintf("reactions: embedded templates: %v", err))
	}
	return t
}

// LoadMessageTemplates reads an override file. Entries it omits keep the
// embedded wording. An empty path returns the embedded set.
func LoadMessageTemplates(path string) (*MessageTemplates, error) {
	base := DefaultMessageTemplates()
	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notification templates: %w", err)
	}
	override, err := ParseMessageTemplates(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if override.fallback != nil {
		base.fallback = override.fallback
	}
	for s, t := range override.byStatus {
		base.byStatus[s] = t
	}
	return base, nil
}

func ParseMessageTemplates(raw []byte) (*MessageTemplates, error) {
	var f templateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}
	out := &MessageTemplates{byStatus: map[applications.Status]*template.Template{}}
	if strings.TrimSpace(f.Default) != "" {
		t, err := compile("default", f.Default)
		if err != nil {
			return nil, err
		}
		out.fallback = t
	}
	for key, text := range f.Statuses {
		status, err := applications.ParseStatus(key)
		if err != nil {
			return nil, fmt.Errorf("template key %q: %w", key, err)
		}
		t, err := compile(string(status), text)
		if err != nil {
			return nil, err
		}
		out.byStatus[status] = t
	}
	return out, nil
}

func compile(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return t, nil
}

// Render picks the status template, or the default one when the status has none.
func (m *MessageTemplates) Render(ev events.TransitionOccurred) (string, error) {
	t := m.byStatus[ev.NewStatus]
	if t == nil {
		t = m.fallback
	}
	if t == nil {
		return "", fmt.Errorf("no notification template for %s", ev.NewStatus)
	}
	var buf bytes.Buffer
	err := t.Execute(&buf, templateData{
		Company:        ev.Company,
		Position:       ev.Position,
		Status:         ev.NewStatus.String(),
		Label:          ev.NewStatus.Label(),
		PreviousStatus: ev.PreviousStatus.String(),
		Comment:        ev.Comment,
	})
	if err != nil {
		return "", fmt.Errorf("render %s notification: %w", ev.NewStatus, err)
	}
	return buf.String(), nil
}
