package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// TemplateManager resolves and renders the artifact template for a category.
type TemplateManager interface {
	Render(category models.Category, data ArtifactData) (string, error)
	RegisterTemplate(category models.Category, templatePath string) error
}

// ArtifactData holds values that can be referenced in artifact templates.
type ArtifactData struct {
	Title    string
	Features []string
	Files    []string
}

// templateManager implements TemplateManager with built-in defaults
// and support for custom template overrides.
type templateManager struct {
	basePath        string
	customTemplates map[models.Category]string
}

// NewTemplateManager creates a new TemplateManager. Relative custom template
// paths are resolved against basePath.
func NewTemplateManager(basePath string) TemplateManager {
	return &templateManager{
		basePath:        basePath,
		customTemplates: make(map[models.Category]string),
	}
}

// RegisterTemplate registers a custom template file that overrides the
// built-in default for the given category. Custom templates are used verbatim.
func (tm *templateManager) RegisterTemplate(category models.Category, templatePath string) error {
	if !category.Valid() {
		return fmt.Errorf("registering template: unknown category %q", category)
	}
	absPath := templatePath
	if !filepath.IsAbs(templatePath) {
		absPath = filepath.Join(tm.basePath, templatePath)
	}

	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("custom template file %s: %w", absPath, err)
	}

	tm.customTemplates[category] = absPath
	return nil
}

// Render returns the artifact content for a category.
func (tm *templateManager) Render(category models.Category, data ArtifactData) (string, error) {
	if customPath, ok := tm.customTemplates[category]; ok {
		raw, err := os.ReadFile(customPath) //nolint:gosec // G304: path registered by the operator
		if err != nil {
			return "", fmt.Errorf("reading custom template %s: %w", customPath, err)
		}
		return string(raw), nil
	}

	var raw string
	switch category {
	case models.CategoryStructure:
		raw = builtinHTMLTemplate
	case models.CategoryStyle:
		raw = builtinCSSTemplate
	case models.CategoryBehavior:
		raw = builtinJSTemplate
	case models.CategoryDocs:
		raw = builtinReadmeTemplate
	default:
		return "", fmt.Errorf("no template for category %q", category)
	}

	tmpl, err := template.New(string(category)).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", category, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", category, err)
	}
	return buf.String(), nil
}

// defaultFeatures is used when the requirements list no "- " bullet items.
var defaultFeatures = []string{
	"Add new todo items",
	"Mark items as completed",
	"Delete items",
	"Show task statistics",
	"Responsive design",
}

// NewArtifactData derives template values from free-text requirements.
// Bullet lines ("- " or "* ") become features.
func NewArtifactData(requirements string) ArtifactData {
	data := ArtifactData{Title: "Todo Application"}
	for _, line := range strings.Split(requirements, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			if feature := strings.TrimSpace(line[2:]); feature != "" {
				data.Features = append(data.Features, feature)
			}
		}
	}
	if len(data.Features) == 0 {
		data.Features = append([]string(nil), defaultFeatures...)
	}
	for _, c := range models.Categories() {
		if name, ok := ArtifactFile(c); ok {
			data.Files = append(data.Files, name)
		}
	}
	return data
}
