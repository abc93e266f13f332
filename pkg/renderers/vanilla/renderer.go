// Package vanilla renders the editor as a plain HTML page: one form per field
// row, posting actions back to the server, next to the JSON preview. No
// client-side script is required beyond auto-submitting the type selector.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/render"
	rendertemplate "github.com/saurabhkr66/jsonbuilder/pkg/render/template"
	gotemplate "github.com/saurabhkr66/jsonbuilder/pkg/render/template/gotemplate"
)

const (
	pageTemplate = "templates/page.tmpl"
	defaultTitle = "JSON Schema Builder"
	// DefaultActionURL is where row forms post.
	DefaultActionURL = "/actions"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	actionURL        string
	deleteIcon       string
	inlineStyles     bool
	stylesheetURL    string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithActionURL changes the endpoint row forms post to.
func WithActionURL(url string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(url) != "" {
			cfg.actionURL = strings.TrimSpace(url)
		}
	}
}

// WithDeleteIcon replaces the trash icon. Markup is sanitised down to inline
// SVG; input that sanitises to nothing keeps the default icon.
func WithDeleteIcon(svg string) Option {
	return func(cfg *config) {
		if cleaned := sanitizeIconMarkup(svg); cleaned != "" {
			cfg.deleteIcon = cleaned
		}
	}
}

// WithInlineStyles embeds the bundled stylesheet into the page instead of
// linking it.
func WithInlineStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an explicit stylesheet URL, taking precedence over the
// theme asset.
func WithStylesheet(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = strings.TrimSpace(url)
	}
}

type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	actionURL     string
	deleteIcon    string
	inlineStyles  bool
	stylesheetURL string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		actionURL:  DefaultActionURL,
		deleteIcon: sanitizeIconMarkup(DefaultDeleteIcon),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(cfg.templateFS,
			gotemplate.WithFilter("domid", filterDOMID),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		actionURL:     cfg.actionURL,
		deleteIcon:    cfg.deleteIcon,
		inlineStyles:  cfg.inlineStyles,
		stylesheetURL: cfg.stylesheetURL,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	preview, err := options.Preview(view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: preview: %w", err)
	}

	format := options.PreviewFormat
	if format == "" {
		format = projection.FormatJSON
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = defaultTitle
	}

	data := map[string]any{
		"title":          title,
		"session":        view.Session,
		"action_url":     r.actionURL,
		"rows":           templateRows(view.Snapshot.Rows),
		"type_options":   typeOptions(),
		"errors":         append(make([]string, 0, len(view.Errors)), view.Errors...),
		"preview":        preview,
		"preview_format": string(format),
		"preview_label":  previewLabel(format),
		"revision":       strconv.FormatUint(view.Snapshot.Revision, 10),
		"delete_icon":    r.deleteIcon,
	}
	r.applyTheme(data, options)

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) applyTheme(data map[string]any, options render.RenderOptions) {
	data["theme_name"] = ""
	data["theme_variant"] = ""
	data["css_vars"] = ""
	data["stylesheet_url"] = r.stylesheetURL
	data["inline_styles"] = ""
	if r.inlineStyles {
		data["inline_styles"] = defaultStylesheet()
	}

	cfg := options.Theme
	if cfg == nil {
		return
	}
	data["theme_name"] = cfg.Theme
	data["theme_variant"] = cfg.Variant
	data["css_vars"] = cssVarsStyle(cfg.CSSVars)
	if r.stylesheetURL == "" && !r.inlineStyles && cfg.AssetURL != nil {
		data["stylesheet_url"] = cfg.AssetURL(StylesheetAsset)
	}
}

// templateRows converts rows into string-only maps; numbers would otherwise
// reach the template as floats.
func templateRows(rows []editor.Row) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"kind":   string(row.Kind),
			"id":     strconv.FormatUint(uint64(row.ID), 10),
			"path":   row.Path,
			"depth":  strconv.Itoa(row.Depth),
			"key":    row.Key,
			"type":   string(row.Type),
			"nested": row.Nested,
		})
	}
	return out
}

func typeOptions() []any {
	out := make([]any, 0, len(model.SelectableTypes))
	for _, typ := range model.SelectableTypes {
		out = append(out, map[string]any{
			"value": string(typ),
			"label": typ.Label(),
		})
	}
	return out
}

func previewLabel(format projection.Format) string {
	if format == projection.FormatYAML {
		return "YAML Preview"
	}
	return "JSON Preview"
}
