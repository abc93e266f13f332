// Package themes provides the go-theme manifests bundled with the editor and
// turns a theme selection into the renderer configuration the HTML renderer
// consumes.
package themes

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultTheme is the bundled theme name.
	DefaultTheme = "emerald"
	// DefaultVariant is used when no variant is requested.
	DefaultVariant = "light"
)

// ErrThemeNotFound is returned when a selector cannot resolve a theme name.
var ErrThemeNotFound = errors.New("themes: theme not found")

// Emerald mirrors the look of the original page: an emerald shell around a
// light grey preview pane.
func Emerald() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"page-bg":      "#047857",
			"page-fg":      "#0f172a",
			"card-bg":      "#ffffff",
			"card-border":  "#d1d5db",
			"preview-bg":   "#f3f4f6",
			"accent":       "#111827",
			"accent-fg":    "#ffffff",
			"danger":       "#dc2626",
			"danger-fg":    "#ffffff",
			"nested-guide": "#9ca3af",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "jsonbuilder.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"page-bg":     "#064e3b",
					"page-fg":     "#e5e7eb",
					"card-bg":     "#1f2937",
					"card-border": "#374151",
					"preview-bg":  "#111827",
					"accent":      "#10b981",
					"accent-fg":   "#022c22",
				},
			},
		},
	}
}

// Selector resolves theme/variant pairs against a fixed set of manifests.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests; the first one becomes the default theme.
func NewSelector(manifests ...*theme.Manifest) (*Selector, error) {
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest),
		defaultVariant: DefaultVariant,
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("themes: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return errors.New("themes: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	s.manifests[name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = name
	}
	return nil
}

// Names lists registered themes.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. Blank names fall back to the
// defaults; an unknown variant falls back to the base manifest.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// RendererConfig flattens a selection into tokens, CSS custom properties and
// an asset resolver. Variant tokens and assets override the base manifest;
// extra tokens (from configuration) override both.
func RendererConfig(selection *theme.Selection, extra map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
	}
	for key, value := range extra {
		if strings.TrimSpace(key) == "" {
			continue
		}
		tokens[key] = value
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--jb-"+key] = value
	}

	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// Resolve selects name/variant from the bundled themes and returns the
// renderer configuration with extra tokens applied.
func Resolve(name, variant string, extra map[string]string) (*theme.RendererConfig, error) {
	selector, err := NewSelector(Emerald())
	if err != nil {
		return nil, err
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection, extra), nil
}
