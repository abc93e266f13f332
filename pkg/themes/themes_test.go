package themes_test

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/saurabhkr66/jsonbuilder/pkg/themes"
)

func TestSelector_DefaultsAndVariants(t *testing.T) {
	selector, err := themes.NewSelector(themes.Emerald())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != themes.DefaultTheme || selection.Variant != themes.DefaultVariant {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	dark, err := selector.Select(themes.DefaultTheme, "dark")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	cfg := themes.RendererConfig(dark, nil)
	if cfg.Tokens["page-bg"] != "#064e3b" {
		t.Fatalf("variant token not applied: %s", cfg.Tokens["page-bg"])
	}
	if cfg.Tokens["danger"] != "#dc2626" {
		t.Fatalf("base token lost: %s", cfg.Tokens["danger"])
	}
	if cfg.CSSVars["--jb-page-bg"] != "#064e3b" {
		t.Fatalf("css var not derived: %v", cfg.CSSVars)
	}

	unknownVariant, err := selector.Select(themes.DefaultTheme, "sepia")
	if err != nil {
		t.Fatalf("select unknown variant: %v", err)
	}
	if unknownVariant.Variant != "" {
		t.Fatalf("expected base manifest for unknown variant, got %q", unknownVariant.Variant)
	}

	if _, err := selector.Select("neon", ""); !errors.Is(err, themes.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestRendererConfig_ExtraTokensAndAssets(t *testing.T) {
	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"accent": "#123456"},
			Assets: theme.Assets{
				Prefix: "/assets/acme",
				Files:  map[string]string{"stylesheet": "acme.css"},
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Assets: theme.Assets{Files: map[string]string{"stylesheet": "acme-dark.css"}},
				},
			},
		},
	}

	cfg := themes.RendererConfig(selection, map[string]string{"accent": "#abcdef"})
	if cfg.Tokens["accent"] != "#abcdef" {
		t.Fatalf("extra token not applied: %s", cfg.Tokens["accent"])
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/acme-dark.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for missing asset, got %q", got)
	}
	if themes.RendererConfig(nil, nil) != nil {
		t.Fatalf("expected nil config for nil selection")
	}
}

func TestSelector_RejectsDuplicates(t *testing.T) {
	selector, err := themes.NewSelector(themes.Emerald())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(themes.Emerald()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := selector.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected error for unnamed manifest")
	}
}

func TestResolve(t *testing.T) {
	cfg, err := themes.Resolve("", "dark", map[string]string{"accent": "#000000"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != themes.DefaultTheme || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := cfg.CSSVars["--jb-page-bg"]; got != "#064e3b" {
		t.Fatalf("expected dark page background, got %q", got)
	}
	if got := cfg.CSSVars["--jb-accent"]; got != "#000000" {
		t.Fatalf("expected extra token to win, got %q", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/jsonbuilder.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}

	if _, err := themes.Resolve("missing", "", nil); !errors.Is(err, themes.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}
