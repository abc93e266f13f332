package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saurabhkr66/jsonbuilder/internal/config"
	"github.com/saurabhkr66/jsonbuilder/internal/logging"
	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/tui"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/vanilla"
	"github.com/saurabhkr66/jsonbuilder/pkg/server"
	"github.com/saurabhkr66/jsonbuilder/pkg/themes"
)

// ServeCmd runs the HTTP page shell.
type ServeCmd struct {
	Addr string `help:"Listen address. Overrides server.addr." short:"a"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return err
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"theme":   cfg.Theme.Name + "/" + cfg.Theme.Variant,
		"preview": cfg.PreviewFormat(),
	}).Info("starting jsonbuilder")

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownGrace); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// newServer wires the configured theme, renderers and session store.
func newServer(cfg *config.Config, logger logrus.FieldLogger) (*server.Server, error) {
	themeCfg, err := themes.Resolve(cfg.Theme.Name, cfg.Theme.Variant, cfg.Theme.Tokens)
	if err != nil {
		return nil, err
	}

	var vanillaOpts []vanilla.Option
	if icon := strings.TrimSpace(cfg.UI.DeleteIcon); icon != "" {
		vanillaOpts = append(vanillaOpts, vanilla.WithDeleteIcon(icon))
	}
	registry, err := server.DefaultRegistry(vanillaOpts...)
	if err != nil {
		return nil, err
	}

	store := server.NewStore(
		server.WithTTL(cfg.Server.SessionTTL),
		server.WithMaxSessions(cfg.Server.MaxSessions),
	)

	return server.New(
		server.WithStore(store),
		server.WithRegistry(registry),
		server.WithLogger(logger),
		server.WithTheme(themeCfg),
		server.WithPreview(cfg.PreviewFormat(), cfg.Preview.Indent),
		server.WithTitle(cfg.UI.Title),
	)
}

// EditCmd runs the terminal session and prints the final document.
type EditCmd struct {
	Output string `help:"Write the final document here instead of stdout." short:"o" type:"path"`
	Format string `help:"Output format (json or yaml). Defaults to preview.format." short:"f"`
	Empty  bool   `help:"Start without the initial blank field."`
}

func (c *EditCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	return c.run(ctx, cfg, nil, os.Stdout)
}

func (c *EditCmd) run(ctx context.Context, cfg *config.Config, driver tui.PromptDriver, stdout io.Writer) error {
	format := cfg.PreviewFormat()
	if c.Format != "" {
		parsed, err := projection.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = parsed
	}

	var editorOpts []editor.Option
	if c.Empty {
		editorOpts = append(editorOpts, editor.WithEmptyStart())
	}

	opts := []tui.Option{
		tui.WithOutput(os.Stderr),
		tui.WithPreviewFormat(format),
		tui.WithIndent(cfg.Preview.Indent),
	}
	if driver != nil {
		opts = append(opts, tui.WithPromptDriver(driver))
	}
	session, err := tui.NewSession(editor.New(editorOpts...), opts...)
	if err != nil {
		return err
	}

	doc, err := session.Run(ctx)
	if err != nil {
		return err
	}

	out, err := projection.Marshal(doc, format, cfg.Preview.Indent)
	if err != nil {
		return err
	}
	if format == projection.FormatJSON {
		out = append(out, '\n')
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.Output, err)
		}
		fmt.Fprintf(os.Stderr, "Document written to %s\n", c.Output)
		return nil
	}
	_, err = stdout.Write(out)
	return err
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("jsonbuilder version %s\n", Version)
	return nil
}

func (g *Globals) load() (*config.Config, error) {
	if err := config.LoadEnvFiles(g.EnvFile...); err != nil {
		return nil, err
	}
	path := g.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
