package tui

import (
	"io"

	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
)

// Theme captures optional formatting hints the session applies when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints outlines and
// previews. Ignored when WithPromptDriver supplies a driver.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		s.out = out
	}
}

// WithPreviewFormat selects the format of the "Show preview" action.
func WithPreviewFormat(format projection.Format) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

// WithIndent sets the preview indentation.
func WithIndent(indent int) Option {
	return func(s *Session) {
		s.indent = indent
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
