package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhkr66/jsonbuilder/internal/config"
	"github.com/saurabhkr66/jsonbuilder/internal/logging"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/tui"
)

// doneDriver ends the session at the first menu.
type doneDriver struct{}

func (doneDriver) Input(context.Context, tui.InputConfig) (string, error) { return "", nil }

func (doneDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) { return true, nil }

func (doneDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return len(cfg.Options) - 1, nil
}

func (doneDriver) Info(context.Context, string) error { return nil }

func TestEditCmd_WritesDocumentToStdout(t *testing.T) {
	cmd := &EditCmd{Empty: true}
	var out bytes.Buffer

	require.NoError(t, cmd.run(context.Background(), config.Default(), doneDriver{}, &out))
	assert.Equal(t, "{}\n", out.String())
}

func TestEditCmd_WritesYAMLFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "doc.yaml")
	cmd := &EditCmd{Empty: true, Format: "yaml", Output: target}
	var out bytes.Buffer

	require.NoError(t, cmd.run(context.Background(), config.Default(), doneDriver{}, &out))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestEditCmd_RejectsUnknownFormat(t *testing.T) {
	cmd := &EditCmd{Format: "toml"}
	err := cmd.run(context.Background(), config.Default(), doneDriver{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewServer_FromDefaults(t *testing.T) {
	srv, err := newServer(config.Default(), logging.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON Schema Builder")
	assert.Equal(t, 1, srv.Store().Len())
}

func TestNewServer_UnknownTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Name = "missing"
	_, err := newServer(cfg, logging.Discard())
	assert.Error(t, err)
}
