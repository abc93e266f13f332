package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	// failSelect is returned once scripted selections run out.
	failSelect error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		if s.failSelect != nil {
			return -1, s.failSelect
		}
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) consumedAll(t *testing.T) {
	t.Helper()
	if s.inputPos != len(s.inputs) || s.selectPos != len(s.selectIdx) || s.confirmPos != len(s.confirm) {
		t.Fatalf("prompts not consumed as expected: inputs %d/%d selects %d/%d confirms %d/%d",
			s.inputPos, len(s.inputs), s.selectPos, len(s.selectIdx), s.confirmPos, len(s.confirm))
	}
}

func TestSession_BuildsNestedField(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"user", "age"},
		selectIdx: []int{
			0, 0, // add field, type string
			2, 0, // make nested, pick [0]
			3, 0, 1, // add nested field under [0], type number
			6, // done
		},
	}
	e := editor.New(editor.WithEmptyStart(), editor.WithIDGenerator(model.NewCounter()))
	session, err := NewSession(e, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	doc, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumedAll(t)

	want := map[string]any{"user": map[string]any{"age": 0}}
	if diff := cmp.Diff(want, doc.Map()); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
	if got := projection.String(doc); got != "{\n  \"user\": {\n    \"age\": 0\n  }\n}" {
		t.Fatalf("unexpected preview text %q", got)
	}
}

func TestSession_ReportsRejectedActionsAndDeletes(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"id", "draft"},
		confirm: []bool{true},
		selectIdx: []int{
			3,       // add nested field, nothing nested yet
			1, 0, 1, // edit [0], type number
			0, 2, // add field, type boolean
			4, 1, // delete [1]
			5, // show preview
			6, // done
		},
	}
	e := editor.New(editor.WithIDGenerator(model.NewCounter()))
	session, err := NewSession(e,
		WithPromptDriver(driver),
		WithPreviewFormat(projection.FormatYAML),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	doc, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumedAll(t)

	if diff := cmp.Diff(map[string]any{"id": 0}, doc.Map()); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}

	var sawError, sawPreview bool
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "error: ") && strings.Contains(msg, ErrNoFields.Error()) {
			sawError = true
		}
		if msg == "id: 0" {
			sawPreview = true
		}
	}
	if !sawError {
		t.Fatalf("expected rejected action to be reported, got %q", driver.infoMessages)
	}
	if !sawPreview {
		t.Fatalf("expected yaml preview message, got %q", driver.infoMessages)
	}
}

func TestSession_KeepsNestedTypeWhenRenaming(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"account"},
		selectIdx: []int{1, 0, 6, 6},
	}
	session, err := NewSession(testsupport.SampleEditor(t), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	doc, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumedAll(t)

	typeSelect := driver.selects[2]
	if len(typeSelect.Options) != 7 || typeSelect.Options[6] != keepNested || typeSelect.DefaultIndex != 6 {
		t.Fatalf("unexpected type selector: %+v", typeSelect)
	}

	want := map[string]any{
		"account": map[string]any{"name": "", "age": 0},
		"tags":    []any{},
	}
	if diff := cmp.Diff(want, doc.Map()); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_DeclinedDeleteKeepsField(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{false},
		selectIdx: []int{4, 0, 6},
	}
	e := editor.New(editor.WithIDGenerator(model.NewCounter()))
	session, err := NewSession(e, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if _, err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := len(session.Editor().Fields()); got != 1 {
		t.Fatalf("expected field kept, got %d fields", got)
	}
}

func TestSession_AbortEndsRun(t *testing.T) {
	driver := &stubDriver{failSelect: ErrAborted}
	session, err := NewSession(editor.New(), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	_, err = session.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := NewSession(editor.New(), WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewSession_RequiresEditor(t *testing.T) {
	if _, err := NewSession(nil); err == nil {
		t.Fatalf("expected error for nil editor")
	}
}
