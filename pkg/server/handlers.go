package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/render"
)

// stateResponse is the JSON view of a session.
type stateResponse struct {
	Session  string               `json:"session"`
	Fields   []model.Field        `json:"fields"`
	Preview  *projection.Document `json:"preview"`
	Revision uint64               `json:"revision"`
}

// actionRequest accepts the path either as "0.1" or as [0, 1].
type actionRequest struct {
	Op   string          `json:"op"`
	Path json.RawMessage `json:"path,omitempty"`
	Key  string          `json:"key,omitempty"`
	Type string          `json:"type,omitempty"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	renderer, err := s.registry.Resolve(query.Get("renderer"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	format, err := s.formatFrom(query.Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(query.Get("session"))
	var e *editor.Editor
	if id == "" {
		id, e = s.store.Create()
	} else if e, err = s.store.Get(id); err != nil {
		// Expired or unknown page views start over.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := render.View{
		Session:  id,
		Snapshot: e.Snapshot(),
		Errors:   s.store.TakeFlash(id),
	}
	output, err := renderer.Render(r.Context(), view, s.renderOptions(format))
	if err != nil {
		s.logger.WithError(err).WithField("session", id).Error("render page")
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(output); err != nil {
		s.logger.WithError(err).Warn("write response")
	}
}

// handleFormAction applies one submitted row form and redirects back to the
// page (post/redirect/get). Rejected actions are flashed onto the next render.
func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(r.PostForm.Get("session"))
	e, err := s.store.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	action, err := actionFromForm(r.PostForm)
	if err == nil {
		err = e.Apply(action)
	}
	if err != nil {
		s.logger.WithError(err).WithField("session", id).Info("action rejected")
		_ = s.store.Flash(id, err.Error())
	}

	http.Redirect(w, r, "/?session="+url.QueryEscape(id), http.StatusSeeOther)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var opts []editor.Option
	if strings.EqualFold(r.URL.Query().Get("empty"), "true") {
		opts = append(opts, editor.WithEmptyStart())
	}
	id, e := s.store.Create(opts...)
	s.writeJSON(w, http.StatusCreated, stateFor(id, e))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateFor(id, e))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	var req actionRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("server: decode action: %w", err))
		return
	}

	action, err := req.action()
	if err == nil {
		err = e.Apply(action)
	}
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateFor(id, e))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	query := r.URL.Query()
	format, err := s.formatFrom(query.Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	indent := s.indent
	if raw := strings.TrimSpace(query.Get("indent")); raw != "" {
		indent, err = strconv.Atoi(raw)
		if err != nil || indent < 0 || indent > 8 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("server: invalid indent %q", raw))
			return
		}
	}

	out, err := projection.Marshal(e.Preview(), format, indent)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) formatFrom(raw string) (projection.Format, error) {
	if strings.TrimSpace(raw) == "" {
		return s.format, nil
	}
	return projection.ParseFormat(raw)
}

func (s *Server) renderOptions(format projection.Format) render.RenderOptions {
	return render.RenderOptions{
		Title:         s.title,
		Theme:         s.theme,
		PreviewFormat: format,
		Indent:        s.indent,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.logger.WithError(err).Warn("write json response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.WithFields(logrus.Fields{"status": status}).WithError(err).Debug("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func stateFor(id string, e *editor.Editor) stateResponse {
	snapshot := e.Snapshot()
	fields := snapshot.Fields
	if fields == nil {
		fields = []model.Field{}
	}
	return stateResponse{
		Session:  id,
		Fields:   fields,
		Preview:  snapshot.Preview,
		Revision: snapshot.Revision,
	}
}

// actionFromForm decodes a row form. The type selector submits without a
// button, so a missing op means update.
func actionFromForm(values url.Values) (editor.Action, error) {
	rawOp := strings.TrimSpace(values.Get("op"))
	if rawOp == "" {
		rawOp = string(editor.OpUpdate)
	}
	op, err := editor.ParseOp(rawOp)
	if err != nil {
		return editor.Action{}, err
	}
	path, err := model.ParsePath(values.Get("path"))
	if err != nil {
		return editor.Action{}, err
	}

	action := editor.Action{Op: op, Path: path, Key: values.Get("key")}
	if op == editor.OpUpdate || op == editor.OpSetType {
		typ, err := model.ParseFieldType(values.Get("type"))
		if err != nil {
			return editor.Action{}, err
		}
		action.Type = typ
	}
	return action, nil
}

func (req actionRequest) action() (editor.Action, error) {
	op, err := editor.ParseOp(req.Op)
	if err != nil {
		return editor.Action{}, err
	}
	path, err := parseJSONPath(req.Path)
	if err != nil {
		return editor.Action{}, err
	}

	action := editor.Action{Op: op, Path: path, Key: req.Key}
	if op == editor.OpUpdate || op == editor.OpSetType {
		typ, err := model.ParseFieldType(req.Type)
		if err != nil {
			return editor.Action{}, err
		}
		action.Type = typ
	}
	return action, nil
}

func parseJSONPath(raw json.RawMessage) (model.Path, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.Path{}, nil
	}
	if raw[0] == '"' {
		var dotted string
		if err := json.Unmarshal(raw, &dotted); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrPathNotFound, err)
		}
		return model.ParsePath(dotted)
	}
	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPathNotFound, err)
	}
	for _, idx := range indices {
		if idx < 0 {
			return nil, fmt.Errorf("%w: negative index %d", model.ErrPathNotFound, idx)
		}
	}
	return model.Path(indices), nil
}
