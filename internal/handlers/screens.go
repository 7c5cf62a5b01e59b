package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mymatch/dashboard/internal/logic"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"dict": dict,
}).ParseFS(templateFS, "templates/*.html"))

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func (h *Handler) render(w http.ResponseWriter, s *logic.Session) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "layout", newPageView(s)); err != nil {
		renderErrors.WithLabelValues("page").Inc()
		h.logger.Errorw("Failed to render page", "error", err, "session", s.ID, "screen", s.Screen)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// done finishes a screen action. Errors already recorded on the session
// (s != nil) and stale-screen errors send the browser back to the page;
// anything else is a real failure.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, s *logic.Session, err error) {
	if err == nil || s != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch {
	case errors.Is(err, logic.ErrInvalidTransition),
		errors.Is(err, logic.ErrCatalogUnavailable),
		errors.Is(err, logic.ErrNoModelSelected),
		errors.Is(err, logic.ErrSessionNotFound):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, logic.ErrUnknownModel), errors.Is(err, logic.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Errorw("Screen action failed", "error", err, "session", sessionID(r.Context()), "path", r.URL.Path)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}

// Index renders the session's current screen
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Session(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.done(w, r, nil, err)
		return
	}
	h.render(w, s)
}

// Continue leaves the home screen
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Continue(r.Context(), sessionID(r.Context()))
	h.done(w, r, s, err)
}

// Reload reruns the startup loads
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Start(r.Context(), sessionID(r.Context()))
	h.done(w, r, s, err)
}

// PickModel opens the form for a model
func (h *Handler) PickModel(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s, err := h.dashboard.PickModel(r.Context(), sessionID(r.Context()), key)
	h.done(w, r, s, err)
}

// ChangeModel returns to the picker
func (h *Handler) ChangeModel(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.ChangeModel(r.Context(), sessionID(r.Context()))
	h.done(w, r, s, err)
}

// SubmitForm sends the prediction form. Stepper ops are ignored here; they
// post to StepForm so they never count against the prediction rate limit.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	in.Op, in.OpField = "", ""

	id := sessionID(r.Context())
	s, err := h.dashboard.Submit(r.Context(), id, in)
	if err != nil && s != nil {
		h.logger.Infow("Prediction not completed", "session", id, "error", err)
	}
	h.done(w, r, s, err)
}

// StepForm keeps the typed values and applies an op of "inc:<field>" or
// "dec:<field>" to a counter.
func (h *Handler) StepForm(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	s, err := h.dashboard.EditForm(r.Context(), sessionID(r.Context()), in)
	h.done(w, r, s, err)
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (logic.FormInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return logic.FormInput{}, false
	}
	return formInput(r), true
}

func formInput(r *http.Request) logic.FormInput {
	in := logic.FormInput{Values: make(map[string]string, len(r.PostForm))}
	for key := range r.PostForm {
		switch key {
		case logic.PlayerNameField:
			name := r.PostForm.Get(key)
			in.PlayerName = &name
		case "op", "field":
		default:
			in.Values[key] = r.PostForm.Get(key)
		}
	}

	op := r.PostForm.Get("op")
	if verb, field, ok := strings.Cut(op, ":"); ok {
		in.Op, in.OpField = verb, field
	} else if op == "inc" || op == "dec" {
		in.Op, in.OpField = op, r.PostForm.Get("field")
	}
	return in
}

// TogglePlayerSeries shows or hides a series of the player chart
func (h *Handler) TogglePlayerSeries(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.TogglePlayerSeries(r.Context(), sessionID(r.Context()), chi.URLParam(r, "key"))
	h.done(w, r, s, err)
}

// Report opens the report screen and, given player_name, searches it
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionID(ctx)

	s, err := h.dashboard.ShowReport(ctx, id)
	if err == nil {
		if name := r.URL.Query().Get("player_name"); strings.TrimSpace(name) != "" {
			s, err = h.dashboard.SearchReport(ctx, id, name)
		}
	}
	if err != nil {
		h.done(w, r, nil, err)
		return
	}
	h.render(w, s)
}

// ToggleReportSeries shows or hides a series of the report chart
func (h *Handler) ToggleReportSeries(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.ToggleReportSeries(r.Context(), sessionID(r.Context()), chi.URLParam(r, "key"))
	h.done(w, r, s, err)
}

// BackFromReport returns to the picker
func (h *Handler) BackFromReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.BackFromReport(r.Context(), sessionID(r.Context()))
	h.done(w, r, s, err)
}
