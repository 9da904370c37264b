package httpx

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/fractionaljobs/landing/internal/http/uiutil"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// view names: each has "<view>-title" and "<view>-content" templates.
const (
	viewPage     = "page"
	viewIndex    = "index"
	viewNotFound = "notfound"
)

// TemplateRenderer renders landing page HTML.
type TemplateRenderer struct {
	views  map[string]*template.Template
	logger *slog.Logger
}

var templateFuncs = template.FuncMap{
	"count":     uiutil.Count,
	"dayRate":   uiutil.DayRate,
	"truncate":  uiutil.TruncateWithEllipsis,
	"postedAge": postedAge,
}

func postedAge(days *int) string {
	if days == nil {
		return uiutil.PostedAge(0, false)
	}
	return uiutil.PostedAge(*days, true)
}

// NewTemplateRenderer parses the embedded templates, one tree per view.
func NewTemplateRenderer(logger *slog.Logger) (*TemplateRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &TemplateRenderer{views: map[string]*template.Template{}, logger: logger}
	for _, view := range []string{viewPage, viewIndex, viewNotFound} {
		t, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+view+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", view, err)
		}
		// Bind the layout blocks to this view.
		if _, err := t.New("title").Parse(`{{template "` + view + `-title" .}}`); err != nil {
			return nil, fmt.Errorf("bind %s title: %w", view, err)
		}
		if _, err := t.New("content").Parse(`{{template "` + view + `-content" .}}`); err != nil {
			return nil, fmt.Errorf("bind %s content: %w", view, err)
		}
		r.views[view] = t
	}
	return r, nil
}

// Render writes view with data and the given status.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, view string, data any) {
	t, ok := r.views[view]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", slog.String("view", view), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
