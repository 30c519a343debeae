// Package web serves the landing page and the HTTP middleware shared by all routes.
package web

import (
    "embed"
    "html/template"
    "net/http"

    "github.com/rs/zerolog"
)

//go:embed templates/*.html
var templates embed.FS

// Limits are shown on the landing page.
type Limits struct {
    DefaultMin int
    DefaultMax int
    MaxSpan    int
    AllMax     int
}

type Web struct {
    tpl    *template.Template
    limits Limits
}

func New(limits Limits) *Web {
    tpl := template.Must(template.ParseFS(templates, "templates/*.html"))
    return &Web{tpl: tpl, limits: limits}
}

func (w *Web) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/", w.handleIndex)
}

func (w *Web) handleIndex(wr http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/" { http.NotFound(wr, r); return }
    if r.Method != http.MethodGet && r.Method != http.MethodHead {
        wr.Header().Set("Allow", "GET, HEAD, OPTIONS")
        wr.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    w.render(wr, r, "index.html", map[string]any{
        "Title":      "PDF2Text Extractor API",
        "DefaultMin": w.limits.DefaultMin,
        "DefaultMax": w.limits.DefaultMax,
        "MaxSpan":    w.limits.MaxSpan,
        "AllMax":     w.limits.AllMax,
    })
}

func (w *Web) render(wr http.ResponseWriter, r *http.Request, name string, data any) {
    wr.Header().Set("Content-Type", "text/html; charset=utf-8")
    if err := w.tpl.ExecuteTemplate(wr, name, data); err != nil {
        zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
    }
}
