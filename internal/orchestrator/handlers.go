package orchestrator

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/local/pdf2text/internal/metrics"
)

const (
    routeText = "pdf-text"
    routeAll  = "pdf-text-all"
    routeInfo = "pdf-info"
)

func (o *Orchestrator) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/api/health", getOnly(handleHealth))
    mux.HandleFunc("/api/pdf-text", getOnly(o.handleText))
    mux.HandleFunc("/api/pdf-text-all", getOnly(o.handleTextAll))
    mux.HandleFunc("/api/pdf-info", getOnly(o.handleInfo))
}

type textResp struct {
    Text string `json:"text"`
}

type errorResp struct {
    Error   string `json:"error"`
    Message string `json:"message,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (o *Orchestrator) handleText(w http.ResponseWriter, r *http.Request) {
    start := time.Now()
    q := r.URL.Query()
    url := q.Get("pdfUrl")
    if url == "" {
        o.fail(w, r, routeText, start, missingURL()); return
    }
    minPage, err := parseBound(q.Get("min"), "min")
    if err != nil { o.fail(w, r, routeText, start, err); return }
    maxPage, err := parseBound(q.Get("max"), "max")
    if err != nil { o.fail(w, r, routeText, start, err); return }

    text, err := o.ExtractRange(r.Context(), url, minPage, maxPage)
    if err != nil { o.fail(w, r, routeText, start, err); return }
    metrics.ObserveRequest(routeText, "ok", time.Since(start))
    writeJSON(w, http.StatusOK, textResp{Text: text})
}

// handleTextAll ignores any min/max the client sends.
func (o *Orchestrator) handleTextAll(w http.ResponseWriter, r *http.Request) {
    start := time.Now()
    url := r.URL.Query().Get("pdfUrl")
    if url == "" {
        o.fail(w, r, routeAll, start, missingURL()); return
    }
    text, err := o.ExtractAll(r.Context(), url)
    if err != nil { o.fail(w, r, routeAll, start, err); return }
    metrics.ObserveRequest(routeAll, "ok", time.Since(start))
    writeJSON(w, http.StatusOK, textResp{Text: text})
}

func (o *Orchestrator) handleInfo(w http.ResponseWriter, r *http.Request) {
    start := time.Now()
    url := r.URL.Query().Get("pdfUrl")
    if url == "" {
        o.fail(w, r, routeInfo, start, missingURL()); return
    }
    info, err := o.Inspect(r.Context(), url)
    if err != nil { o.fail(w, r, routeInfo, start, err); return }
    metrics.ObserveRequest(routeInfo, "ok", time.Since(start))
    writeJSON(w, http.StatusOK, info)
}

func (o *Orchestrator) fail(w http.ResponseWriter, r *http.Request, route string, start time.Time, err error) {
    e := classify(err)
    metrics.ObserveRequest(route, string(e.Kind), time.Since(start))
    zerolog.Ctx(r.Context()).Info().Str("route", route).Str("kind", string(e.Kind)).Str("detail", e.Message).Msg("request failed")
    writeJSON(w, e.Kind.Status(), errorResp{Error: e.Kind.Label(), Message: e.Message})
}

// parseBound reads an optional page bound. Empty means "use the default".
func parseBound(raw, name string) (*int, error) {
    raw = strings.TrimSpace(raw)
    if raw == "" { return nil, nil }
    n, err := strconv.Atoi(raw)
    if err != nil {
        var numErr *strconv.NumError
        if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
            return nil, invalidParam(name + " is out of range")
        }
        return nil, invalidParam(name + " must be an integer")
    }
    return &n, nil
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet && r.Method != http.MethodHead {
            w.Header().Set("Allow", "GET, HEAD, OPTIONS")
            writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "Method not allowed"})
            return
        }
        next(w, r)
    }
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}
