package web

import (
    "fmt"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/hlog"
)

const RequestIDHeader = "X-Request-ID"

// Chain wraps h so that the first middleware is outermost.
func Chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
    for i := len(mw) - 1; i >= 0; i-- {
        h = mw[i](h)
    }
    return h
}

// Middleware returns the standard stack: request-scoped logger, request id,
// access log, panic recovery and CORS.
func Middleware(logger zerolog.Logger, allowOrigin string) []func(http.Handler) http.Handler {
    return []func(http.Handler) http.Handler{
        hlog.NewHandler(logger),
        RequestID,
        hlog.AccessHandler(accessLog),
        Recover,
        CORS(allowOrigin),
    }
}

// RequestID keeps an incoming X-Request-ID or generates one, echoes it on the
// response and adds it to the request logger.
func RequestID(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        id := r.Header.Get(RequestIDHeader)
        if id == "" { id = uuid.NewString() }
        w.Header().Set(RequestIDHeader, id)
        l := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
        next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
    })
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
    ev := hlog.FromRequest(r).Info()
    if status >= 500 { ev = hlog.FromRequest(r).Warn() }
    ev.Str("method", r.Method).
        Str("path", r.URL.Path).
        Int("status", status).
        Int("size", size).
        Dur("duration", d).
        Msg("request")
}

// Recover turns a handler panic into a 500 JSON response.
func Recover(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                if rec == http.ErrAbortHandler { panic(rec) }
                hlog.FromRequest(r).Error().Str("panic", fmt.Sprint(rec)).Msg("handler panic")
                w.Header().Set("Content-Type", "application/json")
                w.WriteHeader(http.StatusInternalServerError)
                _, _ = w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
            }
        }()
        next.ServeHTTP(w, r)
    })
}

// CORS allows any method and header from allowOrigin. Preflight requests are
// answered directly with 204.
func CORS(allowOrigin string) func(http.Handler) http.Handler {
    if allowOrigin == "" { allowOrigin = "*" }
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            h := w.Header()
            h.Set("Access-Control-Allow-Origin", allowOrigin)
            if allowOrigin != "*" {
                h.Set("Access-Control-Allow-Credentials", "true")
                h.Add("Vary", "Origin")
            }
            if r.Method == http.MethodOptions {
                h.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, PATCH, DELETE, OPTIONS")
                if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
                    h.Set("Access-Control-Allow-Headers", req)
                } else {
                    h.Set("Access-Control-Allow-Headers", "*")
                }
                h.Set("Access-Control-Max-Age", "600")
                w.WriteHeader(http.StatusNoContent)
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}
