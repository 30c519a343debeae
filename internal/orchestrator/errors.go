package orchestrator

import (
    "errors"
    "fmt"
    "net/http"

    "github.com/local/pdf2text/internal/fetch"
)

// Kind classifies a failed request.
type Kind string

const (
    KindMissingParameter  Kind = "missing_parameter"
    KindInvalidParameters Kind = "invalid_parameters"
    KindRemoteUnavailable Kind = "remote_unavailable"
    KindExtractionFailed  Kind = "extraction_failed"
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
    switch k {
    case KindMissingParameter, KindInvalidParameters:
        return http.StatusBadRequest
    case KindRemoteUnavailable:
        return http.StatusBadGateway
    default:
        return http.StatusInternalServerError
    }
}

// Label is the short "error" string clients see.
func (k Kind) Label() string {
    switch k {
    case KindMissingParameter:
        return "Missing pdfUrl parameter"
    case KindInvalidParameters:
        return "Invalid parameters"
    case KindRemoteUnavailable:
        return "Failed to download PDF"
    default:
        return "Failed to process PDF"
    }
}

// Error is the only error type the orchestrator returns.
type Error struct {
    Kind    Kind
    Message string
    Err     error
}

func (e *Error) Error() string {
    if e.Message == "" { return string(e.Kind) }
    return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err, treating anything unclassified as an
// extraction failure.
func KindOf(err error) Kind {
    var e *Error
    if errors.As(err, &e) { return e.Kind }
    return KindExtractionFailed
}

func missingURL() *Error {
    return &Error{Kind: KindMissingParameter}
}

func invalidParam(msg string) *Error {
    return &Error{Kind: KindInvalidParameters, Message: msg}
}

// classify translates errors from the fetch, validation and PDF layers.
func classify(err error) *Error {
    if err == nil { return nil }
    var e *Error
    if errors.As(err, &e) { return e }

    var rangeErr *RangeError
    if errors.As(err, &rangeErr) {
        return &Error{Kind: KindInvalidParameters, Message: rangeErr.Message, Err: err}
    }
    var fetchErr *fetch.FetchError
    if errors.As(err, &fetchErr) {
        return &Error{Kind: KindRemoteUnavailable, Message: fetchErr.Error(), Err: err}
    }
    return &Error{Kind: KindExtractionFailed, Message: err.Error(), Err: err}
}
