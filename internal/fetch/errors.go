package fetch

import "fmt"

// FetchError reports a failed download. StatusCode is set when the remote
// answered with a non-success status; Err holds the transport cause otherwise.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %s for url '%s'", e.Status, e.URL)
	}
	return fmt.Sprintf("download '%s': %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
