package remote

import "fmt"

// FetchError reports a request that could not be completed or that came
// back with a non-2xx status. StatusCode is zero for transport failures.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): status %d: %v", e.Resource, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.Resource, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not the expected JSON shape.
type ParseError struct {
	Resource string
	URL      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Resource, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
