package table

import "fmt"

// TransportError wraps a failed fetch for the most recent epoch.
type TransportError struct {
	Epoch uint64
	Query Query
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch page %d (size %d): %v", e.Query.Page, e.Query.PageSize, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
