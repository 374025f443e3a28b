package page

import (
	"errors"
	"fmt"
)

// Sentinel errors for page reindexing.
var (
	// ErrUnderivableKey indicates a page has neither an id nor a URL.
	ErrUnderivableKey = errors.New("page has neither id nor url")

	// ErrNilPage indicates a legacy handler left a nil entry in the page list.
	ErrNilPage = errors.New("nil page in page list")
)

// KeyError reports which entry of the page list could not be keyed.
type KeyError struct {
	// Index is the position in the legacy page list.
	Index int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *KeyError) Unwrap() error {
	return e.Err
}
