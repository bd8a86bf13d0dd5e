package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrMalformedRecord = errors.New("malformed product record")
	ErrUnknownChannel  = errors.New("unknown channel")
)

// FetchError reports that the catalog store could not deliver usable data:
// either it was unreachable or one of its records could not be decoded.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetch helps handlers tell a data-fetch failure apart from a missing product.
func IsFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
