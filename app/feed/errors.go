package feed

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument = errors.New("malformed feed document")
	ErrUnknownDialect    = errors.New("unknown feed dialect")

	ErrNoDate          = errors.New("no publication date")
	ErrUnparseableDate = errors.New("unparseable publication date")
)

// UnknownDialectError carries the dialect code nobody is registered for.
type UnknownDialectError struct {
	Code string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown feed dialect %q", e.Code)
}

func (e *UnknownDialectError) Is(target error) bool {
	return target == ErrUnknownDialect
}
