package domain

import (
	"errors"
	"fmt"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// ErrUnsupportedFormat means the filename extension is not a supported
	// document format. Surfaced immediately, no conversion attempted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrConversionFailed means every format/strategy combination in the
	// loader chain failed or produced empty text.
	ErrConversionFailed = errors.New("document conversion failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
