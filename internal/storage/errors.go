package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks lookups whose id has no backing document or asset.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFormat marks archives that cannot be parsed or are missing
	// required structure.
	ErrInvalidFormat = errors.New("invalid archive format")
	// ErrIncompatibleVersion marks archives whose major version differs from
	// the codec's.
	ErrIncompatibleVersion = errors.New("incompatible archive version")
	// ErrStorageFailure marks failures of the underlying storage (quota,
	// locked library, I/O).
	ErrStorageFailure = errors.New("storage failure")
	// ErrPartialResource marks operations that completed with a reduced
	// resource set. It never aborts an export or import; it exists so callers
	// can classify the degradation.
	ErrPartialResource = errors.New("partial resource failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStorageFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "persistence failure"
	}
	return strings.Join(parts, ": ")
}
