// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
)

// Sentinel errors returned by ServerStore implementations.
var (
	// ErrStoreIO indicates the backing store could not be read or written
	// (missing, unreadable or unwritable file, closed database).
	ErrStoreIO = errors.New("statistics server store unavailable")

	// ErrMalformedRecord indicates a stored record has the wrong number of fields.
	// Returned errors are *ParseError values that match this sentinel.
	ErrMalformedRecord = errors.New("malformed statistics server record")

	// ErrServerNotFound indicates the requested position holds no server.
	ErrServerNotFound = errors.New("statistics server not found")

	// ErrInvalidServerField indicates a server cannot be stored because a field
	// is empty or contains a record delimiter.
	ErrInvalidServerField = model.ErrInvalidField
)

// ParseError reports a record that could not be decoded. Line is 1-based.
type ParseError struct {
	Line    int
	Content string
	Fields  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error while loading server %q (line %d): expected 3 or 4 fields, got %d",
		e.Content, e.Line, e.Fields)
}

// Is makes errors.Is(err, ErrMalformedRecord) match any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ServerStore defines the driven port for statistics server persistence.
// Records are identified by their zero-based position; positions shift after RemoveAt.
// LoadAll returns an empty slice for an empty store and wraps ErrStoreIO when the
// store does not exist. RemoveAt and SelectAt return ErrServerNotFound for an
// out-of-range index. Append returns the position the server was stored at, or
// ErrInvalidServerField for unencodable servers.
type ServerStore interface {
	LoadAll(ctx context.Context) ([]model.StatisticsServer, error)
	Append(ctx context.Context, server model.StatisticsServer) (int, error)
	RemoveAt(ctx context.Context, index int) error
	SelectAt(ctx context.Context, index int) (model.StatisticsServer, error)
}
