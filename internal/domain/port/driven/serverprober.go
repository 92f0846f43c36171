package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
)

// ErrInvalidWebURL is returned by ServerProber when a server's web URL is not an
// absolute http(s) URL.
var ErrInvalidWebURL = errors.New("invalid web url")

// ServerProber defines the driven port for checking that a statistics server's
// web endpoint answers. A non-2xx answer is a result, not an error; errors are
// reserved for requests that could not be made at all.
type ServerProber interface {
	Probe(ctx context.Context, webURL string) (model.ProbeResult, error)
}
