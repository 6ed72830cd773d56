package judge0

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedLanguage = errors.New("language is not supported")
	ErrEmptyBatch          = errors.New("batch has no submissions")
	ErrPollTimeout         = errors.New("timeout waiting for judge results")
	ErrUnknownToken        = errors.New("judge did not report submission")
)

// TransportError is returned for network failures and non-2xx responses of the judge API.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("judge0 %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("judge0 %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
