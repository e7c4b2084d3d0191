package record

import "github.com/pkg/errors"

// Error taxonomy shared by every stream. Parse and aggregation failures wrap
// one of these so callers can classify diagnostics with errors.Is.
var (
	ErrMalformedTimestamp   = errors.New("malformed timestamp")
	ErrMissingField         = errors.New("missing field")
	ErrMalformedField       = errors.New("malformed field")
	ErrMissingPrimaryDevice = errors.New("missing primary device")
	ErrMalformedAddressList = errors.New("malformed address list")
)

// Kind returns the taxonomy sentinel at the root of err, or nil when err is
// not one of ours.
func Kind(err error) error {
	cause := errors.Cause(err)
	switch cause {
	case ErrMalformedTimestamp, ErrMissingField, ErrMalformedField, ErrMissingPrimaryDevice, ErrMalformedAddressList:
		return cause
	}
	return nil
}
