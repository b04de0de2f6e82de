package screeps

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInterval = errors.New("invalid_interval")
	ErrTimeout         = errors.New("timeout")
)

// DecodeError reports a 2xx response whose body could not be mapped onto the
// expected record: malformed JSON, a missing envelope field, or a missing
// required field.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError reports a request that never produced an HTTP status.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the transport gave up waiting.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrTimeout && e.Timeout()
}
