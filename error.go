package lazysearch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Precondition errors.
var (
	ErrNilValues    = errors.New("element sequence is nil")
	ErrNilTransform = errors.New("transformation is nil")
)

// Error provides rich context about a failed search. It records which
// stage failed on which element, what the untransformed element was, and
// whether the failure came from timeout or cancellation.
//
// A search that simply finds nothing is not an error; it returns NotFound.
type Error[T any] struct {
	Timestamp    time.Time
	InputData    T
	Err          error
	Path         []Name
	StageName    Name
	Duration     time.Duration
	StageIndex   int
	ElementIndex int
	Timeout      bool
	Canceled     bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error[T]) Error() string {
	if e == nil {
		return "<nil>"
	}

	location := strings.Join(e.Path, " -> ")
	if e.StageName != "" {
		location = fmt.Sprintf("%s: stage %q (%d) at element %d", location, e.StageName, e.StageIndex, e.ElementIndex)
	} else {
		location = fmt.Sprintf("%s: element %d", location, e.ElementIndex)
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error[T]) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error[T]) IsTimeout() bool {
	if e == nil {
		return false
	}
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error[T]) IsCanceled() bool {
	if e == nil {
		return false
	}
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// panicError is the Err of an Error[T] produced by a panicking stage.
type panicError struct {
	stageName Name
	sanitized string
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic in stage %q: %s", p.stageName, p.sanitized)
}

const maxPanicMessageLength = 200

var (
	memoryAddressPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	filePathPattern      = regexp.MustCompile(`(^|\s)(/|[A-Za-z]:\\)[^\s]*\.go(:\d+)?`)
)

// sanitizePanicMessage turns a recovered panic value into a message that
// is safe to surface: no raw addresses, file paths or stack traces.
func sanitizePanicMessage(r any) string {
	if r == nil {
		return "unknown panic (nil value)"
	}

	var msg string
	switch v := r.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}

	if len(msg) > maxPanicMessageLength {
		return "panic occurred (message truncated for security)"
	}
	if strings.Contains(msg, "goroutine ") || strings.Contains(msg, "runtime.") {
		return "panic occurred (stack trace sanitized)"
	}
	if filePathPattern.MatchString(msg) {
		return "panic occurred (file path sanitized)"
	}

	return "panic occurred: " + memoryAddressPattern.ReplaceAllString(msg, "0x***")
}
