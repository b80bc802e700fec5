package obserr

import (
	"errors"
	"fmt"
	"sync"
)

// Kind classifies a delivery failure. The zero value is KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig is an unusable destination list or tunable.
	KindConfig
	// KindConnect is a single failed connection attempt.
	KindConnect
	// KindBroken is a connection that was reset, closed or never established.
	KindBroken
	// KindWrite is a write failure that leaves the connection in place.
	KindWrite
	// KindExhausted means a reconnect cycle ran out of attempts.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConnect:
		return "connect"
	case KindBroken:
		return "broken"
	case KindWrite:
		return "write"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Error should be used as a drop-in replacement for Golang's native error type
// where adding key/value data, a Kind or annotated info makes debugging easier.
// Error is safe to use concurrently.
//
// The vals end up as logging.Fields when the error is reported.
type Error struct {
	orig error

	mu   sync.RWMutex
	err  error
	kind Kind
	vals map[string]interface{}
}

func (e *Error) deepCopy() *Error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vals := make(map[string]interface{}, len(e.vals))
	for k, v := range e.vals {
		vals[k] = v
	}
	return &Error{
		orig: e.orig,
		err:  e.err,
		kind: e.kind,
		vals: vals,
	}
}

func New(e interface{}) *Error {
	var err error

	switch o := e.(type) {
	case string:
		err = errors.New(o)
	case *Error:
		return o.deepCopy()
	case error:
		err = o
	default:
		err = fmt.Errorf("%v", o)
	}

	return &Error{
		orig: err,
		err:  err,
		vals: make(map[string]interface{}),
	}
}

// Newf builds an Error of the given kind from a format string.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(fmt.Errorf(format, args...)).WithKind(kind)
}

// Wrap annotates err and tags it with kind. A nil err yields nil.
func Wrap(err error, kind Kind, annotation string) *Error {
	if err == nil {
		return nil
	}
	return New(err).Annotate(annotation).WithKind(kind)
}

func (e *Error) Error() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err.Error()
}

// Unwrap exposes the original error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Kind() Kind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kind
}

func (e *Error) WithKind(kind Kind) *Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kind = kind
	return e
}

func (e *Error) Get(k string) interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vals[k]
}

func (e *Error) Set(kvs ...interface{}) *Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < len(kvs); i += 2 {
		e.vals[kvs[i].(string)] = kvs[i+1]
	}
	return e
}

// Vals returns a copy of the key/value data. The kind is included under "error_kind"
// once one has been set.
func (e *Error) Vals() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vals := make(map[string]interface{}, len(e.vals)+1)
	for k, v := range e.vals {
		vals[k] = v
	}
	if e.kind != KindUnknown {
		vals["error_kind"] = e.kind.String()
	}
	return vals
}

func (e *Error) Annotate(ann interface{}) *Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var a string

	switch o := ann.(type) {
	case string:
		a = o
	case *Error:
		a = o.Error()
	case error:
		a = o.Error()
	default:
		a = fmt.Sprintf("%v", o)
	}

	e.err = fmt.Errorf("%s: %s", a, e.err)
	return e
}

func Annotate(e error, an interface{}) *Error {
	return New(e).Annotate(an)
}

func Original(e error) error {
	if oe, ok := e.(*Error); ok {
		// orig is never changed after construction
		return oe.orig
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind()
	}
	return KindUnknown
}
