package delivery

import (
	"errors"
	"io"
	"net"

	"golang.org/x/sys/unix"

	"github.com/mixpanel/graphite/obserr"
)

var errNotConnected = errors.New("not connected to graphite")

// IsBroken reports whether err means the connection can no longer be written to:
// reset, aborted, broken pipe, closed, never established or timed out. Such failures
// trigger a reconnect; any other write error leaves the connection alone.
func IsBroken(err error) bool {
	if err == nil {
		return false
	}
	if obserr.KindOf(err) == obserr.KindBroken {
		return true
	}
	if errors.Is(err, errNotConnected) || errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, unix.ECONNRESET) || errors.Is(err, unix.EPIPE) ||
		errors.Is(err, unix.ECONNABORTED) || errors.Is(err, unix.ENOTCONN) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func classify(err error) obserr.Kind {
	if IsBroken(err) {
		return obserr.KindBroken
	}
	return obserr.KindWrite
}
