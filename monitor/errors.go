package monitor

import "errors"

var (
	// ErrAlreadyRunning is returned by Start when a session is active.
	ErrAlreadyRunning = errors.New("monitor is already running")
	// ErrStopTimeout is returned by Stop when the cycle did not exit in
	// time. The session stays active and Stop can be retried.
	ErrStopTimeout = errors.New("monitor stop timed out")
	// ErrTransportFault wraps errors of the capture/render transport.
	ErrTransportFault = errors.New("transport fault")
)
