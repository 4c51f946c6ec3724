// Package scan implements the concurrent host probing pipeline: DNS
// resolution, private-IP classification, TCP port probing, HTTP
// fingerprinting and optional screenshot capture, fanned out over a
// bounded worker pool with cooperative cancellation.
package scan

import "fmt"

// WebPorts is the fixed probe list. Probing follows this order; reported
// open-port sets are sorted ascending before use.
var WebPorts = []int{80, 443, 8080, 8443, 8000, 3000, 8081, 8444}

// FailureKind classifies where in the pipeline a host or port was lost.
type FailureKind int

const (
	FailureResolution FailureKind = iota // DNS lookup failed
	FailureConnect                       // TCP connect timed out or was refused
	FailureFetch                         // HTTP transport or protocol error
	FailureCapture                       // browser navigation or capture error
)

// String returns the stage name for log output.
func (k FailureKind) String() string {
	switch k {
	case FailureResolution:
		return "resolution"
	case FailureConnect:
		return "connect"
	case FailureFetch:
		return "fetch"
	case FailureCapture:
		return "capture"
	}
	return "unknown"
}

// StageError wraps a stage failure with its kind. Stage failures are
// swallowed at host/port granularity and never abort a worker.
type StageError struct {
	Kind FailureKind
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// SchemeForPort returns the URL scheme used to talk to a given port.
func SchemeForPort(port int) string {
	switch port {
	case 443, 8443, 8444:
		return "https"
	}
	return "http"
}
