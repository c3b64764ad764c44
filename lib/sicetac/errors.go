package sicetac

import "fmt"

// TransportError reports a network-level failure after the retry budget is
// spent, or a client error the gateway rejected outright. Callers should
// treat it as a bad-gateway condition and must not retry it again.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("sicetac transport failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("sicetac transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response that could not be decoded: a malformed
// SOAP envelope or an inner payload that is not valid XML. Retrying cannot
// help, so it is surfaced immediately.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sicetac protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sicetac protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UpstreamBusinessError carries the verbatim ErrorMSG text SICETAC returns
// when it has no data for the requested parameters. It is the upstream's
// not-found sentinel, not a fault.
type UpstreamBusinessError struct {
	Message string
}

func (e *UpstreamBusinessError) Error() string { return e.Message }

// NotFoundError reports a structurally valid response that produced no usable
// quotes, either because it held no documento elements or because none of
// them carried a parsable monetary value.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }
