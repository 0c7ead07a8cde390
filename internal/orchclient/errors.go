package orchclient

import (
	"errors"
	"fmt"
	"net/http"

	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// TransportError is a gateway response with a non-2xx status.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport error"
	}
	if e.Message != "" {
		return fmt.Sprintf("orchestrator returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("orchestrator returned %d", e.StatusCode)
}

// Classify wraps a transport failure into the shared taxonomy. HTTP-status
// kinds win; anything without a status falls back to the operation kind or,
// for dial/timeout failures, to a network error. Kinds are assigned here
// once and never re-translated above the facade.
func Classify(op string, fallback schema.APIErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var existing *schema.APIError
	if errors.As(err, &existing) {
		return err
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		switch {
		case transport.StatusCode == http.StatusUnauthorized:
			return schema.NewAPIError(schema.KindUnauthorized, op, err)
		case transport.StatusCode == http.StatusForbidden:
			return schema.NewAPIError(schema.KindForbidden, op, err)
		case transport.StatusCode == http.StatusNotFound:
			return schema.NewAPIError(schema.KindNotFound, op, err)
		case transport.StatusCode >= 500:
			return schema.NewAPIError(schema.KindServerError, op, err)
		default:
			return schema.NewAPIError(fallback, op, err)
		}
	}
	return schema.NewAPIError(schema.KindNetworkError, op, err)
}

func logTransportError(log pslog.Logger, msg string, err error) {
	if log == nil || err == nil {
		return
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		log.Warn(msg, "err", err, "status", transport.StatusCode, "message", transport.Message)
		return
	}
	log.Warn(msg, "err", err)
}
