// Package apperr defines the error kinds surfaced by the API and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindInvalidInput
	KindQuotaExceeded
	KindSubscriptionRequired
	KindNotFound
	KindUpstreamRateLimited
	KindUpstreamBilling
	KindUpstreamTimeout
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidInput:
		return "invalid_input"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindSubscriptionRequired:
		return "subscription_required"
	case KindNotFound:
		return "not_found"
	case KindUpstreamRateLimited:
		return "upstream_rate_limited"
	case KindUpstreamBilling:
		return "upstream_billing"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindQuotaExceeded, KindSubscriptionRequired:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamBilling:
		return http.StatusPaymentRequired
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) defaultMessage() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthorized"
	case KindInvalidInput:
		return "Invalid request"
	case KindQuotaExceeded:
		return "Free usage limit reached. Please upgrade to pro for unlimited access."
	case KindSubscriptionRequired:
		return "This tool requires a pro subscription. Please upgrade to continue."
	case KindNotFound:
		return "Not found"
	case KindUpstreamRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindUpstreamBilling:
		return "The AI provider rejected the request for billing reasons. Please try again later."
	case KindUpstreamTimeout:
		return "The AI provider took too long to respond. Please try again."
	default:
		return "Internal error"
	}
}

// Error is a classified failure. Message, when set, is safe to show to clients.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, apperr.QuotaExceeded) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	Unauthenticated      = &Error{Kind: KindUnauthenticated}
	InvalidInput         = &Error{Kind: KindInvalidInput}
	QuotaExceeded        = &Error{Kind: KindQuotaExceeded}
	SubscriptionRequired = &Error{Kind: KindSubscriptionRequired}
	NotFound             = &Error{Kind: KindNotFound}
	UpstreamRateLimited  = &Error{Kind: KindUpstreamRateLimited}
	UpstreamBilling      = &Error{Kind: KindUpstreamBilling}
	UpstreamTimeout      = &Error{Kind: KindUpstreamTimeout}
	Persistence          = &Error{Kind: KindPersistence}
)

// New builds an error with a client-facing message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err under kind. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Invalid is shorthand for an InvalidInput error carrying a client message.
func Invalid(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return KindOf(err).Status()
}

// PublicMessage returns a message that may be sent to clients. Internal
// kinds never leak the underlying error text.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown.defaultMessage()
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.defaultMessage()
}
