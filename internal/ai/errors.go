package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// StatusError is returned by backends that speak plain HTTP.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// Classify maps a provider error onto the API error taxonomy. Billing is
// checked before rate limiting because quota exhaustion arrives as a 429.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}

	status, code := upstreamStatus(err)
	msg := strings.ToLower(err.Error())

	switch {
	case status == http.StatusPaymentRequired ||
		code == "insufficient_quota" || code == "billing_hard_limit_reached" ||
		strings.Contains(msg, "billing") || strings.Contains(msg, "insufficient_quota"):
		return apperr.Wrap(apperr.KindUpstreamBilling, op, err)
	case status == http.StatusTooManyRequests || strings.Contains(msg, "rate limit"):
		return apperr.Wrap(apperr.KindUpstreamRateLimited, op, err)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout || isTimeout(err):
		return apperr.Wrap(apperr.KindUpstreamTimeout, op, err)
	default:
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}
}

// Retryable reports whether another attempt may succeed.
func Retryable(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindUpstreamRateLimited, apperr.KindUpstreamTimeout:
		return true
	default:
		return false
	}
}

func upstreamStatus(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		if code == "" {
			code = apiErr.Type
		}
		return apiErr.HTTPStatusCode, code
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, ""
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, ""
	}
	return 0, ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeLabel(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindUpstreamRateLimited:
		return "rate_limited"
	case apperr.KindUpstreamBilling:
		return "billing"
	case apperr.KindUpstreamTimeout:
		return "timeout"
	default:
		return "error"
	}
}
