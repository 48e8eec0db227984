package retry

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
)

// statusCoder is implemented by provider SDK errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"bad gateway",
}

// IsTransient reports whether err looks temporary. Categorized errors
// decide for themselves; otherwise status codes 429 and 5xx, network
// timeouts and connection resets count as transient.
//
// Do retries every non-fatal error regardless; the classification only
// annotates events.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return lo.ContainsBy(transientPatterns, func(p string) bool {
		return strings.Contains(msg, p)
	})
}
