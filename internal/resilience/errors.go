// Package resilience retries store operations that fail for transient reasons:
// a locked SQLite file while another writer holds it, or a dropped Postgres
// connection.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// TransientError wraps an error that is safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError marks err as retryable.
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

// transientPatterns match driver errors that surface only as text.
var transientPatterns = []string{
	"database is locked",
	"sqlite_busy",
	"database table is locked",
	"connection reset by peer",
	"broken pipe",
	"i/o timeout",
	"conn closed",
}

// IsTransient returns true if the error (or any error in its chain) is a
// TransientError, a network timeout, a refused or reset connection, a pgconn
// error that is safe to retry, or a locked SQLite database.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
