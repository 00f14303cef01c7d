package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// transientClasses are SQLSTATE classes worth reconnecting for.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
var transientClasses = map[string]string{
	"08": "connection exception",
	"53": "insufficient resources",
	"57": "operator intervention",
}

// transientCodes are individual SQLSTATEs outside those classes.
var transientCodes = map[string]string{
	"40001": "serialization failure",
	"40P01": "deadlock detected",
	"55P03": "lock not available",
}

// transientPatterns match driver and dialer messages that carry no SQLSTATE.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"the database system is starting up",
}

// PostgreSQLErrorClassifier implements sparkify.ErrorClassifier for errors
// returned while opening a pgx pool.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient reports whether another connection attempt could succeed.
// Authentication failures, unknown databases and cancelled contexts are fatal.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	if isTransientNetworkError(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func isTransientCode(code string) bool {
	if len(code) < 2 {
		return false
	}
	if _, ok := transientClasses[code[:2]]; ok {
		return true
	}
	_, ok := transientCodes[code]
	return ok
}

func isTransientNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}
	return false
}
