package sqlstore

import (
	"context"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// retryableSubstrings matches the error text MySQL/Dolt use for
// serialization and deadlock failures under SERIALIZABLE isolation.
// Matching on driver error text (rather than a typed sentinel) follows
// the teacher's own wrapDBError approach to classifying SQL errors,
// since go-sql-driver/mysql and dolthub/driver do not export a shared
// error type for this.
var retryableSubstrings = []string{
	"Deadlock found",
	"Error 1213",
	"Error 1205",
	"serialization failure",
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if storage.KindOf(err) != storage.KindStorageError {
		return false
	}
	msg := err.Error()
	for _, s := range retryableSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// RunWithRetry runs fn inside a session opened from factory via
// storage.RunInSession, retrying with exponential backoff (at most 5
// retries after the first attempt) when the backend reports a
// serialization conflict. The
// integrity engine itself never retries (spec §4.4) — this sits at the
// session layer, above the engine, matching the teacher's own
// RunInTransaction retry loop (since-deleted
// internal/storage/dolt/transaction.go), now backoff-driven instead of
// hand-rolled.
func RunWithRetry(ctx context.Context, factory storage.SessionFactory, fn func(storage.Session) error) error {
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	policy = backoff.WithContext(policy, ctx)

	var lastErr error
	op := func() error {
		lastErr = storage.RunInSession(ctx, factory, fn)
		if isRetryable(lastErr) {
			return lastErr
		}
		if lastErr != nil {
			return backoff.Permanent(lastErr)
		}
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
