package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Open opens the database at dbPath, retrying every interval until it
// becomes reachable or ctx is done. Each failed attempt is logged.
func Open(ctx context.Context, dbPath string, interval time.Duration) (*DB, error) {
	var db *DB
	attempt := 0

	err := retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		attempt++
		var err error
		db, err = New(dbPath)
		if err != nil {
			slog.Warn("database unavailable, waiting",
				"attempt", attempt, "retry_in", interval, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("wait for database: %w", err)
	}

	slog.Info("database available", "attempts", attempt)
	return db, nil
}
