package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Scheduled maintenance: bulk-revoke stale proposals (the partner has since
// matched a third scrim, or cancelled). Sessions do the same reconciliation
// lazily when a user opens /scrims; this keeps rows of inactive users honest
// too.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := pool.Exec(cctx, `
UPDATE scrims a
   SET match_id = NULL
 WHERE a.match_id IS NOT NULL
   AND EXISTS (
       SELECT 1 FROM scrims b
        WHERE b.id = a.match_id
          AND (b.cancelled OR (b.match_id IS NOT NULL AND b.match_id <> a.id))
   );`)
	if err != nil {
		return fmt.Sprintf("revoke: %v", err), nil
	}

	return fmt.Sprintf("ok, revoked %d stale proposals", tag.RowsAffected()), nil
}

func main() { lambda.Start(handler) }
