package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/grocerly/reports-manager/internal/entity"
	"github.com/jmoiron/sqlx"
)

type (
	// DB is the subset of sqlx the store helpers need. Satisfied by *sqlx.DB.
	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	}

	// Reports exposes the aggregation queries backing the dashboard. Every
	// query is scoped to exactly one company; cross-company aggregation is
	// never permitted.
	Reports interface {
		// OrderBuckets returns one row per populated bucket, ordered by
		// bucket label ascending. Days without orders produce no row.
		OrderBuckets(ctx context.Context, companyID string, r entity.DateRange, metric entity.Metric, unit entity.BucketUnit) ([]entity.Bucket, error)
		// DaySummary always returns at least one row: when the day has no
		// orders it synthesizes a zero row labeled with the day itself.
		DaySummary(ctx context.Context, companyID string, day time.Time) ([]entity.DaySummary, error)
		// NewCustomers returns customers whose first order falls in the range.
		NewCustomers(ctx context.Context, companyID string, r entity.DateRange) ([]entity.NewCustomer, error)
		// ChurnBuckets serves the churn report. A churn-specific aggregation
		// does not exist yet; see the store implementation.
		ChurnBuckets(ctx context.Context, companyID string, r entity.DateRange, metric entity.Metric, unit entity.BucketUnit) ([]entity.Bucket, error)
	}

	// Repository is the full data access layer handed to the HTTP server.
	Repository interface {
		Reports() Reports
		Ping(ctx context.Context) error
		Close()
	}
)
