package store

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grocerly/reports-manager/internal/entity"
	"github.com/grocerly/reports-manager/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "c-1"

func newTestDB(t *testing.T) *MYSQLStore {
	dsn := os.Getenv("REPORTS_TEST_DSN")
	if dsn == "" {
		t.Skip("REPORTS_TEST_DSN not set, e.g. user:pass@(localhost:3306)/reports?charset=utf8&parseTime=true")
	}

	db, err := New(context.Background(), Config{
		DSN:         dsn,
		Automigrate: true,
	}, report.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0")
	require.NoError(t, err)
	_, err = db.db.ExecContext(ctx, "DELETE FROM orders")
	require.NoError(t, err)
	_, err = db.db.ExecContext(ctx, "DELETE FROM vouchers")
	require.NoError(t, err)
	_, err = db.db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")
	require.NoError(t, err)

	return db
}

func seedOrders(t *testing.T, db *MYSQLStore, orders []entity.Order) {
	rows := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, map[string]any{
			"company_id": o.CompanyID,
			"value":      o.Value,
			"created_at": o.CreatedAt,
		})
	}
	require.NoError(t, BulkInsert(context.Background(), db.db, "orders", rows))
}

func testOrder(day time.Time, value float64) entity.Order {
	return entity.Order{
		CompanyID: testCompanyID,
		Value:     decimal.NewFromFloat(value),
		CreatedAt: day,
	}
}

func TestOrderBucketsEmpty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	buckets, err := db.Reports().OrderBuckets(context.Background(), testCompanyID,
		entity.DateRange{
			Start: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC),
		},
		entity.MetricOrderCount, entity.UnitDay)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestOrderBucketsDailyCounts(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day1 := time.Date(2021, 1, 11, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 1, 12, 11, 30, 0, 0, time.UTC)
	seedOrders(t, db, []entity.Order{
		testOrder(day1, 10),
		testOrder(day1.Add(2*time.Hour), 15),
		testOrder(day2, 20),
		// Other companies never leak into the report.
		{CompanyID: "c-2", Value: decimal.NewFromInt(99), CreatedAt: day1},
	})

	rng := entity.DateRange{
		Start: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC),
	}

	buckets, err := db.Reports().OrderBuckets(context.Background(), testCompanyID, rng,
		entity.MetricOrderCount, entity.UnitDay)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2", buckets[0].Value.String())
	assert.Equal(t, "1", buckets[1].Value.String())
	assert.Less(t, buckets[0].Label, buckets[1].Label)
}

func TestOrderBucketsRevenueCumulative(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day1 := time.Date(2021, 1, 11, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 1, 12, 10, 0, 0, 0, time.UTC)
	seedOrders(t, db, []entity.Order{
		testOrder(day1, 10.50),
		testOrder(day2, 20),
	})

	rng := entity.DateRange{
		Start: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC),
	}

	buckets, err := db.Reports().OrderBuckets(context.Background(), testCompanyID, rng,
		entity.MetricRevenueSumCumulative, entity.UnitDay)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.True(t, buckets[0].Value.Equal(decimal.NewFromFloat(10.50)))
	assert.True(t, buckets[1].Value.Equal(decimal.NewFromFloat(30.50)))
}

func TestOrderBucketsWholeEndDay(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	// Order placed late on the end day must still match even though the
	// range's end carries an earlier time of day.
	late := time.Date(2021, 1, 12, 23, 30, 0, 0, time.UTC)
	seedOrders(t, db, []entity.Order{testOrder(late, 5)})

	rng := entity.DateRange{
		Start: time.Date(2021, 1, 12, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 12, 8, 0, 0, 0, time.UTC),
	}

	buckets, err := db.Reports().OrderBuckets(context.Background(), testCompanyID, rng,
		entity.MetricOrderCount, entity.UnitDay)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "1", buckets[0].Value.String())
}

func TestDaySummaryEmptyDay(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2021, 1, 12, 0, 0, 0, 0, time.UTC)
	summary, err := db.Reports().DaySummary(context.Background(), testCompanyID, day)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "2021-01-12", summary[0].Label)
	assert.Equal(t, 0, summary[0].Count)
	assert.True(t, summary[0].Value.IsZero())
}

func TestDaySummary(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2021, 1, 12, 9, 0, 0, 0, time.UTC)
	seedOrders(t, db, []entity.Order{
		testOrder(day, 10),
		testOrder(day.Add(3*time.Hour), 5.25),
	})

	summary, err := db.Reports().DaySummary(context.Background(), testCompanyID, day)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 2, summary[0].Count)
	assert.True(t, summary[0].Value.Equal(decimal.NewFromFloat(15.25)))

	midnight := time.Date(2021, 1, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, strconv.FormatInt(midnight.Unix(), 10), summary[0].Label)
}

func TestNewCustomers(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	userInRange := uuid.NewString()
	userBefore := uuid.NewString()
	require.NoError(t, BulkInsert(ctx, db.db, "vouchers", []map[string]any{
		{"id": 1, "user_id": userInRange},
		{"id": 2, "user_id": userBefore},
	}))
	require.NoError(t, BulkInsert(ctx, db.db, "orders", []map[string]any{
		{"company_id": testCompanyID, "voucher_id": 1, "value": 10,
			"created_at": time.Date(2021, 1, 12, 10, 0, 0, 0, time.UTC)},
		{"company_id": testCompanyID, "voucher_id": 2, "value": 10,
			"created_at": time.Date(2020, 12, 1, 10, 0, 0, 0, time.UTC)},
		{"company_id": testCompanyID, "voucher_id": 2, "value": 10,
			"created_at": time.Date(2021, 1, 13, 10, 0, 0, 0, time.UTC)},
	}))

	customers, err := db.Reports().NewCustomers(ctx, testCompanyID, entity.DateRange{
		Start: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, userInRange, customers[0].UserID)
	assert.Equal(t, time.Date(2021, 1, 12, 10, 0, 0, 0, time.UTC), customers[0].FirstOrder)
}

func TestChurnBucketsMatchesOrderBuckets(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2021, 1, 12, 10, 0, 0, 0, time.UTC)
	seedOrders(t, db, []entity.Order{testOrder(day, 10)})

	rng := entity.DateRange{
		Start: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC),
	}

	orders, err := db.Reports().OrderBuckets(context.Background(), testCompanyID, rng,
		entity.MetricOrderCount, entity.UnitDay)
	require.NoError(t, err)

	churn, err := db.Reports().ChurnBuckets(context.Background(), testCompanyID, rng,
		entity.MetricOrderCount, entity.UnitDay)
	require.NoError(t, err)
	assert.Equal(t, orders, churn)
}
