package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents the orders table. The reporting queries only ever read it,
// scoped to a single company.
type Order struct {
	ID        int             `db:"id"`
	CompanyID string          `db:"company_id"`
	VoucherID sql.NullInt32   `db:"voucher_id"`
	Value     decimal.Decimal `db:"value"`
	CreatedAt time.Time       `db:"created_at"`
}

// Voucher links an order to the customer who redeemed it. The new-customers
// cohort query joins orders to users through this table.
type Voucher struct {
	ID     int    `db:"id"`
	UserID string `db:"user_id"`
}
