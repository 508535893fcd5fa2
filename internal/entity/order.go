package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order represents one persisted row of the orders archive. Rows are created
// once and never updated or deleted; order_id is the natural key.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID        string    `bun:"order_id,pk"`
	Status         string    `bun:"status,notnull"`
	Date           time.Time `bun:"date,notnull"`
	Amount         float64   `bun:"amount,notnull"`
	CustomerRegion string    `bun:"customer_region,notnull"`
	LoadedAt       time.Time `bun:"loaded_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
