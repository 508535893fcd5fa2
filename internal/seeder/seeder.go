package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/internal/database"
	"github.com/Additional-Code/orderloader/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the database connection.
func New(conn *database.Connection, logger *zap.Logger) *Seeder {
	return &Seeder{db: conn.DB, logger: logger}
}

// Orders seeds example orders if they are missing. Conflicts are ignored so
// re-seeding never overwrites archived rows.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{OrderID: "SEED-1000", Status: "pending", Date: now, Amount: 19.99, CustomerRegion: "EU"},
		{OrderID: "SEED-1001", Status: "paid", Date: now, Amount: 42.50, CustomerRegion: "NA"},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (order_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}
