package order

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/internal/database"
	"github.com/Additional-Code/orderloader/internal/entity"
	"github.com/Additional-Code/orderloader/pkg/errorbank"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/orderloader/repository/order")

// ErrDuplicate is returned when an insert hits the order_id uniqueness
// constraint. Callers treat it as a late-detected duplicate, not a failure.
var ErrDuplicate = errors.New("duplicate order")

// Repository encapsulates access to the orders table.
type Repository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewRepository wires a repository backed by the configured database connection.
func NewRepository(conn *database.Connection, logger *zap.Logger) *Repository {
	return &Repository{
		db:     conn.DB,
		logger: logger,
	}
}

// EnsureSchema creates the orders table if it is absent. Idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.EnsureSchema")
	defer span.End()

	_, err := r.db.NewCreateTable().
		Model((*entity.Order)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create table failed")
		return errorbank.Schema("ensure orders schema", errorbank.WithCause(err))
	}

	r.logger.Debug("orders schema ensured")
	return nil
}

// ExistingIDs returns the set of order_id keys currently persisted. It is the
// duplicate baseline for a batch run.
func (r *Repository) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ExistingIDs")
	defer span.End()

	var ids []string
	err := r.db.NewSelect().
		Model((*entity.Order)(nil)).
		Column("order_id").
		Scan(ctx, &ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, errorbank.Query("read existing order ids", errorbank.WithCause(err))
	}

	existing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}

	span.SetAttributes(attribute.Int("orders.existing", len(existing)))
	r.logger.Debug("existing order ids read", zap.Int("count", len(existing)))
	return existing, nil
}

// Count reports the number of persisted rows.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	if err != nil {
		return 0, errorbank.Query("count orders", errorbank.WithCause(err))
	}
	return count, nil
}

// Begin opens the batch transaction. All inserts of one insertBatch call run
// inside it and become durable on Commit as a unit.
func (r *Repository) Begin(ctx context.Context) (*Batch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errorbank.Query("begin batch transaction", errorbank.WithCause(err))
	}
	return &Batch{tx: tx}, nil
}

// Batch wraps the transaction covering one insertBatch call.
type Batch struct {
	tx   bun.Tx
	done bool
}

// Insert persists a single order within the batch transaction. The store
// assigns loaded_at. A uniqueness-constraint violation maps to ErrDuplicate.
func (b *Batch) Insert(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Insert", trace.WithAttributes(attribute.String("order.id", order.OrderID)))
	defer span.End()

	_, err := b.tx.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		if isDuplicateErr(err) {
			span.SetStatus(codes.Error, "duplicate")
			return ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// Commit makes the batch durable. The batch is unusable afterwards.
func (b *Batch) Commit() error {
	b.done = true
	return b.tx.Commit()
}

// Rollback discards the batch. Safe to call after Commit.
func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	return b.tx.Rollback()
}

// isDuplicateErr recognises a primary-key violation for each supported driver.
func isDuplicateErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	return false
}
