// Package store is the data access layer behind the HTTP handlers.
// Every method takes the request context and returns *apperr.Error for
// failures the caller can act on.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/models"
)

// maxTxAttempts bounds retries of transactions that lost a stock update race
const maxTxAttempts = 3

// errLostUpdate is returned inside a transaction when a guarded update
// matched no row because another writer got there first
var errLostUpdate = errors.New("concurrent update")

// Store runs the shop queries against a gorm handle
type Store struct {
	db                *gorm.DB
	log               *zap.Logger
	lowStockThreshold int
}

// New creates a store. lowStockThreshold is the default for LowStock.
func New(db *gorm.DB, log *zap.Logger, lowStockThreshold int) *Store {
	return &Store{
		db:                db,
		log:               log.Named("store"),
		lowStockThreshold: lowStockThreshold,
	}
}

// DB exposes the underlying handle for read-only collaborators
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// withRetry runs fn in a transaction, retrying lost updates and transient
// driver errors
func (s *Store) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.conn(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errLostUpdate) && !database.IsTransient(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Debug("retrying transaction", zap.Int("attempt", attempt), zap.Error(err))
	}
	return apperr.Wrap(apperr.KindConflict, err, "concurrent update, gave up after %d attempts", maxTxAttempts)
}

// notFound maps gorm.ErrRecordNotFound to a NotFound error for entity
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("failed to load %s: %w", entity, err)
}

func paginate(q *gorm.DB, page models.Page) *gorm.DB {
	page = page.Normalize()
	return q.Limit(page.Limit).Offset(page.Offset)
}

// exists reports whether a row with id is present in table
func exists(tx *gorm.DB, table string, id uint) (bool, error) {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return count > 0, nil
}
