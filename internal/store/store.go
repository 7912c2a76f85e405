// Package store is the persistence gateway. Every read and write of the
// application goes through a Store built around an injected *gorm.DB.
//
// Connectivity failures are handled per path: list reads used for display
// return an empty slice, keyed lookups report apperrors.ErrNotFound, and
// writes or guard reads (counts, existence checks, ledgers) report
// apperrors.ErrStoreUnavailable.
package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/database"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Close() error {
	return database.Close(s.db)
}

func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, gorm.ErrInvalidDB) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// degraded logs a connectivity failure on a display read.
func degraded(op string, err error) bool {
	if !isUnavailable(err) {
		return false
	}
	logger.LogError(err, op+": store unavailable, returning empty result")
	return true
}

func lookupErr(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || degraded("get "+what, err) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func writeErr(op string, err error) error {
	switch {
	case isUnavailable(err):
		return fmt.Errorf("%s: %w", op, apperrors.ErrStoreUnavailable)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrDuplicateApplication):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func listErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return writeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return nil
}
