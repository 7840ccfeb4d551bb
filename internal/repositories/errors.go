package repositories

import (
	"errors"

	"carcare/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateWriteError turns storage-level constraint violations into domain errors.
// The database constraint is the guarantee; no read-before-write precedes it.
func translateWriteError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Resource: resource, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.InvalidReferenceError{Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ConflictError{Resource: resource, Err: err}
		case pgForeignKeyViolation:
			return domain.InvalidReferenceError{Constraint: pgErr.ConstraintName, Err: err}
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return domain.ConflictError{Resource: resource, Err: err}
		case sqlite3.ErrConstraintForeignKey:
			return domain.InvalidReferenceError{Err: err}
		}
	}
	return err
}

func domainErr(err error) bool {
	return domain.IsConflict(err) || domain.IsInvalidReference(err)
}
