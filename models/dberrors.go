package models

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// TranslateError maps driver errors from any supported backend onto the package sentinels.
// Errors it does not recognise are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrValidation) {
		return err
	}

	switch sqlState(err) {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	case pgerrcode.RestrictViolation:
		return fmt.Errorf("%w: %w", ErrProtected, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlRowIsReferenced:
			return fmt.Errorf("%w: %w", ErrProtected, err)
		case mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrInvalidReference, err)
		}
	}
	return err
}

// TranslateDeleteError is TranslateError for DELETE statements, where Postgres reports a
// referencing row as a plain foreign key violation.
func TranslateDeleteError(err error) error {
	if err == nil {
		return nil
	}
	if state := sqlState(err); state == pgerrcode.ForeignKeyViolation || state == pgerrcode.RestrictViolation {
		return fmt.Errorf("%w: %w", ErrProtected, err)
	}
	return TranslateError(err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
