package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	testCases := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "gorm not found", in: fmt.Errorf("query: %w", gorm.ErrRecordNotFound), want: ErrNotFound},
		{name: "validation passes through", in: ErrRecursiveCategory, want: ErrRecursiveCategory},
		{name: "pgx unique", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: ErrDuplicate},
		{name: "pgx foreign key", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: ErrInvalidReference},
		{name: "pgx restrict", in: &pgconn.PgError{Code: pgerrcode.RestrictViolation}, want: ErrProtected},
		{name: "lib/pq unique", in: &pq.Error{Code: pgerrcode.UniqueViolation}, want: ErrDuplicate},
		{name: "mysql duplicate", in: &mysql.MySQLError{Number: 1062}, want: ErrDuplicate},
		{name: "mysql referenced", in: &mysql.MySQLError{Number: 1451}, want: ErrProtected},
		{name: "mysql missing parent", in: &mysql.MySQLError{Number: 1452}, want: ErrInvalidReference},
		{name: "unknown", in: other, want: other},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestTranslateDeleteError(t *testing.T) {
	assert.ErrorIs(t, TranslateDeleteError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), ErrProtected)
	assert.ErrorIs(t, TranslateDeleteError(&pq.Error{Code: pgerrcode.ForeignKeyViolation}), ErrProtected)
	assert.ErrorIs(t, TranslateDeleteError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.NoError(t, TranslateDeleteError(nil))
}
