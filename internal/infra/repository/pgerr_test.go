//go:build unit

package repository

import (
	"errors"
	"testing"

	"tablebook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := &pgconn.PgError{Code: pgErrCodeUniqueViolation}

		assert.True(t, isUniqueViolation(err))
		assert.False(t, isForeignKeyViolation(err))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := errs.Wrap(&pgconn.PgError{Code: pgErrCodeForeignKeyViolation}, "update slot_locks failed")

		assert.True(t, isForeignKeyViolation(err))
		assert.False(t, isUniqueViolation(err))
	})

	t.Run("unrelated errors match neither", func(t *testing.T) {
		err := errors.New("connection reset")

		assert.False(t, isUniqueViolation(err))
		assert.False(t, isForeignKeyViolation(err))
	})
}
