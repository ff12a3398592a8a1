package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: pgUniqueViolationCode, ConstraintName: "users_username_key"}

	assert.True(t, isUniqueViolation(uniqueErr, ""))
	assert.True(t, isUniqueViolation(uniqueErr, "users_username_key"))
	assert.False(t, isUniqueViolation(uniqueErr, "users_email_key"))

	// Wrapped driver errors still match.
	assert.True(t, isUniqueViolation(fmt.Errorf("insert user: %w", uniqueErr), "users_username_key"))

	assert.False(t, isUniqueViolation(errors.New("connection reset"), ""))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgForeignKeyViolationCode}, ""))
	assert.False(t, isUniqueViolation(nil, ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	fkErr := &pgconn.PgError{Code: pgForeignKeyViolationCode, ConstraintName: "task_categories_category_id_fkey"}

	assert.True(t, isForeignKeyViolation(fkErr))
	assert.True(t, isForeignKeyViolation(fmt.Errorf("link categories: %w", fkErr)))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	assert.False(t, isForeignKeyViolation(errors.New("connection reset")))
	assert.False(t, isForeignKeyViolation(nil))
}
