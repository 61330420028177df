package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestValidID(t *testing.T) {
	t.Parallel()

	assert.True(t, validID(uuid.NewString()))
	assert.False(t, validID(""))
	assert.False(t, validID("6571f0c2a1b2c3d4e5f60718"))
	assert.False(t, validID("1; DROP TABLE tasks"))
}

func TestUniqueConstraint(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraintUsersUsername})
	name, ok := uniqueConstraint(wrapped)
	assert.True(t, ok)
	assert.Equal(t, constraintUsersUsername, name)

	_, ok = uniqueConstraint(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = uniqueConstraint(errors.New("boom"))
	assert.False(t, ok)
}
