package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newPQError(code, constraint string) *pq.Error {
	return &pq.Error{
		Code:       pq.ErrorCode(code),
		Constraint: constraint,
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches_any_constraint_when_unspecified", func(t *testing.T) {
		err := newPQError(pqUniqueViolation, "posts_slug_key")
		assert.True(t, IsUniqueViolation(err, ""))
	})

	t.Run("matches_named_constraint", func(t *testing.T) {
		err := newPQError(pqUniqueViolation, "users_email_key")
		assert.True(t, IsUniqueViolation(err, "users_email_key"))
		assert.False(t, IsUniqueViolation(err, "posts_slug_key"))
	})

	t.Run("wrapped_error", func(t *testing.T) {
		err := fmt.Errorf("failed to create post: %w", newPQError(pqUniqueViolation, "posts_slug_key"))
		assert.True(t, IsUniqueViolation(err, "posts_slug_key"))
	})

	t.Run("non_pq_error", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
	})

	t.Run("other_code", func(t *testing.T) {
		err := newPQError(pqForeignKeyViolation, "sessions_user_id_fkey")
		assert.False(t, IsUniqueViolation(err, ""))
		assert.True(t, IsForeignKeyViolation(err, "sessions_user_id_fkey"))
	})
}
