package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrors(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrDeckNotFound, ErrCardNotFound, ErrChallengeNotFound} {
		assert.True(t, IsNotFoundError(err), err.Error())
		assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsDuplicateError(err))
	}
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsNotFoundError(nil))
	assert.Equal(t, "entity not found: deck", ErrDeckNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("database connection failed")
	err := NewStoreError("card", "update", "database error", cause)
	assert.Equal(t, "update operation on card failed: database error: database connection failed", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &StoreError{Entity: "deck", Operation: "create", Message: "validation failed"}
	assert.Equal(t, "create operation on deck failed: validation failed", bare.Error())
}
