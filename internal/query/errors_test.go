package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceError_Error(t *testing.T) {
	err := &PersistenceError{Code: ErrCodeQueryFailed, Op: "exists", Message: "boom"}
	assert.Equal(t, "QUERY_FAILED: exists: boom", err.Error())

	err.Err = errors.New("cause")
	assert.Equal(t, "QUERY_FAILED: exists: boom: cause", err.Error())
}

func TestErrorHelpers_Wrapped(t *testing.T) {
	qf := fmt.Errorf("outer: %w", queryFailed("describe", "x", "", nil))
	cf := fmt.Errorf("outer: %w", &PersistenceError{Code: ErrCodeCastFailed, Op: "all"})

	assert.True(t, IsQueryFailure(qf))
	assert.False(t, IsCastFailure(qf))
	assert.True(t, IsCastFailure(cf))
	assert.False(t, IsQueryFailure(cf))
	assert.False(t, IsQueryFailure(errors.New("plain")))
	assert.False(t, IsQueryFailure(nil))
}
