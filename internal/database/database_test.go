package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectNilDatabase(t *testing.T) {
	assert.NoError(t, Disconnect(context.Background(), nil))
}

func TestPersistenceErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &PersistenceError{Op: "save bundle", Err: cause}

	assert.Contains(t, err.Error(), "save bundle")
	require.ErrorIs(t, err, cause)
}
