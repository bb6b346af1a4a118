package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/policy"
)

// requireServiceError asserts err is a *Error with the given status and message.
func requireServiceError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var se *Error
	require.True(t, errors.As(err, &se), "expected *services.Error, got %v", err)
	assert.Equal(t, status, se.Status)
	if message != "" {
		assert.Equal(t, message, se.Message)
	}
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func customer() policy.Principal {
	return policy.Principal{UserID: primitive.NewObjectID(), Role: models.RoleUser}
}
