package session_test

import (
	"context"
	"testing"

	"taskManager/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestUserIDFromContext(t *testing.T) {
	_, ok := session.UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = session.UserIDFromContext(session.WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := session.UserIDFromContext(session.WithUserID(context.Background(), "u1"))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	_, ok := session.Static("").CurrentUserID(ctx)
	assert.False(t, ok)

	id, ok := session.Static("u1").CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	// пользователь запроса важнее
	id, ok = session.Static("u1").CurrentUserID(session.WithUserID(ctx, "u2"))
	assert.True(t, ok)
	assert.Equal(t, "u2", id)
}
