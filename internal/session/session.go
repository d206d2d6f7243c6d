// Package session отвечает на вопрос "кто сейчас работает с задачами".
package session

import (
	"context"
)

// Context - источник id текущего пользователя. false означает, что
// пользователя нет и задачи не видны.
type Context interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type ctxKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// Static всегда возвращает один и тот же id, пустая строка - нет пользователя
type Static string

func (s Static) CurrentUserID(ctx context.Context) (string, bool) {
	if userID, ok := UserIDFromContext(ctx); ok {
		return userID, true
	}
	return string(s), s != ""
}
