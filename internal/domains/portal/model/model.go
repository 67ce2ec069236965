package model

import (
	"context"
	"time"

	"vrent/shared/constant"
)

// Session is the authenticated portal customer. It is built by the session
// middleware and handed to every portal operation explicitly.
type Session struct {
	CustomerID string
	ExpiresAt  time.Time
}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, constant.ContextKeyPortalSession, session)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(constant.ContextKeyPortalSession).(Session)

	return session, ok && session.CustomerID != constant.Empty
}
