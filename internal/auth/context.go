package auth

import (
	"context"

	"github.com/orgcatalog/orgcatalog/internal/model"
)

// ctxKey is an unexported type for context keys in this package.
type ctxKey int

// authCtxKey is the context key for the authenticated API key context.
const authCtxKey ctxKey = 0

// ContextWithAuth returns a new context carrying the auth context.
func ContextWithAuth(ctx context.Context, authCtx *model.AuthContext) context.Context {
	return context.WithValue(ctx, authCtxKey, authCtx)
}

// AuthFromContext extracts the auth context from the request context.
// Returns nil if the request is not authenticated.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	authCtx, _ := ctx.Value(authCtxKey).(*model.AuthContext)
	return authCtx
}
