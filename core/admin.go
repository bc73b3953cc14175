package core

import "context"

type adminRequestKey struct{}

// WithAdminRequest marks ctx as an administrative request.
func WithAdminRequest(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminRequestKey{}, true)
}

func IsAdminRequest(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	admin, _ := ctx.Value(adminRequestKey{}).(bool)
	return admin
}

// ContextAdminResolver trusts the marker set by WithAdminRequest.
type ContextAdminResolver struct{}

func (ContextAdminResolver) IsAdmin(ctx context.Context) bool {
	return IsAdminRequest(ctx)
}

type StaticAdminResolver bool

func (r StaticAdminResolver) IsAdmin(context.Context) bool {
	return bool(r)
}

var (
	_ AdminResolver = ContextAdminResolver{}
	_ AdminResolver = StaticAdminResolver(false)
)
