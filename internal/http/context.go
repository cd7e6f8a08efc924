package http

import (
	"context"

	"github.com/example/studio-scheduler/internal/application"
)

type contextKey string

const (
	principalContextKey  contextKey = "principal"
	resourceIDContextKey contextKey = "resource_id"
	classTypeContextKey  contextKey = "class_type"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithResourceID injects the resource identifier resolved from the request path.
func ContextWithResourceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, resourceIDContextKey, id)
}

// ResourceIDFromContext extracts a resource identifier previously associated with the context.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(resourceIDContextKey).(string)
	return id, ok
}

// ContextWithClassType injects the class type resolved from the request path.
func ContextWithClassType(ctx context.Context, classType application.ClassType) context.Context {
	return context.WithValue(ctx, classTypeContextKey, classType)
}

// ClassTypeFromContext extracts a class type previously associated with the context.
func ClassTypeFromContext(ctx context.Context) (application.ClassType, bool) {
	classType, ok := ctx.Value(classTypeContextKey).(application.ClassType)
	return classType, ok
}
