// Package domain provides core business types and context helpers.
//
// Context helpers centralize request-scoped data access so handlers and
// services read the caller identity the same way.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	userContextKey contextKey = iota
	membershipContextKey
	requestIDContextKey
)

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the authenticated user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// --- Membership Context Helpers ---

// NewContextWithMembership attaches the caller's membership in the resolved tenant.
func NewContextWithMembership(ctx context.Context, m *Membership) context.Context {
	return context.WithValue(ctx, membershipContextKey, m)
}

// MembershipFromContext retrieves the caller's membership, or nil.
func MembershipFromContext(ctx context.Context) *Membership {
	m, _ := ctx.Value(membershipContextKey).(*Membership)
	return m
}

// --- Request ID Helpers ---

func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
