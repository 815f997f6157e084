// Package auth verifies employee tokens and carries the signed-in employee
// through the request context.
package auth

import (
	"context"

	"cafesync/internal/domain"
)

type ctxKey struct{}

func WithEmployee(ctx context.Context, e domain.EmployeeRecord) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

func EmployeeFrom(ctx context.Context) (domain.EmployeeRecord, bool) {
	e, ok := ctx.Value(ctxKey{}).(domain.EmployeeRecord)
	return e, ok
}
