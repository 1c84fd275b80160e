// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Operator identifies who issued a request. It is informational only and ends up
// in audit records; the service performs no authentication.
type Operator struct {
	Name string
}

type operatorContextKey struct{}

// WithOperator adds Operator to context.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns Operator from context.
func GetOperator(ctx context.Context) *Operator {
	if v, ok := ctx.Value(operatorContextKey{}).(*Operator); ok {
		return v
	}
	return nil
}

// GetOperatorName returns the operator name or "system".
func GetOperatorName(ctx context.Context) string {
	if op := GetOperator(ctx); op != nil && op.Name != "" {
		return op.Name
	}
	return "system"
}
