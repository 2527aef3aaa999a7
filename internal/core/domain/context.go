package domain

import "context"

type customerTokenKey struct{}

// WithCustomerToken stores the shopper's auth token so outbound calls can act
// on their behalf.
func WithCustomerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, customerTokenKey{}, token)
}

func CustomerToken(ctx context.Context) string {
	v, _ := ctx.Value(customerTokenKey{}).(string)
	return v
}
