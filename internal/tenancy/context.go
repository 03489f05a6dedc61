package tenancy

import "context"

type ctxKey string

const businessKey ctxKey = "salonbook.business_id"

// WithBusinessID stores the business id in context.
func WithBusinessID(ctx context.Context, businessID string) context.Context {
	return context.WithValue(ctx, businessKey, businessID)
}

// BusinessIDFromContext extracts the business id if present.
func BusinessIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(businessKey)
	if val == nil {
		return "", false
	}
	businessID, ok := val.(string)
	return businessID, ok && businessID != ""
}
