package middleware

import "context"

type contextKey string

const (
	ContextUserID        contextKey = "userID"
	ContextRole          contextKey = "role"
	ContextEmailVerified contextKey = "emailVerified"
	ContextRequestID     contextKey = "requestID"
)

func GetUserID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUserID).(string)
	return val, ok
}

func GetRole(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextRole).(string)
	return val, ok
}

func GetEmailVerified(ctx context.Context) bool {
	val, _ := ctx.Value(ContextEmailVerified).(bool)
	return val
}

func GetRequestID(ctx context.Context) string {
	val, _ := ctx.Value(ContextRequestID).(string)
	return val
}
