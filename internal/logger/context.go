package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// requestMeta - поля запроса, которые попадают в каждую запись лога
type requestMeta struct {
	requestID string
	userID    string
}

func metaFrom(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	meta, _ := ctx.Value(ctxKey{}).(requestMeta)
	return meta
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	meta := metaFrom(ctx)
	meta.requestID = requestID
	return context.WithValue(ctx, ctxKey{}, meta)
}

// WithUserID вызывается после проверки токена
func WithUserID(ctx context.Context, userID string) context.Context {
	meta := metaFrom(ctx)
	meta.userID = userID
	return context.WithValue(ctx, ctxKey{}, meta)
}

func GetRequestID(ctx context.Context) string {
	return metaFrom(ctx).requestID
}

func GetUserID(ctx context.Context) string {
	return metaFrom(ctx).userID
}

// FromContext - глобальный логгер с request_id и user_id из ctx
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	meta := metaFrom(ctx)

	var fields []any
	if meta.requestID != "" {
		fields = append(fields, "request_id", meta.requestID)
	}
	if meta.userID != "" {
		fields = append(fields, "user_id", meta.userID)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError - error уровень с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err.Error()}, args...)
	}
	FromContext(ctx).Error(msg, args...)
}
