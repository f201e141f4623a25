package utils

import (
	"context"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/appctx"
)

var (
	ContextKeyOperator      = appctx.ContextKeyOperator
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetOperatorFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyOperator)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetOperatorInContext(ctx context.Context, operator string) context.Context {
	return appctx.Set(ctx, ContextKeyOperator, operator)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
