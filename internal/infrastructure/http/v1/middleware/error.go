package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

// Gin keys shared between the idempotency middleware, the error handler and the handlers.
const (
	KeyIdempotencyKey   = "idempotency_key"
	KeyIdempotencyStore = "idempotency_store"
)

// IdempotencyStore persists the first response of a keyed request.
// *postgres.IdempotencyStore implements it.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, operator, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
}

// StoreFromContext returns the idempotency store and key attached to the request, if any.
func StoreFromContext(c *gin.Context) (IdempotencyStore, string, bool) {
	key, ok := c.Get(KeyIdempotencyKey)
	if !ok {
		return nil, "", false
	}
	v, ok := c.Get(KeyIdempotencyStore)
	if !ok {
		return nil, "", false
	}
	store, ok := v.(IdempotencyStore)
	if !ok || store == nil {
		return nil, "", false
	}
	return store, key.(string), true
}

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		status := http.StatusInternalServerError
		var body gin.H

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			status = appErr.HTTPStatus
			body = gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			}
		} else {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			body = gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
				"details": map[string]any{
					"request_id": c.GetString("request_id"),
				},
			}
		}

		// Best-effort: a failed request replays the same error.
		if store, key, ok := StoreFromContext(c); ok {
			if ferr := store.FailKey(c.Request.Context(), key, status, "application/json", body); ferr != nil {
				logger.Warn(c.Request.Context(), "idempotency fail key", "key", key, "error", ferr)
			}
		}

		c.JSON(status, body)
	}
}

var _ IdempotencyStore = (*postgres.IdempotencyStore)(nil)
