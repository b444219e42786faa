package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ErrorHandler turns errors attached with c.Error into JSON responses and
// recovers panics into a 500. Only the last attached error is reported.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.Ctx(c.Request.Context()).Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")
				if !c.Writer.Written() {
					abortWithError(c, http.StatusInternalServerError, "internal", "internal server error")
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := ErrorResponse(err)
		if status >= http.StatusInternalServerError {
			logging.Ctx(c.Request.Context()).Error().Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// ErrorResponse maps a service error to a status code and response body.
// Unknown errors are hidden behind a generic 500.
func ErrorResponse(err error) (int, types.ErrorResponse) {
	var (
		verr     *service.ValidationError
		conflict *service.ConflictError
		notFound *service.NotFoundError
		empty    *service.EmptyStateError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, types.ErrorResponse{Error: verr.Message, Code: "validation", Field: verr.Field}
	case errors.As(err, &conflict):
		return http.StatusBadRequest, types.ErrorResponse{Error: conflict.Message, Code: "conflict"}
	case errors.As(err, &empty):
		return http.StatusBadRequest, types.ErrorResponse{Error: empty.Message, Code: "empty_state"}
	case errors.As(err, &notFound):
		return http.StatusNotFound, types.ErrorResponse{Error: notFound.Error(), Code: "not_found"}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, types.ErrorResponse{Error: err.Error(), Code: "forbidden"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, types.ErrorResponse{Error: "unable to log in with provided credentials", Code: "invalid_credentials"}
	default:
		return http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error", Code: "internal"}
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: message, Code: code})
}
