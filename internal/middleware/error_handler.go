package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

// NewErrorHandler renders every error as {"error": "..."}. Server errors are
// logged with their cause and reach the client only as a generic message.
func NewErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := internalErrorMessage
		cause := err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Internal != nil {
				cause = he.Internal
			}
			if m, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
				msg = m
			} else if code < http.StatusInternalServerError {
				msg = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.WithError(cause).WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().RequestURI,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, dto.ErrorResponse{Error: msg})
	}
}
