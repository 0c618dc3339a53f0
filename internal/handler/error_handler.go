package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "jobportal/internal/errors"
	"jobportal/internal/logging"
)

// NewErrorHandler renders every error as {success:false, message, code}.
// Coded domain errors keep their message; anything else becomes a generic
// 500 and is logged with its context.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		if apperrors.CodeOf(err) == "" && errors.As(err, &echoErr) {
			httpErr = fromEchoError(echoErr)
		} else {
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.IsInternal() {
			logging.LogError(logger, "request failed", err,
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func fromEchoError(he *echo.HTTPError) *apperrors.HTTPError {
	if he.Code >= http.StatusInternalServerError {
		return apperrors.MapErrorToHTTP(he)
	}
	msg, ok := he.Message.(string)
	if !ok {
		msg = fmt.Sprint(he.Message)
	}
	return apperrors.NewHTTPError(he.Code, msg, "")
}
