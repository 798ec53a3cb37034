// Package middleware contains echo middleware for visitboard.
package middleware

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"visitboard/domain"
)

// ErrorResponse is the JSON body of an error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the client-safe part of an error.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
}

const genericServerMessage = "An unexpected error occurred. Please try again later."

// CustomHTTPErrorHandler maps handler errors to status codes. Details of 5xx
// errors are logged with the request id and never sent to the client. Browsers
// get a minimal HTML page, everything else JSON.
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		status, detail := classify(err)
		detail.RequestID = requestID

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				"request_id", requestID,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", status,
				"error", err,
			)
		} else {
			logger.WarnContext(ctx, "HTTP error",
				"request_id", requestID,
				"status", status,
				"message", detail.Message,
			)
		}

		var sendErr error
		switch {
		case c.Request().Method == http.MethodHead:
			sendErr = c.NoContent(status)
		case wantsHTML(c.Request()):
			sendErr = c.HTML(status, errorPage(status, detail.Message))
		default:
			sendErr = c.JSON(status, ErrorResponse{Error: detail})
		}
		if sendErr != nil {
			logger.ErrorContext(ctx, "failed to send error response",
				"request_id", requestID,
				"error", sendErr,
			)
		}
	}
}

func classify(err error) (int, ErrorDetail) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, domain.ErrConnectionExhausted), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrorDetail{
			Code:      "COUNTER_UNAVAILABLE",
			Message:   "The visit counter is temporarily unavailable. Please try again later.",
			Retryable: true,
		}
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		if he.Code >= http.StatusInternalServerError {
			msg = genericServerMessage
		}
		return he.Code, ErrorDetail{
			Code:      "HTTP_ERROR",
			Message:   msg,
			Retryable: isRetryableStatus(he.Code),
		}
	default:
		return http.StatusInternalServerError, ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: genericServerMessage,
		}
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

func errorPage(status int, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%d %s</title><link rel="stylesheet" href="/static/css/style.css"></head>
<body><main class="container"><h1>%d %s</h1><p>%s</p></main></body>
</html>
`, status, http.StatusText(status), status, http.StatusText(status), html.EscapeString(message))
}
