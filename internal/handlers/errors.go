package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ytakahashi/daily-checklist/internal/services"
)

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Status      int               `json:"status"`
	Detail      string            `json:"detail,omitempty"`
	Instance    string            `json:"instance,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

const problemContentType = "application/problem+json"

// validationError reports request fields that failed validation.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.fields))
}

var errInvalidBody = errors.New("invalid request body")

func problemFor(err error) Problem {
	var verr *validationError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return Problem{
			Type:        "/errors/validation-error",
			Title:       "Validation Error",
			Status:      http.StatusBadRequest,
			Detail:      "Validation failed for one or more fields",
			FieldErrors: verr.fields,
		}
	case errors.Is(err, errInvalidBody):
		return Problem{
			Type:   "/errors/invalid-body",
			Title:  "Invalid Request Body",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		}
	case errors.Is(err, services.ErrNotFound):
		return Problem{
			Type:   "/errors/resource-not-found",
			Title:  "Resource Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
		}
	case errors.Is(err, services.ErrInvalidArgument):
		return Problem{
			Type:   "/errors/invalid-argument",
			Title:  "Invalid Argument",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		}
	case errors.As(err, &herr):
		return Problem{
			Type:   "about:blank",
			Title:  http.StatusText(herr.Code),
			Status: herr.Code,
			Detail: fmt.Sprint(herr.Message),
		}
	default:
		return Problem{
			Type:   "about:blank",
			Title:  http.StatusText(http.StatusInternalServerError),
			Status: http.StatusInternalServerError,
		}
	}
}

// ErrorHandler renders every error returned by a handler as problem details.
// Unclassified errors are logged and their text is not sent to the client.
func ErrorHandler(logger services.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		p := problemFor(err)
		p.Instance = c.Request().URL.Path
		if p.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "method", c.Request().Method, "path", p.Instance, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(p.Status)
		} else {
			var body []byte
			body, err = json.Marshal(p)
			if err == nil {
				err = c.Blob(p.Status, problemContentType, body)
			}
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
